// Package render produces display frames: it partitions the surface
// into the event stream, graph and metrics panels and draws the scene
// with the fbdev primitives.
package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"time"

	"codeberg.org/voss/neuroscope/internal/fbdev"
	"codeberg.org/voss/neuroscope/internal/feed"
	"codeberg.org/voss/neuroscope/internal/scene"
)

const title = "NEUROSCOPE"

const (
	panelMargin = 10
	titleBand   = 60
	titleScale  = 2

	headerInset = 10
	textTop     = 40

	lineHeight     = 20
	metricsSpacing = 25
	maxLogColumns  = 40

	baseRadius = 3.0
)

var (
	colorBackground = color.RGBA{R: 10, G: 10, B: 10}
	colorText       = color.RGBA{R: 200, G: 200, B: 200}
	colorHeader     = color.RGBA{G: 200, B: 255}
	colorNode       = color.RGBA{G: 255, B: 100}
)

// Event stream lines are tinted by kind.
var kindColors = map[string]color.RGBA{
	feed.KindThought:    {R: 255, G: 255, B: 255},
	feed.KindPerception: {G: 255, B: 255},
	feed.KindLearning:   {R: 255, G: 255},
	feed.KindContext:    {R: 255, B: 255},
}

// Renderer draws scene frames into a surface. It keeps a scratch node
// slice so depth sorting never reorders the scene itself.
type Renderer struct {
	surface fbdev.Surface
	width   int
	height  int
	scratch []scene.Node
}

func New(surface fbdev.Surface) *Renderer {
	geo := surface.Geometry()

	return &Renderer{surface: surface, width: geo.Width, height: geo.Height}
}

// Render draws one complete frame: title band, event stream on the
// left, graph activity top right, metrics bottom right.
func (r *Renderer) Render(sc *scene.Scene) {
	r.surface.Clear(colorBackground)
	r.drawTitle()

	leftWidth := r.width / 2
	rightWidth := r.width - leftWidth
	topHeight := r.height / 2

	r.drawLog(sc, panelMargin, titleBand, leftWidth-2*panelMargin, r.height-titleBand-panelMargin)
	r.drawGraph(sc, leftWidth+panelMargin, titleBand, rightWidth-2*panelMargin, topHeight-titleBand-panelMargin)
	r.drawMetrics(sc, leftWidth+panelMargin, titleBand+topHeight, rightWidth-2*panelMargin,
		r.height-topHeight-titleBand-panelMargin)
}

func (r *Renderer) drawTitle() {
	x := (r.width - len(title)*fbdev.GlyphCell*titleScale) / 2
	r.surface.Text(x, 20, title, colorHeader, titleScale)
}

func (r *Renderer) drawLog(sc *scene.Scene, x, y, w, h int) {
	r.surface.Rect(x, y, w, h, colorText, false)
	r.surface.Text(x+headerInset, y+headerInset, "EVENT STREAM", colorHeader, 1)

	// Newest entries that fit between the first line and one line of
	// bottom clearance.
	fit := (h - textTop - 1) / lineHeight

	lineY := y + textTop
	for _, entry := range sc.Log().Recent(fit) {
		if lineY >= y+h-lineHeight {
			break
		}

		stamp := time.Unix(int64(entry.Timestamp), 0).Format("15:04:05")
		lineColor, ok := kindColors[entry.Kind]
		if !ok {
			lineColor = colorText
		}

		r.surface.Text(x+headerInset, lineY, stamp+" "+truncate(entry.Text, maxLogColumns), lineColor, 1)
		lineY += lineHeight
	}
}

func (r *Renderer) drawGraph(sc *scene.Scene, x, y, w, h int) {
	r.surface.Rect(x, y, w, h, colorText, false)
	r.surface.Text(x+headerInset, y+headerInset, "GRAPH ACTIVITY", colorHeader, 1)

	nodes := sc.Nodes()
	if cap(r.scratch) < len(nodes) {
		r.scratch = make([]scene.Node, len(nodes))
	}
	r.scratch = r.scratch[:len(nodes)]
	copy(r.scratch, nodes)

	// Painter's order: farthest along world z first, so nearer nodes
	// overdraw farther ones.
	sort.Slice(r.scratch, func(i, j int) bool { return r.scratch[i].Z > r.scratch[j].Z })

	camera := sc.Camera()
	for _, node := range r.scratch {
		sx, sy, s, visible := Project(node, camera, w, h)
		if !visible {
			continue
		}

		nx, ny := x+sx, y+sy
		if nx < x || ny < y || nx >= x+w || ny >= y+h {
			continue
		}

		radius := int(math.Round(baseRadius * s * (0.5 + 0.5*node.Brightness)))
		if radius < 2 {
			radius = 2
		}

		// A live pulse lifts the node to full color; otherwise it
		// glows with its brightness.
		nodeColor := colorNode
		if node.Pulse <= 0 {
			g := uint8(clamp01(node.Brightness) * 255)
			nodeColor = color.RGBA{G: g, B: g / 2}
		}

		r.surface.Circle(nx, ny, radius, nodeColor, true)
	}
}

func (r *Renderer) drawMetrics(sc *scene.Scene, x, y, w, h int) {
	r.surface.Rect(x, y, w, h, colorText, false)
	r.surface.Text(x+headerInset, y+headerInset, "METRICS", colorHeader, 1)

	m := sc.Metrics()
	lines := []string{
		fmt.Sprintf("Status: %s", m.Status),
		fmt.Sprintf("CPU: %.1f%%", m.CPU),
		fmt.Sprintf("GPU: %.1f%%", m.GPU),
		fmt.Sprintf("RAM: %.1f%%", m.RAM),
		fmt.Sprintf("VRAM: %.1f%%", m.VRAM),
		fmt.Sprintf("Tick: %.1f Hz", m.TickRate),
		fmt.Sprintf("Nodes: %d", m.ActiveNodes),
		fmt.Sprintf("Edges: %d", m.TotalEdges),
		fmt.Sprintf("Error: %.4f", m.MeanError),
		fmt.Sprintf("Latency: %.2f ms", m.MotorLatency),
	}

	lineY := y + textTop
	for _, line := range lines {
		if lineY >= y+h-lineHeight {
			break
		}

		r.surface.Text(x+headerInset, lineY, line, colorText, 1)
		lineY += metricsSpacing
	}
}

func truncate(s string, maxCols int) string {
	if len(s) <= maxCols {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxCols {
		return s
	}

	return string(runes[:maxCols])
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
