package render_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/voss/neuroscope/internal/fbdev"
	"codeberg.org/voss/neuroscope/internal/feed"
	"codeberg.org/voss/neuroscope/internal/render"
	"codeberg.org/voss/neuroscope/internal/scene"
)

func pixelAt(fb *fbdev.Framebuffer, x, y int) [4]byte {
	geo := fb.Geometry()
	off := y*geo.Stride + x*4

	var px [4]byte
	copy(px[:], fb.Pix()[off:off+4])

	return px
}

func TestProject(t *testing.T) {
	sx, sy, scale, visible := render.Project(scene.Node{X: 1}, 0, 800, 600)
	require.True(t, visible)
	assert.Equal(t, 600, sx)
	assert.Equal(t, 300, sy)
	assert.InDelta(t, 1.0, scale, 1e-9)

	// A quarter turn swings the near pole to the side of the view.
	sx, sy, scale, visible = render.Project(scene.Node{Z: -1}, math.Pi/2, 800, 600)
	require.True(t, visible)
	assert.Equal(t, 600, sx)
	assert.Equal(t, 300, sy)
	assert.InDelta(t, 1.0, scale, 1e-9)

	// Depth shrinks the screen offset.
	sx, sy, scale, visible = render.Project(scene.Node{X: 1, Z: 1}, 0, 800, 600)
	require.True(t, visible)
	assert.InDelta(t, 0.75, scale, 1e-9)
	assert.Equal(t, 550, sx)
	assert.Equal(t, 300, sy)

	// Vertical position flips sign for screen space.
	_, sy, _, visible = render.Project(scene.Node{Y: 1}, 0, 800, 600)
	require.True(t, visible)
	assert.Equal(t, 100, sy)

	// At or behind the camera plane nothing is drawn.
	_, _, _, visible = render.Project(scene.Node{Z: -3}, 0, 800, 600)
	assert.False(t, visible)
	_, _, _, visible = render.Project(scene.Node{Z: -5}, 0, 800, 600)
	assert.False(t, visible)
}

func TestRenderPanelLayout(t *testing.T) {
	fb := fbdev.NewBuffer(fbdev.Geometry{Width: 800, Height: 600})
	r := render.New(fb)

	r.Render(scene.New(1))

	border := [4]byte{200, 200, 200, 255}
	header := [4]byte{255, 200, 0, 255}

	panels := [][4]int{
		{10, 60, 389, 589},   // event stream, left half
		{410, 60, 789, 289},  // graph activity, top right
		{410, 360, 789, 589}, // metrics, bottom right
	}
	for _, p := range panels {
		x0, y0, x1, y1 := p[0], p[1], p[2], p[3]
		assert.Equal(t, border, pixelAt(fb, x0, y0), "Expected border corner at (%d,%d)", x0, y0)
		assert.Equal(t, border, pixelAt(fb, x1, y0), "Expected border corner at (%d,%d)", x1, y0)
		assert.Equal(t, border, pixelAt(fb, x0, y1), "Expected border corner at (%d,%d)", x0, y1)
		assert.Equal(t, border, pixelAt(fb, x1, y1), "Expected border corner at (%d,%d)", x1, y1)
	}

	// Background fills the gap between panels.
	assert.Equal(t, [4]byte{10, 10, 10, 255}, pixelAt(fb, 400, 300))

	// Title glyphs start at (800 - 10*8*2)/2 in the top band.
	assert.Equal(t, header, pixelAt(fb, 320, 20), "Expected title glyph dot")

	// Panel headers sit just inside each border.
	assert.Equal(t, header, pixelAt(fb, 20, 70), "Expected event stream header")
	assert.Equal(t, header, pixelAt(fb, 420, 70), "Expected graph header")
	assert.Equal(t, header, pixelAt(fb, 420, 370), "Expected metrics header")

	// First metrics line ("Status: ...") renders in plain text color.
	assert.Equal(t, border, pixelAt(fb, 420, 400), "Expected metrics text")
}

func TestRenderPainterOrder(t *testing.T) {
	fb := fbdev.NewBuffer(fbdev.Geometry{Width: 800, Height: 600})
	r := render.New(fb)

	s := scene.New(2)
	nodes := s.Nodes()
	nodes[0] = scene.Node{ID: 0, Z: 0.5, Brightness: 1.0}
	nodes[1] = scene.Node{ID: 1, Z: -0.5, Brightness: 0.5}

	r.Render(s)

	// Both nodes project onto the graph panel center; the nearer one
	// (smaller z) is drawn last and wins the pixel.
	assert.Equal(t, [4]byte{63, 127, 0, 255}, pixelAt(fb, 600, 175))

	// Depth sorting works on a scratch copy, never the scene itself.
	assert.Equal(t, 0.5, s.Nodes()[0].Z)
	assert.Equal(t, -0.5, s.Nodes()[1].Z)
}

func TestRenderPulseLiftsNodeColor(t *testing.T) {
	fb := fbdev.NewBuffer(fbdev.Geometry{Width: 800, Height: 600})
	r := render.New(fb)

	s := scene.New(1)
	s.Nodes()[0] = scene.Node{Brightness: 0.5, Pulse: 0.1}

	r.Render(s)

	assert.Equal(t, [4]byte{100, 255, 0, 255}, pixelAt(fb, 600, 175), "Expected full node color while pulsing")
}

func TestRenderLogKindColors(t *testing.T) {
	fb := fbdev.NewBuffer(fbdev.Geometry{Width: 800, Height: 600})
	r := render.New(fb)

	s := scene.New(1)
	s.Log().Push(feed.LogEvent{Timestamp: 1000, Kind: feed.KindThought, Text: "alpha"})
	s.Log().Push(feed.LogEvent{Timestamp: 1001, Kind: feed.KindLearning, Text: "beta"})

	r.Render(s)

	assert.Equal(t, [4]byte{255, 255, 255, 255}, pixelAt(fb, 20, 100), "Expected thought line in white")
	assert.Equal(t, [4]byte{0, 255, 255, 255}, pixelAt(fb, 20, 120), "Expected learning line in yellow")
}

func TestRenderTinyDisplayDoesNotPanic(t *testing.T) {
	fb := fbdev.NewBuffer(fbdev.Geometry{Width: 100, Height: 80})
	r := render.New(fb)

	s := scene.New(50)
	s.Log().Push(feed.LogEvent{Kind: feed.KindThought, Text: "x"})

	assert.NotPanics(t, func() { r.Render(s) })
}
