package fbdev

import (
	"image/color"
	"math"
)

// GlyphCell is the square cell size of the placeholder bitmap font.
// Callers lay text out on this metric.
const GlyphCell = 8

// SetPixel writes one pixel. Coordinates outside the display are ignored.
// The device expects blue, green, red, alpha byte order with opaque alpha.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if fb.pix == nil || x < 0 || y < 0 || x >= fb.geo.Width || y >= fb.geo.Height {
		return
	}

	off := y*fb.geo.Stride + x*4
	fb.pix[off] = c.B
	fb.pix[off+1] = c.G
	fb.pix[off+2] = c.R
	fb.pix[off+3] = 0xff
}

// Clear fills every pixel with the given color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if fb.pix == nil {
		return
	}

	row := make([]byte, fb.geo.Width*4)
	for x := 0; x < fb.geo.Width; x++ {
		i := x * 4
		row[i] = c.B
		row[i+1] = c.G
		row[i+2] = c.R
		row[i+3] = 0xff
	}

	for y := 0; y < fb.geo.Height; y++ {
		copy(fb.pix[y*fb.geo.Stride:], row)
	}
}

// Line draws with the integer Bresenham algorithm, no anti-aliasing.
func (fb *Framebuffer) Line(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy
	x, y := x0, y0

	for {
		fb.SetPixel(x, y, c)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// Rect draws a rectangle, filled or border only.
func (fb *Framebuffer) Rect(x, y, w, h int, c color.RGBA, fill bool) {
	if fill {
		for py := y; py < y+h; py++ {
			for px := x; px < x+w; px++ {
				fb.SetPixel(px, py, c)
			}
		}
		return
	}

	for px := x; px < x+w; px++ {
		fb.SetPixel(px, y, c)
		fb.SetPixel(px, y+h-1, c)
	}
	for py := y; py < y+h; py++ {
		fb.SetPixel(x, py, c)
		fb.SetPixel(x+w-1, py, c)
	}
}

// Circle samples the circumference at fixed angular steps: 5 degrees for
// the outline, 1 degree with 2px radial steps when filling. Not a true
// disk rasterizer; the aliasing is accepted.
func (fb *Framebuffer) Circle(cx, cy, r int, c color.RGBA, fill bool) {
	step := 5
	if fill {
		step = 1
	}

	for angle := 0; angle < 360; angle += step {
		rad := float64(angle) * math.Pi / 180
		if fill {
			for rr := 0; rr < r; rr += 2 {
				x := int(float64(cx) + float64(rr)*math.Cos(rad))
				y := int(float64(cy) + float64(rr)*math.Sin(rad))
				fb.SetPixel(x, y, c)
			}
		} else {
			x := int(float64(cx) + float64(r)*math.Cos(rad))
			y := int(float64(cy) + float64(r)*math.Sin(rad))
			fb.SetPixel(x, y, c)
		}
	}
}

// Text draws placeholder glyphs: every printable character renders as a
// dotted cell of GlyphCell x GlyphCell points. Real typography is out of
// scope for this display.
func (fb *Framebuffer) Text(x, y int, text string, c color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}

	col := 0
	for _, ch := range text {
		cx := x + col*GlyphCell*scale
		if cx >= fb.geo.Width {
			break
		}
		if ch >= 32 && ch <= 126 {
			fb.drawGlyph(cx, y, c, scale)
		}
		col++
	}
}

func (fb *Framebuffer) drawGlyph(x, y int, c color.RGBA, scale int) {
	for py := 0; py < GlyphCell*scale; py++ {
		for px := 0; px < GlyphCell*scale; px++ {
			if (px/scale)%2 == 0 && (py/scale)%2 == 0 {
				fb.SetPixel(x+px, y+py, c)
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
