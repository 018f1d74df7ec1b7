package fbdev

import (
	"image/color"

	"codeberg.org/voss/neuroscope/internal/errors"
)

// Geometry describes the opened display. It is queried once at open time
// and immutable afterwards.
type Geometry struct {
	Width        int
	Height       int
	BitsPerPixel int
	Stride       int
}

// Validate rejects geometry the 4-byte pixel layout cannot address. A
// stride below Width*4 would let a row's pixels run into the next row
// and past the end of the mapping.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 || g.Stride < g.Width*4 {
		return errors.WithData(ErrInvalidGeometry, g)
	}

	return nil
}

// Surface is the drawing target a renderer produces frames into. It is
// implemented by a mapped device and by in-memory buffers used for
// offscreen rendering and tests.
type Surface interface {
	Geometry() Geometry
	Clear(c color.RGBA)
	SetPixel(x, y int, c color.RGBA)
	Line(x0, y0, x1, y1 int, c color.RGBA)
	Rect(x, y, w, h int, c color.RGBA, fill bool)
	Circle(cx, cy, r int, c color.RGBA, fill bool)
	Text(x, y int, text string, c color.RGBA, scale int)
}
