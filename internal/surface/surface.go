// Package surface implements indexed 8-bit pixel buffers and the small set of
// drawing primitives the window system needs: fills, borders, copies,
// fixed-width glyphs and bitmaps with a transparent index.
//
// Every primitive clips against the surface bounds, so callers may pass
// rectangles that are partially or entirely outside the buffer.
package surface

import (
	"fmt"

	"github.com/1broseidon/deskcore/internal/geom"
)

// Surface is a linear row-major pixel buffer. Stride may exceed Width, as it
// does for physical frame buffers with padded scanlines.
type Surface struct {
	Width  int
	Height int
	Stride int
	Pix    []uint8
}

// New allocates a surface whose stride equals its width.
func New(width, height int) *Surface {
	return NewWithStride(width, height, width)
}

// NewWithStride allocates a surface with an explicit stride. A stride smaller
// than width is raised to width.
func NewWithStride(width, height, stride int) *Surface {
	width = max(width, 0)
	height = max(height, 0)
	stride = max(stride, width)
	return &Surface{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]uint8, stride*height),
	}
}

// Wrap adopts an existing buffer, for example a mapped frame buffer.
func Wrap(pix []uint8, width, height, stride int) (*Surface, error) {
	if width < 0 || height < 0 || stride < width {
		return nil, fmt.Errorf("invalid surface geometry %dx%d stride %d", width, height, stride)
	}
	if len(pix) < stride*height {
		return nil, fmt.Errorf("buffer too small: need %d bytes, have %d", stride*height, len(pix))
	}
	return &Surface{Width: width, Height: height, Stride: stride, Pix: pix}, nil
}

// Bounds returns the surface area at the origin.
func (s *Surface) Bounds() geom.Rect {
	return geom.Rect{Width: s.Width, Height: s.Height}
}

// At returns the pixel at (x, y), or 0 outside the surface.
func (s *Surface) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return 0
	}
	return s.Pix[y*s.Stride+x]
}

// Set writes one pixel; writes outside the surface are dropped.
func (s *Surface) Set(x, y int, c uint8) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return
	}
	s.Pix[y*s.Stride+x] = c
}

// Row returns the visible part of scanline y.
func (s *Surface) Row(y int) []uint8 {
	off := y * s.Stride
	return s.Pix[off : off+s.Width]
}

// FillRect paints r with colour c.
func (s *Surface) FillRect(r geom.Rect, c uint8) {
	r = r.Clip(s.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		row := s.Pix[y*s.Stride+r.X : y*s.Stride+r.X+r.Width]
		for i := range row {
			row[i] = c
		}
	}
}

// HSeg draws a horizontal segment of width w starting at (x, y).
func (s *Surface) HSeg(x, y, w int, c uint8) {
	s.FillRect(geom.R(x, y, w, 1), c)
}

// VSeg draws a vertical segment of height h starting at (x, y).
func (s *Surface) VSeg(x, y, h int, c uint8) {
	s.FillRect(geom.R(x, y, 1, h), c)
}

// Border draws a one pixel outline just inside r.
func (s *Surface) Border(r geom.Rect, c uint8) {
	if r.Empty() {
		return
	}
	s.HSeg(r.X, r.Y, r.Width, c)
	s.HSeg(r.X, r.Y+r.Height-1, r.Width, c)
	s.VSeg(r.X, r.Y, r.Height, c)
	s.VSeg(r.X+r.Width-1, r.Y, r.Height, c)
}

// Copy transfers the src pixels inside sr to dst with the top-left corner at
// (dx, dy). Both sides are clipped; nothing is written for an empty result.
func Copy(dst *Surface, dx, dy int, src *Surface, sr geom.Rect) {
	orig := sr
	sr = sr.Clip(src.Bounds())
	if sr.Empty() {
		return
	}
	dx += sr.X - orig.X
	dy += sr.Y - orig.Y

	dr := geom.R(dx, dy, sr.Width, sr.Height)
	clipped := dr.Clip(dst.Bounds())
	if clipped.Empty() {
		return
	}
	sr.X += clipped.X - dr.X
	sr.Y += clipped.Y - dr.Y

	for i := 0; i < clipped.Height; i++ {
		d := (clipped.Y+i)*dst.Stride + clipped.X
		o := (sr.Y+i)*src.Stride + sr.X
		copy(dst.Pix[d:d+clipped.Width], src.Pix[o:o+clipped.Width])
	}
}
