package surface

import "github.com/1broseidon/deskcore/internal/geom"

// Bitmap is an indexed image with one colour reserved as transparent.
type Bitmap struct {
	Width       int
	Height      int
	Transparent uint8
	Pix         []uint8
}

// BitmapFromRows builds a bitmap from text rows. Each rune is looked up in
// legend; runes missing from legend become transparent.
func BitmapFromRows(rows []string, legend map[rune]uint8, transparent uint8) *Bitmap {
	b := &Bitmap{Height: len(rows), Transparent: transparent}
	for _, row := range rows {
		b.Width = max(b.Width, len([]rune(row)))
	}
	b.Pix = make([]uint8, b.Width*b.Height)
	for i := range b.Pix {
		b.Pix[i] = transparent
	}
	for y, row := range rows {
		for x, ch := range []rune(row) {
			if c, ok := legend[ch]; ok {
				b.Pix[y*b.Width+x] = c
			}
		}
	}
	return b
}

// DrawBitmap blits b with its top-left corner at (x, y), skipping
// transparent pixels.
func (s *Surface) DrawBitmap(x, y int, b *Bitmap) {
	if b == nil {
		return
	}
	for j := 0; j < b.Height; j++ {
		for i := 0; i < b.Width; i++ {
			c := b.Pix[j*b.Width+i]
			if c == b.Transparent {
				continue
			}
			s.Set(x+i, y+j, c)
		}
	}
}

// DrawBitmapCentered blits b centred in r.
func (s *Surface) DrawBitmapCentered(r geom.Rect, b *Bitmap) {
	if b == nil {
		return
	}
	s.DrawBitmap(r.X+(r.Width-b.Width)/2, r.Y+(r.Height-b.Height)/2, b)
}
