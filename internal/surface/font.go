package surface

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/1broseidon/deskcore/internal/geom"
)

// Font is a fixed-width bitmap font. Every glyph occupies one Width x Height
// cell.
type Font struct {
	Name string
	face *basicfont.Face
}

var (
	// Mono8x16 is the default UI font.
	Mono8x16 = &Font{Name: "Inconsolata 8x16", face: inconsolata.Regular8x16}
	// Mono7x13 is the compact font.
	Mono7x13 = &Font{Name: "Fixed 7x13", face: basicfont.Face7x13}
)

// cells measures text in glyph cells: zero-width runes take none and wide
// runes take two. East Asian ambiguous runes are narrow regardless of the
// locale.
var cells = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Fonts lists the built-in fonts.
func Fonts() []*Font {
	return []*Font{Mono8x16, Mono7x13}
}

// Width is the horizontal advance of one glyph.
func (f *Font) Width() int { return f.face.Advance }

// Height is the height of one glyph cell.
func (f *Font) Height() int { return f.face.Ascent + f.face.Descent }

// TextWidth returns the width of s in pixels.
func (f *Font) TextWidth(s string) int {
	return CellCount(s) * f.Width()
}

// CellCount returns the number of glyph cells str occupies when drawn.
func CellCount(str string) int {
	n := 0
	for _, ch := range str {
		n += cells.RuneWidth(ch)
	}
	return n
}

// TruncateCells cuts str to at most limit glyph cells. A wide rune that
// would straddle the limit is dropped along with everything after it.
func TruncateCells(str string, limit int) string {
	n := 0
	for i, ch := range str {
		w := cells.RuneWidth(ch)
		if n+w > limit {
			return str[:i]
		}
		n += w
	}
	return str
}

// DrawChar renders ch at (x, y) with every cell pixel set to either fg or bg.
// NUL renders as a blank cell.
func (s *Surface) DrawChar(x, y int, f *Font, ch rune, fg, bg uint8) {
	s.FillRect(geom.R(x, y, f.Width(), f.Height()), bg)
	if ch == 0 || ch == ' ' {
		return
	}

	dr, mask, mp, _, ok := f.face.Glyph(fixed.P(x, y+f.face.Ascent), ch)
	if !ok {
		return
	}
	for py := dr.Min.Y; py < dr.Max.Y; py++ {
		for px := dr.Min.X; px < dr.Max.X; px++ {
			_, _, _, a := mask.At(mp.X+px-dr.Min.X, mp.Y+py-dr.Min.Y).RGBA()
			if a >= 0x8000 {
				s.Set(px, py, fg)
			}
		}
	}
}

// DrawString renders s left to right starting at (x, y).
func (s *Surface) DrawString(x, y int, f *Font, str string, fg, bg uint8) {
	s.DrawStringClipped(s.Bounds(), x, y, f, str, fg, bg)
}

// DrawStringClipped renders str like DrawString but stops at the first
// glyph cell that would cross the right edge of clip. Zero-width runes are
// skipped and wide runes get a second blank cell, matching TextWidth.
func (s *Surface) DrawStringClipped(clip geom.Rect, x, y int, f *Font, str string, fg, bg uint8) {
	right := clip.X + clip.Width
	for _, ch := range str {
		n := cells.RuneWidth(ch)
		if n == 0 {
			continue
		}
		if x+n*f.Width() > right {
			return
		}
		s.DrawChar(x, y, f, ch, fg, bg)
		if n == 2 {
			s.FillRect(geom.R(x+f.Width(), y, f.Width(), f.Height()), bg)
		}
		x += n * f.Width()
	}
}

// DrawStringCentered renders str centred in r.
func (s *Surface) DrawStringCentered(r geom.Rect, f *Font, str string, fg, bg uint8) {
	x := r.X + (r.Width-f.TextWidth(str))/2
	y := r.Y + (r.Height-f.Height())/2
	s.DrawString(x, y, f, str, fg, bg)
}
