package wm

import (
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

const (
	pointerWidth  = 11
	pointerHeight = 15

	pointerTransparent uint8 = 0xff
)

var pointerSprite = surface.BitmapFromRows([]string{
	"#..........",
	"##.........",
	"#o#........",
	"#oo#.......",
	"#ooo#......",
	"#oooo#.....",
	"#ooooo#....",
	"#oooooo#...",
	"#ooooooo#..",
	"#oooooooo#.",
	"#ooooo#####",
	"#oo#oo#....",
	"#o#.#oo#...",
	"##..#oo#...",
	"#....##....",
}, map[rune]uint8{'#': palette.Black, 'o': palette.White}, pointerTransparent)

// pointer is the arrow sprite drawn on top of the screen. The pixels it
// covers are kept in a save-under buffer and restored before any other
// screen write.
type pointer struct {
	pos     geom.Point
	enabled bool
	saved   bool
	under   *surface.Surface
}

func newPointer(pos geom.Point) *pointer {
	return &pointer{
		pos:   pos,
		under: surface.New(pointerWidth, pointerHeight),
	}
}

func (p *pointer) rect() geom.Rect {
	return geom.R(p.pos.X, p.pos.Y, pointerWidth, pointerHeight)
}

// hide restores the saved pixels. It returns the screen rectangle touched.
func (p *pointer) hide(screen *surface.Surface) (geom.Rect, bool) {
	if !p.saved {
		return geom.Rect{}, false
	}
	surface.Copy(screen, p.pos.X, p.pos.Y, p.under, p.under.Bounds())
	p.saved = false
	return p.rect(), true
}

// draw saves the pixels under the sprite and paints it.
func (p *pointer) draw(screen *surface.Surface) (geom.Rect, bool) {
	if !p.enabled {
		return geom.Rect{}, false
	}
	surface.Copy(p.under, 0, 0, screen, p.rect())
	p.saved = true
	screen.DrawBitmap(p.pos.X, p.pos.Y, pointerSprite)
	return p.rect(), true
}
