package wm

import (
	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

func titleColor(w *Window) uint8 {
	if w.active {
		return palette.TitleActive
	}
	return palette.TitleInactive
}

// TitleBar shows the window title and drags the window around the desktop.
type TitleBar struct {
	Base
}

// NewTitleBar spans the top of w up to, and overlapping by one pixel, the
// close button.
func NewTitleBar(w *Window, height int) *TitleBar {
	return &TitleBar{Base: Base{
		Rect:  geom.R(0, 0, w.rect.Width-height+1, height),
		Flags: PressSticky,
	}}
}

func (t *TitleBar) Draw(w *Window) {
	sf := w.Surface()
	bg := titleColor(w)

	sf.Border(t.Rect, palette.Border)
	sf.FillRect(t.Rect.Shrink(1), bg)
	sf.DrawStringCentered(t.Rect, surface.Mono8x16, "   "+w.Title, palette.TextActive, bg)

	w.RenderRegion(t.Rect)
}

func (t *TitleBar) PointerDown(w *Window, ev event.Event, _ geom.Point) {
	w.startDrag(geom.Point{X: ev.X, Y: ev.Y})
}

func (t *TitleBar) PointerMove(w *Window, ev event.Event, _ geom.Point) {
	w.dragTo(geom.Point{X: ev.X, Y: ev.Y})
}

func (t *TitleBar) PointerUp(w *Window, _ event.Event, _ geom.Point) {
	w.endDrag()
}

func (t *TitleBar) PointerOut(w *Window, _ event.Event, _ geom.Point) {
	w.endDrag()
}

// CloseButton removes its window from the screen when released.
type CloseButton struct {
	Base
}

// NewCloseButton places a square button of the given size in the top-right
// corner of w.
func NewCloseButton(w *Window, size int) *CloseButton {
	return &CloseButton{Base: Base{
		Rect: geom.R(w.rect.Width-size, 0, size, size),
	}}
}

func (c *CloseButton) Draw(w *Window) {
	sf := w.Surface()
	bg, fg := titleColor(w), palette.TextActive
	if c.IsPressed(w) {
		bg, fg = palette.ButtonPressed, palette.Window
	}

	sf.Border(c.Rect, palette.Border)
	sf.FillRect(c.Rect.Shrink(1), bg)
	sf.FillRect(geom.R(0, 0, c.Rect.Width-14, 2).Center(c.Rect), fg)

	w.RenderRegion(c.Rect)
}

func (c *CloseButton) PointerUp(w *Window, ev event.Event, pos geom.Point) {
	c.Base.PointerUp(w, ev, pos)
	if w.mgr != nil {
		w.mgr.RemoveWindow(w)
	}
}
