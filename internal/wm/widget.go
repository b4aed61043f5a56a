package wm

import (
	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

// WidgetID indexes a widget in its window's registry.
type WidgetID int

// NoWidget is the WidgetID of "no widget".
const NoWidget WidgetID = -1

// Flags select optional pointer behaviour.
type Flags uint8

const (
	// PressOnMoveIn presses the widget as soon as a dragging pointer enters
	// it while no other widget holds the press.
	PressOnMoveIn Flags = 1 << iota
	// PressSticky keeps the widget pressed, and receiving moves, until the
	// pointer is released, wherever the pointer goes.
	PressSticky
	// HideBorder suppresses the border of the default button rendering.
	HideBorder
)

// Widget is an interactive area of a window. Implementations embed Base,
// which supplies the default button behaviour, and override what they need.
//
// Handlers run on the dispatch loop. pos is in window-local coordinates.
type Widget interface {
	base() *Base

	Draw(w *Window)
	PointerDown(w *Window, ev event.Event, pos geom.Point)
	PointerUp(w *Window, ev event.Event, pos geom.Point)
	PointerMove(w *Window, ev event.Event, pos geom.Point)
	PointerOut(w *Window, ev event.Event, pos geom.Point)
	PointerAlt(w *Window, ev event.Event, pos geom.Point)
}

// Base holds the state shared by all widgets and renders as a standard
// push button.
type Base struct {
	// Rect is in window-local coordinates.
	Rect  geom.Rect
	Flags Flags

	Label string
	// Font defaults to surface.Mono8x16.
	Font *surface.Font
	// Regular and Pressed are drawn instead of Label when both are set.
	Regular *surface.Bitmap
	Pressed *surface.Bitmap

	// Tag is free for the owner, e.g. an index into an app table.
	Tag int
	// Highlighted renders the widget as pressed without holding the press.
	Highlighted bool

	window WindowID
	id     WidgetID
	bound  bool
}

func (b *Base) base() *Base { return b }

// ID returns the widget's index in its window, or NoWidget before AddWidget.
func (b *Base) ID() WidgetID {
	if !b.bound {
		return NoWidget
	}
	return b.id
}

// Window returns the handle of the owning window.
func (b *Base) Window() WindowID { return b.window }

// Has reports whether all of f are set.
func (b *Base) Has(f Flags) bool { return b.Flags&f == f }

// IsPressed reports whether the widget holds the press in w or is
// highlighted.
func (b *Base) IsPressed(w *Window) bool {
	return b.Highlighted || (b.bound && w.pressed == b.id)
}

// Draw renders a bordered button with a centred bitmap or label.
func (b *Base) Draw(w *Window) {
	sf := w.Surface()
	rect := b.Rect
	pressed := b.IsPressed(w)

	if !b.Has(HideBorder) {
		sf.Border(rect, palette.Border)
		rect = rect.Shrink(1)
	}

	bg, fg := palette.Window, palette.TextActive
	if pressed {
		bg, fg = palette.ButtonPressed, palette.Window
	}
	sf.FillRect(rect, bg)

	switch {
	case b.Regular != nil && b.Pressed != nil:
		bm := b.Regular
		if pressed {
			bm = b.Pressed
		}
		sf.DrawBitmapCentered(rect, bm)
	case b.Label != "":
		font := b.Font
		if font == nil {
			font = surface.Mono8x16
		}
		sf.DrawStringCentered(rect, font, b.Label, fg, bg)
	}

	w.RenderRegion(b.Rect)
}

// PointerDown redraws the widget in its pressed state.
func (b *Base) PointerDown(w *Window, _ event.Event, _ geom.Point) { w.Redraw(b.id) }

// PointerUp redraws the widget in its released state.
func (b *Base) PointerUp(w *Window, _ event.Event, _ geom.Point) { w.Redraw(b.id) }

// PointerOut redraws the widget in its released state.
func (b *Base) PointerOut(w *Window, _ event.Event, _ geom.Point) { w.Redraw(b.id) }

func (b *Base) PointerMove(*Window, event.Event, geom.Point) {}

func (b *Base) PointerAlt(*Window, event.Event, geom.Point) {}

// Button is a push button that reports clicks. A click is a release while
// the pointer is still over the button.
type Button struct {
	Base
	OnClick func(w *Window, b *Button)
}

// NewButton returns a labelled button at r.
func NewButton(r geom.Rect, label string, onClick func(w *Window, b *Button)) *Button {
	return &Button{Base: Base{Rect: r, Label: label}, OnClick: onClick}
}

func (b *Button) PointerUp(w *Window, ev event.Event, pos geom.Point) {
	b.Base.PointerUp(w, ev, pos)
	if b.OnClick != nil && b.Rect.Contains(pos) {
		b.OnClick(w, b)
	}
}
