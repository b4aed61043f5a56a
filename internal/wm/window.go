package wm

import (
	"fmt"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

// DefaultMaxWidgets is the registry size used when WindowConfig.MaxWidgets
// is zero.
const DefaultMaxWidgets = 8

// WindowConfig describes a window at construction time.
type WindowConfig struct {
	Title      string
	Width      int
	Height     int
	Background uint8
	MaxWidgets int
}

// Window owns an off-screen surface and a bounded, insertion-ordered widget
// registry. Windows are created once and shown or hidden through the
// Manager; they are never destroyed.
type Window struct {
	Title      string
	Background uint8

	OnKeyDown      func(w *Window, ev event.Event)
	OnKeyUp        func(w *Window, ev event.Event)
	OnActiveChange func(w *Window)

	rect    geom.Rect
	surface *surface.Surface

	visible bool
	active  bool

	widgets []Widget
	pressed WidgetID

	dragging  bool
	dragStart geom.Point

	id  WindowID
	mgr *Manager
}

// NewWindow allocates a window and its surface. The window starts hidden at
// the screen origin.
func NewWindow(cfg WindowConfig) *Window {
	maxWidgets := cfg.MaxWidgets
	if maxWidgets <= 0 {
		maxWidgets = DefaultMaxWidgets
	}
	return &Window{
		Title:      cfg.Title,
		Background: cfg.Background,
		rect:       geom.R(0, 0, cfg.Width, cfg.Height),
		surface:    surface.New(cfg.Width, cfg.Height),
		widgets:    make([]Widget, 0, maxWidgets),
		pressed:    NoWidget,
		id:         NoWindow,
	}
}

// ID returns the window's handle, or NoWindow until it is registered.
func (w *Window) ID() WindowID { return w.id }

// Rect returns the window's rectangle in screen coordinates.
func (w *Window) Rect() geom.Rect { return w.rect }

// Area returns the window's rectangle in local coordinates.
func (w *Window) Area() geom.Rect { return w.rect.Area() }

// SetPosition moves the window without repainting. Use Manager.MoveWindow
// for a window that is on screen.
func (w *Window) SetPosition(p geom.Point) {
	w.rect.X = p.X
	w.rect.Y = p.Y
}

func (w *Window) Surface() *surface.Surface { return w.surface }
func (w *Window) Visible() bool             { return w.visible }
func (w *Window) Active() bool              { return w.active }
func (w *Window) Manager() *Manager         { return w.mgr }

// Pressed returns the widget currently holding the press, or NoWidget.
func (w *Window) Pressed() WidgetID { return w.pressed }

// Len returns the number of registered widgets.
func (w *Window) Len() int { return len(w.widgets) }

// Widget returns the widget registered under id, or nil.
func (w *Window) Widget(id WidgetID) Widget {
	if id < 0 || int(id) >= len(w.widgets) {
		return nil
	}
	return w.widgets[id]
}

// AddWidget appends wd to the registry, binds it to the window and draws it.
func (w *Window) AddWidget(wd Widget) (WidgetID, error) {
	if len(w.widgets) == cap(w.widgets) {
		return NoWidget, fmt.Errorf("%w: window %q holds %d", ErrTooManyWidgets, w.Title, cap(w.widgets))
	}
	b := wd.base()
	if b.bound {
		return NoWidget, fmt.Errorf("widget already belongs to window %d", b.window)
	}

	b.id = WidgetID(len(w.widgets))
	b.window = w.id
	b.bound = true
	w.widgets = append(w.widgets, wd)

	wd.Draw(w)
	return b.id, nil
}

// FindWidgetAt returns the first registered widget containing pos.
func (w *Window) FindWidgetAt(pos geom.Point) WidgetID {
	for i, wd := range w.widgets {
		if wd.base().Rect.Contains(pos) {
			return WidgetID(i)
		}
	}
	return NoWidget
}

// Redraw draws one widget.
func (w *Window) Redraw(id WidgetID) {
	if wd := w.Widget(id); wd != nil {
		wd.Draw(w)
	}
}

// RedrawAll draws every widget in registry order.
func (w *Window) RedrawAll() {
	for _, wd := range w.widgets {
		wd.Draw(w)
	}
}

// RenderRegion asks the manager to put the local rectangle r on screen.
func (w *Window) RenderRegion(r geom.Rect) {
	if w.mgr != nil {
		w.mgr.RenderRegion(w, r)
	}
}

// Render puts the whole window on screen.
func (w *Window) Render() { w.RenderRegion(w.Area()) }

// InitFrame centres the window in the desktop, draws its border and content
// background, and adds a title bar and a close button. The window must be
// registered with a manager.
func (w *Window) InitFrame() error {
	if w.mgr == nil {
		return ErrNotRegistered
	}
	bar := w.mgr.titleBarHeight

	w.rect = w.Area().Center(w.mgr.container)

	w.surface.Border(w.Area(), palette.Border)
	w.surface.FillRect(geom.R(1, bar, w.rect.Width-2, w.rect.Height-bar-1), w.Background)

	if _, err := w.AddWidget(NewTitleBar(w, bar)); err != nil {
		return err
	}
	if _, err := w.AddWidget(NewCloseButton(w, bar)); err != nil {
		return err
	}
	return nil
}

func (w *Window) local(ev event.Event) geom.Point {
	return geom.Point{X: ev.X - w.rect.X, Y: ev.Y - w.rect.Y}
}

func (w *Window) flagged(id WidgetID, f Flags) bool {
	wd := w.Widget(id)
	return wd != nil && wd.base().Has(f)
}

// PointerOut abandons the current press, if any. The pressed slot is cleared
// before the widget's handler runs.
func (w *Window) PointerOut(ev event.Event, pos geom.Point) {
	id := w.pressed
	if id == NoWidget {
		return
	}
	w.pressed = NoWidget
	if wd := w.Widget(id); wd != nil {
		wd.PointerOut(w, ev, pos)
	}
}

// HandlePointerDown presses the widget under the pointer.
func (w *Window) HandlePointerDown(ev event.Event) {
	pos := w.local(ev)

	w.PointerOut(ev, pos)

	id := w.FindWidgetAt(pos)
	if id == NoWidget {
		return
	}
	w.pressed = id
	w.widgets[id].PointerDown(w, ev, pos)
}

// HandlePointerMove routes a move to the pressed widget while the pointer is
// over it or the widget is sticky. Otherwise the press is abandoned, and a
// press-on-move-in widget under the pointer takes it.
func (w *Window) HandlePointerMove(ev event.Event) {
	pos := w.local(ev)
	pressed := w.pressed
	pointed := w.FindWidgetAt(pos)

	if pressed == NoWidget && pointed == NoWidget {
		return
	}

	if pressed != NoWidget && (pressed == pointed || w.flagged(pressed, PressSticky)) {
		w.widgets[pressed].PointerMove(w, ev, pos)
		return
	}

	w.PointerOut(ev, pos)

	if pointed != NoWidget && w.flagged(pointed, PressOnMoveIn) {
		w.pressed = pointed
		w.widgets[pointed].PointerDown(w, ev, pos)
	}
}

// HandlePointerUp releases the pressed widget wherever the pointer is.
func (w *Window) HandlePointerUp(ev event.Event) {
	id := w.pressed
	if id == NoWidget {
		return
	}
	w.pressed = NoWidget
	w.widgets[id].PointerUp(w, ev, w.local(ev))
}

// HandlePointerAlt delivers a secondary click to the widget under the
// pointer. It is ignored while any widget holds the press.
func (w *Window) HandlePointerAlt(ev event.Event) {
	if w.pressed != NoWidget {
		return
	}
	pos := w.local(ev)
	if id := w.FindWidgetAt(pos); id != NoWidget {
		w.widgets[id].PointerAlt(w, ev, pos)
	}
}

// HandleKey forwards a key event to the window's key callbacks.
func (w *Window) HandleKey(ev event.Event) {
	switch ev.Kind {
	case event.KeyDown:
		if w.OnKeyDown != nil {
			w.OnKeyDown(w, ev)
		}
	case event.KeyUp:
		if w.OnKeyUp != nil {
			w.OnKeyUp(w, ev)
		}
	}
}

// setActive flips the active flag, redraws the frame row and notifies the
// window. It reports whether anything changed.
func (w *Window) setActive(active bool) bool {
	if w.active == active {
		return false
	}
	w.active = active

	for _, wd := range w.widgets {
		if wd.base().Rect.Y == 0 {
			wd.Draw(w)
		}
	}
	if w.OnActiveChange != nil {
		w.OnActiveChange(w)
	}
	return true
}

// startDrag records the screen position where a window drag began.
func (w *Window) startDrag(p geom.Point) {
	w.dragging = true
	w.dragStart = p
}

// dragTo moves the window by the pointer's travel since the last step.
func (w *Window) dragTo(p geom.Point) {
	if !w.dragging || w.mgr == nil {
		return
	}
	delta := p.Sub(w.dragStart)
	w.mgr.MoveWindow(w, w.rect.Origin().Add(delta))
	w.dragStart = p
}

func (w *Window) endDrag() { w.dragging = false }

// Dragging reports whether a title bar drag is in progress.
func (w *Window) Dragging() bool { return w.dragging }
