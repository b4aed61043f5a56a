package wm

import (
	"errors"
	"testing"

	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
)

func newFramedWindow(t *testing.T, m *Manager) *Window {
	t.Helper()
	w := NewWindow(WindowConfig{Title: "framed", Width: 100, Height: 80, Background: palette.WindowDarker, MaxWidgets: 4})
	if _, err := m.Register(w); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := w.InitFrame(); err != nil {
		t.Fatalf("InitFrame: %v", err)
	}
	return w
}

func TestInitFrame_RequiresManager(t *testing.T) {
	w := NewWindow(WindowConfig{Width: 10, Height: 10})
	if err := w.InitFrame(); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestInitFrame_CentresAndDecorates(t *testing.T) {
	m := newTestManager(t, 0)
	w := newFramedWindow(t, m)

	if w.Rect() != geom.R(78, 68, 100, 80) {
		t.Fatalf("expected centred rect, got %v", w.Rect())
	}
	if w.Len() != 2 {
		t.Fatalf("expected title bar and close button, got %d widgets", w.Len())
	}
	if _, ok := w.Widget(0).(*TitleBar); !ok {
		t.Fatalf("expected title bar first")
	}
	if _, ok := w.Widget(1).(*CloseButton); !ok {
		t.Fatalf("expected close button second")
	}
	sf := w.Surface()
	if sf.At(0, 79) != palette.Border || sf.At(99, 40) != palette.Border {
		t.Fatalf("expected window border")
	}
	if sf.At(50, 50) != palette.WindowDarker {
		t.Fatalf("expected content background")
	}
	if sf.At(1, 1) != palette.TitleInactive {
		t.Fatalf("expected inactive title colour before showing")
	}
	if w.Visible() {
		t.Fatalf("expected window hidden until added")
	}
}

func TestTitleBar_FollowsActivation(t *testing.T) {
	m := newTestManager(t, 0)
	w := newFramedWindow(t, m)
	if err := m.AddWindow(w); err != nil {
		t.Fatalf("add: %v", err)
	}

	if w.Surface().At(1, 1) != palette.TitleActive {
		t.Fatalf("expected active title colour")
	}
	if m.Screen().At(w.Rect().X+1, w.Rect().Y+1) != palette.TitleActive {
		t.Fatalf("expected active title bar on screen")
	}
}

func TestTitleBar_DragsWindow(t *testing.T) {
	m := newTestManager(t, 0)
	w := newFramedWindow(t, m)
	if err := m.AddWindow(w); err != nil {
		t.Fatalf("add: %v", err)
	}

	w.HandlePointerDown(down(83, 73))
	if !w.Dragging() {
		t.Fatalf("expected drag to start on title bar")
	}

	w.HandlePointerMove(move(93, 78))
	if w.Rect() != geom.R(88, 73, 100, 80) {
		t.Fatalf("expected window moved by (10,5), got %v", w.Rect())
	}
	if m.Screen().At(78, 68) != palette.Wallpaper {
		t.Fatalf("expected uncovered corner repainted with wallpaper")
	}
	if m.Screen().At(88, 73) != palette.Border {
		t.Fatalf("expected window border at new origin")
	}

	// Sticky: the pointer may leave the title bar while dragging.
	w.HandlePointerMove(move(1000, 1000))
	if w.Rect() != geom.R(156, 136, 100, 80) {
		t.Fatalf("expected window clamped to desktop, got %v", w.Rect())
	}

	w.HandlePointerUp(up(1000, 1000))
	if w.Dragging() || w.Pressed() != NoWidget {
		t.Fatalf("expected drag to end on release")
	}
}

func TestCloseButton_RemovesWindow(t *testing.T) {
	m := newTestManager(t, 0)
	w := newFramedWindow(t, m)
	if err := m.AddWindow(w); err != nil {
		t.Fatalf("add: %v", err)
	}
	r := w.Rect()

	w.HandlePointerDown(down(r.X+88, r.Y+10))
	if _, ok := w.Widget(w.Pressed()).(*CloseButton); !ok {
		t.Fatalf("expected close button pressed")
	}
	w.HandlePointerUp(up(r.X+88, r.Y+10))

	if w.Visible() || len(m.Stack()) != 0 {
		t.Fatalf("expected window removed")
	}
	assertRegion(t, m.Screen(), r, palette.Wallpaper)
}
