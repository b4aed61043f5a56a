package wm

import (
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

// newTestManager returns a manager on a 320x240 screen with padded rows.
// The desktop container is 256x216.
func newTestManager(t *testing.T, maxWindows int) *Manager {
	t.Helper()
	m, err := New(Config{
		Screen:     surface.NewWithStride(320, 240, 336),
		MaxWindows: maxWindows,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func filledWindow(title string, r geom.Rect, c uint8) *Window {
	w := NewWindow(WindowConfig{Title: title, Width: r.Width, Height: r.Height})
	w.Surface().FillRect(w.Surface().Bounds(), c)
	w.SetPosition(r.Origin())
	return w
}

func countActivations(w *Window) *int {
	n := new(int)
	w.OnActiveChange = func(*Window) { *n++ }
	return n
}

func assertRegion(t *testing.T, s *surface.Surface, r geom.Rect, want uint8) {
	t.Helper()
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			if got := s.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d): expected %#x, got %#x", x, y, want, got)
			}
		}
	}
}

func TestNew_PaintsWallpaperAndStatus(t *testing.T) {
	m := newTestManager(t, 0)
	if m.Container() != geom.R(0, 0, 256, 216) {
		t.Fatalf("unexpected container %v", m.Container())
	}
	if got := m.Screen().At(10, 10); got != palette.Wallpaper {
		t.Fatalf("expected wallpaper, got %#x", got)
	}
	if got := m.Screen().At(10, 216); got != palette.Border {
		t.Fatalf("expected status border, got %#x", got)
	}
	if got := m.Screen().At(10, 230); got != palette.Window {
		t.Fatalf("expected status background, got %#x", got)
	}
}

func TestRaiseWindow_TopIsNoop(t *testing.T) {
	m := newTestManager(t, 0)
	a := filledWindow("a", geom.R(0, 0, 20, 20), 1)
	b := filledWindow("b", geom.R(10, 10, 20, 20), 2)
	na := countActivations(a)
	nb := countActivations(b)

	if err := m.AddWindow(a); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := m.AddWindow(b); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if *na != 2 || *nb != 1 {
		t.Fatalf("expected 2 and 1 notifications, got %d and %d", *na, *nb)
	}

	m.RaiseWindow(b)

	if *na != 2 || *nb != 1 {
		t.Fatalf("expected raise of top window to notify nobody, got %d and %d", *na, *nb)
	}
	if m.TopWindow() != b || !b.Active() || a.Active() {
		t.Fatalf("expected b active on top")
	}
}

func TestRaiseWindow_DeactivatesShiftedWindows(t *testing.T) {
	m := newTestManager(t, 0)
	a := filledWindow("a", geom.R(0, 0, 20, 20), 1)
	b := filledWindow("b", geom.R(0, 0, 20, 20), 2)
	c := filledWindow("c", geom.R(0, 0, 20, 20), 3)
	for _, w := range []*Window{a, b, c} {
		if err := m.AddWindow(w); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	m.RaiseWindow(a)

	stack := m.Stack()
	if len(stack) != 3 || stack[0] != a || stack[1] != c || stack[2] != b {
		t.Fatalf("expected order [a c b], got %v", titles(stack))
	}
	if !a.Active() || b.Active() || c.Active() {
		t.Fatalf("expected only a active")
	}
	assertRegion(t, m.Screen(), a.Rect(), 1)
}

func TestRenderDesktopRegion_BackToFront(t *testing.T) {
	m := newTestManager(t, 0)
	r := geom.R(20, 20, 40, 30)
	a := filledWindow("a", r, 1)
	b := filledWindow("b", r, 2)
	c := filledWindow("c", r, 3)
	for _, w := range []*Window{a, b, c} {
		if err := m.AddWindow(w); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	m.Screen().FillRect(r, 0xee)
	m.RenderDesktopRegion(r, nil)

	assertRegion(t, m.Screen(), r, 3)
	if got := m.Screen().At(19, 19); got != palette.Wallpaper {
		t.Fatalf("expected wallpaper outside windows, got %#x", got)
	}
}

func TestRenderDesktopRegion_StartsAtBottomWindow(t *testing.T) {
	m := newTestManager(t, 0)
	a := filledWindow("a", geom.R(0, 0, 40, 40), 1)
	b := filledWindow("b", geom.R(20, 0, 40, 40), 2)
	for _, w := range []*Window{a, b} {
		if err := m.AddWindow(w); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	damage := geom.R(0, 0, 60, 40)
	m.Screen().FillRect(damage, 0xee)
	m.RenderDesktopRegion(damage, b)

	assertRegion(t, m.Screen(), geom.R(0, 0, 20, 40), 0xee)
	assertRegion(t, m.Screen(), b.Rect(), 2)
}

func TestRenderRegion_PartialUpdateKeepsFrontWindow(t *testing.T) {
	m := newTestManager(t, 0)
	a := filledWindow("a", geom.R(0, 0, 40, 40), 1)
	b := filledWindow("b", geom.R(20, 20, 40, 40), 2)
	for _, w := range []*Window{a, b} {
		if err := m.AddWindow(w); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	a.Surface().FillRect(a.Area(), 5)
	a.RenderRegion(a.Area())

	assertRegion(t, m.Screen(), geom.R(0, 0, 20, 20), 5)
	assertRegion(t, m.Screen(), geom.R(20, 20, 20, 20), 2)
}

func TestRemoveWindow_ActivatesRemaining(t *testing.T) {
	m := newTestManager(t, 0)
	a := filledWindow("a", geom.R(0, 0, 20, 20), 1)
	b := filledWindow("b", geom.R(30, 30, 20, 20), 2)
	for _, w := range []*Window{a, b} {
		if err := m.AddWindow(w); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	na := countActivations(a)

	m.RemoveWindow(b)

	if !a.Active() {
		t.Fatalf("expected remaining window to be active")
	}
	if *na != 1 {
		t.Fatalf("expected exactly one activation callback, got %d", *na)
	}
	if b.Visible() || b.Active() {
		t.Fatalf("expected removed window hidden and inactive")
	}
	if m.TopWindow() != a || len(m.Stack()) != 1 {
		t.Fatalf("expected stack [a], got %v", titles(m.Stack()))
	}
	assertRegion(t, m.Screen(), b.Rect(), palette.Wallpaper)
}

func TestRemoveWindow_UnknownIsNoop(t *testing.T) {
	m := newTestManager(t, 0)
	a := filledWindow("a", geom.R(0, 0, 20, 20), 1)
	if err := m.AddWindow(a); err != nil {
		t.Fatalf("add: %v", err)
	}
	stray := filledWindow("stray", geom.R(100, 100, 10, 10), 4)

	m.RemoveWindow(stray)

	if len(m.Stack()) != 1 || !a.Active() {
		t.Fatalf("expected stack untouched")
	}
}

func TestAddWindow_DuplicateIsNoop(t *testing.T) {
	m := newTestManager(t, 0)
	a := filledWindow("a", geom.R(0, 0, 20, 20), 1)
	if err := m.AddWindow(a); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.AddWindow(a); err != nil {
		t.Fatalf("expected duplicate add to succeed silently, got %v", err)
	}
	if len(m.Stack()) != 1 {
		t.Fatalf("expected 1 stacked window, got %d", len(m.Stack()))
	}
}

func TestAddWindow_FullStack(t *testing.T) {
	m := newTestManager(t, 2)
	for i := 0; i < 2; i++ {
		if err := m.AddWindow(filledWindow("w", geom.R(0, 0, 10, 10), 1)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	extra := filledWindow("extra", geom.R(0, 0, 10, 10), 1)
	err := m.AddWindow(extra)
	if !errors.Is(err, ErrTooManyWindows) {
		t.Fatalf("expected ErrTooManyWindows, got %v", err)
	}
	if got := m.Status().Text(); got != "Error: Too many windows" {
		t.Fatalf("expected status error, got %q", got)
	}
	if extra.Visible() || len(m.Stack()) != 2 {
		t.Fatalf("expected rejected window to stay hidden")
	}
}

func TestRegister_ArenaFull(t *testing.T) {
	m, err := New(Config{Screen: surface.New(320, 240), MaxRegistered: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := NewWindow(WindowConfig{Width: 4, Height: 4})
	id, err := m.Register(a)
	if err != nil || id != 0 {
		t.Fatalf("expected handle 0, got %d (%v)", id, err)
	}
	if again, _ := m.Register(a); again != id {
		t.Fatalf("expected stable handle, got %d", again)
	}
	if _, err := m.Register(NewWindow(WindowConfig{Width: 4, Height: 4})); !errors.Is(err, ErrArenaFull) {
		t.Fatalf("expected ErrArenaFull, got %v", err)
	}
	if m.Window(id) != a || m.Window(5) != nil {
		t.Fatalf("unexpected arena lookup result")
	}
}

func TestFindWindow_PanelFirstThenFrontToBack(t *testing.T) {
	m := newTestManager(t, 0)
	panel := filledWindow("panel", geom.R(256, 0, 64, 240), 9)
	if err := m.SetPanelWindow(panel); err != nil {
		t.Fatalf("panel: %v", err)
	}
	a := filledWindow("a", geom.R(0, 0, 40, 40), 1)
	b := filledWindow("b", geom.R(20, 20, 40, 40), 2)
	for _, w := range []*Window{a, b} {
		if err := m.AddWindow(w); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if m.FindWindow(geom.Point{X: 300, Y: 10}) != panel {
		t.Fatalf("expected panel hit")
	}
	if m.FindWindow(geom.Point{X: 30, Y: 30}) != b {
		t.Fatalf("expected front window in overlap")
	}
	if m.FindWindow(geom.Point{X: 5, Y: 5}) != a {
		t.Fatalf("expected back window outside overlap")
	}
	if m.FindWindow(geom.Point{X: 200, Y: 200}) != nil {
		t.Fatalf("expected no window on bare desktop")
	}
	assertRegion(t, m.Screen(), panel.Rect(), 9)
}

func TestMoveWindow_RepaintsDifference(t *testing.T) {
	m := newTestManager(t, 0)
	w := filledWindow("w", geom.R(10, 10, 30, 30), 4)
	if err := m.AddWindow(w); err != nil {
		t.Fatalf("add: %v", err)
	}

	m.MoveWindow(w, geom.Point{X: 20, Y: 15})

	if w.Rect() != geom.R(20, 15, 30, 30) {
		t.Fatalf("unexpected rect %v", w.Rect())
	}
	assertRegion(t, m.Screen(), geom.R(10, 10, 10, 30), palette.Wallpaper)
	assertRegion(t, m.Screen(), geom.R(20, 10, 30, 5), palette.Wallpaper)
	assertRegion(t, m.Screen(), w.Rect(), 4)
}

func TestMoveWindow_ClampsToContainer(t *testing.T) {
	m := newTestManager(t, 0)
	w := filledWindow("w", geom.R(10, 10, 30, 30), 4)
	if err := m.AddWindow(w); err != nil {
		t.Fatalf("add: %v", err)
	}

	m.MoveWindow(w, geom.Point{X: 1000, Y: -50})

	if w.Rect() != geom.R(226, 0, 30, 30) {
		t.Fatalf("expected clamped rect, got %v", w.Rect())
	}
}

func TestTakeDamage_UnionAndReset(t *testing.T) {
	m := newTestManager(t, 0)
	m.TakeDamage()

	m.RenderDesktopRegion(geom.R(0, 0, 10, 10), nil)
	m.RenderDesktopRegion(geom.R(50, 60, 10, 10), nil)

	d, ok := m.TakeDamage()
	if !ok || d != geom.R(0, 0, 60, 70) {
		t.Fatalf("expected union damage, got %v (%v)", d, ok)
	}
	if _, ok := m.TakeDamage(); ok {
		t.Fatalf("expected damage reset")
	}
}

func TestStatus_TruncatesAndClearsRemainder(t *testing.T) {
	m := newTestManager(t, 0)
	st := m.Status()
	if st.MaxColumns() != 30 {
		t.Fatalf("expected 30 columns, got %d", st.MaxColumns())
	}

	st.Set(strings.Repeat("x", 50))
	if len(st.Text()) != 30 {
		t.Fatalf("expected truncation to 30, got %d", len(st.Text()))
	}

	st.Set("abcdef")
	st.Set("abc")

	const textX, textY = 8, 220
	assertRegion(t, m.Screen(), geom.R(textX+3*8, textY, 3*8, 16), palette.Window)
}

func TestStatus_AlertRepaintsBackground(t *testing.T) {
	m := newTestManager(t, 0)
	st := m.Status()

	st.Alert("boom")
	if !st.IsAlert() || m.Screen().At(200, 238) != palette.Red {
		t.Fatalf("expected red alert background")
	}

	st.Setf("%d windows", 2)
	if st.IsAlert() || m.Screen().At(200, 238) != palette.Window {
		t.Fatalf("expected normal background after Set")
	}
	if st.Text() != "2 windows" {
		t.Fatalf("unexpected text %q", st.Text())
	}
}

func TestActivation_ClearsStatus(t *testing.T) {
	m := newTestManager(t, 0)
	m.Status().Alert("stale")

	if err := m.AddWindow(filledWindow("a", geom.R(0, 0, 10, 10), 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.Status().Text() != "" || m.Status().IsAlert() {
		t.Fatalf("expected activation to clear the status line")
	}
}

func TestPointer_SaveUnderRestores(t *testing.T) {
	m := newTestManager(t, 0)
	screen := m.Screen()

	m.ShowPointer(geom.Point{X: 10, Y: 10})
	if screen.At(10, 10) != palette.Black {
		t.Fatalf("expected sprite outline at hot spot")
	}
	if screen.At(11, 12) != palette.White {
		t.Fatalf("expected sprite fill")
	}

	m.MovePointer(geom.Point{X: 100, Y: 100})
	assertRegion(t, screen, geom.R(10, 10, pointerWidth, pointerHeight), palette.Wallpaper)
}

func TestPointer_DrawingUnderSpriteIsKept(t *testing.T) {
	m := newTestManager(t, 0)
	m.ShowPointer(geom.Point{X: 5, Y: 5})

	w := filledWindow("w", geom.R(0, 0, 40, 40), 6)
	if err := m.AddWindow(w); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.Screen().At(5, 5) != palette.Black {
		t.Fatalf("expected sprite redrawn on top")
	}

	m.MovePointer(geom.Point{X: 150, Y: 150})
	assertRegion(t, m.Screen(), w.Rect(), 6)
}

func TestPointer_HiddenUntilShown(t *testing.T) {
	m := newTestManager(t, 0)
	m.MovePointer(geom.Point{X: 10, Y: 10})
	if m.Screen().At(10, 10) != palette.Wallpaper {
		t.Fatalf("expected no sprite before ShowPointer")
	}
}

func titles(ws []*Window) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Title)
	}
	return out
}

func TestStatus_CombiningMarksStayOffPanel(t *testing.T) {
	m := newTestManager(t, 0)
	panel := filledWindow("Panel", geom.R(256, 0, 64, 240), 0x42)
	if err := m.SetPanelWindow(panel); err != nil {
		t.Fatalf("SetPanelWindow: %v", err)
	}
	m.TakeDamage()

	m.Status().Set(strings.Repeat("e\u0301", 40))

	if got := m.Screen().At(300, 225); got != 0x42 {
		t.Fatalf("expected panel pixel 0x42, got %#x", got)
	}
	if got := surface.CellCount(m.Status().Text()); got != 30 {
		t.Fatalf("expected 30 cells of text, got %d", got)
	}
	if d, _ := m.TakeDamage(); d.X+d.Width > 256 {
		t.Fatalf("expected damage inside the status line, got %v", d)
	}
}

func TestAddWindow_PanelIsNoop(t *testing.T) {
	m := newTestManager(t, 0)
	panel := filledWindow("Panel", geom.R(256, 0, 64, 240), 0x42)
	if err := m.SetPanelWindow(panel); err != nil {
		t.Fatalf("SetPanelWindow: %v", err)
	}

	if err := m.AddWindow(panel); err != nil {
		t.Fatalf("AddWindow: %v", err)
	}
	if len(m.Stack()) != 0 || m.TopWindow() != nil {
		t.Fatalf("expected panel to stay out of the stack, got %d windows", len(m.Stack()))
	}
	if panel.Active() {
		t.Fatalf("expected panel not to be activated")
	}
}
