package apps

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
	"github.com/1broseidon/deskcore/internal/timeout"
	"github.com/1broseidon/deskcore/internal/wm"
)

func newManager(t *testing.T) *wm.Manager {
	t.Helper()
	mgr, err := wm.New(wm.Config{Screen: surface.New(640, 480)})
	if err != nil {
		t.Fatalf("wm.New: %v", err)
	}
	return mgr
}

// click presses and releases at a window-local point.
func click(w *wm.Window, local geom.Point) {
	p := local.Add(w.Rect().Origin())
	w.HandlePointerDown(event.Pointer(event.PointerDown, p.X, p.Y))
	w.HandlePointerUp(event.Pointer(event.PointerUp, p.X, p.Y))
}

type stubApp struct {
	name  string
	err   error
	shown int
}

func (s *stubApp) Name() string { return s.name }
func (s *stubApp) Show() error {
	s.shown++
	return s.err
}

func TestPanel_Layout(t *testing.T) {
	mgr := newManager(t)
	p, err := NewPanel(mgr, nil, &stubApp{name: "A"}, &stubApp{name: "B"})
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	if mgr.Panel() != p.Window() {
		t.Fatalf("expected panel installed on the manager")
	}
	if got := p.Window().Rect(); got != geom.R(576, 0, 64, 480) {
		t.Fatalf("expected panel at the right edge, got %v", got)
	}
	if p.Window().Len() != 2 {
		t.Fatalf("expected one button per app, got %d", p.Window().Len())
	}
	// Border column, then the panel background on screen.
	if got := mgr.Screen().At(576, 300); got != palette.Border {
		t.Fatalf("expected border at the panel edge, got %#x", got)
	}
	if got := mgr.Screen().At(600, 300); got != palette.Window {
		t.Fatalf("expected panel background, got %#x", got)
	}
}

func TestPanel_ButtonLaunchesApp(t *testing.T) {
	mgr := newManager(t)
	a, b := &stubApp{name: "A"}, &stubApp{name: "B"}
	p, err := NewPanel(mgr, nil, a, b)
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}

	click(p.Window(), geom.Point{X: 20, Y: 8 + 56 + 10})

	if a.shown != 0 || b.shown != 1 {
		t.Fatalf("expected second app launched, got a=%d b=%d", a.shown, b.shown)
	}
}

func TestPanel_ReleaseOutsideDoesNotLaunch(t *testing.T) {
	mgr := newManager(t)
	a := &stubApp{name: "A"}
	p, err := NewPanel(mgr, nil, a)
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	w := p.Window()
	o := w.Rect().Origin()
	w.HandlePointerDown(event.Pointer(event.PointerDown, o.X+20, o.Y+20))
	w.HandlePointerUp(event.Pointer(event.PointerUp, o.X+20, o.Y+200))

	if a.shown != 0 {
		t.Fatalf("expected no launch when released off the button")
	}
}

func TestPanel_LaunchFailureAlerts(t *testing.T) {
	mgr := newManager(t)
	a := &stubApp{name: "A", err: errors.New("boom")}
	p, err := NewPanel(mgr, nil, a)
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}

	click(p.Window(), geom.Point{X: 20, Y: 20})

	if !mgr.Status().IsAlert() || !strings.Contains(mgr.Status().Text(), "A failed") {
		t.Fatalf("expected alert on the status line, got %q", mgr.Status().Text())
	}
}

func fixedClock(h, m, s int) func() time.Time {
	t := time.Date(2026, 1, 2, h, m, s, 0, time.Local)
	return func() time.Time { return t }
}

func TestClock_ShowDrawsTime(t *testing.T) {
	mgr := newManager(t)
	sched := timeout.New(timeout.Config{})
	c := NewClock(mgr, sched, nil, fixedClock(12, 34, 56))

	if err := c.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	w := c.Window()
	if mgr.TopWindow() != w {
		t.Fatalf("expected clock on top")
	}
	if got := w.Rect(); got.Width != 342 || got.Height != 123 {
		t.Fatalf("expected 342x123 window, got %v", got)
	}

	sf := w.Surface()
	// Digit 1 at cell (2,2): first cell off, second on.
	if got := sf.At(23, 46); got != palette.Window {
		t.Fatalf("expected unlit cell, got %#x", got)
	}
	if got := sf.At(34, 46); got != palette.TextActive {
		t.Fatalf("expected lit cell, got %#x", got)
	}
	// Colon.
	if got := sf.At(111, 57); got != palette.TextActive {
		t.Fatalf("expected lit colon, got %#x", got)
	}
	if sched.Len() != 1 {
		t.Fatalf("expected refresh timeout registered, got %d", sched.Len())
	}
}

func TestClock_RefreshReschedules(t *testing.T) {
	mgr := newManager(t)
	sched := timeout.New(timeout.Config{})
	now := time.Date(2026, 1, 2, 12, 34, 56, 0, time.Local)
	c := NewClock(mgr, sched, nil, func() time.Time { return now })
	if err := c.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	sf := c.Window().Surface()

	// Second digit 6 lights cell (26,3); 7 does not.
	if got := sf.At(287, 57); got != palette.TextActive {
		t.Fatalf("expected lit cell for 6, got %#x", got)
	}

	now = now.Add(time.Second)
	sched.OnTick(1000)
	sched.OnTick(1200)

	if got := sf.At(287, 57); got != palette.Window {
		t.Fatalf("expected unlit cell for 7, got %#x", got)
	}
	if sched.Len() != 1 {
		t.Fatalf("expected timeout re-registered, got %d", sched.Len())
	}
}

func TestClock_HiddenSkipsRedraw(t *testing.T) {
	mgr := newManager(t)
	sched := timeout.New(timeout.Config{})
	now := time.Date(2026, 1, 2, 12, 34, 56, 0, time.Local)
	c := NewClock(mgr, sched, nil, func() time.Time { return now })
	if err := c.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	mgr.RemoveWindow(c.Window())

	now = now.Add(time.Second)
	sched.OnTick(0)
	sched.OnTick(200)

	if got := c.Window().Surface().At(287, 57); got != palette.TextActive {
		t.Fatalf("expected hidden clock left untouched, got %#x", got)
	}
	if sched.Len() != 1 {
		t.Fatalf("expected timeout still re-registered, got %d", sched.Len())
	}
}

func TestClock_FullTimeoutTableWarnsAndRetriesOnShow(t *testing.T) {
	mgr := newManager(t)
	sched := timeout.New(timeout.Config{Capacity: 1})
	filler := sched.Add(1000, func(any) {}, nil)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewClock(mgr, sched, logger, fixedClock(12, 34, 56))
	if err := c.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}

	if sched.Len() != 1 || !sched.Pending(filler) {
		t.Fatalf("expected only the filler timeout pending, got %d", sched.Len())
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "clock refresh not scheduled") {
		t.Fatalf("expected warning about the refresh, got %q", out)
	}
	if got := c.Window().Surface().At(34, 46); got != palette.TextActive {
		t.Fatalf("expected time drawn anyway, got %#x", got)
	}

	sched.Remove(filler)
	if err := c.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if sched.Len() != 1 || sched.Pending(filler) {
		t.Fatalf("expected refresh timeout registered on the next show, got %d", sched.Len())
	}
}

func showColors(t *testing.T) (*wm.Manager, *Colors) {
	t.Helper()
	mgr := newManager(t)
	c := NewColors(mgr, nil)
	if err := c.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	return mgr, c
}

func swatchCenter(c *Colors, i int) geom.Point {
	r := c.grid.Cell(i%swatchCols, i/swatchCols)
	return geom.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func TestColors_Layout(t *testing.T) {
	_, c := showColors(t)
	w := c.Window()
	if got := w.Rect(); got.Width != 304 || got.Height != 327 {
		t.Fatalf("expected 304x327 window, got %v", got)
	}
	if w.Len() != swatches+2 {
		t.Fatalf("expected %d widgets, got %d", swatches+2, w.Len())
	}
	// Swatch 0 starts highlighted: border ring, colour inside.
	r := c.grid.Cell(0, 0)
	if got := w.Surface().At(r.X, r.Y); got != palette.Border {
		t.Fatalf("expected highlight ring, got %#x", got)
	}
	r = c.grid.Cell(3, 2)
	if got := w.Surface().At(r.X, r.Y); got != 35 {
		t.Fatalf("expected swatch 35 filled with its colour, got %#x", got)
	}
}

func TestColors_PressSelects(t *testing.T) {
	mgr, c := showColors(t)
	w := c.Window()
	p := swatchCenter(c, 5).Add(w.Rect().Origin())

	w.HandlePointerDown(event.Pointer(event.PointerDown, p.X, p.Y))

	if c.Selected() != 5 {
		t.Fatalf("expected swatch 5 selected, got %d", c.Selected())
	}
	if got := mgr.Status().Text(); got != "hex:05 dec:005" {
		t.Fatalf("expected status for swatch 5, got %q", got)
	}
	r := c.grid.Cell(0, 0)
	if got := w.Surface().At(r.X, r.Y); got != 0 {
		t.Fatalf("expected old highlight removed, got %#x", got)
	}
}

func TestColors_DragSelectsAlongTheWay(t *testing.T) {
	mgr, c := showColors(t)
	w := c.Window()
	o := w.Rect().Origin()

	p := swatchCenter(c, 17).Add(o)
	w.HandlePointerDown(event.Pointer(event.PointerDown, p.X, p.Y))
	p = swatchCenter(c, 18).Add(o)
	w.HandlePointerMove(event.Pointer(event.PointerMove, p.X, p.Y))

	if c.Selected() != 18 {
		t.Fatalf("expected drag to select swatch 18, got %d", c.Selected())
	}
	if got := mgr.Status().Text(); got != "hex:12 dec:018" {
		t.Fatalf("expected status for swatch 18, got %q", got)
	}
}

func TestColors_ArrowKeys(t *testing.T) {
	_, c := showColors(t)
	w := c.Window()

	w.HandleKey(event.Key(event.KeyDown, event.ScanRight, 0))
	w.HandleKey(event.Key(event.KeyDown, event.ScanDown, 0))
	if c.Selected() != 17 {
		t.Fatalf("expected swatch 17, got %d", c.Selected())
	}

	w.HandleKey(event.Key(event.KeyDown, event.ScanUp, 0))
	w.HandleKey(event.Key(event.KeyDown, event.ScanUp, 0))
	if c.Selected() != 1 {
		t.Fatalf("expected top edge to stop the highlight, got %d", c.Selected())
	}

	w.HandleKey(event.Key(event.KeyDown, 0x1e, 'a'))
	if c.Selected() != 1 {
		t.Fatalf("expected other keys ignored, got %d", c.Selected())
	}
}

func TestColors_AltNamesColour(t *testing.T) {
	mgr, c := showColors(t)
	w := c.Window()
	p := swatchCenter(c, 4).Add(w.Rect().Origin())

	w.HandlePointerAlt(event.Pointer(event.PointerAlt, p.X, p.Y))

	want := "color 4 is " + palette.VGA().Hex(4)
	if got := mgr.Status().Text(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if c.Selected() != 0 {
		t.Fatalf("expected alt not to select, got %d", c.Selected())
	}
}
