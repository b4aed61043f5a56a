package x11

import (
	"testing"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
)

func TestTranslateButton(t *testing.T) {
	ev, ok := translateButton(buttonLeft, true, 12, 34)
	if !ok || ev.Kind != event.PointerDown || ev.X != 12 || ev.Y != 34 {
		t.Fatalf("expected left press to be pointer down, got %v %v", ev, ok)
	}
	ev, ok = translateButton(buttonLeft, false, 1, 2)
	if !ok || ev.Kind != event.PointerUp {
		t.Fatalf("expected left release to be pointer up, got %v", ev)
	}
	ev, ok = translateButton(buttonRight, true, 5, 6)
	if !ok || ev.Kind != event.PointerAlt {
		t.Fatalf("expected right press to be alt, got %v", ev)
	}
	if _, ok := translateButton(buttonRight, false, 5, 6); ok {
		t.Fatalf("expected right release to be ignored")
	}
	if _, ok := translateButton(4, true, 5, 6); ok {
		t.Fatalf("expected wheel buttons to be ignored")
	}
}

func TestTranslateKey(t *testing.T) {
	ev, ok := translateKey(event.KeyDown, 38, "a")
	if !ok || ev.Kind != event.KeyDown || ev.Code != 0x1e || ev.Char != 'a' {
		t.Fatalf("expected 'a' key down, got %v %v", ev, ok)
	}
	ev, ok = translateKey(event.KeyUp, 111, "Up")
	if !ok || ev.Code != event.ScanUp || ev.Char != 0 {
		t.Fatalf("expected up arrow without a character, got %v", ev)
	}
	if _, ok := translateKey(event.KeyDown, 250, ""); ok {
		t.Fatalf("expected unmapped keycode to be dropped")
	}
}

func TestBGRATable(t *testing.T) {
	pal := palette.VGA()
	table := bgraTable(pal)
	r, g, b := pal.RGB(palette.Wallpaper)
	got := table[palette.Wallpaper]
	if got.R != r || got.G != g || got.B != b || got.A != 0xff {
		t.Fatalf("expected opaque wallpaper colour, got %+v", got)
	}
}

func TestMonitorPlace(t *testing.T) {
	got := Monitor{Bounds: geom.R(1920, 0, 1280, 1024)}.Place(640, 480)
	if got != (geom.Point{X: 2240, Y: 272}) {
		t.Fatalf("expected (2240,272), got %v", got)
	}
	got = Monitor{Bounds: geom.R(0, 0, 600, 400)}.Place(640, 480)
	if got != (geom.Point{}) {
		t.Fatalf("expected oversized window pinned to origin, got %v", got)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{Name: "eDP-1", Bounds: geom.R(0, 0, 1920, 1080)},
		{Name: "HDMI-1", Bounds: geom.R(1920, 0, 2560, 1440)},
	}
	if m := monitorAt(monitors, geom.Point{X: 2000, Y: 100}); m.Name != "HDMI-1" {
		t.Fatalf("expected HDMI-1, got %s", m.Name)
	}
	if m := monitorAt(monitors, geom.Point{X: -5, Y: 2000}); m.Name != "eDP-1" {
		t.Fatalf("expected fallback to first monitor, got %s", m.Name)
	}
}
