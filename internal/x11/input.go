package x11

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/deskcore/internal/devices"
	"github.com/1broseidon/deskcore/internal/event"
)

// X core pointer buttons.
const (
	buttonLeft  xproto.Button = 1
	buttonRight xproto.Button = 3
)

// translateButton maps a button press or release to a pointer event. The
// right button only produces PointerAlt on press.
func translateButton(detail xproto.Button, pressed bool, x, y int16) (event.Event, bool) {
	switch {
	case detail == buttonLeft && pressed:
		return event.Pointer(event.PointerDown, int(x), int(y)), true
	case detail == buttonLeft:
		return event.Pointer(event.PointerUp, int(x), int(y)), true
	case detail == buttonRight && pressed:
		return event.Pointer(event.PointerAlt, int(x), int(y)), true
	}
	return event.Event{}, false
}

// translateKey maps a keycode and the string its keysym produced to a key
// event. Keys without a scan code are dropped.
func translateKey(kind event.Kind, keycode xproto.Keycode, str string) (event.Event, bool) {
	code, ok := devices.FromX11Keycode(uint8(keycode))
	if !ok {
		return event.Event{}, false
	}
	var ch rune
	if utf8.RuneCountInString(str) == 1 {
		ch, _ = utf8.DecodeRuneInString(str)
	}
	return event.Key(kind, code, ch), true
}
