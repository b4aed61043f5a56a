package devices

import (
	"github.com/1broseidon/deskcore/internal/event"
)

// Linux evdev codes below this value coincide with PC set 1 scan codes.
const evdevDirectLimit = 0x59

// X11 keycodes are evdev codes shifted by eight.
const x11KeycodeOffset = 8

var evdevExtended = map[uint16]uint8{
	103: event.ScanUp,
	105: event.ScanLeft,
	106: event.ScanRight,
	108: event.ScanDown,
}

// FromEvdev translates a Linux input event code to a set 1 scan code.
func FromEvdev(code uint16) (uint8, bool) {
	if code > 0 && code < evdevDirectLimit {
		return uint8(code), true
	}
	sc, ok := evdevExtended[code]
	return sc, ok
}

// FromX11Keycode translates an X server keycode to a set 1 scan code.
func FromX11Keycode(keycode uint8) (uint8, bool) {
	if keycode < x11KeycodeOffset {
		return 0, false
	}
	return FromEvdev(uint16(keycode) - x11KeycodeOffset)
}

// US layout, unshifted and shifted.
var runeScan = func() map[rune]uint8 {
	m := map[rune]uint8{}
	rows := []struct {
		first   uint8
		plain   string
		shifted string
	}{
		{0x02, "1234567890-=", "!@#$%^&*()_+"},
		{0x10, "qwertyuiop[]", "QWERTYUIOP{}"},
		{0x1e, "asdfghjkl;'`", "ASDFGHJKL:\"~"},
		{0x2b, "\\zxcvbnm,./", "|ZXCVBNM<>?"},
	}
	for _, row := range rows {
		for i, ch := range row.plain {
			m[ch] = row.first + uint8(i)
		}
		for i, ch := range row.shifted {
			m[ch] = row.first + uint8(i)
		}
	}
	m[' '] = event.ScanSpace
	return m
}()

// FromRune returns the scan code of the key that types ch on a US keyboard.
func FromRune(ch rune) (uint8, bool) {
	sc, ok := runeScan[ch]
	return sc, ok
}

var namedKeys = map[string]uint8{
	"up":        event.ScanUp,
	"down":      event.ScanDown,
	"left":      event.ScanLeft,
	"right":     event.ScanRight,
	"enter":     event.ScanEnter,
	"esc":       event.ScanEscape,
	"backspace": event.ScanBackspace,
	"tab":       event.ScanTab,
	"space":     event.ScanSpace,
}

// FromName resolves a key name as printed by terminal libraries ("up",
// "enter", "a") to a scan code and the character it types, if any.
func FromName(name string) (code uint8, ch rune, ok bool) {
	if sc, found := namedKeys[name]; found {
		switch sc {
		case event.ScanSpace:
			ch = ' '
		case event.ScanEnter:
			ch = '\n'
		case event.ScanTab:
			ch = '\t'
		}
		return sc, ch, true
	}
	runes := []rune(name)
	if len(runes) != 1 {
		return 0, 0, false
	}
	sc, found := FromRune(runes[0])
	if !found {
		return 0, 0, false
	}
	return sc, runes[0], true
}
