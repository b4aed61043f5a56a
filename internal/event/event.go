// Package event defines input events and the bounded queue that carries them
// from asynchronous producers to the single dispatch loop.
package event

import "fmt"

// Kind identifies an event variant.
type Kind uint8

const (
	KindUnknown Kind = iota
	PointerMove
	PointerDown
	PointerUp
	PointerAlt
	KeyDown
	KeyUp
	TimerTick
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointer_move"
	case PointerDown:
		return "pointer_down"
	case PointerUp:
		return "pointer_up"
	case PointerAlt:
		return "pointer_alt"
	case KeyDown:
		return "key_down"
	case KeyUp:
		return "key_up"
	case TimerTick:
		return "timer_tick"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := PointerMove; k <= TimerTick; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown event kind %q", s)
}

// IsPointer reports whether the kind carries screen coordinates.
func (k Kind) IsPointer() bool {
	return k >= PointerMove && k <= PointerAlt
}

// IsKey reports whether the kind carries a scan code.
func (k Kind) IsKey() bool {
	return k == KeyDown || k == KeyUp
}

// Event is a tagged union. Only the fields relevant to Kind are meaningful:
// X and Y for pointer kinds (absolute screen coordinates), Code and Char for
// key kinds, Millis for timer ticks.
type Event struct {
	Kind   Kind
	X      int
	Y      int
	Code   uint8
	Char   rune
	Millis uint32
}

// Pointer builds a pointer event of kind k.
func Pointer(k Kind, x, y int) Event {
	return Event{Kind: k, X: x, Y: y}
}

// Key builds a key event of kind k.
func Key(k Kind, code uint8, ch rune) Event {
	return Event{Kind: k, Code: code, Char: ch}
}

// Tick builds a timer tick carrying the millisecond counter.
func Tick(ms uint32) Event {
	return Event{Kind: TimerTick, Millis: ms}
}

func (e Event) String() string {
	switch {
	case e.Kind.IsPointer():
		return fmt.Sprintf("%s<%d, %d>", e.Kind, e.X, e.Y)
	case e.Kind.IsKey():
		ch := e.Char
		if ch == 0 {
			ch = ' '
		}
		return fmt.Sprintf("%s<%d, %c>", e.Kind, e.Code, ch)
	case e.Kind == TimerTick:
		return fmt.Sprintf("%s<%d>", e.Kind, e.Millis)
	default:
		return fmt.Sprintf("unknown<%d>", e.Kind)
	}
}
