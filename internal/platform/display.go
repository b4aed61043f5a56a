// Package platform describes the host a desktop runs on: something that can
// show the frame buffer and feed input back as events.
package platform

import (
	"context"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/surface"
)

// EventSink receives events from a host. *event.Queue implements it.
type EventSink interface {
	Push(ev event.Event) error
}

// Display abstracts a host presenting the indexed frame buffer.
//
// Present is called on the dispatch loop with the screen and the rectangle
// that changed since the previous call. Run blocks, translating host input
// into events pushed to sink, until ctx is cancelled or the host goes away.
type Display interface {
	Present(screen *surface.Surface, dirty geom.Rect) error
	Run(ctx context.Context, sink EventSink) error
	Close() error
}

// Kind names a host implementation.
type Kind string

const (
	KindX11      Kind = "x11"
	KindTUI      Kind = "tui"
	KindHeadless Kind = "headless"
)

// Kinds lists the supported host kinds.
func Kinds() []Kind {
	return []Kind{KindX11, KindTUI, KindHeadless}
}

// Valid reports whether k names a supported host.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}
