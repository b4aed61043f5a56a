package platform

import (
	"context"
	"sync"

	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/surface"
)

// Headless is a Display without output. It keeps a copy of the last
// presented frame so that tests and the control socket can inspect it.
type Headless struct {
	mu       sync.Mutex
	frame    *surface.Surface
	presents int
	damage   geom.Rect
	closed   bool
}

var _ Display = (*Headless)(nil)

// NewHeadless creates a headless display.
func NewHeadless() *Headless {
	return &Headless{}
}

// Present copies the dirty rectangle of screen into the retained frame.
func (h *Headless) Present(screen *surface.Surface, dirty geom.Rect) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.frame == nil || h.frame.Width != screen.Width || h.frame.Height != screen.Height {
		h.frame = surface.New(screen.Width, screen.Height)
		dirty = screen.Bounds()
	}
	surface.Copy(h.frame, dirty.X, dirty.Y, screen, dirty)
	h.presents++
	h.damage = h.damage.Union(dirty.Clip(screen.Bounds()))
	return nil
}

// Run blocks until ctx is cancelled. A headless host produces no input.
func (h *Headless) Run(ctx context.Context, _ EventSink) error {
	<-ctx.Done()
	return nil
}

func (h *Headless) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}

// Presents returns how many times Present was called.
func (h *Headless) Presents() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presents
}

// Damage returns the union of all presented rectangles.
func (h *Headless) Damage() geom.Rect {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.damage
}

// At returns a pixel of the last presented frame.
func (h *Headless) At(x, y int) uint8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return 0
	}
	return h.frame.At(x, y)
}
