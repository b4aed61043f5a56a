// Package desktop runs the single dispatch loop that consumes the event
// queue and drives timeouts, the window manager and the host display.
package desktop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/surface"
	"github.com/1broseidon/deskcore/internal/timeout"
	"github.com/1broseidon/deskcore/internal/wm"
)

// Presenter shows damaged screen areas. platform.Display implements it.
type Presenter interface {
	Present(screen *surface.Surface, dirty geom.Rect) error
}

// Options holds the collaborators of a Desktop.
type Options struct {
	Manager  *wm.Manager
	Queue    *event.Queue
	Timeouts *timeout.Scheduler
	// Presenter is optional; without it damage is discarded.
	Presenter Presenter
	Logger    *slog.Logger
}

// Desktop owns the dispatch loop. Manager, windows, surfaces and the
// timeout table are only touched from Run or Dispatch; other goroutines
// interact through the queue and Snapshot.
type Desktop struct {
	mgr       *wm.Manager
	queue     *event.Queue
	timeouts  *timeout.Scheduler
	presenter Presenter
	logger    *slog.Logger

	// pointerOwner receives moves and the release after a press landed in
	// it, wherever the pointer goes.
	pointerOwner *wm.Window

	lastTick   uint32
	dispatched uint64
	panics     uint64

	snapMu sync.RWMutex
	snap   Snapshot
}

// New validates opts and returns a desktop ready to Run.
func New(opts Options) (*Desktop, error) {
	if opts.Manager == nil {
		return nil, fmt.Errorf("desktop: window manager is required")
	}
	if opts.Queue == nil {
		return nil, fmt.Errorf("desktop: event queue is required")
	}
	if opts.Timeouts == nil {
		return nil, fmt.Errorf("desktop: timeout scheduler is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d := &Desktop{
		mgr:       opts.Manager,
		queue:     opts.Queue,
		timeouts:  opts.Timeouts,
		presenter: opts.Presenter,
		logger:    logger,
	}
	d.refresh()
	return d, nil
}

func (d *Desktop) Manager() *wm.Manager         { return d.mgr }
func (d *Desktop) Queue() *event.Queue          { return d.queue }
func (d *Desktop) Timeouts() *timeout.Scheduler { return d.timeouts }

// Run presents the initial screen and then dispatches queued events until
// ctx is cancelled.
func (d *Desktop) Run(ctx context.Context) error {
	d.present()
	d.refresh()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if d.queue.Count() == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-d.queue.Ready():
			}
			continue
		}

		ev, ok := d.queue.Pop()
		if !ok {
			continue
		}
		d.Dispatch(ev)
	}
}

// Dispatch handles one event, presents the resulting damage and refreshes
// the snapshot. It must be called from the dispatch goroutine.
func (d *Desktop) Dispatch(ev event.Event) {
	d.route(ev)
	d.dispatched++
	d.present()
	d.refresh()
}

func (d *Desktop) route(ev event.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.panics++
			d.logger.Error("event handler panicked",
				"event", ev.String(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	pos := geom.Point{X: ev.X, Y: ev.Y}

	switch ev.Kind {
	case event.TimerTick:
		d.lastTick = ev.Millis
		d.timeouts.OnTick(ev.Millis)

	case event.PointerDown:
		d.mgr.MovePointer(pos)
		if w := d.mgr.FindWindow(pos); w != nil {
			d.pointerOwner = w
			d.mgr.RaiseWindow(w)
			w.HandlePointerDown(ev)
		}

	case event.PointerMove:
		d.mgr.MovePointer(pos)
		if d.pointerOwner != nil {
			d.pointerOwner.HandlePointerMove(ev)
		}

	case event.PointerUp:
		d.mgr.MovePointer(pos)
		if d.pointerOwner != nil {
			d.pointerOwner.HandlePointerUp(ev)
		}
		d.pointerOwner = nil

	case event.PointerAlt:
		d.mgr.MovePointer(pos)
		if w := d.mgr.FindWindow(pos); w != nil && d.pointerOwner == nil {
			w.HandlePointerAlt(ev)
		}

	case event.KeyDown, event.KeyUp:
		if w := d.mgr.TopWindow(); w != nil {
			w.HandleKey(ev)
		}

	default:
		d.logger.Debug("ignoring event", "event", ev.String())
	}
}

func (d *Desktop) present() {
	dirty, ok := d.mgr.TakeDamage()
	if !ok || d.presenter == nil {
		return
	}
	if err := d.presenter.Present(d.mgr.Screen(), dirty); err != nil {
		d.logger.Warn("present failed", "rect", dirty.String(), "error", err)
	}
}
