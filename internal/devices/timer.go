// Package devices holds the input producers that feed the event queue: the
// periodic timer and the translation of host key codes to scan codes.
package devices

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/deskcore/internal/event"
)

// DefaultTickInterval is how often the timer reports the millisecond counter.
const DefaultTickInterval = 10 * time.Millisecond

// Sink receives produced events. *event.Queue implements it.
type Sink interface {
	Push(ev event.Event) error
}

// TimerConfig controls a Timer.
type TimerConfig struct {
	Interval time.Duration
	// StartMillis is the counter value at the first tick. The counter is
	// 32 bits and wraps.
	StartMillis uint32
	Logger      *slog.Logger
}

// Timer pushes timer-tick events carrying a free running millisecond counter.
type Timer struct {
	interval time.Duration
	startMs  uint32
	logger   *slog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewTimer returns a timer; zero fields take defaults.
func NewTimer(cfg TimerConfig) *Timer {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Timer{
		interval: interval,
		startMs:  cfg.StartMillis,
		logger:   logger,
		now:      time.Now,
	}
}

// Interval returns the tick period.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// counter returns the counter value at elapsed time since the epoch.
func (t *Timer) counter(elapsed time.Duration) uint32 {
	return t.startMs + uint32(elapsed.Milliseconds())
}

// Run pushes a tick every interval until ctx is cancelled. A full queue only
// loses the tick; the counter keeps running.
func (t *Timer) Run(ctx context.Context, sink Sink) error {
	epoch := t.now()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Debug("timer started", "interval", t.interval, "start_ms", t.startMs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		ms := t.counter(t.now().Sub(epoch))
		if err := sink.Push(event.Tick(ms)); err != nil {
			if errors.Is(err, event.ErrQueueFull) {
				t.logger.Debug("tick dropped", "ms", ms)
				continue
			}
			return err
		}
	}
}
