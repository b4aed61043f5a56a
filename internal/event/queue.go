package event

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

// ErrQueueFull is returned by Push when no slot is free and the event could
// not be coalesced. The producer is expected to drop the event.
var ErrQueueFull = errors.New("event queue full")

// DefaultCapacity matches the size of the hardware queue the window system
// was tuned for.
const DefaultCapacity = 32

// MaxCapacity is the largest queue Count can report.
const MaxCapacity = 1<<16 - 1

// QueueConfig holds configuration for a Queue.
type QueueConfig struct {
	Capacity int
	// Debug logs every push, squash, drop and pop at debug level.
	Debug  bool
	Logger *slog.Logger
}

// Stats counts queue activity since creation.
type Stats struct {
	Pushed   uint64
	Squashed uint64
	Dropped  uint64
	Popped   uint64
}

// Queue is a fixed-capacity FIFO ring of events. Push may be called from any
// number of producer goroutines; Pop is reserved for the single consumer.
//
// A pointer-move pushed while the most recently queued event is also a
// pointer-move replaces that event's coordinates instead of taking a new
// slot. Timer ticks coalesce the same way. The consumer therefore only ever
// sees the latest pointer position and clock reading.
type Queue struct {
	// mu is the critical section around every mutation. Producers stand in
	// for interrupt handlers and must never observe or leave a half-written
	// slot.
	mu    sync.Mutex
	buf   []Event
	tail  int // next slot to pop
	count int
	stats Stats

	ready  chan struct{}
	debug  bool
	logger *slog.Logger
}

// NewQueue creates an empty queue. Capacities above MaxCapacity are clamped.
func NewQueue(cfg QueueConfig) *Queue {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity = min(capacity, MaxCapacity)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Queue{
		buf:    make([]Event, capacity),
		ready:  make(chan struct{}, 1),
		debug:  cfg.Debug,
		logger: logger,
	}
}

// Capacity returns the number of slots.
func (q *Queue) Capacity() int { return len(q.buf) }

// Push enqueues ev, coalescing it into the newest queued event when both are
// pointer moves or both are timer ticks.
func (q *Queue) Push(ev Event) error {
	q.mu.Lock()
	err := q.pushLocked(ev)
	q.mu.Unlock()

	if err == nil {
		select {
		case q.ready <- struct{}{}:
		default:
		}
	}
	return err
}

func (q *Queue) pushLocked(ev Event) error {
	if q.count > 0 {
		last := &q.buf[(q.tail+q.count-1)%len(q.buf)]
		switch {
		case ev.Kind == TimerTick && last.Kind == TimerTick:
			last.Millis = ev.Millis
			q.stats.Squashed++
			q.trace("squashed", ev)
			return nil
		case ev.Kind == PointerMove && last.Kind == PointerMove:
			last.X = ev.X
			last.Y = ev.Y
			q.stats.Squashed++
			q.trace("squashed", ev)
			return nil
		}
	}

	if q.count == len(q.buf) {
		q.stats.Dropped++
		q.trace("failed to push", ev)
		return ErrQueueFull
	}

	q.buf[(q.tail+q.count)%len(q.buf)] = ev
	q.count++
	q.stats.Pushed++
	if ev.Kind != TimerTick {
		q.trace("pushed", ev)
	}
	return nil
}

// Pop removes and returns the oldest event. ok is false when the queue is
// empty.
func (q *Queue) Pop() (ev Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return Event{}, false
	}
	ev = q.buf[q.tail]
	q.buf[q.tail] = Event{}
	q.tail = (q.tail + 1) % len(q.buf)
	q.count--
	q.stats.Popped++
	if ev.Kind != TimerTick {
		q.trace("popped", ev)
	}
	return ev, true
}

// Count returns the number of queued events.
func (q *Queue) Count() uint16 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return uint16(q.count)
}

// Ready is signalled after a successful push. The consumer waits on it when
// Count reports an empty queue; spurious wakeups are possible.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Stats returns a copy of the activity counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

func (q *Queue) trace(msg string, ev Event) {
	if !q.debug {
		return
	}
	q.logger.Debug("event queue: "+msg,
		"event", ev.String(),
		"tail", q.tail,
		"count", q.count)
}
