// Package timeout schedules one-shot callbacks against a wrapping 32-bit
// millisecond counter delivered by timer ticks.
package timeout

import (
	"io"
	"log/slog"
)

// DefaultCapacity is the table size used when Config.Capacity is zero.
const DefaultCapacity = 32

// ID identifies a pending timeout. The zero ID is never issued and is
// returned by Add when the table is full.
type ID uint64

// Callback is invoked on the dispatch loop when a timeout fires.
type Callback func(payload any)

// Config holds configuration for a Scheduler.
type Config struct {
	Capacity int
	Logger   *slog.Logger
}

type entry struct {
	delay    uint32
	callback Callback
	payload  any

	id        ID
	anchored  bool
	addedAt   uint32
	expiresAt uint32
}

// due reports whether the entry has expired at now, accounting for the
// counter wrapping past 2^32 between anchoring and now.
func (e *entry) due(now uint32) bool {
	if e.expiresAt >= e.addedAt {
		return now >= e.expiresAt || now < e.addedAt
	}
	return now >= e.expiresAt && now < e.addedAt
}

// Scheduler is a fixed-capacity table of pending timeouts. It is not safe for
// concurrent use; all calls happen on the dispatch loop.
type Scheduler struct {
	entries []entry
	nextID  ID
	logger  *slog.Logger
}

// New creates an empty scheduler.
func New(cfg Config) *Scheduler {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		entries: make([]entry, 0, capacity),
		nextID:  1,
		logger:  logger,
	}
}

// Add registers callback to run delayMs after the next observed tick. It
// returns 0 when the table is full.
func (s *Scheduler) Add(delayMs uint32, callback Callback, payload any) ID {
	if len(s.entries) == cap(s.entries) {
		s.logger.Warn("timeout table full", "capacity", cap(s.entries))
		return 0
	}

	id := s.nextID
	s.nextID++
	if s.nextID == 0 {
		s.nextID++
	}

	s.entries = append(s.entries, entry{
		delay:    delayMs,
		callback: callback,
		payload:  payload,
		id:       id,
	})
	return id
}

// Remove cancels the timeout with the given id. Unknown ids are ignored.
func (s *Scheduler) Remove(id ID) {
	if id == 0 {
		return
	}
	for i := range s.entries {
		if s.entries[i].id == id {
			s.removeAt(i)
			return
		}
	}
}

func (s *Scheduler) removeAt(i int) {
	copy(s.entries[i:], s.entries[i+1:])
	s.entries[len(s.entries)-1] = entry{}
	s.entries = s.entries[:len(s.entries)-1]
}

// OnTick advances the scheduler to nowMs. Entries registered since the last
// tick are anchored to nowMs. At most one due entry fires per tick; it is
// removed before its callback runs, so the callback may register itself
// again.
func (s *Scheduler) OnTick(nowMs uint32) {
	for i := range s.entries {
		e := &s.entries[i]

		if !e.anchored {
			e.anchored = true
			e.addedAt = nowMs
			e.expiresAt = nowMs + e.delay
			continue
		}

		if !e.due(nowMs) {
			continue
		}

		fired := *e
		s.removeAt(i)
		if fired.callback != nil {
			fired.callback(fired.payload)
		}
		return
	}
}

// Len returns the number of pending timeouts.
func (s *Scheduler) Len() int { return len(s.entries) }

// Capacity returns the size of the table.
func (s *Scheduler) Capacity() int { return cap(s.entries) }

// Pending reports whether id is still scheduled.
func (s *Scheduler) Pending(id ID) bool {
	for i := range s.entries {
		if s.entries[i].id == id {
			return true
		}
	}
	return false
}
