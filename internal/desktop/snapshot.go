package desktop

// WindowInfo describes one window in a Snapshot.
type WindowInfo struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Active  bool   `json:"active"`
	Visible bool   `json:"visible"`
}

// Snapshot is a copy of the desktop state taken after the last dispatched
// event. It is safe to read from any goroutine.
type Snapshot struct {
	// Windows lists the z-order, front first.
	Windows []WindowInfo `json:"windows"`
	Panel   string       `json:"panel,omitempty"`

	Status      string `json:"status"`
	StatusAlert bool   `json:"status_alert"`

	PointerX int `json:"pointer_x"`
	PointerY int `json:"pointer_y"`

	LastTick uint32 `json:"last_tick_ms"`

	Queued        int    `json:"queued"`
	QueueCapacity int    `json:"queue_capacity"`
	Pushed        uint64 `json:"pushed"`
	Squashed      uint64 `json:"squashed"`
	Dropped       uint64 `json:"dropped"`

	PendingTimeouts int    `json:"pending_timeouts"`
	Dispatched      uint64 `json:"dispatched"`
	Panics          uint64 `json:"panics"`
}

// Snapshot returns the state published after the last dispatched event.
func (d *Desktop) Snapshot() Snapshot {
	d.snapMu.RLock()
	defer d.snapMu.RUnlock()

	s := d.snap
	s.Windows = append([]WindowInfo(nil), d.snap.Windows...)
	return s
}

// refresh rebuilds the snapshot. Called on the dispatch goroutine.
func (d *Desktop) refresh() {
	stack := d.mgr.Stack()
	windows := make([]WindowInfo, 0, len(stack))
	for _, w := range stack {
		r := w.Rect()
		windows = append(windows, WindowInfo{
			ID:      int(w.ID()),
			Title:   w.Title,
			X:       r.X,
			Y:       r.Y,
			Width:   r.Width,
			Height:  r.Height,
			Active:  w.Active(),
			Visible: w.Visible(),
		})
	}

	st := d.queue.Stats()
	pointer := d.mgr.PointerPosition()
	status := d.mgr.Status()

	s := Snapshot{
		Windows:         windows,
		Status:          status.Text(),
		StatusAlert:     status.IsAlert(),
		PointerX:        pointer.X,
		PointerY:        pointer.Y,
		LastTick:        d.lastTick,
		Queued:          int(d.queue.Count()),
		QueueCapacity:   d.queue.Capacity(),
		Pushed:          st.Pushed,
		Squashed:        st.Squashed,
		Dropped:         st.Dropped,
		PendingTimeouts: d.timeouts.Len(),
		Dispatched:      d.dispatched,
		Panics:          d.panics,
	}
	if p := d.mgr.Panel(); p != nil {
		s.Panel = p.Title
	}

	d.snapMu.Lock()
	d.snap = s
	d.snapMu.Unlock()
}
