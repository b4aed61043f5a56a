package apps

import (
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/timeout"
	"github.com/1broseidon/deskcore/internal/wm"
)

// ClockRefresh is how often a visible clock checks the time.
const ClockRefresh = 200 * time.Millisecond

const (
	clockCellSize = 10
	clockCols     = 31
	clockRows     = 9
)

// Each digit is a 3x5 cell glyph, row-major from the top bit down.
var clockDigits = [10]uint16{
	0xf6de, 0x592e, 0xe7ce, 0xe79e, 0xb792,
	0xf39e, 0xf3de, 0xe492, 0xf7de, 0xf79e,
}

type clockTime struct {
	hour, minute, second int
}

// Clock shows the time of day as large cell digits.
type Clock struct {
	mgr   *wm.Manager
	sched *timeout.Scheduler
	now   func() time.Time
	log   *slog.Logger

	win  *wm.Window
	grid wm.Grid

	last    clockTime
	hasLast bool

	scheduled bool
}

// NewClock returns a clock app. now defaults to time.Now.
func NewClock(mgr *wm.Manager, sched *timeout.Scheduler, logger *slog.Logger, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Clock{mgr: mgr, sched: sched, now: now, log: logger}
}

func (c *Clock) Name() string { return "Clock" }

// Window returns the clock window, or nil before the first Show.
func (c *Clock) Window() *wm.Window { return c.win }

// Show opens the clock window.
func (c *Clock) Show() error {
	if c.win == nil {
		if err := c.init(); err != nil {
			return err
		}
	} else if !c.scheduled {
		c.tick(nil)
	}
	return c.mgr.AddWindow(c.win)
}

func (c *Clock) init() error {
	bar := c.mgr.TitleBarHeight()
	c.grid = wm.Grid{
		CellWidth:  clockCellSize,
		CellHeight: clockCellSize,
		Cols:       clockCols,
		Rows:       clockRows,
		X:          1,
		Y:          bar,
	}
	gr := c.grid.Rect()

	win := wm.NewWindow(wm.WindowConfig{
		Title:      c.Name(),
		Width:      gr.X + gr.Width + 1,
		Height:     gr.Y + gr.Height + 1,
		Background: palette.WindowDarker,
		MaxWidgets: 2,
	})
	if _, err := c.mgr.Register(win); err != nil {
		return err
	}
	if err := win.InitFrame(); err != nil {
		return err
	}
	c.win = win

	c.drawRegion(0, 0, clockCols, clockRows, false)
	c.drawTime()
	c.tick(nil)
	return nil
}

func (c *Clock) drawCell(col, row int, on bool) {
	r := c.grid.Cell(col, row)
	color := palette.Window
	if on {
		color = palette.TextActive
	}
	c.win.Surface().FillRect(r, color)
	c.win.RenderRegion(r)
}

func (c *Clock) drawRegion(col, row, cols, rows int, on bool) {
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			c.drawCell(col+i, row+j, on)
		}
	}
}

func (c *Clock) drawDigit(col, row, digit int) {
	mask := clockDigits[digit]
	for i := 0; i < 15; i++ {
		on := mask&(1<<(15-i)) != 0
		c.drawCell(col+i%3, row+i/3, on)
	}
}

// drawTime redraws the digits when the second changed.
func (c *Clock) drawTime() {
	t := c.now()
	ct := clockTime{hour: t.Hour(), minute: t.Minute(), second: t.Second()}
	if c.hasLast && ct == c.last {
		return
	}
	c.last = ct
	c.hasLast = true

	c.drawDigit(2, 2, ct.hour/10)
	c.drawDigit(6, 2, ct.hour%10)
	c.drawCell(10, 3, true)
	c.drawCell(10, 5, true)
	c.drawDigit(12, 2, ct.minute/10)
	c.drawDigit(16, 2, ct.minute%10)
	c.drawCell(20, 3, true)
	c.drawCell(20, 5, true)
	c.drawDigit(22, 2, ct.second/10)
	c.drawDigit(26, 2, ct.second%10)
}

// tick refreshes a visible clock and schedules the next check. A full
// timeout table stops the refresh until the clock is shown again.
func (c *Clock) tick(any) {
	if c.win.Visible() {
		c.drawTime()
	}
	if c.sched.Add(uint32(ClockRefresh/time.Millisecond), c.tick, nil) == 0 {
		c.scheduled = false
		c.log.Warn("clock refresh not scheduled", "reason", "timeout table full")
		return
	}
	c.scheduled = true
}
