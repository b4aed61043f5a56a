// Package tui hosts the desktop inside a terminal, drawing the frame buffer
// with half-block characters and reading mouse and keys through bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/platform"
	"github.com/1broseidon/deskcore/internal/surface"
)

// DefaultScale is the number of screen pixels per terminal column.
const DefaultScale = 4

// ErrQuit is returned by Run when the user leaves with ctrl+c.
var ErrQuit = errors.New("tui: quit by user")

// Options configures a Host.
type Options struct {
	Width   int
	Height  int
	Scale   int
	Palette *palette.Palette
	Logger  *slog.Logger
}

// Host is a terminal display.
type Host struct {
	frame  *frame
	logger *slog.Logger

	mu      sync.Mutex
	program *tea.Program
}

var _ platform.Display = (*Host)(nil)

// New returns a terminal host for a screen of the given size.
func New(opts Options) (*Host, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("tui: invalid size %dx%d", opts.Width, opts.Height)
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	pal := opts.Palette
	if pal == nil {
		pal = palette.VGA()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Host{
		frame:  newFrame(opts.Width, opts.Height, scale, pal),
		logger: logger,
	}, nil
}

// Present resamples the damaged cells and asks the program to redraw.
func (h *Host) Present(screen *surface.Surface, dirty geom.Rect) error {
	h.frame.update(screen, dirty)

	h.mu.Lock()
	p := h.program
	h.mu.Unlock()
	if p != nil {
		p.Send(redrawMsg{})
	}
	return nil
}

// Run takes over the terminal until ctx is cancelled or the user quits.
func (h *Host) Run(ctx context.Context, sink platform.EventSink) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m := model{
		frame: h.frame,
		push: func(ev event.Event) {
			if err := sink.Push(ev); err != nil {
				h.logger.Debug("input dropped", "event", ev.String(), "error", err)
			}
		},
	}
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	h.mu.Lock()
	h.program = p
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.program = nil
		h.mu.Unlock()
	}()

	final, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if fm, ok := final.(model); ok && fm.quit {
		return ErrQuit
	}
	return nil
}

// Close stops a running program.
func (h *Host) Close() error {
	h.mu.Lock()
	p := h.program
	h.mu.Unlock()
	if p != nil {
		p.Quit()
	}
	return nil
}
