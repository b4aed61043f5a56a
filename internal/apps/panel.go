// Package apps contains the built-in desktop applications: the side panel
// that launches the others, a clock and a palette viewer.
package apps

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
	"github.com/1broseidon/deskcore/internal/wm"
)

// App is something the panel can launch.
type App interface {
	Name() string
	// Show puts the application window on the desktop, creating it the
	// first time.
	Show() error
}

// Panel button layout.
const (
	panelButtonMargin = 8
	panelButtonSize   = 48
	panelButtonStep   = panelButtonSize + panelButtonMargin
)

// Panel is the fixed launcher column at the right edge of the screen.
type Panel struct {
	mgr    *wm.Manager
	apps   []App
	win    *wm.Window
	logger *slog.Logger
}

// NewPanel builds the panel window with one button per app and installs it
// on mgr.
func NewPanel(mgr *wm.Manager, logger *slog.Logger, apps ...App) (*Panel, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	screen := mgr.Screen().Bounds()
	width := screen.Width - mgr.Container().Width
	if width <= 1 {
		return nil, fmt.Errorf("panel: no room, panel width is %d", width)
	}

	p := &Panel{
		mgr:    mgr,
		apps:   apps,
		logger: logger,
		win: wm.NewWindow(wm.WindowConfig{
			Title:      "Panel",
			Width:      width,
			Height:     screen.Height,
			Background: palette.Window,
			MaxWidgets: len(apps),
		}),
	}
	p.win.SetPosition(geom.Point{X: screen.Width - width, Y: 0})

	sf := p.win.Surface()
	sf.VSeg(0, 0, screen.Height, palette.Border)
	sf.FillRect(geom.R(1, 0, width-1, screen.Height), palette.Window)

	for i, app := range apps {
		b := wm.NewButton(
			geom.R(panelButtonMargin, panelButtonMargin+i*panelButtonStep, panelButtonSize, panelButtonSize),
			app.Name(),
			p.launch,
		)
		b.Font = surface.Mono7x13
		b.Tag = i
		if _, err := p.win.AddWidget(b); err != nil {
			return nil, fmt.Errorf("panel: %w", err)
		}
	}

	if err := mgr.SetPanelWindow(p.win); err != nil {
		return nil, fmt.Errorf("panel: %w", err)
	}
	return p, nil
}

// Window returns the panel window.
func (p *Panel) Window() *wm.Window { return p.win }

func (p *Panel) launch(_ *wm.Window, b *wm.Button) {
	if b.Tag < 0 || b.Tag >= len(p.apps) {
		return
	}
	app := p.apps[b.Tag]
	if err := app.Show(); err != nil {
		// A full stack is already reported on the status line.
		if errors.Is(err, wm.ErrTooManyWindows) {
			p.logger.Debug("app not shown", "app", app.Name(), "error", err)
			return
		}
		p.logger.Error("app failed to start", "app", app.Name(), "error", err)
		p.mgr.Status().Alertf("Error: %s failed", app.Name())
	}
}
