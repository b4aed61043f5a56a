package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/1broseidon/deskcore/internal/apps"
	"github.com/1broseidon/deskcore/internal/config"
	"github.com/1broseidon/deskcore/internal/desktop"
	"github.com/1broseidon/deskcore/internal/devices"
	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/ipc"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/platform"
	"github.com/1broseidon/deskcore/internal/surface"
	"github.com/1broseidon/deskcore/internal/timeout"
	"github.com/1broseidon/deskcore/internal/tui"
	"github.com/1broseidon/deskcore/internal/wm"
	"github.com/1broseidon/deskcore/internal/x11"
)

// session is one running desktop: the dispatch loop plus its producers.
type session struct {
	cfg    *config.Config
	logger *slog.Logger

	queue  *event.Queue
	sched  *timeout.Scheduler
	mgr    *wm.Manager
	desk   *desktop.Desktop
	timer  *devices.Timer
	host   platform.Display
	kind   platform.Kind
	panel  *apps.Panel
	clock  *apps.Clock
	colors *apps.Colors
}

// newSession builds the desktop on a fresh screen and hands damage to host.
func newSession(cfg *config.Config, kind platform.Kind, host platform.Display, logger *slog.Logger) (*session, error) {
	wallpaper, err := cfg.WallpaperIndex()
	if err != nil {
		return nil, err
	}

	var screen *surface.Surface
	if cfg.Screen.Stride == 0 {
		screen = surface.New(cfg.Screen.Width, cfg.Screen.Height)
	} else {
		screen = surface.NewWithStride(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.Stride)
	}

	queue := event.NewQueue(event.QueueConfig{
		Capacity: cfg.Limits.QueueCapacity,
		Debug:    cfg.Logging.QueueDebug,
		Logger:   logger,
	})
	sched := timeout.New(timeout.Config{
		Capacity: cfg.Limits.TimeoutCapacity,
		Logger:   logger,
	})

	mgr, err := wm.New(wm.Config{
		Screen:         screen,
		MaxWindows:     cfg.Limits.MaxWindows,
		MaxRegistered:  cfg.Limits.MaxRegisteredWindows,
		PanelWidth:     cfg.Layout.PanelWidth,
		StatusHeight:   cfg.Layout.StatusHeight,
		TitleBarHeight: cfg.Layout.TitleBarHeight,
		Wallpaper:      wallpaper,
		WallpaperSet:   true,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	clock := apps.NewClock(mgr, sched, logger, time.Now)
	colors := apps.NewColors(mgr, palette.VGA())
	panel, err := apps.NewPanel(mgr, logger, clock, colors)
	if err != nil {
		return nil, err
	}

	container := mgr.Container()
	mgr.ShowPointer(geom.Point{X: container.Width / 2, Y: container.Height / 2})
	mgr.Status().Set("Welcome")

	desk, err := desktop.New(desktop.Options{
		Manager:   mgr,
		Queue:     queue,
		Timeouts:  sched,
		Presenter: host,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		queue:  queue,
		sched:  sched,
		mgr:    mgr,
		desk:   desk,
		timer: devices.NewTimer(devices.TimerConfig{
			Interval:    cfg.Timer.TickInterval,
			StartMillis: cfg.Timer.StartMillis,
			Logger:      logger,
		}),
		host:   host,
		kind:   kind,
		panel:  panel,
		clock:  clock,
		colors: colors,
	}, nil
}

// openHost creates the display named by the configuration.
func openHost(cfg *config.Config, logger *slog.Logger) (platform.Display, error) {
	switch platform.Kind(cfg.Host.Kind) {
	case platform.KindX11:
		return x11.New(x11.Options{
			Display: cfg.Host.Display,
			Title:   "deskcore",
			Width:   cfg.Screen.Width,
			Height:  cfg.Screen.Height,
			Logger:  logger,
		})
	case platform.KindTUI:
		return tui.New(tui.Options{
			Width:  cfg.Screen.Width,
			Height: cfg.Screen.Height,
			Scale:  cfg.Host.TUIScale,
			Logger: logger,
		})
	case platform.KindHeadless:
		return platform.NewHeadless(), nil
	default:
		return nil, fmt.Errorf("unknown host kind %q", cfg.Host.Kind)
	}
}

// run starts the dispatch loop, the timer and the host input loop and waits
// until ctx is cancelled or one of them stops.
func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.IPC.Enabled {
		srv, err := ipc.NewServer(ipc.ServerOptions{
			Snapshot: s.desk.Snapshot,
			Sink:     s.queue,
			Host:     string(s.kind),
			Logger:   s.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create IPC server: %w", err)
		}
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start IPC server: %w", err)
		}
		defer srv.Stop()
	}

	errCh := make(chan error, 3)
	go func() { errCh <- s.desk.Run(ctx) }()
	go func() { errCh <- s.timer.Run(ctx, s.queue) }()
	go func() { errCh <- s.host.Run(ctx, s.queue) }()

	log.Printf("Desktop running (host: %s, screen: %dx%d)", s.kind, s.cfg.Screen.Width, s.cfg.Screen.Height)

	var first error
	for i := 0; i < 3; i++ {
		err := <-errCh
		if i == 0 {
			// Whatever stops first takes the rest down with it.
			cancel()
			first = err
		}
	}
	if err := s.host.Close(); err != nil {
		s.logger.Debug("host close", "error", err)
	}

	if errors.Is(first, x11.ErrClosed) || errors.Is(first, tui.ErrQuit) {
		return nil
	}
	return first
}
