package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/platform"
)

// Config is the effective desktop configuration.
type Config struct {
	Screen  ScreenConfig  `yaml:"screen"`
	Layout  LayoutConfig  `yaml:"layout"`
	Limits  LimitsConfig  `yaml:"limits"`
	Timer   TimerConfig   `yaml:"timer"`
	Host    HostConfig    `yaml:"host"`
	Logging LoggingConfig `yaml:"logging"`
	IPC     IPCConfig     `yaml:"ipc"`
}

// ScreenConfig sizes the frame buffer. Stride 0 means Width.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Stride int `yaml:"stride"`
}

// LayoutConfig carves the screen into desktop, panel and status line.
type LayoutConfig struct {
	PanelWidth     int `yaml:"panel_width"`
	StatusHeight   int `yaml:"status_height"`
	TitleBarHeight int `yaml:"title_bar_height"`
	// Wallpaper is a palette index ("124", "0x7c") or "#rrggbb".
	Wallpaper string `yaml:"wallpaper"`
}

type LimitsConfig struct {
	MaxWindows           int `yaml:"max_windows"`
	MaxRegisteredWindows int `yaml:"max_registered_windows"`
	QueueCapacity        int `yaml:"queue_capacity"`
	TimeoutCapacity      int `yaml:"timeout_capacity"`
}

type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	StartMillis  uint32        `yaml:"start_ms"`
}

// HostConfig selects where the desktop is shown.
type HostConfig struct {
	Kind string `yaml:"kind"`
	// Display overrides $DISPLAY for the x11 host.
	Display string `yaml:"display,omitempty"`
	// TUIScale is the number of pixels per terminal column.
	TUIScale int `yaml:"tui_scale"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	QueueDebug bool   `yaml:"queue_debug"`
}

type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// maxScreenSide bounds the screen dimensions.
const maxScreenSide = 4096

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Screen: ScreenConfig{
			Width:  640,
			Height: 480,
		},
		Layout: LayoutConfig{
			PanelWidth:     64,
			StatusHeight:   24,
			TitleBarHeight: 24,
			Wallpaper:      "0x7c",
		},
		Limits: LimitsConfig{
			MaxWindows:           6,
			MaxRegisteredWindows: 16,
			QueueCapacity:        32,
			TimeoutCapacity:      32,
		},
		Timer: TimerConfig{
			TickInterval: 10 * time.Millisecond,
		},
		Host: HostConfig{
			Kind:     string(platform.KindX11),
			TUIScale: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		IPC: IPCConfig{
			Enabled: true,
		},
	}
}

// ValidationError reports an invalid setting by its YAML path.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(path, format string, args ...any) error {
	return &ValidationError{Path: path, Err: fmt.Errorf(format, args...)}
}

// Validate rejects settings the desktop cannot run with.
func (c *Config) Validate() error {
	s := c.Screen
	if s.Width <= 0 || s.Width > maxScreenSide {
		return invalid("screen.width", "width must be between 1 and %d", maxScreenSide)
	}
	if s.Height <= 0 || s.Height > maxScreenSide {
		return invalid("screen.height", "height must be between 1 and %d", maxScreenSide)
	}
	if s.Stride != 0 && s.Stride < s.Width {
		return invalid("screen.stride", "stride must be 0 or at least the width (%d)", s.Width)
	}

	l := c.Layout
	if l.PanelWidth <= 1 || l.PanelWidth >= s.Width {
		return invalid("layout.panel_width", "panel_width must be > 1 and less than the screen width")
	}
	if l.StatusHeight <= 0 || l.StatusHeight >= s.Height {
		return invalid("layout.status_height", "status_height must be > 0 and less than the screen height")
	}
	if l.TitleBarHeight < 8 {
		return invalid("layout.title_bar_height", "title_bar_height must be >= 8")
	}
	if l.TitleBarHeight*2 > s.Height-l.StatusHeight {
		return invalid("layout.title_bar_height", "title_bar_height leaves no room for windows")
	}
	if _, err := palette.VGA().Parse(l.Wallpaper); err != nil {
		return &ValidationError{Path: "layout.wallpaper", Err: err}
	}

	lim := c.Limits
	if lim.MaxWindows <= 0 {
		return invalid("limits.max_windows", "max_windows must be > 0")
	}
	if lim.MaxRegisteredWindows < lim.MaxWindows {
		return invalid("limits.max_registered_windows", "max_registered_windows must be >= max_windows")
	}
	if lim.QueueCapacity <= 0 || lim.QueueCapacity > event.MaxCapacity {
		return invalid("limits.queue_capacity", "queue_capacity must be between 1 and %d", event.MaxCapacity)
	}
	if lim.TimeoutCapacity <= 0 {
		return invalid("limits.timeout_capacity", "timeout_capacity must be > 0")
	}

	if c.Timer.TickInterval <= 0 {
		return invalid("timer.tick_interval", "tick_interval must be > 0")
	}

	if !platform.Kind(c.Host.Kind).Valid() {
		return invalid("host.kind", "kind must be one of: x11, tui, headless")
	}
	if c.Host.TUIScale < 1 {
		return invalid("host.tui_scale", "tui_scale must be >= 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warning", "error":
	default:
		return invalid("logging.level", "level must be one of: debug, info, warning, error")
	}
	return nil
}

// WallpaperIndex resolves the wallpaper setting against the VGA palette.
func (c *Config) WallpaperIndex() (uint8, error) {
	return palette.VGA().Parse(c.Layout.Wallpaper)
}

// SlogLevel maps the configured level name to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
