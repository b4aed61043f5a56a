// Package wm implements the window manager: z-order, damage-region
// compositing of per-window surfaces onto the screen, widgets and the
// pointer dispatch state machine.
//
// Nothing in this package is safe for concurrent use. The desktop dispatch
// loop is the only caller.
package wm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

var (
	// ErrTooManyWindows is returned by AddWindow when every stack slot is
	// taken.
	ErrTooManyWindows = errors.New("too many windows")
	// ErrTooManyWidgets is returned by AddWidget when a window's registry is
	// full.
	ErrTooManyWidgets = errors.New("too many widgets")
	// ErrArenaFull is returned by Register when no window handle is left.
	ErrArenaFull = errors.New("window arena full")
	// ErrNotRegistered is returned by operations that need a manager.
	ErrNotRegistered = errors.New("window is not registered")
)

// WindowID is a stable handle into the manager's window arena.
type WindowID int

// NoWindow is the WindowID of an unregistered window.
const NoWindow WindowID = -1

// Defaults for Config fields left at zero.
const (
	DefaultMaxWindows     = 6
	DefaultMaxRegistered  = 16
	DefaultPanelWidth     = 64
	DefaultStatusHeight   = 24
	DefaultTitleBarHeight = 24
)

// Config holds configuration for a Manager.
type Config struct {
	// Screen is the physical frame buffer. Only the manager writes to it.
	Screen *surface.Surface

	// MaxWindows is the number of z-order slots.
	MaxWindows int
	// MaxRegistered bounds the window arena.
	MaxRegistered int

	// PanelWidth is reserved at the right edge of the screen and
	// StatusHeight at the bottom; the rest is the desktop container.
	PanelWidth     int
	StatusHeight   int
	TitleBarHeight int

	Wallpaper uint8
	// WallpaperSet distinguishes an explicit black wallpaper from the
	// default.
	WallpaperSet bool

	Logger *slog.Logger
}

// Manager owns the window stack and the screen. index 0 of the stack is the
// active, frontmost window.
type Manager struct {
	screen         *surface.Surface
	container      geom.Rect
	wallpaper      uint8
	titleBarHeight int

	arena []*Window
	stack []*Window
	panel *Window

	status  *Status
	pointer *pointer

	drawing int
	damage  geom.Rect

	logger *slog.Logger
}

// New creates a manager, paints the wallpaper and initialises the status
// line. The pointer sprite stays hidden until ShowPointer.
func New(cfg Config) (*Manager, error) {
	if cfg.Screen == nil {
		return nil, fmt.Errorf("wm: screen surface is required")
	}
	maxWindows := cfg.MaxWindows
	if maxWindows <= 0 {
		maxWindows = DefaultMaxWindows
	}
	maxRegistered := cfg.MaxRegistered
	if maxRegistered <= 0 {
		maxRegistered = DefaultMaxRegistered
	}
	panelWidth := cfg.PanelWidth
	if panelWidth <= 0 {
		panelWidth = DefaultPanelWidth
	}
	statusHeight := cfg.StatusHeight
	if statusHeight <= 0 {
		statusHeight = DefaultStatusHeight
	}
	titleBarHeight := cfg.TitleBarHeight
	if titleBarHeight <= 0 {
		titleBarHeight = DefaultTitleBarHeight
	}
	wallpaper := palette.Wallpaper
	if cfg.WallpaperSet {
		wallpaper = cfg.Wallpaper
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	screen := cfg.Screen
	container := geom.R(0, 0, screen.Width-panelWidth, screen.Height-statusHeight)
	if container.Empty() {
		return nil, fmt.Errorf("wm: screen %dx%d leaves no desktop area", screen.Width, screen.Height)
	}

	m := &Manager{
		screen:         screen,
		container:      container,
		wallpaper:      wallpaper,
		titleBarHeight: titleBarHeight,
		arena:          make([]*Window, 0, maxRegistered),
		stack:          make([]*Window, 0, maxWindows),
		logger:         logger,
	}
	m.pointer = newPointer(geom.Point{X: screen.Width / 2, Y: screen.Height / 2})

	m.renderWallpaper(container)
	m.status = newStatus(m, geom.R(container.X, container.Y+container.Height, container.Width, statusHeight))

	return m, nil
}

// Container returns the desktop area windows are confined to.
func (m *Manager) Container() geom.Rect { return m.container }

// Screen returns the frame buffer.
func (m *Manager) Screen() *surface.Surface { return m.screen }

// Status returns the status line.
func (m *Manager) Status() *Status { return m.status }

// TitleBarHeight is the height of window title bars.
func (m *Manager) TitleBarHeight() int { return m.titleBarHeight }

// Register assigns w a handle. Registering twice returns the same handle.
func (m *Manager) Register(w *Window) (WindowID, error) {
	if w.mgr == m {
		return w.id, nil
	}
	if w.mgr != nil {
		return NoWindow, fmt.Errorf("window %q belongs to another manager", w.Title)
	}
	if len(m.arena) == cap(m.arena) {
		m.logger.Warn("window arena full", "title", w.Title, "capacity", cap(m.arena))
		return NoWindow, ErrArenaFull
	}

	w.id = WindowID(len(m.arena))
	w.mgr = m
	m.arena = append(m.arena, w)
	for _, wd := range w.widgets {
		wd.base().window = w.id
	}
	return w.id, nil
}

// Window returns the registered window with the given handle, or nil.
func (m *Manager) Window(id WindowID) *Window {
	if id < 0 || int(id) >= len(m.arena) {
		return nil
	}
	return m.arena[id]
}

// Windows returns every registered window in registration order.
func (m *Manager) Windows() []*Window {
	return append([]*Window(nil), m.arena...)
}

// Stack returns the z-order, front first.
func (m *Manager) Stack() []*Window {
	return append([]*Window(nil), m.stack...)
}

func (m *Manager) indexOf(w *Window) int {
	for i, s := range m.stack {
		if s == w {
			return i
		}
	}
	return -1
}

func (m *Manager) setActive(w *Window, active bool) {
	if w.active == active {
		return
	}
	if active {
		m.status.Set("")
	}
	w.setActive(active)
}

// RaiseWindow moves w to the front and activates it. Every window it passes
// is deactivated on the way.
func (m *Manager) RaiseWindow(w *Window) {
	i := m.indexOf(w)
	if i < 0 {
		return
	}

	for ; i > 0; i-- {
		m.stack[i] = m.stack[i-1]
		m.setActive(m.stack[i], false)
	}
	m.stack[0] = w
	m.setActive(w, true)

	m.RenderDesktopRegion(w.rect, w)
}

// AddWindow shows w on top of the stack. Adding a window that is already
// shown, or the panel, does nothing.
func (m *Manager) AddWindow(w *Window) error {
	if w == m.panel {
		return nil
	}
	if _, err := m.Register(w); err != nil {
		return err
	}
	if m.indexOf(w) >= 0 {
		return nil
	}
	if len(m.stack) == cap(m.stack) {
		m.status.Set("Error: Too many windows")
		m.logger.Warn("window stack full", "title", w.Title, "capacity", cap(m.stack))
		return ErrTooManyWindows
	}

	m.stack = append(m.stack, w)
	w.visible = true
	m.logger.Debug("window added", "title", w.Title, "id", w.id)
	m.RaiseWindow(w)
	return nil
}

// RemoveWindow hides w and activates the window that becomes frontmost. The
// area w covered is repainted even when w was not shown.
func (m *Manager) RemoveWindow(w *Window) {
	if i := m.indexOf(w); i >= 0 {
		w.visible = false
		copy(m.stack[i:], m.stack[i+1:])
		m.stack[len(m.stack)-1] = nil
		m.stack = m.stack[:len(m.stack)-1]
		m.setActive(w, false)
		m.logger.Debug("window removed", "title", w.Title, "id", w.id)
	}

	if top := m.TopWindow(); top != nil {
		m.setActive(top, true)
	}

	m.RenderDesktopRegion(w.rect, nil)
}

// TopWindow returns the active window, or nil when the desktop is empty.
func (m *Manager) TopWindow() *Window {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[0]
}

// FindWindow returns the window under p. The panel is checked first, then
// the stack front to back.
func (m *Manager) FindWindow(p geom.Point) *Window {
	if m.panel != nil && m.panel.rect.Contains(p) {
		return m.panel
	}
	for _, w := range m.stack {
		if w.rect.Contains(p) {
			return w
		}
	}
	return nil
}

// SetPanelWindow installs w as the panel and puts it on screen.
func (m *Manager) SetPanelWindow(w *Window) error {
	if _, err := m.Register(w); err != nil {
		return err
	}
	m.panel = w
	w.visible = true
	m.RenderRegion(w, w.Area())
	return nil
}

// Panel returns the panel window, or nil.
func (m *Manager) Panel() *Window { return m.panel }

// RenderRegion puts the window-local rectangle r of w on screen, compositing
// any windows in front of w. The panel is copied straight to the screen.
// Hidden windows are skipped.
func (m *Manager) RenderRegion(w *Window, r geom.Rect) {
	if !w.visible || w.mgr != m {
		return
	}
	screenRect := r.Translate(w.rect.Origin())
	if w == m.panel {
		m.renderWindowSurface(w, screenRect)
		return
	}
	m.RenderDesktopRegion(screenRect, w)
}

// RenderDesktopRegion recomposites r of the screen from the back of the
// stack to the front. With a nil bottom the wallpaper is painted first and
// every window is composited; otherwise compositing starts at bottom.
func (m *Manager) RenderDesktopRegion(r geom.Rect, bottom *Window) {
	if r.Empty() {
		return
	}

	m.beginDraw()
	defer m.endDraw()

	started := bottom == nil
	if started {
		m.renderWallpaper(r)
	}
	for i := len(m.stack) - 1; i >= 0; i-- {
		w := m.stack[i]
		if w == bottom {
			started = true
		}
		if started {
			m.renderWindowSurface(w, r)
		}
	}
}

func (m *Manager) renderWallpaper(r geom.Rect) {
	r = r.Clip(m.container)
	if r.Empty() {
		return
	}
	m.beginDraw()
	m.screen.FillRect(r, m.wallpaper)
	m.markDamage(r)
	m.endDraw()
}

func (m *Manager) renderWindowSurface(w *Window, r geom.Rect) {
	r = r.Clip(w.rect)
	if r.Empty() {
		return
	}
	m.beginDraw()
	surface.Copy(m.screen, r.X, r.Y, w.surface, r.TranslateBack(w.rect.Origin()))
	m.markDamage(r)
	m.endDraw()
}

// MoveWindow relocates w so that its top-left corner is at origin, clamped
// to the desktop. Only the strips uncovered by the move and the window's new
// rectangle are repainted.
func (m *Manager) MoveWindow(w *Window, origin geom.Point) {
	before := w.rect
	after := geom.R(origin.X, origin.Y, before.Width, before.Height).Limit(m.container)
	if after == before {
		return
	}
	w.rect = after

	hdiff, vdiff := geom.TranslateDiff(before, after)

	m.beginDraw()
	m.RenderDesktopRegion(hdiff, nil)
	m.RenderDesktopRegion(vdiff, nil)
	m.RenderDesktopRegion(after, w)
	m.endDraw()
}

// beginDraw and endDraw bracket every screen write. The pointer sprite is
// lifted off the screen by the outermost bracket and put back when it
// closes.
func (m *Manager) beginDraw() {
	if m.drawing == 0 {
		if r, ok := m.pointer.hide(m.screen); ok {
			m.markDamage(r)
		}
	}
	m.drawing++
}

func (m *Manager) endDraw() {
	m.drawing--
	if m.drawing == 0 {
		if r, ok := m.pointer.draw(m.screen); ok {
			m.markDamage(r)
		}
	}
}

func (m *Manager) markDamage(r geom.Rect) {
	r = r.Clip(m.screen.Bounds())
	m.damage = m.damage.Union(r)
}

// TakeDamage returns the bounding box of everything written to the screen
// since the last call and resets it.
func (m *Manager) TakeDamage() (geom.Rect, bool) {
	d := m.damage
	m.damage = geom.Rect{}
	return d, !d.Empty()
}

// ShowPointer enables the pointer sprite at p.
func (m *Manager) ShowPointer(p geom.Point) {
	m.pointer.enabled = true
	m.MovePointer(p)
}

// MovePointer moves the pointer sprite to p.
func (m *Manager) MovePointer(p geom.Point) {
	m.beginDraw()
	m.pointer.pos = p
	m.endDraw()
}

// PointerPosition returns the sprite's hot spot.
func (m *Manager) PointerPosition() geom.Point { return m.pointer.pos }
