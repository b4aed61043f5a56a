package x11

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/platform"
	"github.com/1broseidon/deskcore/internal/surface"
)

// ErrClosed is returned by Run when the user closes the host window.
var ErrClosed = errors.New("x11: window closed")

// Options configures a Host.
type Options struct {
	// Display overrides $DISPLAY.
	Display string
	Title   string
	Width   int
	Height  int
	Palette *palette.Palette
	Logger  *slog.Logger
}

// Host shows the frame buffer in an X window and turns X input into desktop
// events.
type Host struct {
	conn   *Connection
	win    *xwindow.Window
	img    *xgraphics.Image
	colors [256]xgraphics.BGRA
	logger *slog.Logger

	// mu guards img between Present and Expose redraws.
	mu     sync.Mutex
	closed chan struct{}
	once   sync.Once
}

var _ platform.Display = (*Host)(nil)

// New connects to the X server and maps a window of the screen size.
func New(opts Options) (*Host, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("x11: invalid size %dx%d", opts.Width, opts.Height)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pal := opts.Palette
	if pal == nil {
		pal = palette.VGA()
	}
	title := opts.Title
	if title == "" {
		title = "deskcore"
	}

	conn, err := NewConnection(opts.Display)
	if err != nil {
		return nil, err
	}
	origin := conn.initialPosition(opts.Width, opts.Height)
	win, err := conn.createWindow(title, origin, opts.Width, opts.Height)
	if err != nil {
		conn.Close()
		return nil, err
	}

	h := &Host{
		conn:   conn,
		win:    win,
		img:    xgraphics.New(conn.XUtil, image.Rect(0, 0, opts.Width, opts.Height)),
		colors: bgraTable(pal),
		logger: logger,
		closed: make(chan struct{}),
	}
	if err := h.img.XSurfaceSet(win.Id); err != nil {
		h.Close()
		return nil, fmt.Errorf("x11: create pixmap: %w", err)
	}
	logger.Info("x11 host ready", "window", win.Id, "width", opts.Width, "height", opts.Height)
	return h, nil
}

func bgraTable(pal *palette.Palette) [256]xgraphics.BGRA {
	var t [256]xgraphics.BGRA
	for i := range t {
		r, g, b := pal.RGB(uint8(i))
		t[i] = xgraphics.BGRA{B: b, G: g, R: r, A: 0xff}
	}
	return t
}

// Present converts the dirty part of screen to BGRA, uploads it and paints
// the window.
func (h *Host) Present(screen *surface.Surface, dirty geom.Rect) error {
	dirty = dirty.Clip(screen.Bounds())
	if dirty.Empty() {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.img == nil {
		return ErrClosed
	}

	for y := dirty.Y; y < dirty.Y+dirty.Height; y++ {
		row := screen.Row(y)
		for x := dirty.X; x < dirty.X+dirty.Width; x++ {
			h.img.SetBGRA(x, y, h.colors[row[x]])
		}
	}

	rect := image.Rect(dirty.X, dirty.Y, dirty.X+dirty.Width, dirty.Y+dirty.Height)
	if sub, ok := h.img.SubImage(rect).(*xgraphics.Image); ok {
		sub.XDraw()
	} else {
		h.img.XDraw()
	}
	h.img.XPaint(h.win.Id)
	return nil
}

// Run routes X input to sink until ctx is cancelled or the window is closed.
func (h *Host) Run(ctx context.Context, sink platform.EventSink) error {
	xu := h.conn.XUtil
	push := func(ev event.Event) {
		if err := sink.Push(ev); err != nil {
			h.logger.Debug("input dropped", "event", ev.String(), "error", err)
		}
	}

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, e xevent.MotionNotifyEvent) {
		push(event.Pointer(event.PointerMove, int(e.EventX), int(e.EventY)))
	}).Connect(xu, h.win.Id)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, e xevent.ButtonPressEvent) {
		if ev, ok := translateButton(e.Detail, true, e.EventX, e.EventY); ok {
			push(ev)
		}
	}).Connect(xu, h.win.Id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, e xevent.ButtonReleaseEvent) {
		if ev, ok := translateButton(e.Detail, false, e.EventX, e.EventY); ok {
			push(ev)
		}
	}).Connect(xu, h.win.Id)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, e xevent.KeyPressEvent) {
		str := keybind.LookupString(xu, e.State, e.Detail)
		if ev, ok := translateKey(event.KeyDown, e.Detail, str); ok {
			push(ev)
		}
	}).Connect(xu, h.win.Id)

	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, e xevent.KeyReleaseEvent) {
		str := keybind.LookupString(xu, e.State, e.Detail)
		if ev, ok := translateKey(event.KeyUp, e.Detail, str); ok {
			push(ev)
		}
	}).Connect(xu, h.win.Id)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, e xevent.ExposeEvent) {
		if e.Count != 0 {
			return
		}
		h.mu.Lock()
		h.img.XPaint(h.win.Id)
		h.mu.Unlock()
	}).Connect(xu, h.win.Id)

	h.win.WMGracefulClose(func(w *xwindow.Window) {
		h.logger.Info("x11 window closed by user")
		h.once.Do(func() { close(h.closed) })
		h.conn.Quit()
	})

	go func() {
		select {
		case <-ctx.Done():
			h.conn.Quit()
		case <-h.closed:
		}
	}()

	h.conn.EventLoop()

	select {
	case <-h.closed:
		return ErrClosed
	default:
		return nil
	}
}

// Close releases the image, the window and the connection.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.img != nil {
		h.img.Destroy()
		h.img = nil
	}
	if h.win != nil {
		h.win.Destroy()
		h.win = nil
	}
	h.conn.Close()
	return nil
}
