package apps

import (
	"github.com/1broseidon/deskcore/internal/event"
	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/wm"
)

const (
	swatchSize = 18
	swatchCols = 16
	swatchRows = 16
	swatches   = swatchCols * swatchRows
)

// Colors shows every palette entry as a swatch. Pressing or dragging over a
// swatch selects it and prints its index on the status line.
type Colors struct {
	mgr *wm.Manager
	pal *palette.Palette

	win      *wm.Window
	grid     wm.Grid
	swatches []*swatch
	selected int
}

// NewColors returns a palette viewer. pal defaults to the VGA palette.
func NewColors(mgr *wm.Manager, pal *palette.Palette) *Colors {
	if pal == nil {
		pal = palette.VGA()
	}
	return &Colors{mgr: mgr, pal: pal}
}

func (c *Colors) Name() string { return "Colors" }

// Window returns the viewer window, or nil before the first Show.
func (c *Colors) Window() *wm.Window { return c.win }

// Selected returns the palette index of the highlighted swatch.
func (c *Colors) Selected() uint8 { return uint8(c.selected) }

// Show opens the viewer window.
func (c *Colors) Show() error {
	if c.win == nil {
		if err := c.init(); err != nil {
			return err
		}
	}
	return c.mgr.AddWindow(c.win)
}

func (c *Colors) init() error {
	c.grid = wm.Grid{
		CellWidth:  swatchSize,
		CellHeight: swatchSize,
		Cols:       swatchCols,
		Rows:       swatchRows,
		X:          0,
		Y:          c.mgr.TitleBarHeight() - 1,
	}
	gr := c.grid.Rect()

	win := wm.NewWindow(wm.WindowConfig{
		Title:      c.Name(),
		Width:      gr.X + gr.Width + 1,
		Height:     gr.Y + gr.Height + 1,
		Background: palette.Black,
		MaxWidgets: swatches + 2,
	})
	if _, err := c.mgr.Register(win); err != nil {
		return err
	}
	if err := win.InitFrame(); err != nil {
		return err
	}
	win.OnKeyDown = c.onKey
	c.win = win

	c.swatches = make([]*swatch, swatches)
	for i := range c.swatches {
		s := &swatch{colors: c, index: i}
		s.Rect = c.grid.Cell(i%swatchCols, i/swatchCols)
		s.Flags = wm.PressOnMoveIn
		s.Tag = i
		c.swatches[i] = s
		if _, err := win.AddWidget(s); err != nil {
			return err
		}
	}
	return nil
}

// selectSwatch moves the highlight to index i and reports it.
func (c *Colors) selectSwatch(i int) {
	prev := c.selected
	c.selected = i
	if prev == i {
		return
	}
	c.swatches[prev].Draw(c.win)
	c.swatches[i].Draw(c.win)
	c.mgr.Status().Setf("hex:%02x dec:%03d", i, i)
}

func (c *Colors) onKey(_ *wm.Window, ev event.Event) {
	col, row := c.selected%swatchCols, c.selected/swatchCols
	switch ev.Code {
	case event.ScanLeft:
		col--
	case event.ScanRight:
		col++
	case event.ScanUp:
		row--
	case event.ScanDown:
		row++
	default:
		return
	}
	if col < 0 || col >= swatchCols || row < 0 || row >= swatchRows {
		return
	}
	c.selectSwatch(row*swatchCols + col)
}

type swatch struct {
	wm.Base
	colors *Colors
	index  int
}

func (s *swatch) Draw(w *wm.Window) {
	sf := w.Surface()
	color := uint8(s.index)
	if s.index == s.colors.selected {
		sf.FillRect(s.Rect, palette.Border)
		sf.FillRect(s.Rect.Shrink(1), color)
	} else {
		sf.FillRect(s.Rect, color)
	}
	w.RenderRegion(s.Rect)
}

func (s *swatch) PointerDown(*wm.Window, event.Event, geom.Point) {
	s.colors.selectSwatch(s.index)
}

// Releases and abandoned presses leave the highlight alone.
func (s *swatch) PointerUp(*wm.Window, event.Event, geom.Point)  {}
func (s *swatch) PointerOut(*wm.Window, event.Event, geom.Point) {}

// PointerAlt names the colour under the pointer without selecting it.
func (s *swatch) PointerAlt(*wm.Window, event.Event, geom.Point) {
	c := s.colors
	c.mgr.Status().Setf("color %d is %s", s.index, c.pal.Hex(uint8(s.index)))
}
