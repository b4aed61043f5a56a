package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/deskcore/internal/geom"
)

const inputMask = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify

// createWindow opens a fixed size top level window at origin listening for
// input.
func (c *Connection) createWindow(title string, origin geom.Point, width, height int) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("generate window id: %w", err)
	}

	win.Create(c.Root, origin.X, origin.Y, width, height, xproto.CwBackPixel, 0)
	if err := win.Listen(inputMask); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("select input: %w", err)
	}

	// Both the legacy and the EWMH title, so any window manager shows it.
	if err := icccm.WmNameSet(c.XUtil, win.Id, title); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("set WM_NAME: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, win.Id, title); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("set _NET_WM_NAME: %w", err)
	}

	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintUSPosition | icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		X:         origin.X,
		Y:         origin.Y,
		MinWidth:  uint(width),
		MinHeight: uint(height),
		MaxWidth:  uint(width),
		MaxHeight: uint(height),
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, win.Id, hints); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("set WM_NORMAL_HINTS: %w", err)
	}

	win.Map()
	return win, nil
}
