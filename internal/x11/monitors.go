package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/deskcore/internal/geom"
)

// Monitor is one active RandR output.
type Monitor struct {
	Name   string
	Bounds geom.Rect
}

// Monitors lists the enabled CRTCs of the root window's screen.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		monitors = append(monitors, Monitor{
			Name:   name,
			Bounds: geom.R(int(info.X), int(info.Y), int(info.Width), int(info.Height)),
		})
	}
	return monitors, nil
}

// pointerMonitor returns the monitor under the X pointer, falling back to
// the first one.
func (c *Connection) pointerMonitor(monitors []Monitor) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return monitors[0], true
	}
	return monitorAt(monitors, geom.Point{X: int(reply.RootX), Y: int(reply.RootY)}), true
}

func monitorAt(monitors []Monitor, p geom.Point) Monitor {
	for _, m := range monitors {
		if m.Bounds.Contains(p) {
			return m
		}
	}
	return monitors[0]
}

// Place returns the origin of a width x height window centred on m. A
// window larger than the monitor keeps its top-left corner on it.
func (m Monitor) Place(width, height int) geom.Point {
	return geom.R(0, 0, width, height).Center(m.Bounds).Origin()
}

// initialPosition picks where to map the host window. Servers without
// RandR get the root origin.
func (c *Connection) initialPosition(width, height int) geom.Point {
	monitors, err := c.Monitors()
	if err != nil {
		return geom.Point{}
	}
	m, ok := c.pointerMonitor(monitors)
	if !ok {
		return geom.Point{}
	}
	return m.Place(width, height)
}
