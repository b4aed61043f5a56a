package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

// upperHalf draws the top pixel in the foreground colour and the bottom
// pixel in the background colour.
const upperHalf = "▀"

type cell struct {
	top, bottom uint8
}

// frame is the downsampled terminal image. Each cell covers scale pixels
// horizontally and 2*scale pixels vertically.
type frame struct {
	mu     sync.Mutex
	scale  int
	cols   int
	rows   int
	cells  []cell
	pal    *palette.Palette
	styles map[cell]lipgloss.Style
}

func newFrame(width, height, scale int, pal *palette.Palette) *frame {
	if scale < 1 {
		scale = 1
	}
	cols := (width + scale - 1) / scale
	rows := (height + 2*scale - 1) / (2 * scale)
	return &frame{
		scale:  scale,
		cols:   cols,
		rows:   rows,
		cells:  make([]cell, cols*rows),
		pal:    pal,
		styles: make(map[cell]lipgloss.Style),
	}
}

// update resamples the cells overlapping dirty.
func (f *frame) update(screen *surface.Surface, dirty geom.Rect) {
	dirty = dirty.Clip(screen.Bounds())
	if dirty.Empty() {
		return
	}
	c0 := dirty.X / f.scale
	c1 := (dirty.X + dirty.Width - 1) / f.scale
	r0 := dirty.Y / (2 * f.scale)
	r1 := (dirty.Y + dirty.Height - 1) / (2 * f.scale)

	f.mu.Lock()
	defer f.mu.Unlock()
	for r := r0; r <= r1 && r < f.rows; r++ {
		for c := c0; c <= c1 && c < f.cols; c++ {
			x := c * f.scale
			y := r * 2 * f.scale
			f.cells[r*f.cols+c] = cell{
				top:    screen.At(x, y),
				bottom: screen.At(x, y+f.scale),
			}
		}
	}
}

func (f *frame) style(c cell) lipgloss.Style {
	if s, ok := f.styles[c]; ok {
		return s
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(f.pal.Hex(c.top))).
		Background(lipgloss.Color(f.pal.Hex(c.bottom)))
	f.styles[c] = s
	return s
}

// render returns the frame as styled text, one line per row. Runs of equal
// cells share one styled segment.
func (f *frame) render() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sb strings.Builder
	for r := 0; r < f.rows; r++ {
		row := f.cells[r*f.cols : (r+1)*f.cols]
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end] == row[start] {
				end++
			}
			sb.WriteString(f.style(row[start]).Render(strings.Repeat(upperHalf, end-start)))
			start = end
		}
		if r < f.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// pixel maps a terminal cell to the screen pixel at its centre.
func (f *frame) pixel(col, row int) geom.Point {
	return geom.Point{
		X: col*f.scale + f.scale/2,
		Y: row*2*f.scale + f.scale,
	}
}
