package wm

import "github.com/1broseidon/deskcore/internal/geom"

// Grid lays out equally sized cells separated by one pixel.
type Grid struct {
	CellWidth  int
	CellHeight int
	Cols       int
	Rows       int
	X          int
	Y          int
}

// SpacedLength is the extent of n cells of size cell with one pixel between
// neighbours.
func SpacedLength(cell, n int) int {
	if n <= 0 {
		return 0
	}
	return cell*n + n - 1
}

// Rect returns the area covered by the whole grid.
func (g Grid) Rect() geom.Rect {
	return geom.R(g.X, g.Y, SpacedLength(g.CellWidth, g.Cols), SpacedLength(g.CellHeight, g.Rows))
}

// Cell returns the rectangle of the cell at col, row.
func (g Grid) Cell(col, row int) geom.Rect {
	return geom.R(
		g.X+col*g.CellWidth+col,
		g.Y+row*g.CellHeight+row,
		g.CellWidth,
		g.CellHeight,
	)
}

// DrawBackground fills the grid area of w, spacing included, with c.
func (g Grid) DrawBackground(w *Window, c uint8) {
	r := g.Rect()
	w.Surface().FillRect(r, c)
	w.RenderRegion(r)
}
