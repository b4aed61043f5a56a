// Package geom provides integer point and rectangle arithmetic used by the
// compositor and widget layer. All functions are pure and take values.
package geom

import "fmt"

// Point is a position in screen or window-local coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by v.
func (p Point) Add(v Point) Point { return Point{X: p.X + v.X, Y: p.Y + v.Y} }

// Sub returns p translated by -v.
func (p Point) Sub(v Point) Point { return Point{X: p.X - v.X, Y: p.Y - v.Y} }

// Rect represents an origin and a size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// R is shorthand for constructing a Rect.
func R(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Area returns the rectangle at the origin with the same size.
func (r Rect) Area() Rect { return Rect{Width: r.Width, Height: r.Height} }

// Translate moves r by v.
func (r Rect) Translate(v Point) Rect {
	r.X += v.X
	r.Y += v.Y
	return r
}

// TranslateBack moves r by -v, converting screen coordinates into the
// coordinate space whose origin is v.
func (r Rect) TranslateBack(v Point) Rect {
	r.X -= v.X
	r.Y -= v.Y
	return r
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center positions r in the middle of container, never above or left of the
// container's origin.
func (r Rect) Center(container Rect) Rect {
	r.X = container.X + (container.Width-r.Width)/2
	if r.X < container.X {
		r.X = container.X
	}
	r.Y = container.Y + (container.Height-r.Height)/2
	if r.Y < container.Y {
		r.Y = container.Y
	}
	return r
}

// Limit moves r so that it lies within container without resizing it. When r
// is larger than container the top-left edge wins.
func (r Rect) Limit(container Rect) Rect {
	if r.X+r.Width > container.X+container.Width {
		r.X = container.X + container.Width - r.Width
	}
	if r.Y+r.Height > container.Y+container.Height {
		r.Y = container.Y + container.Height - r.Height
	}
	if r.X < container.X {
		r.X = container.X
	}
	if r.Y < container.Y {
		r.Y = container.Y
	}
	return r
}

// Shrink insets r by amount on every side. Negative sizes clamp to zero.
func (r Rect) Shrink(amount int) Rect {
	r.X += amount
	r.Y += amount
	r.Width = max(r.Width-amount*2, 0)
	r.Height = max(r.Height-amount*2, 0)
	return r
}

// Clip returns the part of r that lies inside clipper. A rectangle that does
// not intersect clipper comes back with zero width and height.
func (r Rect) Clip(clipper Rect) Rect {
	if r.X < clipper.X {
		r.Width -= clipper.X - r.X
		r.X = clipper.X
	}
	if r.Y < clipper.Y {
		r.Height -= clipper.Y - r.Y
		r.Y = clipper.Y
	}
	if r.X+r.Width > clipper.X+clipper.Width {
		r.Width = clipper.X + clipper.Width - r.X
	}
	if r.Y+r.Height > clipper.Y+clipper.Height {
		r.Height = clipper.Y + clipper.Height - r.Y
	}
	if r.Width <= 0 || r.Height <= 0 {
		r.Width = 0
		r.Height = 0
	}
	return r
}

// Union returns the smallest rectangle covering both r and o. Empty inputs
// are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.Width, o.X+o.Width)
	y1 := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// TranslateDiff computes the screen area uncovered or newly covered when a
// rectangle moves from r1 to r2 without changing size. hdiff is the column
// strip spanned by the horizontal component of the move, vdiff the row strip
// spanned by the vertical component. Either may be empty.
func TranslateDiff(r1, r2 Rect) (hdiff, vdiff Rect) {
	if r1.X > r2.X {
		hdiff.X = r2.X + r2.Width
		hdiff.Width = r1.X - r2.X
	} else {
		hdiff.X = r1.X
		hdiff.Width = r2.X - r1.X
	}
	hdiff.Y = min(r1.Y, r2.Y)
	hdiff.Height = max(r1.Y+r1.Height, r2.Y+r2.Height) - hdiff.Y

	if r1.Y > r2.Y {
		vdiff.Y = r2.Y + r2.Height
		vdiff.Height = r1.Y - r2.Y
	} else {
		vdiff.Y = r1.Y
		vdiff.Height = r2.Y - r1.Y
	}
	vdiff.X = min(r1.X, r2.X)
	vdiff.Width = max(r1.X+r1.Width, r2.X+r2.Width) - vdiff.X
	return hdiff, vdiff
}

func (r Rect) String() string {
	return fmt.Sprintf("<x: %d, y: %d, w: %d, h: %d>", r.X, r.Y, r.Width, r.Height)
}
