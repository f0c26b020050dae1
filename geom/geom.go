// Package geom provides integer points and rectangles in the unified
// physical virtual-screen coordinate space spanning all monitors.
package geom

// Point is a position in physical virtual-screen pixels.
type Point struct {
	X int
	Y int
}

// Rect is a rectangle in physical virtual-screen pixels. A raw drag
// rectangle may carry negative Width/Height (spanned from two arbitrary
// corners); call Normalize before treating it as a result.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RectFromCorners returns the raw rectangle spanned by two points. The
// result is not normalized: Width/Height are signed offsets from a to b.
func RectFromCorners(a, b Point) Rect {
	return Rect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}
}

// Normalize returns an equivalent rectangle with non-negative Width and
// Height, swapping corners as needed.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Empty reports whether the rectangle covers no pixels. Only meaningful on
// normalized rectangles.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside the rectangle. The right and
// bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Union returns the minimal rectangle covering both r and o. An empty
// rectangle acts as the identity.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.X+r.Width, o.X+o.Width)
	y2 := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Center returns the center point of the rectangle (rounded down).
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// DistSq returns the squared Euclidean distance between two points.
func DistSq(a, b Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
