package skysim

import "fmt"

// Bounds is an inclusive rectangle of pixel indices in the full survey
// image. Pixel (0,0) is the bottom-left corner of the image.
type Bounds struct {
	X0, X1 int
	Y0, Y1 int
}

// NewBounds creates bounds covering [x0,x1] × [y0,y1] inclusive.
func NewBounds(x0, x1, y0, y1 int) Bounds {
	return Bounds{X0: x0, X1: x1, Y0: y0, Y1: y1}
}

// Width returns the number of pixel columns, or 0 if the bounds are empty.
func (b Bounds) Width() int {
	if b.X1 < b.X0 {
		return 0
	}
	return b.X1 - b.X0 + 1
}

// Height returns the number of pixel rows, or 0 if the bounds are empty.
func (b Bounds) Height() int {
	if b.Y1 < b.Y0 {
		return 0
	}
	return b.Y1 - b.Y0 + 1
}

// Area returns the number of pixels covered.
func (b Bounds) Area() int {
	return b.Width() * b.Height()
}

// Empty reports whether the bounds cover no pixels.
func (b Bounds) Empty() bool {
	return b.X1 < b.X0 || b.Y1 < b.Y0
}

// Contains reports whether pixel (x,y) lies inside the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersect returns the overlap of two bounds. The result is Empty if
// the rectangles do not overlap.
func (b Bounds) Intersect(o Bounds) Bounds {
	r := Bounds{
		X0: max(b.X0, o.X0),
		X1: min(b.X1, o.X1),
		Y0: max(b.Y0, o.Y0),
		Y1: min(b.Y1, o.Y1),
	}
	return r
}

// String formats the bounds as [x0:x1,y0:y1].
func (b Bounds) String() string {
	return fmt.Sprintf("[%d:%d,%d:%d]", b.X0, b.X1, b.Y0, b.Y1)
}
