package framebuffer

import "golang.org/x/exp/constraints"

// Rect is a half open rectangle in screen coordinates
type Rect struct {
	X0, Y0, X1, Y1 int16
}

// Point is a screen coordinate
type Point struct {
	X, Y int16
}

// Clip clamps every edge of r into bounds. The result may be inverted,
// in which case it is empty and contains no point.
func (r Rect) Clip(bounds Rect) Rect {
	return Rect{
		X0: clamp(r.X0, bounds.X0, bounds.X1),
		Y0: clamp(r.Y0, bounds.Y0, bounds.Y1),
		X1: clamp(r.X1, bounds.X0, bounds.X1),
		Y1: clamp(r.Y1, bounds.Y0, bounds.Y1),
	}
}

// Contains reports whether (x, y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= int(r.X0) && x < int(r.X1) && y >= int(r.Y0) && y < int(r.Y1)
}

func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v > hi {
		v = hi
	}

	if v < lo {
		v = lo
	}

	return v
}
