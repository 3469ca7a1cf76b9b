// Package geometry holds the pure bounds model used by embedded webviews:
// rectangles, resize-edge detection, edge-anchored transforms and clamping.
//
// All values are logical pixels with the origin at the parent window's top-left.
package geometry

// Vec2 is a 2D vector of logical pixels.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Splat returns a vector with both components set to v.
func Splat(v float32) Vec2 {
	return Vec2{X: v, Y: v}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(s float32) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Max returns the component-wise maximum.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{X: max(v.X, o.X), Y: max(v.Y, o.Y)} }

// Min returns the component-wise minimum.
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{X: min(v.X, o.X), Y: min(v.Y, o.Y)} }

// Clamp limits each component to [lo, hi]. When lo exceeds hi on an axis,
// lo wins.
func (v Vec2) Clamp(lo, hi Vec2) Vec2 {
	return v.Min(hi).Max(lo)
}
