package geometry

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	Min Vec2
	Max Vec2
}

// NewRect builds a rect from two corners in any order.
func NewRect(x0, y0, x1, y1 float32) Rect {
	return Rect{
		Min: Vec2{X: min(x0, x1), Y: min(y0, y1)},
		Max: Vec2{X: max(x0, x1), Y: max(y0, y1)},
	}
}

// RectFromCenterSize builds a rect of the given size centered on center.
func RectFromCenterSize(center, size Vec2) Rect {
	half := size.Scale(0.5)
	return Rect{Min: center.Sub(half), Max: center.Add(half)}
}

func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }

func (r Rect) Center() Vec2 { return r.Min.Add(r.Max).Scale(0.5) }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X <= r.Max.X && p.Y <= r.Max.Y
}

// Inflate grows r by margin on every side.
func (r Rect) Inflate(margin float32) Rect {
	m := Splat(margin)
	return Rect{Min: r.Min.Sub(m), Max: r.Max.Add(m)}
}
