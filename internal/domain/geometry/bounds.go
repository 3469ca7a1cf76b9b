package geometry

const (
	// ResizeMargin is how far outside the webview rectangle a resize grab
	// is still recognized.
	ResizeMargin float32 = 5
	innerShrink  float32 = 0.01
)

// Bounds is the display area of an embedded webview inside its parent window.
type Bounds struct {
	Position Vec2 `json:"position"`
	Size     Vec2 `json:"size"`
	MinSize  Vec2 `json:"min_size"`
}

// Rect returns the rectangle covered by b.
func (b Bounds) Rect() Rect {
	return Rect{Min: b.Position, Max: b.Position.Add(b.Size)}
}

// Normalize clamps Size to max(MinSize, 0).
func (b Bounds) Normalize() Bounds {
	b.Size = b.Size.Max(b.MinSize.Max(Vec2{}))
	return b
}

// HitTest returns the resize edge under cursor, if any. toolbarHeight extends
// the grab area upward for webviews drawn below a toolbar; nil means none.
//
// The cursor strictly inside the webview, or further than ResizeMargin away
// from it, hits nothing. Corners are preferred over edges.
func (b Bounds) HitTest(cursor Vec2, toolbarHeight *float32) (ResizeEdge, bool) {
	var toolbar float32
	if toolbarHeight != nil {
		toolbar = *toolbarHeight
	}
	tool := Vec2{Y: toolbar}
	o := b.Position.Sub(tool)
	s := b.Size.Add(tool)
	outer := Rect{Min: o, Max: o.Add(s)}

	inner := RectFromCenterSize(outer.Center(), outer.Size().Sub(Splat(innerShrink)).Max(b.MinSize))
	if inner.Contains(cursor) {
		return 0, false
	}
	if !RectFromCenterSize(outer.Center(), outer.Size().Add(Splat(2*ResizeMargin))).Contains(cursor) {
		return 0, false
	}

	switch {
	case cursor.X <= outer.Min.X:
		switch {
		case cursor.Y <= outer.Min.Y:
			return EdgeTopLeft, true
		case outer.Max.Y <= cursor.Y:
			return EdgeBottomLeft, true
		default:
			return EdgeLeft, true
		}
	case outer.Max.X <= cursor.X:
		switch {
		case cursor.Y <= outer.Min.Y:
			return EdgeTopRight, true
		case outer.Max.Y <= cursor.Y:
			return EdgeBottomRight, true
		default:
			return EdgeRight, true
		}
	case cursor.Y <= outer.Min.Y:
		return EdgeTop, true
	default:
		return EdgeBottom, true
	}
}

// Transform resizes b by dragging edge to cursor. The opposite edge stays
// anchored and every axis is clamped to MinSize.
func (b Bounds) Transform(edge ResizeEdge, cursor Vec2, toolbarHeight float32) Bounds {
	minSize := b.MinSize.Max(Vec2{})
	switch edge {
	case EdgeLeft:
		right := b.Position.X + b.Size.X
		b.Size.X = max(minSize.X, right-cursor.X)
		b.Position.X = right - b.Size.X
	case EdgeRight:
		b.Size.X = max(minSize.X, cursor.X-b.Position.X)
	case EdgeTop:
		bottom := b.Position.Y + b.Size.Y
		b.Size.Y = max(minSize.Y, bottom-cursor.Y-toolbarHeight)
		b.Position.Y = bottom - b.Size.Y
	case EdgeBottom:
		b.Size.Y = max(minSize.Y, cursor.Y-b.Position.Y)
	case EdgeTopLeft:
		b = b.Transform(EdgeTop, cursor, toolbarHeight).Transform(EdgeLeft, cursor, toolbarHeight)
	case EdgeBottomLeft:
		b = b.Transform(EdgeBottom, cursor, toolbarHeight).Transform(EdgeLeft, cursor, toolbarHeight)
	case EdgeTopRight:
		b = b.Transform(EdgeTop, cursor, toolbarHeight).Transform(EdgeRight, cursor, toolbarHeight)
	case EdgeBottomRight:
		b = b.Transform(EdgeBottom, cursor, toolbarHeight).Transform(EdgeRight, cursor, toolbarHeight)
	}
	return b
}

// Move translates b by delta and keeps it within a window of windowSize.
// The position never drops below minPosition, which is how a toolbar band
// at the top of the window stays uncovered.
func (b Bounds) Move(delta, windowSize, minPosition Vec2) Bounds {
	maxPos := windowSize.Sub(b.Size).Max(Vec2{})
	b.Position = b.Position.Add(delta).Min(maxPos).Max(minPosition)
	return b
}
