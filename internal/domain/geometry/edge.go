package geometry

// ResizeEdge names the edge or corner of a webview being grabbed for resize.
type ResizeEdge int

const (
	EdgeLeft ResizeEdge = iota + 1
	EdgeTopLeft
	EdgeTop
	EdgeTopRight
	EdgeRight
	EdgeBottomRight
	EdgeBottom
	EdgeBottomLeft
)

// CursorIcon is the system cursor matching a resize edge.
type CursorIcon int

const (
	CursorDefault CursorIcon = iota
	CursorColResize
	CursorRowResize
	CursorNwResize
	CursorNeResize
	CursorSeResize
	CursorSwResize
)

func (e ResizeEdge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeTopLeft:
		return "top-left"
	case EdgeTop:
		return "top"
	case EdgeTopRight:
		return "top-right"
	case EdgeRight:
		return "right"
	case EdgeBottomRight:
		return "bottom-right"
	case EdgeBottom:
		return "bottom"
	case EdgeBottomLeft:
		return "bottom-left"
	default:
		return "none"
	}
}

// CursorIcon returns the resize cursor shown while hovering this edge.
func (e ResizeEdge) CursorIcon() CursorIcon {
	switch e {
	case EdgeLeft, EdgeRight:
		return CursorColResize
	case EdgeTop, EdgeBottom:
		return CursorRowResize
	case EdgeTopLeft:
		return CursorNwResize
	case EdgeTopRight:
		return CursorNeResize
	case EdgeBottomRight:
		return CursorSeResize
	case EdgeBottomLeft:
		return CursorSwResize
	default:
		return CursorDefault
	}
}

// Opposite returns the edge on the other side of the rectangle.
func (e ResizeEdge) Opposite() ResizeEdge {
	switch e {
	case EdgeLeft:
		return EdgeRight
	case EdgeRight:
		return EdgeLeft
	case EdgeTop:
		return EdgeBottom
	case EdgeBottom:
		return EdgeTop
	case EdgeTopLeft:
		return EdgeBottomRight
	case EdgeBottomRight:
		return EdgeTopLeft
	case EdgeTopRight:
		return EdgeBottomLeft
	case EdgeBottomLeft:
		return EdgeTopRight
	default:
		return e
	}
}

func (e ResizeEdge) horizontal() bool {
	switch e {
	case EdgeLeft, EdgeRight, EdgeTopLeft, EdgeTopRight, EdgeBottomLeft, EdgeBottomRight:
		return true
	}
	return false
}

func (e ResizeEdge) vertical() bool {
	switch e {
	case EdgeTop, EdgeBottom, EdgeTopLeft, EdgeTopRight, EdgeBottomLeft, EdgeBottomRight:
		return true
	}
	return false
}

// AffectsX reports whether resizing from e can change the x axis.
func (e ResizeEdge) AffectsX() bool { return e.horizontal() }

// AffectsY reports whether resizing from e can change the y axis.
func (e ResizeEdge) AffectsY() bool { return e.vertical() }
