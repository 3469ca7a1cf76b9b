package entity

import "github.com/bnema/flurx/internal/domain/geometry"

// Window is a host window. The host driver refreshes Size, Position and
// Cursor every tick; the engine writes CursorIcon.
type Window struct {
	Title      string
	Size       geometry.Vec2
	Position   geometry.Vec2
	Cursor     *geometry.Vec2
	CursorIcon geometry.CursorIcon
	Primary    bool
}

// CursorPosition returns the cursor in window coordinates, if it is over
// the window.
func (w Window) CursorPosition() (geometry.Vec2, bool) {
	if w.Cursor == nil {
		return geometry.Vec2{}, false
	}
	return *w.Cursor, true
}

// WindowClosed marks a window the user asked to close. Webviews in or on
// that window are destroyed in the same tick.
type WindowClosed struct{}
