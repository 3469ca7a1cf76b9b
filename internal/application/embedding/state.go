// Package embedding moves and resizes embedded webviews from host pointer
// input and keeps their native views in sync with the world.
package embedding

import (
	"fmt"

	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
)

// Mode is the interaction currently in progress.
type Mode int

const (
	Idle Mode = iota
	Resizing
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Resizing:
		return "resizing"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// State is the process-wide interaction state. At most one webview drags
// at a time.
type State struct {
	Mode       Mode
	Edge       geometry.ResizeEdge
	Webview    world.Entity
	LastCursor geometry.Vec2
}

func (s State) String() string {
	switch s.Mode {
	case Resizing:
		return fmt.Sprintf("resizing(%s, %d)", s.Edge, s.Webview)
	case Dragging:
		return fmt.Sprintf("dragging(%d)", s.Webview)
	default:
		return "idle"
	}
}

// PointerState is the left mouse button of one window as seen by the host
// this tick. Cursor positions are read from the window itself.
type PointerState struct {
	LeftPressed      bool
	LeftJustReleased bool
}

// Pointers holds the button state of each host window.
type Pointers map[world.Entity]PointerState

// Grip event payloads posted by the grip-zone script.
type (
	GripGrab struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
	}
	GripRelease struct{}
	GripDrag    struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
	}
)

// Grip event ids.
const (
	EventGripGrab    = "FLURX|grip::grab"
	EventGripRelease = "FLURX|grip::release"
	EventGripDrag    = "FLURX|grip::drag"
)
