package entity

import (
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
)

// Embedding places a webview inside a parent window instead of letting it
// fill its host window.
type Embedding struct {
	Parent         world.Entity
	Bounds         geometry.Bounds
	Resizable      bool
	GripZoneHeight uint32
}

// NewEmbedding returns a resizable embedding with no grip zone.
func NewEmbedding(parent world.Entity, bounds geometry.Bounds) Embedding {
	return Embedding{Parent: parent, Bounds: bounds, Resizable: true}
}

// HoveredEdge remembers the resize edge under the cursor while the mouse
// button is up.
type HoveredEdge struct {
	Edge geometry.ResizeEdge
}
