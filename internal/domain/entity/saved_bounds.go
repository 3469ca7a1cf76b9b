package entity

import (
	"time"

	"github.com/bnema/flurx/internal/domain/geometry"
)

// SavedBounds is the last known placement of a named embedded webview.
type SavedBounds struct {
	Name      string
	Bounds    geometry.Bounds
	UpdatedAt time.Time
}

// NewSavedBounds stamps bounds for persistence.
func NewSavedBounds(name string, bounds geometry.Bounds) *SavedBounds {
	return &SavedBounds{
		Name:      name,
		Bounds:    bounds.Normalize(),
		UpdatedAt: time.Now(),
	}
}
