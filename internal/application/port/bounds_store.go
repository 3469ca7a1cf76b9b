package port

import (
	"context"

	"github.com/bnema/flurx/internal/domain/entity"
)

// BoundsStore persists the placement of named embedded webviews.
type BoundsStore interface {
	// Get returns nil, nil when nothing is stored for name.
	Get(ctx context.Context, name string) (*entity.SavedBounds, error)
	Save(ctx context.Context, saved *entity.SavedBounds) error
	Delete(ctx context.Context, name string) error
}
