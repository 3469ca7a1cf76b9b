package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/logging"
)

const (
	selectBounds = `SELECT name, x, y, width, height, min_width, min_height, updated_at
FROM webview_bounds WHERE name = ?`

	upsertBounds = `INSERT INTO webview_bounds (name, x, y, width, height, min_width, min_height, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    x = excluded.x,
    y = excluded.y,
    width = excluded.width,
    height = excluded.height,
    min_width = excluded.min_width,
    min_height = excluded.min_height,
    updated_at = excluded.updated_at`

	deleteBounds = `DELETE FROM webview_bounds WHERE name = ?`

	listBounds = `SELECT name, x, y, width, height, min_width, min_height, updated_at
FROM webview_bounds ORDER BY name`
)

// dbFunc yields the connection for one call.
type dbFunc func(ctx context.Context) (*sql.DB, error)

// BoundsRepository implements port.BoundsStore.
type BoundsRepository struct {
	db dbFunc
}

// NewBoundsStore creates a SQLite-backed bounds store.
func NewBoundsStore(db *sql.DB) *BoundsRepository {
	return &BoundsRepository{db: func(context.Context) (*sql.DB, error) { return db, nil }}
}

// NewLazyBoundsStore creates a bounds store that opens lazy on first use.
func NewLazyBoundsStore(lazy *LazyDB) *BoundsRepository {
	return &BoundsRepository{db: lazy.DB}
}

var _ port.BoundsStore = (*BoundsRepository)(nil)

func (r *BoundsRepository) Get(ctx context.Context, name string) (*entity.SavedBounds, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("name", name).Msg("getting saved bounds")

	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := scanBounds(db.QueryRowContext(ctx, selectBounds, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bounds %q: %w", name, err)
	}
	return saved, nil
}

func (r *BoundsRepository) Save(ctx context.Context, saved *entity.SavedBounds) error {
	if saved == nil || saved.Name == "" {
		return errors.New("saved bounds need a name")
	}
	log := logging.FromContext(ctx)
	log.Debug().
		Str("name", saved.Name).
		Float32("x", saved.Bounds.Position.X).
		Float32("y", saved.Bounds.Position.Y).
		Float32("width", saved.Bounds.Size.X).
		Float32("height", saved.Bounds.Size.Y).
		Msg("saving bounds")

	db, err := r.db(ctx)
	if err != nil {
		return err
	}

	updated := saved.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	b := saved.Bounds
	_, err = db.ExecContext(ctx, upsertBounds,
		saved.Name,
		b.Position.X, b.Position.Y,
		b.Size.X, b.Size.Y,
		b.MinSize.X, b.MinSize.Y,
		updated.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save bounds %q: %w", saved.Name, err)
	}
	return nil
}

func (r *BoundsRepository) Delete(ctx context.Context, name string) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, deleteBounds, name); err != nil {
		return fmt.Errorf("delete bounds %q: %w", name, err)
	}
	return nil
}

// List returns every stored placement, ordered by name.
func (r *BoundsRepository) List(ctx context.Context) ([]*entity.SavedBounds, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, listBounds)
	if err != nil {
		return nil, fmt.Errorf("list bounds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.SavedBounds
	for rows.Next() {
		saved, err := scanBounds(rows)
		if err != nil {
			return nil, fmt.Errorf("list bounds: %w", err)
		}
		out = append(out, saved)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBounds(row scanner) (*entity.SavedBounds, error) {
	var (
		name                            string
		x, y, width, height, minW, minH float64
		updated                         int64
	)
	if err := row.Scan(&name, &x, &y, &width, &height, &minW, &minH, &updated); err != nil {
		return nil, err
	}
	return &entity.SavedBounds{
		Name: name,
		Bounds: geometry.Bounds{
			Position: geometry.Vec2{X: float32(x), Y: float32(y)},
			Size:     geometry.Vec2{X: float32(width), Y: float32(height)},
			MinSize:  geometry.Vec2{X: float32(minW), Y: float32(minH)},
		},
		UpdatedAt: time.UnixMilli(updated),
	}, nil
}
