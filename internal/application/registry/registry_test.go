package registry

import (
	"context"
	"testing"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/memview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, a *memview.Adapter) port.NativeHandle {
	t.Helper()
	h, err := a.Build(context.Background(), port.WindowParent(1), entity.DefaultWebviewConfig(), port.Loader{}, port.Hooks{})
	require.NoError(t, err)
	return h
}

func TestRegistry_InsertGetRemove(t *testing.T) {
	a := memview.New()
	r := New()
	h := build(t, a)

	r.Insert(world.Entity(4), h)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(4)
	require.True(t, ok)
	assert.Same(t, h, got)

	_, ok = r.Get(5)
	assert.False(t, ok)

	removed, ok := r.Remove(4)
	require.True(t, ok)
	assert.Same(t, h, removed)
	assert.Equal(t, 0, r.Len())

	_, ok = r.Remove(4)
	assert.False(t, ok)
}

func TestRegistry_RemoveDoesNotClose(t *testing.T) {
	a := memview.New()
	r := New()
	h := build(t, a)
	r.Insert(1, h)

	r.Remove(1)

	assert.False(t, h.(*memview.View).Closed())
}

func TestRegistry_RangeStops(t *testing.T) {
	a := memview.New()
	r := New()
	for i := 1; i <= 3; i++ {
		r.Insert(world.Entity(i), build(t, a))
	}

	seen := 0
	r.Range(func(world.Entity, port.NativeHandle) bool {
		seen++
		return false
	})
	assert.Equal(t, 1, seen)

	seen = 0
	r.Range(func(world.Entity, port.NativeHandle) bool {
		seen++
		return true
	})
	assert.Equal(t, 3, seen)
}
