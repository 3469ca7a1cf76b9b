package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y int }
type label string

func TestWorld_SpawnInsertGet(t *testing.T) {
	w := New()
	a := w.Spawn()
	b := w.Spawn()
	require.NotEqual(t, None, a)
	require.NotEqual(t, a, b)

	Insert(w, a, position{1, 2})
	Insert(w, b, label("b"))

	p, ok := Get[position](w, a)
	require.True(t, ok)
	assert.Equal(t, position{1, 2}, p)

	_, ok = Get[position](w, b)
	assert.False(t, ok)
	assert.True(t, Has[label](w, b))
}

func TestWorld_InsertOnDeadEntityIgnored(t *testing.T) {
	w := New()
	e := w.Spawn()
	require.True(t, w.Despawn(e))

	Insert(w, e, position{})
	assert.False(t, Has[position](w, e))
	assert.False(t, w.Despawn(e))
}

func TestWorld_DespawnRemovesComponents(t *testing.T) {
	w := New()
	e := w.Spawn()
	Insert(w, e, position{})
	Insert(w, e, label("x"))

	w.Despawn(e)

	assert.False(t, w.Alive(e))
	assert.False(t, Has[position](w, e))
	assert.False(t, Has[label](w, e))
	assert.Equal(t, []Entity{e}, w.TakeDespawned())
	assert.Empty(t, w.TakeDespawned())
}

func TestWorld_EachOrdered(t *testing.T) {
	w := New()
	var want []Entity
	for i := 0; i < 10; i++ {
		e := w.Spawn()
		Insert(w, e, position{X: i})
		want = append(want, e)
	}

	var got []Entity
	Each(w, func(e Entity, _ position) { got = append(got, e) })
	assert.Equal(t, want, got)
	assert.Equal(t, want, With[position](w))
}

func TestTracker_ChangeDetection(t *testing.T) {
	w := New()
	a := w.Spawn()
	b := w.Spawn()
	Insert(w, a, position{})
	Insert(w, b, position{})

	var tr Tracker
	assert.Equal(t, []Entity{a, b}, Changed[position](w, &tr))
	assert.True(t, AddedSince[position](w, &tr, a))
	tr.Mark(w)

	assert.Empty(t, Changed[position](w, &tr))

	require.True(t, Mutate(w, b, func(p *position) { p.X = 3 }))
	assert.Equal(t, []Entity{b}, Changed[position](w, &tr))
	assert.True(t, ChangedSince[position](w, &tr, b))
	assert.False(t, ChangedSince[position](w, &tr, a))
	assert.False(t, AddedSince[position](w, &tr, b))

	p, _ := Get[position](w, b)
	assert.Equal(t, 3, p.X)
}

func TestMutate_Missing(t *testing.T) {
	w := New()
	e := w.Spawn()
	assert.False(t, Mutate(w, e, func(*position) {}))
	assert.False(t, Remove[position](w, e))
}
