// Package world is the host-side entity store that webview components live in.
//
// A World is not safe for concurrent use. All access happens on the main
// thread; native callbacks and async work reach it through queues drained
// once per tick.
package world

import (
	"reflect"
	"slices"
)

// Entity identifies a host-side object such as a window or a webview.
type Entity uint64

// None is the zero entity. Spawn never returns it.
const None Entity = 0

type anyStore interface {
	remove(e Entity) bool
}

// World owns entities and their typed components.
type World struct {
	next      Entity
	alive     map[Entity]struct{}
	stores    map[reflect.Type]anyStore
	despawned []Entity
	tick      uint64
}

// New returns an empty world.
func New() *World {
	return &World{
		alive:  make(map[Entity]struct{}),
		stores: make(map[reflect.Type]anyStore),
	}
}

// Spawn creates a new entity.
func (w *World) Spawn() Entity {
	w.next++
	w.alive[w.next] = struct{}{}
	return w.next
}

// Alive reports whether e has been spawned and not despawned.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Despawn removes e and all of its components. The entity is reported by
// the next TakeDespawned call.
func (w *World) Despawn(e Entity) bool {
	if !w.Alive(e) {
		return false
	}
	delete(w.alive, e)
	for _, s := range w.stores {
		s.remove(e)
	}
	w.despawned = append(w.despawned, e)
	return true
}

// TakeDespawned returns the entities despawned since the last call.
func (w *World) TakeDespawned() []Entity {
	out := w.despawned
	w.despawned = nil
	return out
}

// Entities returns all live entities in spawn order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, len(w.alive))
	for e := range w.alive {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// ChangeTick returns the current change counter. Every component write
// advances it.
func (w *World) ChangeTick() uint64 {
	return w.tick
}

func (w *World) bump() uint64 {
	w.tick++
	return w.tick
}

type slot[T any] struct {
	value   T
	added   uint64
	changed uint64
}

type store[T any] struct {
	items map[Entity]*slot[T]
}

func (s *store[T]) remove(e Entity) bool {
	if _, ok := s.items[e]; !ok {
		return false
	}
	delete(s.items, e)
	return true
}

func (s *store[T]) sortedKeys() []Entity {
	keys := make([]Entity, 0, len(s.items))
	for e := range s.items {
		keys = append(keys, e)
	}
	slices.Sort(keys)
	return keys
}

func storeFor[T any](w *World) *store[T] {
	key := reflect.TypeFor[T]()
	if s, ok := w.stores[key]; ok {
		return s.(*store[T])
	}
	s := &store[T]{items: make(map[Entity]*slot[T])}
	w.stores[key] = s
	return s
}

// Insert sets component T on e, replacing any existing value. Inserting on
// a dead entity is ignored.
func Insert[T any](w *World, e Entity, v T) {
	if !w.Alive(e) {
		return
	}
	s := storeFor[T](w)
	tick := w.bump()
	if existing, ok := s.items[e]; ok {
		existing.value = v
		existing.changed = tick
		return
	}
	s.items[e] = &slot[T]{value: v, added: tick, changed: tick}
}

// Get returns component T of e.
func Get[T any](w *World, e Entity) (T, bool) {
	s := storeFor[T](w)
	if sl, ok := s.items[e]; ok {
		return sl.value, true
	}
	var zero T
	return zero, false
}

// Has reports whether e carries component T.
func Has[T any](w *World, e Entity) bool {
	_, ok := storeFor[T](w).items[e]
	return ok
}

// Mutate applies fn to component T of e in place and marks it changed.
func Mutate[T any](w *World, e Entity, fn func(*T)) bool {
	sl, ok := storeFor[T](w).items[e]
	if !ok {
		return false
	}
	fn(&sl.value)
	sl.changed = w.bump()
	return true
}

// Remove deletes component T from e.
func Remove[T any](w *World, e Entity) bool {
	return storeFor[T](w).remove(e)
}

// Each calls fn for every entity carrying T, ordered by entity.
func Each[T any](w *World, fn func(Entity, T)) {
	s := storeFor[T](w)
	for _, e := range s.sortedKeys() {
		if sl, ok := s.items[e]; ok {
			fn(e, sl.value)
		}
	}
}

// With returns the entities carrying T, ordered by entity.
func With[T any](w *World) []Entity {
	return storeFor[T](w).sortedKeys()
}

// Tracker remembers when a system last looked at the world, so it can ask
// which components changed since then.
type Tracker struct {
	last uint64
}

// ChangedSince reports whether component T of e was inserted or mutated
// after the tracker's last Mark.
func ChangedSince[T any](w *World, t *Tracker, e Entity) bool {
	sl, ok := storeFor[T](w).items[e]
	return ok && sl.changed > t.last
}

// AddedSince reports whether component T of e was inserted after the
// tracker's last Mark.
func AddedSince[T any](w *World, t *Tracker, e Entity) bool {
	sl, ok := storeFor[T](w).items[e]
	return ok && sl.added > t.last
}

// Changed returns the entities whose T changed since the tracker's last Mark.
func Changed[T any](w *World, t *Tracker) []Entity {
	s := storeFor[T](w)
	var out []Entity
	for _, e := range s.sortedKeys() {
		if s.items[e].changed > t.last {
			out = append(out, e)
		}
	}
	return out
}

// Mark records the current change tick as seen.
func (t *Tracker) Mark(w *World) {
	t.last = w.ChangeTick()
}
