// Package registry maps webview entities to their live native handles.
package registry

import (
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/world"
)

// Registry owns native webview handles. Entities hold only their id; there
// is no pointer back from the handle to the entity.
//
// Registry is accessed from the main thread only and does no locking.
type Registry struct {
	views map[world.Entity]port.NativeHandle
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{views: make(map[world.Entity]port.NativeHandle)}
}

// Insert registers handle for id, replacing (not closing) any previous one.
func (r *Registry) Insert(id world.Entity, handle port.NativeHandle) {
	r.views[id] = handle
}

// Get returns the handle registered for id.
func (r *Registry) Get(id world.Entity) (port.NativeHandle, bool) {
	h, ok := r.views[id]
	return h, ok
}

// Remove unregisters id and returns its handle. Closing it is up to the caller.
func (r *Registry) Remove(id world.Entity) (port.NativeHandle, bool) {
	h, ok := r.views[id]
	if ok {
		delete(r.views, id)
	}
	return h, ok
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	return len(r.views)
}

// Range calls fn for each handle until fn returns false. Order is unspecified.
func (r *Registry) Range(fn func(world.Entity, port.NativeHandle) bool) {
	for id, h := range r.views {
		if !fn(id, h) {
			return
		}
	}
}
