package memview

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
)

var errInjected = errors.New("injected failure")

// View is a recording port.NativeHandle.
type View struct {
	mu         sync.Mutex
	id         int
	parent     port.Parent
	config     entity.WebviewConfig
	loader     port.Loader
	hooks      port.Hooks
	bounds     geometry.Bounds
	boundsSets int
	visible    bool
	devtools   bool
	scripts    []string
	reparented []world.Entity
	closed     bool
	failNext   bool
	sink       func(string)
	log        zerolog.Logger
}

func (v *View) check(op string) error {
	if v.closed {
		return port.NewAdapterError(port.ErrNotFound, nil, "%s: view %d is closed", op, v.id)
	}
	if v.failNext {
		v.failNext = false
		return port.NewAdapterError(port.ErrPlatform, errInjected, "%s on view %d", op, v.id)
	}
	return nil
}

func (v *View) SetBounds(_ context.Context, bounds geometry.Bounds) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.check("set bounds"); err != nil {
		return err
	}
	v.bounds = bounds
	v.boundsSets++
	return nil
}

func (v *View) SetVisible(_ context.Context, visible bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.check("set visible"); err != nil {
		return err
	}
	v.visible = visible
	return nil
}

// EvaluateScript records script and forwards it to the sink, if any. The
// sink runs after the lock is released so it may post IPC back.
func (v *View) EvaluateScript(_ context.Context, script string) error {
	v.mu.Lock()
	if err := v.check("evaluate script"); err != nil {
		v.mu.Unlock()
		return err
	}
	v.scripts = append(v.scripts, script)
	sink := v.sink
	v.mu.Unlock()

	v.log.Trace().Str("script", script).Msg("evaluate")
	if sink != nil {
		sink(script)
	}
	return nil
}

func (v *View) OpenDevtools(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.check("open devtools"); err != nil {
		return err
	}
	v.devtools = true
	return nil
}

func (v *View) CloseDevtools(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.check("close devtools"); err != nil {
		return err
	}
	v.devtools = false
	return nil
}

func (v *View) DevtoolsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.devtools
}

func (v *View) Reparent(_ context.Context, window world.Entity) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.check("reparent"); err != nil {
		return err
	}
	v.reparented = append(v.reparented, window)
	return nil
}

func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// FailNext makes the next handle operation return a platform error.
func (v *View) FailNext() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failNext = true
}

// SetScriptSink installs fn to receive every evaluated script.
func (v *View) SetScriptSink(fn func(string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sink = fn
}

// Hooks returns the callbacks the view was built with, so callers can
// simulate native events.
func (v *View) Hooks() port.Hooks {
	return v.hooks
}

// PostIPC simulates the page sending body over the native IPC channel.
func (v *View) PostIPC(body string) {
	if v.hooks.OnIPC != nil {
		v.hooks.OnIPC(body)
	}
}

func (v *View) Parent() port.Parent          { return v.parent }
func (v *View) Config() entity.WebviewConfig { return v.config }
func (v *View) Loader() port.Loader          { return v.loader }

func (v *View) Scripts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.scripts))
	copy(out, v.scripts)
	return out
}

func (v *View) Bounds() geometry.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bounds
}

// BoundsSets counts SetBounds calls.
func (v *View) BoundsSets() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.boundsSets
}

func (v *View) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

func (v *View) Reparented() []world.Entity {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]world.Entity, len(v.reparented))
	copy(out, v.reparented)
	return out
}

func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
