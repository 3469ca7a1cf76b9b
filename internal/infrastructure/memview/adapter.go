// Package memview is an in-process NativeAdapter that records every call
// instead of driving a real webview. It backs headless runs and tests.
package memview

import (
	"context"
	"sync"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/logging"
)

// Adapter creates recording views.
type Adapter struct {
	mu        sync.Mutex
	views     []*View
	failBuild error
	counter   int
}

// New returns an adapter with no views.
func New() *Adapter {
	return &Adapter{}
}

// FailNextBuild makes the next Build return err.
func (a *Adapter) FailNextBuild(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failBuild = err
}

// Build implements port.NativeAdapter.
func (a *Adapter) Build(
	ctx context.Context,
	parent port.Parent,
	cfg entity.WebviewConfig,
	load port.Loader,
	hooks port.Hooks,
) (port.NativeHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.failBuild; err != nil {
		a.failBuild = nil
		return nil, port.NewAdapterError(port.ErrPlatform, err, "build webview")
	}

	a.counter++
	v := &View{
		id:       a.counter,
		parent:   parent,
		config:   cfg,
		loader:   load,
		hooks:    hooks,
		visible:  cfg.Visible,
		devtools: cfg.DevtoolsEnabled && cfg.DevtoolsInitiallyOpen,
		log:      logging.FromContext(ctx).With().Str("component", "memview").Int("view", a.counter).Logger(),
	}
	if parent.Kind == port.ParentChild {
		v.bounds = parent.Bounds
	}
	a.views = append(a.views, v)

	v.log.Debug().
		Str("url", load.URL).
		Int("html_bytes", len(load.HTML)).
		Int("init_script_bytes", len(load.InitScript)).
		Msg("webview built")

	return v, nil
}

// Views returns every view built so far, in build order.
func (a *Adapter) Views() []*View {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*View, len(a.views))
	copy(out, a.views)
	return out
}

// Last returns the most recently built view, or nil.
func (a *Adapter) Last() *View {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.views) == 0 {
		return nil
	}
	return a.views[len(a.views)-1]
}
