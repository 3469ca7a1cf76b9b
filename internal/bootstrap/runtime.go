package bootstrap

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/api"
	"github.com/bnema/flurx/internal/application/embedding"
	"github.com/bnema/flurx/internal/application/emitter"
	"github.com/bnema/flurx/internal/application/fanout"
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/application/registry"
	"github.com/bnema/flurx/internal/application/usecase"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/logging"
)

// RuntimeDeps are the collaborators a Runtime is built from. Adapter is
// required; everything else is optional.
type RuntimeDeps struct {
	Adapter     port.NativeAdapter
	Protocol    usecase.ProtocolHandler
	ProtocolErr error
	Bounds      port.BoundsStore
	IPC         ipc.Config
	// Engine defaults to embedding.DefaultOptions with Bounds.
	Engine *embedding.Options
	API    api.Options
}

// Frame is the host input sampled for one tick of a window.
type Frame struct {
	Window           world.Entity
	Size             geometry.Vec2
	Position         geometry.Vec2
	Cursor           *geometry.Vec2
	LeftPressed      bool
	LeftJustReleased bool
	CloseRequested   bool
}

// Runtime owns the world and runs every stage of a tick in order.
// It is main-thread only.
type Runtime struct {
	World    *world.World
	Registry *registry.Registry
	FanOut   *fanout.FanOut
	Bridge   *ipc.Bridge
	API      *api.API
	Engine   *embedding.Engine
	Emitter  *emitter.EventEmitter

	initializer *usecase.InitializeWebviewUseCase
	logger      zerolog.Logger
	exit        atomic.Bool
}

// NewRuntime wires a runtime. The built-in commands are registered on its
// bridge.
func NewRuntime(ctx context.Context, deps RuntimeDeps) (*Runtime, error) {
	if deps.Adapter == nil {
		return nil, fmt.Errorf("runtime needs a native adapter")
	}
	log := logging.FromContext(ctx)

	r := &Runtime{
		World:    world.New(),
		Registry: registry.New(),
		FanOut:   fanout.New(ctx),
		Bridge:   ipc.NewBridge(ctx, deps.IPC),
		Emitter:  emitter.New(ctx),
		logger:   log.With().Str("component", "runtime").Logger(),
	}

	opts := deps.API
	exit := opts.Exit
	opts.Exit = func() {
		r.exit.Store(true)
		if exit != nil {
			exit()
		}
	}
	var err error
	if r.API, err = api.New(ctx, r.Bridge, opts); err != nil {
		r.Bridge.Close()
		return nil, err
	}

	engineOpts := embedding.DefaultOptions()
	if deps.Engine != nil {
		engineOpts = *deps.Engine
	}
	if engineOpts.Bounds == nil {
		engineOpts.Bounds = deps.Bounds
	}
	r.Engine = embedding.NewEngine(ctx, r.Bridge.Bus(), r.FanOut, engineOpts)

	r.initializer = usecase.NewInitializeWebviewUseCase(usecase.InitializeWebviewDeps{
		Adapter:     deps.Adapter,
		Registry:    r.Registry,
		Bridge:      r.Bridge,
		FanOut:      r.FanOut,
		Protocol:    deps.Protocol,
		ProtocolErr: deps.ProtocolErr,
		Bounds:      deps.Bounds,
	})
	return r, nil
}

// ExitRequested reports whether a page called app::exit.
func (r *Runtime) ExitRequested() bool {
	return r.exit.Load()
}

// SpawnWindow adds a host window and returns it.
func (r *Runtime) SpawnWindow(win entity.Window) world.Entity {
	e := r.World.Spawn()
	world.Insert(r.World, e, win)
	return e
}

// Apply copies a host frame onto its window entity.
func (r *Runtime) Apply(f Frame) {
	world.Mutate(r.World, f.Window, func(w *entity.Window) {
		w.Size = f.Size
		w.Position = f.Position
		w.Cursor = f.Cursor
	})
	if f.CloseRequested && r.World.Alive(f.Window) {
		world.Insert(r.World, f.Window, entity.WindowClosed{})
	}
}

// Tick applies frames and runs one tick. It returns the cursor icon each
// window should show.
func (r *Runtime) Tick(ctx context.Context, frames ...Frame) map[world.Entity]geometry.CursorIcon {
	ptrs := make(embedding.Pointers, len(frames))
	for _, f := range frames {
		r.Apply(f)
		ptrs[f.Window] = embedding.PointerState{LeftPressed: f.LeftPressed, LeftJustReleased: f.LeftJustReleased}
	}

	r.FanOut.Pump(r.World)
	r.Bridge.Process(ctx, r.World)
	r.API.Consume()
	r.initialize(ctx)
	r.Engine.Step(ctx, r.World, r.Registry, ptrs)
	r.Bridge.Resolve(ctx, r.Registry)
	r.Emitter.Flush(ctx, r.World, r.Registry)
	r.sweep(ctx)

	icons := make(map[world.Entity]geometry.CursorIcon)
	world.Each(r.World, func(e world.Entity, w entity.Window) {
		icons[e] = w.CursorIcon
	})
	return icons
}

func (r *Runtime) initialize(ctx context.Context) {
	for _, e := range r.initializer.Pending(r.World) {
		if _, err := r.initializer.Execute(ctx, usecase.InitializeWebviewInput{World: r.World, Entity: e}); err != nil {
			continue
		}
		if err := r.API.AttachClipboard(r.World, e); err != nil {
			r.logger.Warn().Err(err).Uint64("webview", uint64(e)).Msg("clipboard commands not attached")
		}
	}
}

// sweep despawns closed windows with their webviews, then releases native
// and bridge state of everything despawned.
func (r *Runtime) sweep(ctx context.Context) {
	for _, win := range world.With[entity.WindowClosed](r.World) {
		for _, e := range world.With[entity.Embedding](r.World) {
			if emb, _ := world.Get[entity.Embedding](r.World, e); emb.Parent == win {
				r.World.Despawn(e)
			}
		}
		r.World.Despawn(win)
		r.logger.Debug().Uint64("window", uint64(win)).Msg("window closed")
	}

	for _, e := range r.World.TakeDespawned() {
		r.Bridge.CancelWebview(e)
		r.FanOut.Forget(e)
		r.Engine.Forget(e)
		if h, ok := r.Registry.Remove(e); ok {
			if err := h.Close(); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Uint64("webview", uint64(e)).Msg("failed to close webview")
			}
		}
	}
}

// Close destroys every remaining webview and stops async work.
func (r *Runtime) Close() {
	for _, e := range r.World.Entities() {
		r.World.Despawn(e)
	}
	r.sweep(context.Background())
	r.Bridge.Close()
}

// RunHeadless ticks window n times, or until a page exits or ctx is done.
// It returns the number of ticks run.
func (r *Runtime) RunHeadless(ctx context.Context, window world.Entity, n int, interval time.Duration) int {
	win, _ := world.Get[entity.Window](r.World, window)
	ticker := time.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()

	ran := 0
	for ran < n && !r.ExitRequested() {
		select {
		case <-ctx.Done():
			return ran
		case <-ticker.C:
		}
		r.Tick(ctx, Frame{Window: window, Size: win.Size, Position: win.Position})
		ran++
	}
	return ran
}
