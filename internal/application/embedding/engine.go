package embedding

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/fanout"
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/platform"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/script"
	"github.com/bnema/flurx/internal/logging"
)

// Handles finds native handles by webview.
type Handles interface {
	Get(id world.Entity) (port.NativeHandle, bool)
}

// Options tunes platform behavior. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// InvertY flips cursor y during resize and drag deltas, for hosts whose
	// y axis grows upward.
	InvertY bool
	// DragDeltas takes drag movement from grip::drag page events instead of
	// the host cursor.
	DragDeltas bool
	// Bounds persists placement of named webviews when a drag or resize
	// ends. Optional.
	Bounds port.BoundsStore
}

// DefaultOptions returns the options for the build platform.
func DefaultOptions() Options {
	return Options{InvertY: platform.InvertY, DragDeltas: platform.WebviewDragDeltas}
}

type applied struct {
	bounds   geometry.Bounds
	grip     uint32
	visible  bool
	devtools bool
}

// Engine runs edge-resize, grip-drag and native state propagation once per
// tick. It is main-thread only.
type Engine struct {
	opts   Options
	state  State
	logger zerolog.Logger

	grabs    *fanout.Stream[ipc.IpcEvent[GripGrab]]
	releases *fanout.Stream[ipc.IpcEvent[GripRelease]]
	drags    *fanout.Stream[ipc.IpcEvent[GripDrag]]
	events   *fanout.FanOut

	applied map[world.Entity]*applied
	// raised orders webviews by their last grab; higher is on top.
	raised map[world.Entity]uint64
	seq    uint64
}

// NewEngine registers the grip events on bus. events may be nil; when set,
// a drag entering the dragging webview ends the drag.
func NewEngine(ctx context.Context, bus *ipc.EventBus, events *fanout.FanOut, opts Options) *Engine {
	log := logging.FromContext(ctx)
	return &Engine{
		opts:     opts,
		logger:   log.With().Str("component", "embedding").Logger(),
		grabs:    ipc.RegisterEvent[GripGrab](bus, EventGripGrab),
		releases: ipc.RegisterEvent[GripRelease](bus, EventGripRelease),
		drags:    ipc.RegisterEvent[GripDrag](bus, EventGripDrag),
		events:   events,
		applied:  make(map[world.Entity]*applied),
		raised:   make(map[world.Entity]uint64),
	}
}

// State returns the current interaction.
func (e *Engine) State() State {
	return e.state
}

// Step runs one tick. A window missing from ptrs has its button up.
func (e *Engine) Step(ctx context.Context, w *world.World, handles Handles, ptrs Pointers) {
	e.handleGrip(ctx, w, handles)
	e.drag(w)

	if e.state.Mode != Idle {
		emb, _ := world.Get[entity.Embedding](w, e.state.Webview)
		ptr := ptrs[emb.Parent]
		if ptr.LeftJustReleased || (e.state.Mode == Resizing && !ptr.LeftPressed) {
			e.endInteraction(ctx, w)
		}
	}

	e.resize(w, ptrs)
	e.hover(w, ptrs)
	e.keepInWindows(w)

	e.propagate(ctx, w, handles)
}

func (e *Engine) cursorIn(w *world.World, window world.Entity) (geometry.Vec2, entity.Window, bool) {
	win, ok := world.Get[entity.Window](w, window)
	if !ok {
		return geometry.Vec2{}, win, false
	}
	cur, ok := win.CursorPosition()
	return cur, win, ok
}

func (e *Engine) handleGrip(ctx context.Context, w *world.World, handles Handles) {
	for _, ev := range e.grabs.Read() {
		emb, ok := world.Get[entity.Embedding](w, ev.Webview)
		if !ok || !world.Has[entity.Initialized](w, ev.Webview) {
			continue
		}
		cur, _, ok := e.cursorIn(w, emb.Parent)
		if !ok {
			cur = emb.Bounds.Position.Add(geometry.V(ev.Payload.X, ev.Payload.Y))
		}
		if e.state.Mode == Dragging && e.state.Webview != ev.Webview {
			e.endInteraction(ctx, w)
		}
		e.state = State{Mode: Dragging, Webview: ev.Webview, LastCursor: cur}
		e.logger.Debug().Uint64("webview", uint64(ev.Webview)).Msg("grip grabbed")

		e.seq++
		e.raised[ev.Webview] = e.seq
		if h, ok := handles.Get(ev.Webview); ok {
			if err := h.Reparent(ctx, emb.Parent); err != nil {
				e.logger.Error().Err(err).Uint64("webview", uint64(ev.Webview)).Msg("failed to raise webview")
			}
		}
	}

	if e.state.Mode != Dragging {
		return
	}
	for _, ev := range e.releases.Read() {
		if ev.Webview == e.state.Webview {
			e.endInteraction(ctx, w)
			return
		}
	}
	if e.events != nil {
		for _, ev := range e.events.DragEntered.Read() {
			if ev.Webview == e.state.Webview {
				e.endInteraction(ctx, w)
				return
			}
		}
	}
}

func (e *Engine) drag(w *world.World) {
	if e.state.Mode != Dragging {
		return
	}
	id := e.state.Webview
	emb, ok := world.Get[entity.Embedding](w, id)
	if !ok {
		e.state = State{}
		return
	}
	win, ok := world.Get[entity.Window](w, emb.Parent)
	if !ok {
		return
	}

	var delta geometry.Vec2
	if e.opts.DragDeltas {
		for _, ev := range e.drags.Read() {
			if ev.Webview == id {
				delta = delta.Add(geometry.V(ev.Payload.X, ev.Payload.Y))
			}
		}
	} else {
		cur, ok := win.CursorPosition()
		if !ok {
			return
		}
		delta = cur.Sub(e.state.LastCursor)
		e.state.LastCursor = cur
	}
	if e.opts.InvertY {
		delta.Y = -delta.Y
	}
	if delta == (geometry.Vec2{}) {
		return
	}

	world.Mutate(w, id, func(emb *entity.Embedding) {
		emb.Bounds = emb.Bounds.Move(delta, win.Size, geometry.Vec2{})
	})
}

func (e *Engine) resizeCursor(cur geometry.Vec2, win entity.Window) geometry.Vec2 {
	if e.opts.InvertY {
		cur.Y = win.Size.Y - cur.Y
	}
	return cur
}

// hover tracks the edge under the cursor for every webview whose window
// has its button up.
func (e *Engine) hover(w *world.World, ptrs Pointers) {
	icons := make(map[world.Entity]geometry.CursorIcon)
	for _, id := range world.With[entity.Embedding](w) {
		if e.state.Mode == Dragging && e.state.Webview == id {
			continue
		}
		emb, _ := world.Get[entity.Embedding](w, id)
		if ptrs[emb.Parent].LeftPressed {
			continue
		}
		if !emb.Resizable {
			world.Remove[entity.HoveredEdge](w, id)
			continue
		}
		cur, win, ok := e.cursorIn(w, emb.Parent)
		if !ok {
			world.Remove[entity.HoveredEdge](w, id)
			continue
		}
		if _, seen := icons[emb.Parent]; !seen {
			icons[emb.Parent] = geometry.CursorDefault
		}

		edge, hit := emb.Bounds.HitTest(e.resizeCursor(cur, win), nil)
		if !hit {
			world.Remove[entity.HoveredEdge](w, id)
			continue
		}
		if prev, ok := world.Get[entity.HoveredEdge](w, id); !ok || prev.Edge != edge {
			world.Insert(w, id, entity.HoveredEdge{Edge: edge})
		}
		if icons[emb.Parent] == geometry.CursorDefault {
			icons[emb.Parent] = edge.CursorIcon()
		}
	}

	for window, icon := range icons {
		win, _ := world.Get[entity.Window](w, window)
		if win.CursorIcon != icon {
			world.Mutate(w, window, func(win *entity.Window) { win.CursorIcon = icon })
		}
	}
}

// resize moves the grabbed edge of one webview to the cursor. A press
// picks the topmost hovered webview in the pressed window; later ticks
// keep resizing it until the button is released.
func (e *Engine) resize(w *world.World, ptrs Pointers) {
	id, edge := e.state.Webview, e.state.Edge
	switch e.state.Mode {
	case Dragging:
		return
	case Idle:
		var ok bool
		if id, edge, ok = e.resizeTarget(w, ptrs); !ok {
			return
		}
	}

	emb, ok := world.Get[entity.Embedding](w, id)
	if !ok || !emb.Resizable {
		e.state = State{}
		return
	}
	cur, win, ok := e.cursorIn(w, emb.Parent)
	if !ok {
		return
	}
	cur = e.resizeCursor(cur, win).Clamp(geometry.Vec2{}, win.Size)
	next := emb.Bounds.Transform(edge, cur, 0).Move(geometry.Vec2{}, win.Size, geometry.Vec2{})
	e.state = State{Mode: Resizing, Edge: edge, Webview: id}
	if next != emb.Bounds {
		world.Mutate(w, id, func(emb *entity.Embedding) { emb.Bounds = next })
	}
}

func (e *Engine) resizeTarget(w *world.World, ptrs Pointers) (world.Entity, geometry.ResizeEdge, bool) {
	var (
		best  world.Entity
		edge  geometry.ResizeEdge
		found bool
	)
	for _, id := range world.With[entity.HoveredEdge](w) {
		emb, ok := world.Get[entity.Embedding](w, id)
		if !ok || !emb.Resizable || !ptrs[emb.Parent].LeftPressed {
			continue
		}
		if found && !e.above(id, best) {
			continue
		}
		hovered, _ := world.Get[entity.HoveredEdge](w, id)
		best, edge, found = id, hovered.Edge, true
	}
	return best, edge, found
}

// above reports whether a is drawn over b: the later grab wins, then the
// later spawn.
func (e *Engine) above(a, b world.Entity) bool {
	if ra, rb := e.raised[a], e.raised[b]; ra != rb {
		return ra > rb
	}
	return a > b
}

// keepInWindows clamps every embedded webview into its parent window, so
// a window that shrinks pulls its webviews back in. Windows without a size
// yet are skipped.
func (e *Engine) keepInWindows(w *world.World) {
	for _, id := range world.With[entity.Embedding](w) {
		emb, _ := world.Get[entity.Embedding](w, id)
		win, ok := world.Get[entity.Window](w, emb.Parent)
		if !ok || win.Size == (geometry.Vec2{}) {
			continue
		}
		if next := emb.Bounds.Move(geometry.Vec2{}, win.Size, geometry.Vec2{}); next != emb.Bounds {
			world.Mutate(w, id, func(emb *entity.Embedding) { emb.Bounds = next })
		}
	}
}

func (e *Engine) endInteraction(ctx context.Context, w *world.World) {
	if e.state.Mode == Idle {
		return
	}
	id := e.state.Webview
	e.logger.Debug().Stringer("state", e.state).Msg("interaction ended")
	e.state = State{}
	e.persist(ctx, w, id)
}

func (e *Engine) persist(ctx context.Context, w *world.World, id world.Entity) {
	if e.opts.Bounds == nil || world.Has[entity.GeneratedIdentifier](w, id) {
		return
	}
	name, ok := world.Get[entity.Identifier](w, id)
	if !ok || name == "" {
		return
	}
	emb, ok := world.Get[entity.Embedding](w, id)
	if !ok {
		return
	}
	if err := e.opts.Bounds.Save(ctx, entity.NewSavedBounds(string(name), emb.Bounds)); err != nil {
		e.logger.Warn().Err(err).Str("identifier", string(name)).Msg("failed to save bounds")
	}
}

// propagate pushes changed bounds, grip height, visibility and devtools
// state to the native views.
func (e *Engine) propagate(ctx context.Context, w *world.World, handles Handles) {
	for _, id := range world.With[entity.Initialized](w) {
		h, ok := handles.Get(id)
		if !ok {
			continue
		}
		cfg, _ := world.Get[entity.WebviewConfig](w, id)
		log := e.logger.With().Uint64("webview", uint64(id)).Logger()

		prev, seen := e.applied[id]
		if !seen {
			prev = &applied{visible: cfg.Visible}
			e.applied[id] = prev
		}

		if emb, ok := world.Get[entity.Embedding](w, id); ok {
			if !seen || emb.Bounds != prev.bounds {
				if err := h.SetBounds(ctx, emb.Bounds); err != nil {
					log.Error().Err(err).Msg("failed to set bounds")
				}
				prev.bounds = emb.Bounds
			}
			if emb.GripZoneHeight != prev.grip {
				if err := h.EvaluateScript(ctx, script.GripZoneHeight(emb.GripZoneHeight)); err != nil {
					log.Error().Err(err).Msg("failed to set grip zone height")
				}
				prev.grip = emb.GripZoneHeight
			}
		}

		if visible, ok := world.Get[entity.Visible](w, id); ok && bool(visible) != prev.visible {
			if err := h.SetVisible(ctx, bool(visible)); err != nil {
				log.Error().Err(err).Msg("failed to set visibility")
			}
			prev.visible = bool(visible)
		}

		e.syncDevtools(ctx, w, id, h, cfg, prev, seen, log)
	}
}

func (e *Engine) syncDevtools(
	ctx context.Context,
	w *world.World,
	id world.Entity,
	h port.NativeHandle,
	cfg entity.WebviewConfig,
	prev *applied,
	seen bool,
	log zerolog.Logger,
) {
	want, ok := world.Get[entity.Devtools](w, id)
	if !ok {
		return
	}

	if !cfg.DevtoolsEnabled {
		if want.Open {
			world.Insert(w, id, entity.Devtools{Open: false})
		}
		if h.DevtoolsOpen() {
			if err := h.CloseDevtools(ctx); err != nil {
				log.Error().Err(err).Msg("failed to close devtools")
			}
		}
		prev.devtools = false
		return
	}

	if !seen || want.Open != prev.devtools {
		if want.Open != h.DevtoolsOpen() {
			var err error
			if want.Open {
				err = h.OpenDevtools(ctx)
			} else {
				err = h.CloseDevtools(ctx)
			}
			if err != nil {
				log.Error().Err(err).Bool("open", want.Open).Msg("failed to toggle devtools")
			}
		}
		prev.devtools = want.Open
		return
	}

	if open := h.DevtoolsOpen(); open != want.Open {
		world.Insert(w, id, entity.Devtools{Open: open})
		prev.devtools = open
	}
}

// Forget drops state for a destroyed webview.
func (e *Engine) Forget(id world.Entity) {
	delete(e.applied, id)
	delete(e.raised, id)
	if e.state.Webview == id {
		e.state = State{}
	}
}
