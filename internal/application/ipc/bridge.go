package ipc

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/script"
	"github.com/bnema/flurx/internal/logging"
)

// DefaultMaxAsync bounds concurrently running async handlers.
const DefaultMaxAsync = 64

// Config tunes a Bridge.
type Config struct {
	// MaxAsync bounds concurrently running async handlers. Values below 1
	// use DefaultMaxAsync.
	MaxAsync int64
	// WarnUnknownOnce logs an unknown command once per webview and id
	// instead of on every call.
	WarnUnknownOnce bool
}

// DefaultConfig returns the bridge defaults.
func DefaultConfig() Config {
	return Config{MaxAsync: DefaultMaxAsync, WarnUnknownOnce: true}
}

// PendingCall identifies a command awaiting its answer.
type PendingCall struct {
	ResolveID uint64
	Webview   world.Entity
}

// Resolution is an answer ready to be delivered to a page.
type Resolution struct {
	Webview   world.Entity
	ResolveID uint64
	Output    string
}

// HandleLookup finds native handles by webview. *registry.Registry
// satisfies it.
type HandleLookup interface {
	Get(id world.Entity) (port.NativeHandle, bool)
}

type inbound struct {
	webview world.Entity
	raw     string
}

type completion struct {
	call   PendingCall
	scope  *scope
	output string
}

type mainFn struct {
	ctx context.Context
	fn  func(*world.World)
}

type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

type unknownKey struct {
	webview world.Entity
	id      string
}

// Bridge ingests page messages on any goroutine and dispatches them on the
// main thread.
type Bridge struct {
	cfg    Config
	global *CommandTable
	bus    *EventBus
	sem    *semaphore.Weighted
	base   context.Context
	logger zerolog.Logger

	mu          sync.Mutex
	inbox       []inbound
	completions []completion
	mainQueue   []mainFn
	scopes      map[world.Entity]*scope
	inFlight    map[PendingCall]struct{}

	// main-thread only
	resolutions []Resolution
	warned      map[unknownKey]struct{}

	wg sync.WaitGroup
}

// NewBridge creates a bridge. ctx is the parent of every async handler
// context.
func NewBridge(ctx context.Context, cfg Config) *Bridge {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.MaxAsync < 1 {
		cfg.MaxAsync = DefaultMaxAsync
	}

	log := logging.FromContext(ctx)
	return &Bridge{
		cfg:      cfg,
		global:   &CommandTable{handlers: make(map[string]Handler)},
		bus:      NewEventBus(),
		sem:      semaphore.NewWeighted(cfg.MaxAsync),
		base:     ctx,
		logger:   log.With().Str("component", "ipc-bridge").Logger(),
		scopes:   make(map[world.Entity]*scope),
		inFlight: make(map[PendingCall]struct{}),
		warned:   make(map[unknownKey]struct{}),
	}
}

// Register adds handlers to the global command table.
func (b *Bridge) Register(handlers ...Handler) error {
	return b.global.Add(handlers...)
}

// Commands returns the global command table.
func (b *Bridge) Commands() *CommandTable {
	return b.global
}

// Bus returns the event bus page events are decoded into.
func (b *Bridge) Bus() *EventBus {
	return b.bus
}

// Enqueue records a raw message posted by webview. Safe for concurrent use.
func (b *Bridge) Enqueue(webview world.Entity, raw string) {
	b.mu.Lock()
	b.inbox = append(b.inbox, inbound{webview: webview, raw: raw})
	b.mu.Unlock()
}

// Process drains scheduled main-thread work, async completions and the
// inbox, in that order. Event streams are reset first, so they hold only
// this tick's events afterwards.
func (b *Bridge) Process(ctx context.Context, w *world.World) {
	b.bus.resetAll()

	b.mu.Lock()
	fns := b.mainQueue
	done := b.completions
	inbox := b.inbox
	b.mainQueue, b.completions, b.inbox = nil, nil, nil
	b.mu.Unlock()

	for _, m := range fns {
		if m.ctx.Err() != nil {
			continue
		}
		m.fn(w)
	}

	for _, c := range done {
		if c.scope.ctx.Err() != nil {
			continue
		}
		b.resolutions = append(b.resolutions, Resolution{
			Webview:   c.call.Webview,
			ResolveID: c.call.ResolveID,
			Output:    c.output,
		})
	}

	for _, in := range inbox {
		b.dispatch(w, in)
	}
}

func (b *Bridge) dispatch(w *world.World, in inbound) {
	msg, err := ParseMessage(in.raw)
	if err != nil {
		b.logger.Warn().Err(err).Uint64("webview", uint64(in.webview)).Msg("dropping ipc message")
		return
	}
	if !w.Alive(in.webview) {
		b.logger.Debug().Uint64("webview", uint64(in.webview)).Msg("dropping message from despawned webview")
		return
	}

	switch msg.Kind {
	case KindCommand:
		b.dispatchCommand(w, in.webview, msg.Command)
	case KindEvent:
		known, err := b.bus.publish(in.webview, msg.Event)
		if !known {
			b.logger.Warn().Str("event_id", msg.Event.EventID).Uint64("webview", uint64(in.webview)).Msg("unknown ipc event")
			return
		}
		if err != nil {
			b.logger.Warn().Err(err).Str("event_id", msg.Event.EventID).Msg("dropping ipc event")
		}
	}
}

func (b *Bridge) lookup(w *world.World, webview world.Entity, id string) (Handler, bool) {
	if local, ok := world.Get[LocalCommands](w, webview); ok {
		if h, ok := local.Table.Lookup(id); ok {
			return h, true
		}
	}
	return b.global.Lookup(id)
}

func (b *Bridge) dispatchCommand(w *world.World, webview world.Entity, cmd *Command) {
	h, ok := b.lookup(w, webview, cmd.ID)
	if !ok {
		b.warnUnknown(webview, cmd.ID)
		return
	}

	call := Call{Webview: webview, Args: cmd.Args, ResolveID: cmd.ResolveID}
	if h.kind == HandlerSync {
		out, err := runSync(h, call)
		if err != nil {
			b.logger.Debug().Err(err).Str("command", cmd.ID).Msg("command failed")
		}
		b.resolutions = append(b.resolutions, Resolution{
			Webview:   webview,
			ResolveID: cmd.ResolveID,
			Output:    encodeOutput(out, err),
		})
		return
	}

	b.spawn(h, call)
}

func (b *Bridge) warnUnknown(webview world.Entity, id string) {
	if b.cfg.WarnUnknownOnce {
		key := unknownKey{webview: webview, id: id}
		if _, seen := b.warned[key]; seen {
			return
		}
		b.warned[key] = struct{}{}
	}
	b.logger.Warn().Str("command", id).Uint64("webview", uint64(webview)).Msg("unknown ipc command")
}

func (b *Bridge) scopeFor(webview world.Entity) *scope {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.scopes[webview]; ok {
		return s
	}
	ctx, cancel := context.WithCancel(logging.WithWebview(b.base, uint64(webview)))
	s := &scope{ctx: ctx, cancel: cancel}
	b.scopes[webview] = s
	return s
}

func (b *Bridge) spawn(h Handler, call Call) {
	s := b.scopeFor(call.Webview)
	pending := PendingCall{ResolveID: call.ResolveID, Webview: call.Webview}
	task := Task{webview: call.Webview, ctx: s.ctx, bridge: b}

	b.mu.Lock()
	b.inFlight[pending] = struct{}{}
	b.mu.Unlock()

	log := b.logger.With().Str("command", h.id).Uint64("webview", uint64(call.Webview)).Logger()
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			b.mu.Lock()
			delete(b.inFlight, pending)
			b.mu.Unlock()
		}()

		if err := b.sem.Acquire(s.ctx, 1); err != nil {
			log.Debug().Err(err).Msg("async command cancelled before start")
			return
		}
		defer b.sem.Release(1)

		out, err := runAsync(s.ctx, h, call, task)
		if s.ctx.Err() != nil {
			log.Debug().Msg("dropping late async completion")
			return
		}
		if err != nil {
			log.Debug().Err(err).Msg("async command failed")
		}

		b.mu.Lock()
		b.completions = append(b.completions, completion{call: pending, scope: s, output: encodeOutput(out, err)})
		b.mu.Unlock()
	}()
}

// runAsync contains handler panics so one bad command cannot take the
// process down.
func runAsync(ctx context.Context, h Handler, call Call, task Task) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %s panicked: %v", h.id, r)
		}
	}()
	return h.async(ctx, call, task)
}

func runSync(h Handler, call Call) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %s panicked: %v", h.id, r)
		}
	}()
	return h.sync(call)
}

func (b *Bridge) scheduleMain(ctx context.Context, fn func(*world.World)) {
	b.mu.Lock()
	b.mainQueue = append(b.mainQueue, mainFn{ctx: ctx, fn: fn})
	b.mu.Unlock()
}

// Resolve delivers every ready answer to its page. Answers for webviews
// without a handle are dropped.
func (b *Bridge) Resolve(ctx context.Context, handles HandleLookup) {
	pending := b.resolutions
	b.resolutions = nil

	for _, r := range pending {
		h, ok := handles.Get(r.Webview)
		if !ok {
			continue
		}
		if err := h.EvaluateScript(ctx, script.ResolveIpc(r.ResolveID, r.Output)); err != nil {
			b.logger.Error().Err(err).Uint64("webview", uint64(r.Webview)).Uint64("resolve_id", r.ResolveID).Msg("failed to resolve ipc")
		}
	}
}

// PendingResolutions returns the number of answers waiting for Resolve.
func (b *Bridge) PendingResolutions() int {
	return len(b.resolutions)
}

// InFlight returns the async calls that have not completed.
func (b *Bridge) InFlight() []PendingCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PendingCall, 0, len(b.inFlight))
	for c := range b.inFlight {
		out = append(out, c)
	}
	return out
}

// CancelWebview cancels the webview's async work and forgets its state.
// Completions that arrive afterwards are dropped.
func (b *Bridge) CancelWebview(webview world.Entity) {
	b.mu.Lock()
	s, ok := b.scopes[webview]
	delete(b.scopes, webview)
	b.mu.Unlock()
	if ok {
		s.cancel()
	}

	kept := b.resolutions[:0]
	for _, r := range b.resolutions {
		if r.Webview != webview {
			kept = append(kept, r)
		}
	}
	b.resolutions = kept

	for key := range b.warned {
		if key.webview == webview {
			delete(b.warned, key)
		}
	}
}

// Wait blocks until every async handler goroutine has returned.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

// Close cancels all async work and waits for it.
func (b *Bridge) Close() {
	b.mu.Lock()
	scopes := b.scopes
	b.scopes = make(map[world.Entity]*scope)
	b.mu.Unlock()
	for _, s := range scopes {
		s.cancel()
	}
	b.wg.Wait()
}
