package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/flurx/internal/application/fanout"
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/application/registry"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/script"
	"github.com/bnema/flurx/internal/logging"
)

const (
	// DefaultURL is loaded when a webview has no source.
	DefaultURL = "flurx://localhost/"

	identifierLength   = 32
	identifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	localScheme        = "flurx://"
)

var (
	// ErrParentWindowNotFound is returned for an embedding whose parent
	// entity is not a window.
	ErrParentWindowNotFound = errors.New("parent window not found")
	// ErrNoHostWindow is returned for a full-window webview that is not on
	// a window entity.
	ErrNoHostWindow = errors.New("webview has no host window")
	// ErrNoWebviewConfig is returned for an entity without a WebviewConfig.
	ErrNoWebviewConfig = errors.New("entity has no webview config")
)

// ProtocolHandler serves flurx://localhost requests for one webview.
type ProtocolHandler interface {
	Hook(csp string) func(port.SchemeRequest) port.SchemeResponse
}

// InitializeWebviewDeps wires the pipeline.
type InitializeWebviewDeps struct {
	Adapter  port.NativeAdapter
	Registry *registry.Registry
	Bridge   *ipc.Bridge
	FanOut   *fanout.FanOut
	// Protocol serves the local root. When nil, ProtocolErr explains why
	// and webviews loading flurx:// URLs fail to initialize.
	Protocol    ProtocolHandler
	ProtocolErr error
	// Bounds restores saved placement of named embedded webviews. Optional.
	Bounds port.BoundsStore
}

// InitializeWebviewInput selects the entity to initialize.
type InitializeWebviewInput struct {
	World  *world.World
	Entity world.Entity
}

// InitializeWebviewOutput describes the built webview.
type InitializeWebviewOutput struct {
	Identifier string
	Handle     port.NativeHandle
	Parent     port.Parent
	Loader     port.Loader
	// RestoredBounds is set when a saved placement replaced the configured
	// embedding bounds.
	RestoredBounds *geometry.Bounds
}

// InitializeWebviewUseCase builds the native webview for an entity carrying
// a WebviewConfig and registers it.
type InitializeWebviewUseCase struct {
	deps InitializeWebviewDeps
}

// NewInitializeWebviewUseCase creates the pipeline.
func NewInitializeWebviewUseCase(deps InitializeWebviewDeps) *InitializeWebviewUseCase {
	return &InitializeWebviewUseCase{deps: deps}
}

// Pending returns the webview entities that still need initialization.
func (uc *InitializeWebviewUseCase) Pending(w *world.World) []world.Entity {
	var out []world.Entity
	for _, e := range world.With[entity.WebviewConfig](w) {
		if world.Has[entity.Initialized](w, e) || world.Has[entity.InitFailed](w, e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Execute initializes one webview. On failure the entity is marked
// InitFailed so it is not retried.
func (uc *InitializeWebviewUseCase) Execute(ctx context.Context, input InitializeWebviewInput) (*InitializeWebviewOutput, error) {
	w, e := input.World, input.Entity
	log := logging.FromContext(ctx).With().
		Str("component", "initialize-webview").
		Uint64("webview", uint64(e)).
		Logger()

	out, err := uc.build(ctx, w, e)
	if err != nil {
		log.Error().Err(err).Msg("webview initialization failed")
		world.Insert(w, e, entity.InitFailed{Err: err})
		return nil, err
	}

	log.Info().
		Str("identifier", out.Identifier).
		Str("url", out.Loader.URL).
		Bool("embedded", out.Parent.Kind == port.ParentChild).
		Msg("webview initialized")
	return out, nil
}

func (uc *InitializeWebviewUseCase) build(ctx context.Context, w *world.World, e world.Entity) (*InitializeWebviewOutput, error) {
	cfg, ok := world.Get[entity.WebviewConfig](w, e)
	if !ok {
		return nil, ErrNoWebviewConfig
	}

	id, generated, err := uc.identifier(w, e)
	if err != nil {
		return nil, err
	}
	out := &InitializeWebviewOutput{Identifier: id}

	out.Parent, out.RestoredBounds, err = uc.parent(ctx, w, e)
	if err != nil {
		return nil, err
	}

	out.Loader = port.Loader{InitScript: script.Compose(id, cfg.InitializationScripts)}
	switch cfg.Source.Kind {
	case entity.SourceURI:
		out.Loader.URL = cfg.Source.Value
	case entity.SourceHTML:
		out.Loader.HTML = cfg.Source.Value
	default:
		out.Loader.URL = DefaultURL
	}

	if uc.deps.Protocol == nil && strings.HasPrefix(out.Loader.URL, localScheme) {
		if uc.deps.ProtocolErr != nil {
			return nil, fmt.Errorf("load %s: %w", out.Loader.URL, uc.deps.ProtocolErr)
		}
		return nil, fmt.Errorf("load %s: no local protocol handler", out.Loader.URL)
	}

	hooks := port.Hooks{}
	if uc.deps.FanOut != nil {
		hooks = uc.deps.FanOut.Hooks(w, e)
	}
	if uc.deps.Bridge != nil {
		bridge := uc.deps.Bridge
		hooks.OnIPC = func(body string) { bridge.Enqueue(e, body) }
	}
	if uc.deps.Protocol != nil {
		hooks.OnCustomProtocol = uc.deps.Protocol.Hook(cfg.ContentSecurityPolicy)
	}

	handle, err := uc.deps.Adapter.Build(ctx, out.Parent, cfg, out.Loader, hooks)
	if err != nil {
		if uc.deps.FanOut != nil {
			uc.deps.FanOut.Forget(e)
		}
		return nil, fmt.Errorf("build webview: %w", err)
	}
	out.Handle = handle

	uc.deps.Registry.Insert(e, handle)
	world.Insert(w, e, entity.Identifier(id))
	if generated {
		world.Insert(w, e, entity.GeneratedIdentifier{})
	}
	if !world.Has[entity.Visible](w, e) {
		world.Insert(w, e, entity.Visible(cfg.Visible))
	}
	if !world.Has[entity.Devtools](w, e) {
		world.Insert(w, e, entity.Devtools{Open: cfg.DevtoolsEnabled && cfg.DevtoolsInitiallyOpen})
	}
	world.Insert(w, e, entity.Initialized{})
	return out, nil
}

func (uc *InitializeWebviewUseCase) identifier(w *world.World, e world.Entity) (id string, generated bool, err error) {
	if name, ok := world.Get[entity.Identifier](w, e); ok && name != "" {
		return string(name), false, nil
	}
	id, err = GenerateIdentifier()
	return id, true, err
}

func (uc *InitializeWebviewUseCase) parent(ctx context.Context, w *world.World, e world.Entity) (port.Parent, *geometry.Bounds, error) {
	emb, embedded := world.Get[entity.Embedding](w, e)
	if !embedded {
		if !world.Has[entity.Window](w, e) {
			return port.Parent{}, nil, ErrNoHostWindow
		}
		return port.WindowParent(e), nil, nil
	}

	win, ok := world.Get[entity.Window](w, emb.Parent)
	if !ok {
		return port.Parent{}, nil, fmt.Errorf("%w: entity %d", ErrParentWindowNotFound, emb.Parent)
	}

	var restored *geometry.Bounds
	if saved := uc.savedBounds(ctx, w, e); saved != nil {
		emb.Bounds = saved.Bounds
		world.Insert(w, e, emb)
		restored = &saved.Bounds
	}

	parent := port.ChildParent(emb.Parent, emb.Bounds.Normalize())
	parent.Origin = win.Position
	return parent, restored, nil
}

func (uc *InitializeWebviewUseCase) savedBounds(ctx context.Context, w *world.World, e world.Entity) *entity.SavedBounds {
	if uc.deps.Bounds == nil {
		return nil
	}
	name, ok := world.Get[entity.Identifier](w, e)
	if !ok || name == "" {
		return nil
	}
	saved, err := uc.deps.Bounds.Get(ctx, string(name))
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("identifier", string(name)).Msg("failed to load saved bounds")
		return nil
	}
	return saved
}

// GenerateIdentifier returns a random 32-character alphanumeric identifier.
func GenerateIdentifier() (string, error) {
	const limit = 256 - 256%len(identifierAlphabet)

	out := make([]byte, 0, identifierLength)
	buf := make([]byte, identifierLength*2)
	for len(out) < identifierLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate identifier: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, identifierAlphabet[int(b)%len(identifierAlphabet)])
			if len(out) == identifierLength {
				break
			}
		}
	}
	return string(out), nil
}
