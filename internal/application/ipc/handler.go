package ipc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/flurx/internal/domain/world"
)

// HandlerKind says whether a handler runs inline on the main thread or in
// its own goroutine.
type HandlerKind int

const (
	HandlerSync HandlerKind = iota
	HandlerAsync
)

func (k HandlerKind) String() string {
	if k == HandlerAsync {
		return "async"
	}
	return "sync"
}

// Caps records which inputs a handler asked for.
type Caps struct {
	HasArgs bool
	HasID   bool
	HasTask bool
}

// Call is one dispatched command.
type Call struct {
	Webview   world.Entity
	Args      *string
	ResolveID uint64
}

// Handler is a command implementation built by one of the typed
// constructors.
type Handler struct {
	id    string
	kind  HandlerKind
	caps  Caps
	sync  func(call Call) (any, error)
	async func(ctx context.Context, call Call, task Task) (any, error)
}

// ID returns the command id the handler answers.
func (h Handler) ID() string { return h.id }

// Kind returns whether the handler is sync or async.
func (h Handler) Kind() HandlerKind { return h.kind }

// Caps returns the inputs the handler receives.
func (h Handler) Caps() Caps { return h.caps }

func decodeArgs[In any](call Call) (In, error) {
	var in In
	if call.Args == nil {
		return in, nil
	}
	if err := json.Unmarshal([]byte(*call.Args), &in); err != nil {
		return in, fmt.Errorf("invalid arguments: %w", err)
	}
	return in, nil
}

// Sync registers a main-thread handler with no inputs.
func Sync[Out any](id string, fn func() Out) Handler {
	return Handler{
		id:   id,
		kind: HandlerSync,
		sync: func(Call) (any, error) { return fn(), nil },
	}
}

// SyncArgs registers a main-thread handler that decodes its arguments.
func SyncArgs[In, Out any](id string, fn func(In) Out) Handler {
	return Handler{
		id:   id,
		kind: HandlerSync,
		caps: Caps{HasArgs: true},
		sync: func(call Call) (any, error) {
			in, err := decodeArgs[In](call)
			if err != nil {
				return nil, err
			}
			return fn(in), nil
		},
	}
}

// SyncWebview registers a main-thread handler that receives the calling
// webview.
func SyncWebview[Out any](id string, fn func(world.Entity) Out) Handler {
	return Handler{
		id:   id,
		kind: HandlerSync,
		caps: Caps{HasID: true},
		sync: func(call Call) (any, error) { return fn(call.Webview), nil },
	}
}

// SyncArgsWebview registers a main-thread handler that receives decoded
// arguments and the calling webview.
func SyncArgsWebview[In, Out any](id string, fn func(In, world.Entity) Out) Handler {
	return Handler{
		id:   id,
		kind: HandlerSync,
		caps: Caps{HasArgs: true, HasID: true},
		sync: func(call Call) (any, error) {
			in, err := decodeArgs[In](call)
			if err != nil {
				return nil, err
			}
			return fn(in, call.Webview), nil
		},
	}
}

// Async registers a handler that runs in its own goroutine.
func Async[Out any](id string, fn func(ctx context.Context, task Task) (Out, error)) Handler {
	return Handler{
		id:   id,
		kind: HandlerAsync,
		caps: Caps{HasTask: true},
		async: func(ctx context.Context, _ Call, task Task) (any, error) {
			return fn(ctx, task)
		},
	}
}

// AsyncArgs registers a goroutine handler that decodes its arguments.
func AsyncArgs[In, Out any](id string, fn func(ctx context.Context, in In, task Task) (Out, error)) Handler {
	return Handler{
		id:   id,
		kind: HandlerAsync,
		caps: Caps{HasArgs: true, HasTask: true},
		async: func(ctx context.Context, call Call, task Task) (any, error) {
			in, err := decodeArgs[In](call)
			if err != nil {
				return nil, err
			}
			return fn(ctx, in, task)
		},
	}
}

// AsyncArgsWebview registers a goroutine handler that receives decoded
// arguments and the calling webview.
func AsyncArgsWebview[In, Out any](
	id string,
	fn func(ctx context.Context, in In, webview world.Entity, task Task) (Out, error),
) Handler {
	return Handler{
		id:   id,
		kind: HandlerAsync,
		caps: Caps{HasArgs: true, HasID: true, HasTask: true},
		async: func(ctx context.Context, call Call, task Task) (any, error) {
			in, err := decodeArgs[In](call)
			if err != nil {
				return nil, err
			}
			return fn(ctx, in, call.Webview, task)
		},
	}
}

// Task is handed to async handlers. It is the only way back to the world.
type Task struct {
	webview world.Entity
	ctx     context.Context
	bridge  *Bridge
}

// Webview returns the calling webview.
func (t Task) Webview() world.Entity { return t.webview }

// Context is cancelled when the webview is despawned.
func (t Task) Context() context.Context { return t.ctx }

// Main schedules fn to run on the main thread at the start of the next
// Process. It is dropped if the webview has been cancelled by then.
func (t Task) Main(fn func(*world.World)) {
	if t.bridge == nil || fn == nil {
		return
	}
	t.bridge.scheduleMain(t.ctx, fn)
}
