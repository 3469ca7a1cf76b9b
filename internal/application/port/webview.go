// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the application layer to
// remain independent of specific implementations (Chromium, ebiten, etc.).
package port

import (
	"context"

	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
)

// ParentKind selects how a native webview is attached to a host window.
type ParentKind int

const (
	// ParentWindow makes the webview fill its window.
	ParentWindow ParentKind = iota
	// ParentChild embeds the webview as a rectangle inside the window.
	ParentChild
)

// Parent describes where a native webview is attached.
type Parent struct {
	Kind   ParentKind
	Window world.Entity
	Bounds geometry.Bounds
	// Origin is the window's position on screen, for backends that place
	// child webviews as separate top-level surfaces.
	Origin geometry.Vec2
}

// WindowParent attaches a webview to the full area of window.
func WindowParent(window world.Entity) Parent {
	return Parent{Kind: ParentWindow, Window: window}
}

// ChildParent embeds a webview inside window at bounds.
func ChildParent(window world.Entity, bounds geometry.Bounds) Parent {
	return Parent{Kind: ParentChild, Window: window, Bounds: bounds}
}

// Loader is the initial content and the script injected before it.
type Loader struct {
	URL        string
	HTML       string
	InitScript string
}

// LoadEvent represents page load state transitions.
type LoadEvent int

const (
	// LoadStarted indicates navigation has begun.
	LoadStarted LoadEvent = iota
	// LoadFinished indicates the page has fully loaded.
	LoadFinished
)

// String returns a human-readable representation of the load event.
func (e LoadEvent) String() string {
	switch e {
	case LoadStarted:
		return "started"
	case LoadFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// NewWindowAction is the host's answer to a page opening a new window.
type NewWindowAction int

const (
	// NewWindowAllow lets the current webview navigate to the URL.
	NewWindowAllow NewWindowAction = iota
	// NewWindowDeny suppresses the request.
	NewWindowDeny
	// NewWindowCreate spawns a new host window showing the URL.
	NewWindowCreate
)

// WindowDescriptor configures a window spawned for a new-window request.
type WindowDescriptor struct {
	Title  string
	Width  float32
	Height float32
}

// NewWindowResponse is returned by OnNewWindowRequest.
type NewWindowResponse struct {
	Action NewWindowAction
	Window WindowDescriptor
}

// DragDropKind is the phase of a native drag-and-drop gesture.
type DragDropKind int

const (
	DragEnter DragDropKind = iota
	DragOver
	DragDrop
	DragLeave
)

func (k DragDropKind) String() string {
	switch k {
	case DragEnter:
		return "enter"
	case DragOver:
		return "over"
	case DragDrop:
		return "drop"
	case DragLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// DragDropEvent is a native drag-and-drop notification.
type DragDropEvent struct {
	Kind     DragDropKind
	Paths    []string
	Position geometry.Vec2
}

// SchemeRequest represents a custom scheme request (flurx://localhost/...).
type SchemeRequest struct {
	URI    string
	Path   string
	Method string
	Scheme string
}

// SchemeResponse represents the response to a scheme request.
type SchemeResponse struct {
	Data        []byte
	ContentType string
	StatusCode  int
	Headers     map[string]string
}

// Hooks are the native callbacks installed once at build time. Any of them
// may be nil. They can fire on foreign goroutines and must not call back
// into the adapter.
type Hooks struct {
	OnIPC               func(body string)
	OnPageLoad          func(event LoadEvent, url string)
	OnNavigation        func(url string) bool
	OnDownloadStarted   func(url string, dest *string) bool
	OnDownloadCompleted func(url, dest string, ok bool)
	OnNewWindowRequest  func(url string) NewWindowResponse
	OnDragDrop          func(event DragDropEvent) bool
	OnTitleChanged      func(title string)
	OnCustomProtocol    func(req SchemeRequest) SchemeResponse
}

// NativeAdapter builds native webviews.
type NativeAdapter interface {
	Build(ctx context.Context, parent Parent, cfg entity.WebviewConfig, load Loader, hooks Hooks) (NativeHandle, error)
}

// NativeHandle is a live native webview. Methods other than DevtoolsOpen
// must be called from the main thread. Errors are *AdapterError.
type NativeHandle interface {
	SetBounds(ctx context.Context, bounds geometry.Bounds) error
	SetVisible(ctx context.Context, visible bool) error
	// EvaluateScript queues script for execution and returns without
	// waiting. Scripts run in call order.
	EvaluateScript(ctx context.Context, script string) error
	OpenDevtools(ctx context.Context) error
	CloseDevtools(ctx context.Context) error
	DevtoolsOpen() bool
	// Reparent re-attaches the webview to window, which brings it to the
	// front on platforms that support it. Elsewhere it is a no-op.
	Reparent(ctx context.Context, window world.Entity) error
	Close() error
}
