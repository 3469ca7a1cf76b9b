package fanout

import (
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/world"
)

// OnNavigation decides whether a webview may navigate to url. Without it
// every navigation is allowed.
type OnNavigation struct {
	Fn func(webview world.Entity, url string) bool
}

// OnDownload decides whether a download may start and may rewrite its
// destination. Without it every download is allowed.
type OnDownload struct {
	Fn func(webview world.Entity, url string, dest *string) bool
}

// OnNewWindowRequest answers a page opening a new window. Without it the
// current webview navigates.
type OnNewWindowRequest struct {
	Fn func(webview world.Entity, url string) port.NewWindowResponse
}

// OnDragDrop is told about native drag-and-drop; returning true swallows
// the native handling.
type OnDragDrop struct {
	Fn func(webview world.Entity, event port.DragDropEvent) bool
}
