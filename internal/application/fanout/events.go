package fanout

import (
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
)

// PageLoadStarted is published when a webview begins loading url.
type PageLoadStarted struct {
	Webview world.Entity
	URL     string
}

// PageLoadFinished is published when a webview has loaded url.
type PageLoadFinished struct {
	Webview world.Entity
	URL     string
}

// Navigated is published for navigations the webview's filter allowed.
type Navigated struct {
	Webview world.Entity
	URL     string
}

// DownloadStarted is published for downloads the filter allowed. Dest is
// the destination after any rewrite.
type DownloadStarted struct {
	Webview world.Entity
	URL     string
	Dest    string
}

// DownloadCompleted is published for every finished download.
type DownloadCompleted struct {
	Webview world.Entity
	URL     string
	Dest    string
	OK      bool
}

// NewWindowRequested is published when a filter answered CreateWindow.
type NewWindowRequested struct {
	Webview world.Entity
	URL     string
	Window  port.WindowDescriptor
}

// NewWindowOpened is published once the window for a NewWindowRequested
// has been spawned.
type NewWindowOpened struct {
	Webview world.Entity
	Window  world.Entity
}

type DragEntered struct {
	Webview  world.Entity
	Paths    []string
	Position geometry.Vec2
}

type DragOver struct {
	Webview  world.Entity
	Position geometry.Vec2
}

type Dropped struct {
	Webview  world.Entity
	Paths    []string
	Position geometry.Vec2
}

type DragLeave struct {
	Webview world.Entity
}

// DocumentTitleChanged is published when the page title changes.
type DocumentTitleChanged struct {
	Webview world.Entity
	Title   string
}
