// Package entity defines the components attached to windows and webviews.
package entity

import "fmt"

// SourceKind tells how a webview's initial content is provided.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceURI
	SourceHTML
)

// Source is the initial content of a webview: a URI (flurx://localhost/...
// is served from the local root) or inline HTML.
type Source struct {
	Kind  SourceKind
	Value string
}

// URI returns a source that loads u.
func URI(u string) Source { return Source{Kind: SourceURI, Value: u} }

// HTML returns a source that renders inline markup.
func HTML(h string) Source { return Source{Kind: SourceHTML, Value: h} }

func (s Source) String() string {
	switch s.Kind {
	case SourceURI:
		return s.Value
	case SourceHTML:
		return fmt.Sprintf("html(%d bytes)", len(s.Value))
	default:
		return "none"
	}
}

// BackgroundKind selects how the webview background is painted before
// content arrives.
type BackgroundKind int

const (
	BackgroundUnspecified BackgroundKind = iota
	BackgroundTransparent
	BackgroundColor
)

// Background is the webview background color.
type Background struct {
	Kind       BackgroundKind
	R, G, B, A uint8
}

// RGBA returns a solid background color.
func RGBA(r, g, b, a uint8) Background {
	return Background{Kind: BackgroundColor, R: r, G: g, B: b, A: a}
}

// Transparent returns a fully transparent background.
func Transparent() Background {
	return Background{Kind: BackgroundTransparent}
}

// Theme is the preferred color scheme reported to page content.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// WebviewConfig is the capability bag a webview is built with. It is read
// once at initialization; later changes have no effect on the native view.
type WebviewConfig struct {
	Autoplay               bool
	AcceptFirstMouse       bool
	InitiallyFocused       bool
	ClipboardEnabled       bool
	HotkeysZoom            bool
	BrowserAcceleratorKeys bool
	Incognito              bool
	DevtoolsEnabled        bool
	DevtoolsInitiallyOpen  bool
	Visible                bool
	Background             Background
	Theme                  Theme
	UserAgent              string
	UseHTTPSScheme         bool
	ContentSecurityPolicy  string
	InitializationScripts  []string
	Source                 Source
}

// DefaultWebviewConfig returns the config used when no option is set.
func DefaultWebviewConfig() WebviewConfig {
	return WebviewConfig{
		ClipboardEnabled:       true,
		HotkeysZoom:            true,
		BrowserAcceleratorKeys: true,
		Visible:                true,
		Theme:                  ThemeAuto,
	}
}

// Identifier is the human-readable name of a webview. It is pinned at
// initialization and exposed to scripts as window.__FLURX__.identifier.
type Identifier string

// GeneratedIdentifier marks a webview whose Identifier was generated at
// initialization rather than chosen by the host.
type GeneratedIdentifier struct{}

// Initialized marks a webview whose native handle is registered.
type Initialized struct{}

// InitFailed marks a webview whose build failed with a configuration or
// adapter error. It is not retried.
type InitFailed struct {
	Err error
}

// Visible toggles native visibility after initialization.
type Visible bool

// Devtools tracks whether the inspector is open.
type Devtools struct {
	Open bool
}

// DocumentTitle mirrors the page's <title>.
type DocumentTitle string
