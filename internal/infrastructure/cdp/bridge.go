package cdp

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
)

const (
	// bindingName is the runtime binding the page shim posts through.
	bindingName = "__flurxPost"
	// dragDropTag prefixes binding payloads that carry DOM drag events
	// rather than IPC messages.
	dragDropTag = "FLURX|dragdrop"
	// localHost stands in for flurx://localhost, which Chromium cannot load.
	localHost = "flurx.localhost"
	// inlinePath serves Loader.HTML.
	inlinePath = "/__flurx/inline.html"
)

// shimScript installs window.ipc.postMessage on top of the binding and relays
// DOM drag events. It runs before any other init script.
const shimScript = `(function() {
  if (window.ipc && window.ipc.__flurx) { return; }
  var post = function(body) { window.` + bindingName + `(String(body)); };
  window.ipc = { __flurx: true, postMessage: post };
  function names(e) {
    var out = [];
    var files = e.dataTransfer && e.dataTransfer.files;
    for (var i = 0; files && i < files.length; i++) { out.push(files[i].name); }
    return out;
  }
  ['dragenter', 'dragover', 'drop', 'dragleave'].forEach(function(type) {
    window.addEventListener(type, function(e) {
      post('` + dragDropTag + `' + JSON.stringify({ kind: type, paths: names(e), x: e.clientX, y: e.clientY }));
    }, true);
  });
})();`

// origin returns the http(s) origin local content is served from.
func origin(https bool) string {
	if https {
		return "https://" + localHost
	}
	return "http://" + localHost
}

// toChromium rewrites a flurx://localhost URL onto the served origin. Other
// URLs pass through.
func toChromium(raw string, https bool) string {
	const prefix = "flurx://localhost"
	if !strings.HasPrefix(raw, prefix) {
		return raw
	}
	rest := strings.TrimPrefix(raw, prefix)
	if rest == "" {
		rest = "/"
	}
	return origin(https) + rest
}

// localRequest maps an intercepted URL back to a flurx:// request. ok is
// false for URLs outside the served origin.
func localRequest(raw, method string) (port.SchemeRequest, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host != localHost || (u.Scheme != "http" && u.Scheme != "https") {
		return port.SchemeRequest{}, false
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	uri := "flurx://localhost" + p
	if u.RawQuery != "" {
		uri += "?" + u.RawQuery
	}
	return port.SchemeRequest{URI: uri, Path: u.Path, Method: method, Scheme: "flurx"}, true
}

type dragMessage struct {
	Kind  string   `json:"kind"`
	Paths []string `json:"paths"`
	X     float32  `json:"x"`
	Y     float32  `json:"y"`
}

// parseDragDrop decodes a tagged binding payload. ok is false for IPC
// payloads.
func parseDragDrop(payload string) (port.DragDropEvent, bool, error) {
	body, ok := strings.CutPrefix(payload, dragDropTag)
	if !ok {
		return port.DragDropEvent{}, false, nil
	}
	var msg dragMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return port.DragDropEvent{}, true, fmt.Errorf("decode drag event: %w", err)
	}

	ev := port.DragDropEvent{Paths: msg.Paths, Position: geometry.Vec2{X: msg.X, Y: msg.Y}}
	switch msg.Kind {
	case "dragenter":
		ev.Kind = port.DragEnter
	case "dragover":
		ev.Kind = port.DragOver
	case "drop":
		ev.Kind = port.DragDrop
	case "dragleave":
		ev.Kind = port.DragLeave
	default:
		return port.DragDropEvent{}, true, fmt.Errorf("unknown drag kind %q", msg.Kind)
	}
	return ev, true, nil
}

// backgroundColor converts a background to the override color. nil means
// keep the default.
func backgroundColor(bg entity.Background) *cdp.RGBA {
	switch bg.Kind {
	case entity.BackgroundTransparent:
		return &cdp.RGBA{}
	case entity.BackgroundColor:
		return &cdp.RGBA{R: int64(bg.R), G: int64(bg.G), B: int64(bg.B), A: float64(bg.A) / 255}
	default:
		return nil
	}
}

// colorScheme is the prefers-color-scheme value for theme, or "" for auto.
func colorScheme(theme entity.Theme) string {
	switch theme {
	case entity.ThemeLight:
		return "light"
	case entity.ThemeDark:
		return "dark"
	default:
		return ""
	}
}

// windowBounds places a child webview's window at origin + bounds.
func windowBounds(origin geometry.Vec2, bounds geometry.Bounds) *browser.Bounds {
	b := bounds.Normalize()
	return &browser.Bounds{
		Left:        int64(math.Round(float64(origin.X + b.Position.X))),
		Top:         int64(math.Round(float64(origin.Y + b.Position.Y))),
		Width:       int64(math.Round(float64(b.Size.X))),
		Height:      int64(math.Round(float64(b.Size.Y))),
		WindowState: browser.WindowStateNormal,
	}
}
