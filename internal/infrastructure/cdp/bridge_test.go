package cdp

import (
	"testing"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
)

func TestToChromium(t *testing.T) {
	tests := []struct {
		in    string
		https bool
		want  string
	}{
		{"flurx://localhost/index.html", false, "http://flurx.localhost/index.html"},
		{"flurx://localhost", false, "http://flurx.localhost/"},
		{"flurx://localhost/a?b=1", true, "https://flurx.localhost/a?b=1"},
		{"https://example.com/", false, "https://example.com/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toChromium(tt.in, tt.https), tt.in)
	}
}

func TestLocalRequest(t *testing.T) {
	req, ok := localRequest("http://flurx.localhost/css/app.css?v=2", "GET")
	require.True(t, ok)
	assert.Equal(t, port.SchemeRequest{
		URI:    "flurx://localhost/css/app.css?v=2",
		Path:   "/css/app.css",
		Method: "GET",
		Scheme: "flurx",
	}, req)

	req, ok = localRequest("https://flurx.localhost", "GET")
	require.True(t, ok)
	assert.Equal(t, "flurx://localhost/", req.URI)

	for _, raw := range []string{"https://example.com/", "ftp://flurx.localhost/", "::bad"} {
		_, ok := localRequest(raw, "GET")
		assert.False(t, ok, raw)
	}
}

func TestParseDragDrop(t *testing.T) {
	ev, isDrag, err := parseDragDrop(`FLURX|dragdrop{"kind":"drop","paths":["a.txt"],"x":3,"y":4}`)
	require.NoError(t, err)
	require.True(t, isDrag)
	assert.Equal(t, port.DragDropEvent{Kind: port.DragDrop, Paths: []string{"a.txt"}, Position: geometry.Vec2{X: 3, Y: 4}}, ev)

	ev, isDrag, err = parseDragDrop(`FLURX|dragdrop{"kind":"dragenter","paths":[],"x":0,"y":0}`)
	require.NoError(t, err)
	assert.True(t, isDrag)
	assert.Equal(t, port.DragEnter, ev.Kind)

	_, isDrag, err = parseDragDrop(`{"type":"Command"}`)
	assert.NoError(t, err)
	assert.False(t, isDrag, "ipc payloads are not drag events")

	_, isDrag, err = parseDragDrop(`FLURX|dragdrop{"kind":"wiggle"}`)
	assert.True(t, isDrag)
	assert.Error(t, err)

	_, _, err = parseDragDrop(`FLURX|dragdrop{`)
	assert.Error(t, err)
}

func TestBackgroundColor(t *testing.T) {
	assert.Nil(t, backgroundColor(entity.Background{}))
	assert.Equal(t, &cdp.RGBA{}, backgroundColor(entity.Transparent()))
	assert.Equal(t, &cdp.RGBA{R: 255, G: 128, B: 0, A: 1}, backgroundColor(entity.RGBA(255, 128, 0, 255)))
}

func TestColorScheme(t *testing.T) {
	assert.Equal(t, "dark", colorScheme(entity.ThemeDark))
	assert.Equal(t, "light", colorScheme(entity.ThemeLight))
	assert.Equal(t, "", colorScheme(entity.ThemeAuto))
}

func TestWindowBounds(t *testing.T) {
	b := geometry.Bounds{
		Position: geometry.Vec2{X: 10.4, Y: 20.6},
		Size:     geometry.Vec2{X: 30, Y: 5},
		MinSize:  geometry.Vec2{X: 50, Y: 50},
	}
	got := windowBounds(geometry.Vec2{X: 100, Y: 200}, b)
	assert.Equal(t, &browser.Bounds{Left: 110, Top: 221, Width: 50, Height: 50, WindowState: browser.WindowStateNormal}, got)
}

func TestStartURL(t *testing.T) {
	assert.Equal(t, "http://flurx.localhost"+inlinePath, startURL(port.Loader{HTML: "<p>x</p>", URL: "https://ignored"}, false))
	assert.Equal(t, "https://flurx.localhost/index.html", startURL(port.Loader{URL: "flurx://localhost/index.html"}, true))
	assert.Equal(t, "about:blank", startURL(port.Loader{}, false))
}

func TestSplitFlag(t *testing.T) {
	name, value := splitFlag("--window-size=800,600")
	assert.Equal(t, "window-size", name)
	assert.Equal(t, "800,600", value)

	name, value = splitFlag("--disable-gpu")
	assert.Equal(t, "disable-gpu", name)
	assert.Equal(t, true, value)
}

func TestAllocatorOptions_Extends(t *testing.T) {
	base := len(allocatorOptions(Options{}))
	more := allocatorOptions(Options{ExecPath: "/bin/chromium", Autoplay: true, AutoOpenDevtools: true, ExtraFlags: []string{"--x"}})
	assert.Len(t, more, base+4)
}
