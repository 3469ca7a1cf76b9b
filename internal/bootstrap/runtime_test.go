package bootstrap_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/flurx/internal/application/api"
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/bootstrap"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/memview"
	"github.com/bnema/flurx/internal/logging"
	"github.com/bnema/flurx/internal/testutil/jspage"
)

type harness struct {
	t       *testing.T
	ctx     context.Context
	logs    *bytes.Buffer
	adapter *memview.Adapter
	rt      *bootstrap.Runtime
	window  world.Entity
	exits   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, logs: &bytes.Buffer{}, adapter: memview.New()}
	h.ctx = logging.WithContext(context.Background(), zerolog.New(h.logs))

	rt, err := bootstrap.NewRuntime(h.ctx, bootstrap.RuntimeDeps{
		Adapter: h.adapter,
		IPC:     ipc.Config{WarnUnknownOnce: true},
		API: api.Options{
			App:    api.AppInfo{Name: "flurx", Version: "test"},
			Exit:   func() { h.exits++ },
			Stdout: &bytes.Buffer{},
		},
	})
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	h.rt = rt
	h.window = rt.SpawnWindow(entity.Window{Title: "host", Size: geometry.V(800, 600), Primary: true})
	return h
}

func (h *harness) tick() {
	h.rt.Tick(h.ctx, bootstrap.Frame{Window: h.window, Size: geometry.V(800, 600)})
}

func htmlConfig() entity.WebviewConfig {
	cfg := entity.DefaultWebviewConfig()
	cfg.Source = entity.HTML("<p>hello</p>")
	return cfg
}

// page spawns a full-window webview, initializes it and loads its init
// script into a JS page wired both ways to the view.
func (h *harness) page() (*jspage.Page, *memview.View) {
	h.t.Helper()
	h.rt.SpawnWebview(h.window, bootstrap.WebviewSpec{Name: "main", Config: htmlConfig()})
	h.tick()

	view := h.adapter.Last()
	require.NotNil(h.t, view)
	page := jspage.New(h.t, view.Loader().InitScript)
	view.SetScriptSink(func(src string) { page.Run(src) })
	return page, view
}

func send(page *jspage.Page, view *memview.View) {
	for _, msg := range page.Drain() {
		view.PostIPC(msg)
	}
}

func resolveScripts(view *memview.View) []string {
	var out []string
	for _, s := range view.Scripts() {
		if strings.Contains(s, "__resolveIpc") {
			out = append(out, s)
		}
	}
	return out
}

type addArgs struct {
	A int `json:"a"`
	B int `json:"b"`
}

func TestRuntime_IPCRoundTrip(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.rt.Bridge.Register(ipc.SyncArgs("add", func(in addArgs) int { return in.A + in.B })))
	page, view := h.page()

	page.Run(`var got; window.__FLURX__.invoke("add", {a: 1, b: 2}).then(function(v) { got = v; });`)
	send(page, view)
	h.tick()

	assert.EqualValues(t, 3, page.Get("got").ToInteger())
}

func TestRuntime_UnknownCommandDropped(t *testing.T) {
	h := newHarness(t)
	page, view := h.page()

	page.Run(`var settled = false;
window.__FLURX__.invoke("does_not_exist", {}).then(function() { settled = true; }, function() { settled = true; });
window.__FLURX__.invoke("does_not_exist", {});`)
	send(page, view)
	h.tick()
	h.tick()

	assert.False(t, page.Get("settled").ToBoolean())
	assert.Empty(t, resolveScripts(view))
	assert.Equal(t, 1, strings.Count(h.logs.String(), "unknown ipc command"))
	assert.True(t, h.rt.World.Alive(h.window))
	assert.False(t, view.Closed())
}

func TestRuntime_EmitReachesHostListener(t *testing.T) {
	h := newHarness(t)
	type ping struct {
		N int `json:"n"`
	}
	stream := ipc.RegisterEvent[ping](h.rt.Bridge.Bus(), "ping")
	page, view := h.page()

	page.Run(`window.__FLURX__.emit("ping", {n: 7});`)
	send(page, view)
	h.tick()

	got := stream.Read()
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Payload.N)
	assert.Equal(t, h.window, got[0].Webview)
}

func TestRuntime_AppExit(t *testing.T) {
	h := newHarness(t)
	page, view := h.page()
	assert.False(t, h.rt.ExitRequested())

	page.Run(`window.__FLURX__.invoke("FLURX|app::exit");`)
	send(page, view)
	h.tick()

	assert.True(t, h.rt.ExitRequested())
	assert.Equal(t, 1, h.exits)
}

func TestRuntime_CloseWindowDestroysWebviews(t *testing.T) {
	h := newHarness(t)
	h.rt.SpawnWebview(h.window, bootstrap.WebviewSpec{Config: htmlConfig()})
	child := h.rt.SpawnWebview(h.window, bootstrap.WebviewSpec{
		Name:   "panel",
		Config: htmlConfig(),
		Embed:  true,
		Bounds: geometry.Bounds{Position: geometry.V(10, 10), Size: geometry.V(200, 100)},
	})
	h.tick()
	require.Len(t, h.adapter.Views(), 2)
	assert.Equal(t, 2, h.rt.Registry.Len())

	h.rt.Tick(h.ctx, bootstrap.Frame{Window: h.window, Size: geometry.V(800, 600), CloseRequested: true})

	assert.False(t, h.rt.World.Alive(h.window))
	assert.False(t, h.rt.World.Alive(child))
	assert.Zero(t, h.rt.Registry.Len())
	for _, v := range h.adapter.Views() {
		assert.True(t, v.Closed())
	}
}

func TestRuntime_DespawnCancelsAsync(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	cancelled := make(chan struct{}, 1)
	require.NoError(t, h.rt.Bridge.Register(ipc.Async("slow", func(ctx context.Context, _ ipc.Task) (int, error) {
		close(started)
		select {
		case <-ctx.Done():
			cancelled <- struct{}{}
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return 1, nil
		}
	})))
	page, view := h.page()

	page.Run(`window.__FLURX__.invoke("slow");`)
	send(page, view)
	h.tick()
	require.Len(t, h.rt.Bridge.InFlight(), 1)
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler did not start")
	}

	h.rt.World.Despawn(h.window)
	h.tick()
	h.rt.Bridge.Wait()

	select {
	case <-cancelled:
	default:
		t.Fatal("async handler was not cancelled")
	}
	assert.True(t, view.Closed())
	assert.Empty(t, resolveScripts(view))
}

func TestRuntime_FailedInitIsNotRetried(t *testing.T) {
	h := newHarness(t)
	h.rt.SpawnWebview(h.window, bootstrap.WebviewSpec{Config: entity.DefaultWebviewConfig()})

	h.tick()
	h.tick()

	// the default source is flurx://localhost and no protocol is wired
	assert.Empty(t, h.adapter.Views())
	assert.True(t, world.Has[entity.InitFailed](h.rt.World, h.window))
	assert.Equal(t, 1, strings.Count(h.logs.String(), "webview initialization failed"))
}

func TestRuntime_FrameUpdatesWindow(t *testing.T) {
	h := newHarness(t)
	cursor := geometry.V(5, 6)

	icons := h.rt.Tick(h.ctx, bootstrap.Frame{
		Window:   h.window,
		Size:     geometry.V(1024, 768),
		Position: geometry.V(40, 50),
		Cursor:   &cursor,
	})

	win, ok := world.Get[entity.Window](h.rt.World, h.window)
	require.True(t, ok)
	assert.Equal(t, geometry.V(1024, 768), win.Size)
	assert.Equal(t, geometry.V(40, 50), win.Position)
	require.NotNil(t, win.Cursor)
	assert.Equal(t, cursor, *win.Cursor)
	assert.Equal(t, geometry.CursorDefault, icons[h.window])
}

func TestRuntime_PointerIsPerWindow(t *testing.T) {
	h := newHarness(t)
	other := h.rt.SpawnWindow(entity.Window{Title: "other", Size: geometry.V(400, 400)})
	// vertically centred so flipped hosts see the same edge
	bounds := geometry.Bounds{Position: geometry.V(100, 250), Size: geometry.V(200, 100), MinSize: geometry.V(50, 50)}
	id := h.rt.SpawnWebview(h.window, bootstrap.WebviewSpec{Name: "panel", Config: htmlConfig(), Embed: true, Bounds: bounds})

	edge := geometry.V(300, 300)
	h.rt.Tick(h.ctx, bootstrap.Frame{Window: h.window, Size: geometry.V(800, 600), Cursor: &edge})
	require.True(t, world.Has[entity.HoveredEdge](h.rt.World, id))

	drag := geometry.V(350, 300)
	h.rt.Tick(h.ctx,
		bootstrap.Frame{Window: h.window, Size: geometry.V(800, 600), Cursor: &drag},
		bootstrap.Frame{Window: other, Size: geometry.V(400, 400), LeftPressed: true},
	)

	emb, ok := world.Get[entity.Embedding](h.rt.World, id)
	require.True(t, ok)
	assert.Equal(t, bounds, emb.Bounds)

	h.rt.Tick(h.ctx, bootstrap.Frame{Window: h.window, Size: geometry.V(800, 600), Cursor: &drag, LeftPressed: true})
	emb, _ = world.Get[entity.Embedding](h.rt.World, id)
	assert.Equal(t, float32(250), emb.Bounds.Size.X)
}

func TestRuntime_RunHeadlessStopsOnExit(t *testing.T) {
	h := newHarness(t)
	page, view := h.page()
	page.Run(`window.__FLURX__.invoke("FLURX|app::exit");`)
	send(page, view)

	ran := h.rt.RunHeadless(h.ctx, h.window, 50, time.Millisecond)

	assert.Equal(t, 1, ran)
	assert.True(t, h.rt.ExitRequested())
}

func TestNewRuntime_RequiresAdapter(t *testing.T) {
	_, err := bootstrap.NewRuntime(context.Background(), bootstrap.RuntimeDeps{})
	assert.Error(t, err)
}
