package cdp_test

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/infrastructure/cdp"
	"github.com/bnema/flurx/internal/infrastructure/script"
)

func requireChromium(t *testing.T) {
	t.Helper()
	if os.Getenv("FLURX_CHROMIUM_TESTS") != "1" {
		t.Skip("set FLURX_CHROMIUM_TESTS=1 to run chromium integration tests")
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	requireChromium(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adapter, err := cdp.New(ctx, cdp.Options{Headless: true, ExtraFlags: []string{"--no-sandbox", "--disable-gpu"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	var (
		mu      sync.Mutex
		ipc     []string
		loaded  = make(chan struct{}, 1)
		titleCh = make(chan string, 4)
	)
	hooks := port.Hooks{
		OnIPC: func(body string) {
			mu.Lock()
			ipc = append(ipc, body)
			mu.Unlock()
		},
		OnPageLoad: func(event port.LoadEvent, _ string) {
			if event == port.LoadFinished {
				select {
				case loaded <- struct{}{}:
				default:
				}
			}
		},
		OnTitleChanged: func(title string) { titleCh <- title },
		OnCustomProtocol: func(req port.SchemeRequest) port.SchemeResponse {
			return port.SchemeResponse{
				StatusCode:  http.StatusOK,
				ContentType: "text/html",
				Data:        []byte("<title>served</title><p>" + req.Path + "</p>"),
			}
		},
	}

	handle, err := adapter.Build(ctx, port.WindowParent(1), entity.DefaultWebviewConfig(), port.Loader{
		URL:        "flurx://localhost/index.html",
		InitScript: script.Compose("main", nil),
	}, hooks)
	require.NoError(t, err)

	select {
	case <-loaded:
	case <-ctx.Done():
		t.Fatal("page never loaded")
	}

	require.NoError(t, handle.EvaluateScript(ctx, `window.__FLURX__.emit("hello", {n: 1});`))

	select {
	case title := <-titleCh:
		assert.NotEmpty(t, title)
	case <-ctx.Done():
		t.Fatal("no title change")
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ipc) > 0
	}, 10*time.Second, 50*time.Millisecond)

	require.NoError(t, handle.Close())
	assert.True(t, port.IsAdapterKind(handle.EvaluateScript(ctx, "1"), port.ErrNotFound))
}
