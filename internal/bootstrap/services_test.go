package bootstrap_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/bootstrap"
	"github.com/bnema/flurx/internal/domain/build"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/infrastructure/config"
	"github.com/bnema/flurx/internal/infrastructure/memview"
	"github.com/bnema/flurx/internal/infrastructure/scheme"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Protocol.AssetsDir = filepath.Join(dir, "assets")
	cfg.Embedding.DatabasePath = filepath.Join(dir, "state", "flurx.db")
	return cfg
}

func TestNewServices_Headless(t *testing.T) {
	cfg := testConfig(t)
	root := filepath.Join(cfg.Protocol.AssetsDir, cfg.Protocol.LocalRoot)
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>ui</h1>"), 0o600))

	ctx := testCtx()
	svc, err := bootstrap.NewServices(ctx, bootstrap.ServicesInput{
		Config:   cfg,
		Build:    build.Info{Version: "1.0.0"},
		Headless: true,
		Stdout:   &bytes.Buffer{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	assert.IsType(t, &memview.Adapter{}, svc.Adapter)
	require.NotNil(t, svc.Protocol)
	assert.NoError(t, svc.ProtocolErr)
	assert.NotNil(t, svc.Bounds)
	assert.Nil(t, svc.FS)

	rt, err := bootstrap.NewRuntime(ctx, svc.RuntimeDeps())
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	win := rt.SpawnWindow(bootstrap.WindowFromConfig(cfg))
	wc, err := bootstrap.WebviewConfigFrom(cfg, entity.Source{})
	require.NoError(t, err)
	rt.SpawnWebview(win, bootstrap.WebviewSpec{Config: wc})
	rt.Tick(ctx, bootstrap.Frame{Window: win, Size: geometry.V(1280, 720)})

	view := svc.Adapter.(*memview.Adapter).Last()
	require.NotNil(t, view)
	assert.Equal(t, "flurx://localhost/", view.Loader().URL)
	resp := view.Hooks().OnCustomProtocol(port.SchemeRequest{URI: "flurx://localhost/", Path: "/", Method: "GET", Scheme: "flurx"})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "<h1>ui</h1>", string(resp.Data))
}

func TestNewServices_MissingLocalRoot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedding.PersistBounds = false

	svc, err := bootstrap.NewServices(testCtx(), bootstrap.ServicesInput{Config: cfg, Headless: true})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	assert.Nil(t, svc.Protocol)
	assert.ErrorIs(t, svc.ProtocolErr, scheme.ErrRootNotFound)
	assert.Nil(t, svc.Bounds)

	deps := svc.RuntimeDeps()
	assert.Nil(t, deps.Protocol)
	assert.ErrorIs(t, deps.ProtocolErr, scheme.ErrRootNotFound)
}

func TestNewServices_Filesystem(t *testing.T) {
	cfg := testConfig(t)
	cfg.Filesystem.Enabled = true
	cfg.Filesystem.BaseDir = t.TempDir()

	svc, err := bootstrap.NewServices(testCtx(), bootstrap.ServicesInput{Config: cfg, Headless: true})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	require.NotNil(t, svc.FS)
	assert.Equal(t, svc.FS, svc.RuntimeDeps().API.FS)
}

func TestNewServices_RequiresConfig(t *testing.T) {
	_, err := bootstrap.NewServices(testCtx(), bootstrap.ServicesInput{Headless: true})
	assert.Error(t, err)
}
