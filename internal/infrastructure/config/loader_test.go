package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	return home
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644))
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "info", mgr.viper.GetString("logging.level"))
	assert.Equal(t, "assets", mgr.viper.GetString("protocol.assets_dir"))
	assert.Equal(t, "ui", mgr.viper.GetString("protocol.local_root"))
	assert.Equal(t, int64(64), mgr.viper.GetInt64("ipc.max_async"))
	assert.True(t, mgr.viper.GetBool("ipc.warn_unknown_once"))
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "config", "flurx")

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.FileExists(t, filepath.Join(dir, "config.schema.json"))

	cfg := mgr.Get()
	assert.Equal(t, "flurx", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, filepath.Join(home, "data", "flurx", "flurx.sqlite"), cfg.Embedding.DatabasePath)
	assert.Equal(t, filepath.Join(home, "state", "flurx", "logs"), cfg.Logging.LogDir)
}

func TestLoad_ReadsFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "cfg")
	writeConfig(t, dir, `
[window]
title = "demo"
width = 640

[protocol]
local_root = "/web/"
content_security_policy = "default-src 'self'"

[embedding.bounds]
x = 10
width = 300.5

[chromium]
extra_flags = ["--disable-gpu"]
`)

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, "web", cfg.Protocol.LocalRoot)
	assert.Equal(t, "default-src 'self'", cfg.Protocol.ContentSecurityPolicy)
	assert.Equal(t, float32(10), cfg.Embedding.Bounds.X)
	assert.Equal(t, float32(300.5), cfg.Embedding.Bounds.Width)
	assert.Equal(t, []string{"--disable-gpu"}, cfg.Chromium.ExtraFlags)
}

func TestLoad_EnvOverrides(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "cfg")
	writeConfig(t, dir, "[window]\ntitle = \"file\"\n")
	t.Setenv("FLURX_WINDOW_TITLE", "env")
	t.Setenv("FLURX_LOG_LEVEL", "DEBUG")

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "env", cfg.Window.Title)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ValidationErrors(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "cfg")
	writeConfig(t, dir, `
[window]
width = 0

[ipc]
max_async = 0
`)

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed:\n  - ")
	assert.Contains(t, err.Error(), "window.width must be positive")
	assert.Contains(t, err.Error(), "ipc.max_async must be at least 1")
}

func TestLoad_InvalidTOML(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "cfg")
	writeConfig(t, dir, "[window\n")

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGet_ReturnsCopy(t *testing.T) {
	home := isolate(t)
	mgr, err := NewManagerAt(filepath.Join(home, "cfg"))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Window.Title = "mutated"
	assert.Equal(t, "flurx", mgr.Get().Window.Title)
}

func TestGet_BeforeLoadReturnsDefaults(t *testing.T) {
	mgr, err := NewManagerAt(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestReload_NotifiesCallbacks(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "cfg")
	writeConfig(t, dir, "[logging]\nlevel = \"info\"\n")

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	var got *Config
	mgr.OnConfigChange(func(c *Config) { got = c })

	writeConfig(t, dir, "[logging]\nlevel = \"debug\"\n")
	mgr.handleChange(fsnotifyWrite(filepath.Join(dir, "config.toml")))

	require.NotNil(t, got)
	assert.Equal(t, "debug", got.Logging.Level)
	assert.Equal(t, "debug", mgr.Get().Logging.Level)
}

func TestReload_KeepsPreviousOnInvalid(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "cfg")
	writeConfig(t, dir, "[window]\nwidth = 500\n")

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	called := false
	mgr.OnConfigChange(func(*Config) { called = true })

	writeConfig(t, dir, "[window]\nwidth = -1\n")
	mgr.handleChange(fsnotifyWrite(filepath.Join(dir, "config.toml")))

	assert.False(t, called)
	assert.Equal(t, 500, mgr.Get().Window.Width)
}

func TestNormalizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = " WARNING "
	cfg.Logging.Format = "text"
	cfg.Webview.Theme = "Solarized"
	cfg.Webview.Background = " #FFAA00 "

	normalizeConfig(cfg)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "auto", cfg.Webview.Theme)
	assert.Equal(t, "#ffaa00", cfg.Webview.Background)
}
