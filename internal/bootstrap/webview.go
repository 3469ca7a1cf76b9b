package bootstrap

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/config"
)

// WebviewSpec describes one webview to spawn.
type WebviewSpec struct {
	// Name pins the identifier; empty generates one.
	Name   string
	Config entity.WebviewConfig
	// Embed makes the webview a child of the window instead of filling it.
	Embed    bool
	Bounds   geometry.Bounds
	GripZone uint32
}

// WindowFromConfig returns the primary window described by cfg.
func WindowFromConfig(cfg *config.Config) entity.Window {
	return entity.Window{
		Title:   cfg.Window.Title,
		Size:    geometry.V(float32(cfg.Window.Width), float32(cfg.Window.Height)),
		Primary: true,
	}
}

// WebviewConfigFrom applies the configured webview defaults to source.
func WebviewConfigFrom(cfg *config.Config, source entity.Source) (entity.WebviewConfig, error) {
	wc := entity.DefaultWebviewConfig()
	wc.Source = source
	wc.Autoplay = cfg.Webview.Autoplay
	wc.Incognito = cfg.Webview.Incognito
	wc.DevtoolsEnabled = cfg.Webview.Devtools
	wc.ClipboardEnabled = cfg.Webview.Clipboard
	wc.UserAgent = cfg.Webview.UserAgent
	wc.ContentSecurityPolicy = cfg.Protocol.ContentSecurityPolicy
	if cfg.Webview.Theme != "" {
		wc.Theme = entity.Theme(cfg.Webview.Theme)
	}

	bg, err := ParseBackground(cfg.Webview.Background)
	if err != nil {
		return wc, err
	}
	wc.Background = bg
	return wc, nil
}

// ParseBackground reads "", "transparent", #rrggbb or #rrggbbaa.
func ParseBackground(s string) (entity.Background, error) {
	switch s = strings.TrimSpace(s); s {
	case "":
		return entity.Background{}, nil
	case "transparent":
		return entity.Transparent(), nil
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || !strings.HasPrefix(s, "#") || (len(raw) != 3 && len(raw) != 4) {
		return entity.Background{}, fmt.Errorf("invalid background color %q", s)
	}
	alpha := uint8(0xff)
	if len(raw) == 4 {
		alpha = raw[3]
	}
	return entity.RGBA(raw[0], raw[1], raw[2], alpha), nil
}

// EmbeddedSpec returns a child webview placed per the embedding section.
func EmbeddedSpec(cfg *config.Config, name string, wc entity.WebviewConfig) WebviewSpec {
	b := cfg.Embedding.Bounds
	return WebviewSpec{
		Name:   name,
		Config: wc,
		Embed:  true,
		Bounds: geometry.Bounds{
			Position: geometry.V(b.X, b.Y),
			Size:     geometry.V(b.Width, b.Height),
			MinSize:  geometry.V(b.MinWidth, b.MinHeight),
		},
		GripZone: cfg.Embedding.GripZoneHeight,
	}
}

// SpawnWebview adds a webview to window. Full-window webviews live on the
// window entity itself.
func (r *Runtime) SpawnWebview(window world.Entity, spec WebviewSpec) world.Entity {
	e := window
	if spec.Embed {
		e = r.World.Spawn()
		emb := entity.NewEmbedding(window, spec.Bounds)
		emb.GripZoneHeight = spec.GripZone
		world.Insert(r.World, e, emb)
	}
	if spec.Name != "" {
		world.Insert(r.World, e, entity.Identifier(spec.Name))
	}
	world.Insert(r.World, e, spec.Config)
	return e
}

// ParseSource reads a command-line source: empty for the local root,
// inline HTML, a path to an .html file, or a URL. Bare hosts get https.
func ParseSource(arg string) (entity.Source, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return entity.Source{}, nil
	case strings.HasPrefix(arg, "<"):
		return entity.HTML(arg), nil
	case strings.Contains(arg, "://"), strings.HasPrefix(arg, "about:"), strings.HasPrefix(arg, "data:"):
		return entity.URI(arg), nil
	}

	if ext := strings.ToLower(filepath.Ext(arg)); ext == ".html" || ext == ".htm" {
		data, err := os.ReadFile(arg)
		if err != nil {
			return entity.Source{}, fmt.Errorf("read html source: %w", err)
		}
		return entity.HTML(string(data)), nil
	}
	return entity.URI("https://" + arg), nil
}
