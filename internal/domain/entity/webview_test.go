package entity

import (
	"testing"

	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/stretchr/testify/assert"
)

func TestDefaultWebviewConfig(t *testing.T) {
	cfg := DefaultWebviewConfig()

	assert.True(t, cfg.ClipboardEnabled)
	assert.True(t, cfg.HotkeysZoom)
	assert.True(t, cfg.BrowserAcceleratorKeys)
	assert.True(t, cfg.Visible)
	assert.False(t, cfg.Autoplay)
	assert.False(t, cfg.Incognito)
	assert.False(t, cfg.DevtoolsEnabled)
	assert.False(t, cfg.UseHTTPSScheme)
	assert.Equal(t, ThemeAuto, cfg.Theme)
	assert.Equal(t, BackgroundUnspecified, cfg.Background.Kind)
	assert.Equal(t, SourceNone, cfg.Source.Kind)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "flurx://localhost/", URI("flurx://localhost/").String())
	assert.Equal(t, "html(5 bytes)", HTML("<p/>x").String())
	assert.Equal(t, "none", Source{}.String())
}

func TestNewEmbedding(t *testing.T) {
	e := NewEmbedding(3, geometry.Bounds{Size: geometry.V(10, 10)})
	assert.True(t, e.Resizable)
	assert.Zero(t, e.GripZoneHeight)
	assert.EqualValues(t, 3, e.Parent)
}

func TestNewSavedBounds_Normalizes(t *testing.T) {
	s := NewSavedBounds("panel", geometry.Bounds{Size: geometry.V(1, 1), MinSize: geometry.V(4, 4)})
	assert.Equal(t, geometry.V(4, 4), s.Bounds.Size)
	assert.False(t, s.UpdatedAt.IsZero())
}
