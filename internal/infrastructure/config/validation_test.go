package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_Defaults(t *testing.T) {
	assert.NoError(t, validateConfig(DefaultConfig()))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level must be one of",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format must be one of",
		},
		{
			name:    "negative height",
			mutate:  func(c *Config) { c.Window.Height = -5 },
			wantErr: "window.height must be positive",
		},
		{
			name:    "empty assets dir",
			mutate:  func(c *Config) { c.Protocol.AssetsDir = "" },
			wantErr: "protocol.assets_dir cannot be empty",
		},
		{
			name:    "local root escapes",
			mutate:  func(c *Config) { c.Protocol.LocalRoot = "../etc" },
			wantErr: "protocol.local_root must stay inside",
		},
		{
			name:    "bad background",
			mutate:  func(c *Config) { c.Webview.Background = "red" },
			wantErr: "webview.background must be",
		},
		{
			name:    "negative embedded size",
			mutate:  func(c *Config) { c.Embedding.Bounds.Width = -1 },
			wantErr: "embedding.bounds width and height",
		},
		{
			name:    "filesystem without base dir",
			mutate:  func(c *Config) { c.Filesystem.Enabled = true },
			wantErr: "filesystem.base_dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_Backgrounds(t *testing.T) {
	for _, bg := range []string{"", "transparent", "#112233", "#11223344"} {
		cfg := DefaultConfig()
		cfg.Webview.Background = bg
		assert.NoError(t, validateConfig(cfg), bg)
	}
}
