package clipboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func fakeLookup(tools ...string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		for _, t := range tools {
			if t == name {
				return "/usr/bin/" + name, true
			}
		}
		return "", false
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		tools     []string
		wantCopy  string
		wantPaste string
	}{
		{
			name:      "wayland",
			env:       map[string]string{"WAYLAND_DISPLAY": "wayland-0"},
			tools:     []string{"wl-copy", "wl-paste", "xclip"},
			wantCopy:  "/usr/bin/wl-copy",
			wantPaste: "/usr/bin/wl-paste",
		},
		{
			name:      "wayland without tools falls back to x11",
			env:       map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"},
			tools:     []string{"xsel"},
			wantCopy:  "/usr/bin/xsel",
			wantPaste: "/usr/bin/xsel",
		},
		{
			name:      "x11 prefers xclip",
			env:       map[string]string{"DISPLAY": ":0"},
			tools:     []string{"xclip", "xsel"},
			wantCopy:  "/usr/bin/xclip",
			wantPaste: "/usr/bin/xclip",
		},
		{
			name:  "headless",
			env:   map[string]string{},
			tools: []string{"xclip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := detect(fakeEnv(tt.env), fakeLookup(tt.tools...))
			assert.Equal(t, tt.wantCopy, a.copyCmd)
			assert.Equal(t, tt.wantPaste, a.pasteCmd)
			assert.Equal(t, tt.wantCopy != "", a.Available())
		})
	}
}

func TestArgs(t *testing.T) {
	assert.Nil(t, copyArgs("/usr/bin/wl-copy"))
	assert.Equal(t, []string{"-selection", "clipboard"}, copyArgs("/usr/bin/xclip"))
	assert.Equal(t, []string{"--clipboard", "--output"}, pasteArgs("/usr/bin/xsel"))
	assert.Equal(t, []string{"--no-newline"}, pasteArgs("/usr/bin/wl-paste"))
}

func TestNoTool(t *testing.T) {
	a := &Adapter{}
	ctx := context.Background()

	assert.ErrorIs(t, a.WriteText(ctx, "x"), ErrNoTool)
	_, err := a.ReadText(ctx)
	assert.ErrorIs(t, err, ErrNoTool)
}
