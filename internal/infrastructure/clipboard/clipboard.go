// Package clipboard provides a clipboard adapter using wl-clipboard (Wayland) with X11 fallback.
package clipboard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/logging"
)

// ErrNoTool is returned when no clipboard tool was found at startup.
var ErrNoTool = errors.New("no clipboard tool available (install wl-clipboard or xclip)")

// Adapter implements port.Clipboard using system clipboard tools.
type Adapter struct {
	copyCmd  string
	pasteCmd string
}

// New detects Wayland vs X11 and selects the matching tool.
func New() *Adapter {
	lookup := func(name string) (string, bool) {
		path, err := exec.LookPath(name)
		return path, err == nil
	}
	return detect(os.Getenv, lookup)
}

func detect(getenv func(string) string, lookup func(string) (string, bool)) *Adapter {
	a := &Adapter{}

	if getenv("WAYLAND_DISPLAY") != "" {
		if path, ok := lookup("wl-copy"); ok {
			a.copyCmd = path
			if pastePath, ok := lookup("wl-paste"); ok {
				a.pasteCmd = pastePath
			}
		}
	}

	// Fall back to X11 if Wayland tools not available
	if a.copyCmd == "" && getenv("DISPLAY") != "" {
		for _, tool := range []string{"xclip", "xsel"} {
			if path, ok := lookup(tool); ok {
				a.copyCmd = path
				a.pasteCmd = path
				break
			}
		}
	}

	return a
}

// Available reports whether a copy tool was found.
func (a *Adapter) Available() bool {
	return a.copyCmd != ""
}

func copyArgs(tool string) []string {
	switch filepath.Base(tool) {
	case "xclip":
		return []string{"-selection", "clipboard"}
	case "xsel":
		return []string{"--clipboard", "--input"}
	default:
		return nil
	}
}

func pasteArgs(tool string) []string {
	switch filepath.Base(tool) {
	case "wl-paste":
		return []string{"--no-newline"}
	case "xclip":
		return []string{"-selection", "clipboard", "-o"}
	case "xsel":
		return []string{"--clipboard", "--output"}
	default:
		return nil
	}
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)

	if a.copyCmd == "" {
		log.Error().Err(ErrNoTool).Msg("clipboard write failed")
		return ErrNoTool
	}

	cmd := exec.CommandContext(ctx, a.copyCmd, copyArgs(a.copyCmd)...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		log.Error().Err(err).Str("tool", a.copyCmd).Msg("clipboard write failed")
		return err
	}

	log.Debug().Str("tool", a.copyCmd).Int("len", len(text)).Msg("clipboard write success")
	return nil
}

// ReadText reads text from the clipboard.
func (a *Adapter) ReadText(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)

	if a.pasteCmd == "" {
		log.Error().Err(ErrNoTool).Msg("clipboard read failed")
		return "", ErrNoTool
	}

	out, err := exec.CommandContext(ctx, a.pasteCmd, pasteArgs(a.pasteCmd)...).Output()
	if err != nil {
		log.Debug().Err(err).Str("tool", a.pasteCmd).Msg("clipboard read failed (may be empty)")
		return "", err
	}

	log.Debug().Str("tool", a.pasteCmd).Int("len", len(out)).Msg("clipboard read success")
	return string(out), nil
}

var _ port.Clipboard = (*Adapter)(nil)
