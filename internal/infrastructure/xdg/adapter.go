// Package xdg answers the path:: commands from the XDG base directories.
package xdg

import (
	"os"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/infrastructure/config"
)

// Adapter resolves the flurx directories on every call so that environment
// changes are picked up.
type Adapter struct {
	dirs func() (*config.XDGDirs, error)
}

// New creates an adapter backed by config.GetXDGDirs.
func New() *Adapter {
	return &Adapter{dirs: config.GetXDGDirs}
}

func (a *Adapter) dir(pick func(*config.XDGDirs) string) (string, error) {
	dirs, err := a.dirs()
	if err != nil {
		return "", err
	}
	return pick(dirs), nil
}

func (a *Adapter) HomeDir() (string, error) { return os.UserHomeDir() }

func (a *Adapter) ConfigDir() (string, error) {
	return a.dir(func(d *config.XDGDirs) string { return d.ConfigHome })
}

func (a *Adapter) DataDir() (string, error) {
	return a.dir(func(d *config.XDGDirs) string { return d.DataHome })
}

func (a *Adapter) StateDir() (string, error) {
	return a.dir(func(d *config.XDGDirs) string { return d.StateHome })
}

func (a *Adapter) CacheDir() (string, error) {
	return a.dir(func(d *config.XDGDirs) string { return d.CacheHome })
}

func (a *Adapter) TempDir() (string, error) { return os.TempDir(), nil }

func (a *Adapter) ExecutablePath() (string, error) { return os.Executable() }

var _ port.XDGPaths = (*Adapter)(nil)
