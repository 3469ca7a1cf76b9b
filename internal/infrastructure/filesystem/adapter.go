// Package filesystem implements port.FileSystem on the OS filesystem,
// confined to a root directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/flurx/internal/application/port"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrOutsideRoot is returned for paths that resolve outside the root.
var ErrOutsideRoot = errors.New("path is outside the allowed directory")

// Adapter implements port.FileSystem rooted at a directory.
type Adapter struct {
	root string
}

// New creates an adapter confined to root. root is made absolute but not
// required to exist.
func New(root string) (*Adapter, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve filesystem root %q: %w", root, err)
	}
	return &Adapter{root: abs}, nil
}

// Root returns the absolute root directory.
func (a *Adapter) Root() string {
	return a.root
}

// resolve maps p onto the root. Absolute paths are accepted only when they
// already lie under it.
func (a *Adapter) resolve(p string) (string, error) {
	var full string
	if filepath.IsAbs(p) {
		full = filepath.Clean(p)
	} else {
		full = filepath.Join(a.root, p)
	}
	if full != a.root && !strings.HasPrefix(full, a.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	return full, nil
}

func (a *Adapter) Exists(_ context.Context, path string) (bool, error) {
	full, err := a.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (a *Adapter) ReadFile(_ context.Context, path string) ([]byte, error) {
	full, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (a *Adapter) WriteFile(_ context.Context, path string, data []byte) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}
	return os.WriteFile(full, data, filePerm)
}

func (a *Adapter) CreateDir(_ context.Context, path string, recursive bool) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}
	if recursive {
		return os.MkdirAll(full, dirPerm)
	}
	return os.Mkdir(full, dirPerm)
}

func (a *Adapter) RemoveFile(_ context.Context, path string) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(full)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return os.Remove(full)
}

func (a *Adapter) ReadDir(_ context.Context, path string) ([]port.DirEntry, error) {
	full, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}

	out := make([]port.DirEntry, 0, len(entries))
	for _, e := range entries {
		entry := port.DirEntry{
			Name:  e.Name(),
			Path:  filepath.Join(full, e.Name()),
			IsDir: e.IsDir(),
		}
		if !e.IsDir() {
			if info, err := e.Info(); err == nil {
				entry.Size = info.Size()
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

var _ port.FileSystem = (*Adapter)(nil)
