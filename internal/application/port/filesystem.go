package port

import "context"

// DirEntry is one child returned by FileSystem.ReadDir.
type DirEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// FileSystem provides file system operations for page-facing commands.
// Paths are relative to the implementation's root; escaping it is an error.
type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	CreateDir(ctx context.Context, path string, recursive bool) error
	RemoveFile(ctx context.Context, path string) error
	ReadDir(ctx context.Context, path string) ([]DirEntry, error)
}
