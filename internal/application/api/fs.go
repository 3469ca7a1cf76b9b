package api

import (
	"context"

	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
)

// WriteTextFileArgs is the fs::write_text_file argument.
type WriteTextFileArgs struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

// CreateDirArgs is the fs::create_dir argument.
type CreateDirArgs struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

func (a *API) fsHandlers() []ipc.Handler {
	fs := a.opts.FS
	if fs == nil {
		disabled := func() ipc.Result { return ipc.Err(ErrFilesystemDisabled) }
		ids := []string{CmdFsReadTextFile, CmdFsWriteTextFile, CmdFsExists, CmdFsCreateDir, CmdFsRemoveFile, CmdFsReadDir}
		handlers := make([]ipc.Handler, 0, len(ids))
		for _, id := range ids {
			handlers = append(handlers, ipc.Sync(id, disabled))
		}
		return handlers
	}

	return []ipc.Handler{
		ipc.AsyncArgs(CmdFsReadTextFile, func(ctx context.Context, path string, _ ipc.Task) (string, error) {
			data, err := fs.ReadFile(ctx, path)
			return string(data), err
		}),
		ipc.AsyncArgs(CmdFsWriteTextFile, func(ctx context.Context, in WriteTextFileArgs, _ ipc.Task) (any, error) {
			return nil, fs.WriteFile(ctx, in.Path, []byte(in.Contents))
		}),
		ipc.AsyncArgs(CmdFsExists, func(ctx context.Context, path string, _ ipc.Task) (bool, error) {
			return fs.Exists(ctx, path)
		}),
		ipc.AsyncArgs(CmdFsCreateDir, func(ctx context.Context, in CreateDirArgs, _ ipc.Task) (any, error) {
			return nil, fs.CreateDir(ctx, in.Path, in.Recursive)
		}),
		ipc.AsyncArgs(CmdFsRemoveFile, func(ctx context.Context, path string, _ ipc.Task) (any, error) {
			return nil, fs.RemoveFile(ctx, path)
		}),
		ipc.AsyncArgs(CmdFsReadDir, func(ctx context.Context, path string, _ ipc.Task) ([]port.DirEntry, error) {
			return fs.ReadDir(ctx, path)
		}),
	}
}
