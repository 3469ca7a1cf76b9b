package api

import (
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
)

func (a *API) pathHandlers() []ipc.Handler {
	paths := a.opts.Paths
	lookup := func(id string, get func(port.XDGPaths) (string, error)) ipc.Handler {
		return ipc.Sync(id, func() ipc.Result {
			if paths == nil {
				return ipc.Err(ErrPathsUnavailable)
			}
			dir, err := get(paths)
			if err != nil {
				return ipc.Err(err)
			}
			return ipc.Ok(dir)
		})
	}

	return []ipc.Handler{
		lookup(CmdPathHome, port.XDGPaths.HomeDir),
		lookup(CmdPathConfig, port.XDGPaths.ConfigDir),
		lookup(CmdPathData, port.XDGPaths.DataDir),
		lookup(CmdPathCache, port.XDGPaths.CacheDir),
		lookup(CmdPathTemp, port.XDGPaths.TempDir),
		lookup(CmdPathExecutable, port.XDGPaths.ExecutablePath),
	}
}
