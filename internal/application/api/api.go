// Package api registers the built-in FLURX| commands and events that every
// page can reach through window.__FLURX__.invoke and emit.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/fanout"
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/logging"
)

const (
	CmdAppGetName    = "FLURX|app::get_name"
	CmdAppGetVersion = "FLURX|app::get_version"
	CmdAppExit       = "FLURX|app::exit"

	EventLogPrintln = "FLURX|log::println"
	EventLog        = "FLURX|log::log"

	CmdClipboardGetText = "FLURX|clipboard::get_text"
	CmdClipboardSetText = "FLURX|clipboard::set_text"

	CmdFsReadTextFile  = "FLURX|fs::read_text_file"
	CmdFsWriteTextFile = "FLURX|fs::write_text_file"
	CmdFsExists        = "FLURX|fs::exists"
	CmdFsCreateDir     = "FLURX|fs::create_dir"
	CmdFsRemoveFile    = "FLURX|fs::remove_file"
	CmdFsReadDir       = "FLURX|fs::read_dir"

	CmdPathHome       = "FLURX|path::home"
	CmdPathConfig     = "FLURX|path::config"
	CmdPathData       = "FLURX|path::data"
	CmdPathCache      = "FLURX|path::cache"
	CmdPathTemp       = "FLURX|path::temp"
	CmdPathExecutable = "FLURX|path::executable"
)

var (
	ErrClipboardDisabled  = errors.New("clipboard disabled")
	ErrFilesystemDisabled = errors.New("filesystem disabled")
	ErrPathsUnavailable   = errors.New("paths unavailable")
)

// AppInfo is what app::get_name and app::get_version report.
type AppInfo struct {
	Name    string
	Version string
}

// Options wires the built-ins to their backends. Nil backends make the
// matching commands answer with an Err.
type Options struct {
	App AppInfo
	// Exit is called on the main thread by app::exit.
	Exit      func()
	Clipboard port.Clipboard
	FS        port.FileSystem
	Paths     port.XDGPaths
	// Stdout receives log::println lines. Defaults to os.Stdout.
	Stdout io.Writer
}

// PrintlnRequest is the log::println payload.
type PrintlnRequest struct {
	Message string `json:"message"`
}

// LogRequest is the log::log payload.
type LogRequest struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// API owns the built-in handlers and drains the log events each tick.
type API struct {
	opts    Options
	logger  zerolog.Logger
	println *fanout.Stream[ipc.IpcEvent[PrintlnRequest]]
	logs    *fanout.Stream[ipc.IpcEvent[LogRequest]]
}

// New registers every built-in on bridge. Clipboard commands are
// registered as disabled fallbacks; AttachClipboard installs the working
// ones per webview.
func New(ctx context.Context, bridge *ipc.Bridge, opts Options) (*API, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	log := logging.FromContext(ctx)
	a := &API{
		opts:    opts,
		logger:  log.With().Str("component", "api").Logger(),
		println: ipc.RegisterEvent[PrintlnRequest](bridge.Bus(), EventLogPrintln),
		logs:    ipc.RegisterEvent[LogRequest](bridge.Bus(), EventLog),
	}

	var handlers []ipc.Handler
	handlers = append(handlers, a.appHandlers()...)
	handlers = append(handlers, disabledClipboardHandlers()...)
	handlers = append(handlers, a.fsHandlers()...)
	handlers = append(handlers, a.pathHandlers()...)
	if err := bridge.Register(handlers...); err != nil {
		return nil, fmt.Errorf("register built-in commands: %w", err)
	}
	return a, nil
}

func (a *API) appHandlers() []ipc.Handler {
	return []ipc.Handler{
		ipc.Sync(CmdAppGetName, func() string { return a.opts.App.Name }),
		ipc.Sync(CmdAppGetVersion, func() string { return a.opts.App.Version }),
		ipc.Sync(CmdAppExit, func() ipc.Result {
			if a.opts.Exit != nil {
				a.opts.Exit()
			}
			return ipc.Ok(nil)
		}),
	}
}

// Consume drains this tick's log events. Call it after Bridge.Process.
func (a *API) Consume() {
	for _, ev := range a.println.Read() {
		fmt.Fprintln(a.opts.Stdout, ev.Payload.Message)
	}
	for _, ev := range a.logs.Read() {
		a.logger.WithLevel(logging.ParseLevel(ev.Payload.Level)).
			Uint64("webview", uint64(ev.Webview)).
			Msg(ev.Payload.Message)
	}
}

// AttachClipboard gives webview working clipboard commands when its config
// enables the clipboard. Existing local commands are kept.
func (a *API) AttachClipboard(w *world.World, webview world.Entity) error {
	cfg, ok := world.Get[entity.WebviewConfig](w, webview)
	if !ok || !cfg.ClipboardEnabled || a.opts.Clipboard == nil {
		return nil
	}

	local, _ := world.Get[ipc.LocalCommands](w, webview)
	table := local.Table
	if table == nil {
		table = &ipc.CommandTable{}
	}
	for _, h := range clipboardHandlers(a.opts.Clipboard) {
		if _, exists := table.Lookup(h.ID()); exists {
			continue
		}
		if err := table.Add(h); err != nil {
			return err
		}
	}
	world.Insert(w, webview, ipc.LocalCommands{Table: table})
	return nil
}

func clipboardHandlers(cb port.Clipboard) []ipc.Handler {
	return []ipc.Handler{
		ipc.Async(CmdClipboardGetText, func(ctx context.Context, _ ipc.Task) (string, error) {
			return cb.ReadText(ctx)
		}),
		ipc.AsyncArgs(CmdClipboardSetText, func(ctx context.Context, text string, _ ipc.Task) (any, error) {
			return nil, cb.WriteText(ctx, text)
		}),
	}
}

func disabledClipboardHandlers() []ipc.Handler {
	disabled := func() ipc.Result { return ipc.Err(ErrClipboardDisabled) }
	return []ipc.Handler{
		ipc.Sync(CmdClipboardGetText, disabled),
		ipc.Sync(CmdClipboardSetText, disabled),
	}
}
