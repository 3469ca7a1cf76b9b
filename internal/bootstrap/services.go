// Package bootstrap wires the backends, the runtime and its tick loop.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/flurx/internal/application/api"
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/build"
	"github.com/bnema/flurx/internal/infrastructure/cdp"
	"github.com/bnema/flurx/internal/infrastructure/clipboard"
	"github.com/bnema/flurx/internal/infrastructure/config"
	"github.com/bnema/flurx/internal/infrastructure/filesystem"
	"github.com/bnema/flurx/internal/infrastructure/memview"
	"github.com/bnema/flurx/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/flurx/internal/infrastructure/scheme"
	"github.com/bnema/flurx/internal/infrastructure/xdg"
	"github.com/bnema/flurx/internal/logging"
)

// ServicesInput selects the backends to start.
type ServicesInput struct {
	Config *config.Config
	Build  build.Info
	// Headless swaps Chromium for the in-memory adapter.
	Headless bool
	// Stdout receives log::println output.
	Stdout io.Writer
	Timer  *StartupTimer
}

// Services holds the backends a runtime is built on.
type Services struct {
	Adapter port.NativeAdapter
	// Protocol is nil when the local root could not be served; ProtocolErr
	// says why.
	Protocol    *scheme.Handler
	ProtocolErr error
	Bounds      port.BoundsStore
	FS          port.FileSystem

	cfg     *config.Config
	opts    api.Options
	db      *sqlite.LazyDB
	closers []func() error
}

// NewServices starts the native adapter and the protocol handler in
// parallel. Only an adapter failure is fatal.
func NewServices(ctx context.Context, in ServicesInput) (*Services, error) {
	if in.Config == nil {
		return nil, errors.New("services need a config")
	}
	cfg := in.Config
	timer := in.Timer
	if timer == nil {
		timer = NewStartupTimer()
	}
	log := logging.FromContext(ctx).With().Str("component", "services").Logger()

	s := &Services{cfg: cfg}

	var (
		wg         sync.WaitGroup
		adapterErr error
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		start := time.Now()
		s.Protocol, s.ProtocolErr = scheme.NewHandler(ctx, cfg.Protocol.AssetsDir, cfg.Protocol.LocalRoot)
		timer.MarkDuration("protocol", time.Since(start))
	}()

	go func() {
		defer wg.Done()
		start := time.Now()
		s.Adapter, adapterErr = newAdapter(ctx, cfg, in.Headless)
		timer.MarkDuration("adapter", time.Since(start))
	}()

	wg.Wait()

	if adapterErr != nil {
		return nil, fmt.Errorf("start native adapter: %w", adapterErr)
	}
	if closer, ok := s.Adapter.(io.Closer); ok {
		s.closers = append(s.closers, closer.Close)
	}
	if s.ProtocolErr != nil {
		s.Protocol = nil
		log.Warn().Err(s.ProtocolErr).Msg("flurx://localhost is unavailable")
	}

	if err := s.openBounds(); err != nil {
		log.Warn().Err(err).Msg("bounds persistence disabled")
	}
	if err := s.openFS(); err != nil {
		log.Warn().Err(err).Msg("fs commands disabled")
	}

	s.opts = api.Options{
		App:       api.AppInfo{Name: "flurx", Version: in.Build.Version},
		Clipboard: clipboard.New(),
		FS:        s.FS,
		Paths:     xdg.New(),
		Stdout:    in.Stdout,
	}
	timer.Mark("services")
	return s, nil
}

func newAdapter(ctx context.Context, cfg *config.Config, headless bool) (port.NativeAdapter, error) {
	if headless {
		return memview.New(), nil
	}

	userDataDir := cfg.Chromium.UserDataDir
	if userDataDir == "" {
		stateDir, err := config.GetStateDir()
		if err != nil {
			return nil, err
		}
		userDataDir = filepath.Join(stateDir, "chromium")
	}
	return cdp.New(ctx, cdp.Options{
		ExecPath:         cfg.Chromium.ExecPath,
		UserDataDir:      userDataDir,
		Headless:         cfg.Chromium.Headless,
		ExtraFlags:       cfg.Chromium.ExtraFlags,
		Autoplay:         cfg.Webview.Autoplay,
		AutoOpenDevtools: cfg.Webview.Devtools,
	})
}

func (s *Services) openBounds() error {
	if !s.cfg.Embedding.PersistBounds {
		return nil
	}
	path := s.cfg.Embedding.DatabasePath
	if path == "" {
		var err error
		if path, err = config.GetDatabaseFile(); err != nil {
			return err
		}
	}
	s.db = sqlite.NewLazyDB(path)
	s.Bounds = sqlite.NewLazyBoundsStore(s.db)
	s.closers = append(s.closers, s.db.Close)
	return nil
}

func (s *Services) openFS() error {
	if !s.cfg.Filesystem.Enabled {
		return nil
	}
	root := s.cfg.Filesystem.BaseDir
	if root == "" {
		dataDir, err := config.GetDataDir()
		if err != nil {
			return err
		}
		root = filepath.Join(dataDir, "files")
	}
	fs, err := filesystem.New(root)
	if err != nil {
		return err
	}
	s.FS = fs
	return nil
}

// RuntimeDeps returns the runtime wiring for these services.
func (s *Services) RuntimeDeps() RuntimeDeps {
	deps := RuntimeDeps{
		Adapter:     s.Adapter,
		ProtocolErr: s.ProtocolErr,
		Bounds:      s.Bounds,
		IPC: ipc.Config{
			MaxAsync:        s.cfg.IPC.MaxAsync,
			WarnUnknownOnce: s.cfg.IPC.WarnUnknownOnce,
		},
		API: s.opts,
	}
	if s.Protocol != nil {
		deps.Protocol = s.Protocol
	}
	return deps
}

// Close stops the adapter and closes the bounds database.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
