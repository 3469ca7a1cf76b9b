// Package cli holds the state shared by the flurx commands.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/cli/styles"
	"github.com/bnema/flurx/internal/domain/build"
	"github.com/bnema/flurx/internal/infrastructure/config"
	"github.com/bnema/flurx/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	// ConfigErr is set when the config could not be loaded and defaults
	// are in use.
	ConfigErr error

	levels  *logging.LevelSwitch
	rotator *logging.LogRotator
	logger  zerolog.Logger
	ctx     context.Context
}

// NewApp loads the config and builds the logger. A broken config is not
// fatal: defaults are used and ConfigErr is set.
func NewApp() (*App, error) {
	a := &App{Theme: styles.NewTheme()}

	mgr, err := config.NewManager()
	if err == nil {
		err = mgr.Load()
	}
	if err != nil {
		a.ConfigErr = err
		a.Config = config.DefaultConfig()
	} else {
		a.Manager = mgr
		a.Config = mgr.Get()
	}

	if err := a.initLogger(); err != nil {
		return nil, err
	}
	if a.ConfigErr != nil {
		a.logger.Warn().Err(a.ConfigErr).Msg("using default config")
	}
	return a, nil
}

func (a *App) initLogger() error {
	cfg := a.Config.Logging
	level := cfg.Level
	if env := os.Getenv("FLURX_LOG_LEVEL"); env != "" {
		level = env
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(level)
	logCfg.Format = cfg.Format
	logCfg.TimeFormat = "15:04:05"
	a.levels = logging.NewLevelSwitch(logCfg.Level)
	logCfg.Switch = a.levels

	if cfg.EnableFileLog {
		dir := cfg.LogDir
		if dir == "" {
			var err error
			if dir, err = config.GetLogDir(); err != nil {
				return err
			}
		}
		rotator, err := logging.NewLogRotator(logging.RotatorConfig{
			Dir:        dir,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
		})
		if err != nil {
			return err
		}
		a.rotator = rotator
		logCfg.File = rotator
	}

	a.logger = logging.New(logCfg).With().Str("session", logging.ShortSessionID(logging.GenerateSessionID())).Logger()
	a.ctx = logging.WithContext(context.Background(), a.logger)
	return nil
}

// WatchConfig reloads the config on file changes. Log level changes apply
// to the running logger; fn, if set, sees every new config.
func (a *App) WatchConfig(fn func(*config.Config)) error {
	if a.Manager == nil {
		return errors.New("no config file to watch")
	}
	a.Manager.OnConfigChange(func(cfg *config.Config) {
		level := logging.ParseLevel(cfg.Logging.Level)
		if level != a.levels.Level() {
			a.levels.Set(level)
			a.logger.Info().Str("level", level.String()).Msg("log level changed")
		}
		if fn != nil {
			fn(cfg)
		}
	})
	return a.Manager.Watch()
}

// Close releases all resources.
func (a *App) Close() error {
	if a.rotator != nil {
		return a.rotator.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
