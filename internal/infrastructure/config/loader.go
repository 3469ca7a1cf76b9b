// Package config loads, validates and watches the flurx configuration
// (TOML via viper, FLURX_ environment overrides).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	configDir string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager reading from the XDG config
// directory, then the current directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	m, err := NewManagerAt(configDir)
	if err != nil {
		return nil, err
	}
	m.viper.AddConfigPath(".") // Current directory for development
	return m, nil
}

// NewManagerAt creates a configuration manager reading only from configDir.
func NewManagerAt(configDir string) (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// FLURX_WINDOW_TITLE overrides window.title, and so on.
	v.SetEnvPrefix("FLURX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shorter names shared with logging.NewFromEnv.
	if err := v.BindEnv("logging.level", "FLURX_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind FLURX_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "FLURX_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind FLURX_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		configDir: configDir,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables. A
// missing file is created from the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = m.ConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf(
			"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
			rereadErr,
		)
	}
	return nil
}

// decode unmarshals, normalizes and validates the viper state.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := ensurePaths(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func ensurePaths(config *Config) error {
	if config.Embedding.DatabasePath == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Embedding.DatabasePath = dbPath
	}
	if config.Logging.LogDir == "" {
		logDir, err := GetLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		config.Logging.LogDir = logDir
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "text" {
		config.Logging.Format = "console"
	}

	switch strings.ToLower(config.Webview.Theme) {
	case "light", "dark":
		config.Webview.Theme = strings.ToLower(config.Webview.Theme)
	default:
		config.Webview.Theme = "auto"
	}
	config.Webview.Background = strings.ToLower(strings.TrimSpace(config.Webview.Background))

	config.Protocol.LocalRoot = strings.Trim(config.Protocol.LocalRoot, "/")
	config.Chromium.ExecPath = strings.TrimSpace(config.Chromium.ExecPath)
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	// Return a copy to prevent external modification
	configCopy := *m.config
	configCopy.Chromium.ExtraFlags = append([]string(nil), m.config.Chromium.ExtraFlags...)
	return &configCopy
}

// ConfigFile returns the path of the configuration file in use, or the one
// that would be created.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.configDir, configName)
}

// createDefaultConfig writes the defaults and the JSON schema next to them.
func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), filepath.Join(m.configDir, configName)); err != nil {
		return err
	}
	return WriteSchemaFile(filepath.Join(m.configDir, schemaName))
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Embedding.DatabasePath and Logging.LogDir are resolved in decode.
	m.setLoggingDefaults(defaults)
	m.setWindowDefaults(defaults)
	m.setProtocolDefaults(defaults)
	m.setWebviewDefaults(defaults)
	m.setEmbeddingDefaults(defaults)
	m.setIPCDefaults(defaults)
	m.setFilesystemDefaults(defaults)
	m.setChromiumDefaults(defaults)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
}

func (m *Manager) setWindowDefaults(defaults *Config) {
	m.viper.SetDefault("window.title", defaults.Window.Title)
	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)
	m.viper.SetDefault("window.resizable", defaults.Window.Resizable)
}

func (m *Manager) setProtocolDefaults(defaults *Config) {
	m.viper.SetDefault("protocol.assets_dir", defaults.Protocol.AssetsDir)
	m.viper.SetDefault("protocol.local_root", defaults.Protocol.LocalRoot)
	m.viper.SetDefault("protocol.content_security_policy", defaults.Protocol.ContentSecurityPolicy)
}

func (m *Manager) setWebviewDefaults(defaults *Config) {
	m.viper.SetDefault("webview.devtools", defaults.Webview.Devtools)
	m.viper.SetDefault("webview.incognito", defaults.Webview.Incognito)
	m.viper.SetDefault("webview.autoplay", defaults.Webview.Autoplay)
	m.viper.SetDefault("webview.user_agent", defaults.Webview.UserAgent)
	m.viper.SetDefault("webview.background", defaults.Webview.Background)
	m.viper.SetDefault("webview.theme", defaults.Webview.Theme)
	m.viper.SetDefault("webview.clipboard", defaults.Webview.Clipboard)
}

func (m *Manager) setEmbeddingDefaults(defaults *Config) {
	m.viper.SetDefault("embedding.grip_zone_height", defaults.Embedding.GripZoneHeight)
	m.viper.SetDefault("embedding.persist_bounds", defaults.Embedding.PersistBounds)
	m.viper.SetDefault("embedding.database_path", defaults.Embedding.DatabasePath)
	m.viper.SetDefault("embedding.bounds.x", defaults.Embedding.Bounds.X)
	m.viper.SetDefault("embedding.bounds.y", defaults.Embedding.Bounds.Y)
	m.viper.SetDefault("embedding.bounds.width", defaults.Embedding.Bounds.Width)
	m.viper.SetDefault("embedding.bounds.height", defaults.Embedding.Bounds.Height)
	m.viper.SetDefault("embedding.bounds.min_width", defaults.Embedding.Bounds.MinWidth)
	m.viper.SetDefault("embedding.bounds.min_height", defaults.Embedding.Bounds.MinHeight)
}

func (m *Manager) setIPCDefaults(defaults *Config) {
	m.viper.SetDefault("ipc.max_async", defaults.IPC.MaxAsync)
	m.viper.SetDefault("ipc.warn_unknown_once", defaults.IPC.WarnUnknownOnce)
}

func (m *Manager) setFilesystemDefaults(defaults *Config) {
	m.viper.SetDefault("filesystem.enabled", defaults.Filesystem.Enabled)
	m.viper.SetDefault("filesystem.base_dir", defaults.Filesystem.BaseDir)
}

func (m *Manager) setChromiumDefaults(defaults *Config) {
	m.viper.SetDefault("chromium.exec_path", defaults.Chromium.ExecPath)
	m.viper.SetDefault("chromium.user_data_dir", defaults.Chromium.UserDataDir)
	m.viper.SetDefault("chromium.headless", defaults.Chromium.Headless)
	m.viper.SetDefault("chromium.extra_flags", defaults.Chromium.ExtraFlags)
}
