package config

// Config represents the complete configuration for flurx.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" toml:"logging"`
	Window     WindowConfig     `mapstructure:"window" yaml:"window" toml:"window"`
	Protocol   ProtocolConfig   `mapstructure:"protocol" yaml:"protocol" toml:"protocol"`
	Webview    WebviewConfig    `mapstructure:"webview" yaml:"webview" toml:"webview"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding" yaml:"embedding" toml:"embedding"`
	IPC        IPCConfig        `mapstructure:"ipc" yaml:"ipc" toml:"ipc"`
	Filesystem FilesystemConfig `mapstructure:"filesystem" yaml:"filesystem" toml:"filesystem"`
	Chromium   ChromiumConfig   `mapstructure:"chromium" yaml:"chromium" toml:"chromium"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=fatal"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" jsonschema:"enum=console,enum=json"`
	// EnableFileLog also writes logs to a rotated file under LogDir.
	EnableFileLog bool   `mapstructure:"enable_file_log" yaml:"enable_file_log" toml:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" yaml:"log_dir" toml:"log_dir"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups    int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays    int    `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days"`
}

// WindowConfig describes the primary host window.
type WindowConfig struct {
	Title     string `mapstructure:"title" yaml:"title" toml:"title"`
	Width     int    `mapstructure:"width" yaml:"width" toml:"width"`
	Height    int    `mapstructure:"height" yaml:"height" toml:"height"`
	Resizable bool   `mapstructure:"resizable" yaml:"resizable" toml:"resizable"`
}

// ProtocolConfig configures the flurx://localhost scheme.
type ProtocolConfig struct {
	// AssetsDir is the base directory; LocalRoot is resolved inside it.
	AssetsDir             string `mapstructure:"assets_dir" yaml:"assets_dir" toml:"assets_dir"`
	LocalRoot             string `mapstructure:"local_root" yaml:"local_root" toml:"local_root"`
	ContentSecurityPolicy string `mapstructure:"content_security_policy" yaml:"content_security_policy" toml:"content_security_policy"`
}

// WebviewConfig holds the defaults applied to webviews created by the CLI.
type WebviewConfig struct {
	Devtools  bool   `mapstructure:"devtools" yaml:"devtools" toml:"devtools"`
	Incognito bool   `mapstructure:"incognito" yaml:"incognito" toml:"incognito"`
	Autoplay  bool   `mapstructure:"autoplay" yaml:"autoplay" toml:"autoplay"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent" toml:"user_agent"`
	// Background is "", "transparent" or a #rrggbb / #rrggbbaa color.
	Background string `mapstructure:"background" yaml:"background" toml:"background"`
	Theme      string `mapstructure:"theme" yaml:"theme" toml:"theme" jsonschema:"enum=auto,enum=light,enum=dark"`
	Clipboard  bool   `mapstructure:"clipboard" yaml:"clipboard" toml:"clipboard"`
}

// EmbeddingConfig controls embedded (child) webviews.
type EmbeddingConfig struct {
	GripZoneHeight uint32       `mapstructure:"grip_zone_height" yaml:"grip_zone_height" toml:"grip_zone_height"`
	PersistBounds  bool         `mapstructure:"persist_bounds" yaml:"persist_bounds" toml:"persist_bounds"`
	DatabasePath   string       `mapstructure:"database_path" yaml:"database_path" toml:"database_path"`
	Bounds         BoundsConfig `mapstructure:"bounds" yaml:"bounds" toml:"bounds"`
}

// BoundsConfig is the initial placement of an embedded webview.
type BoundsConfig struct {
	X         float32 `mapstructure:"x" yaml:"x" toml:"x"`
	Y         float32 `mapstructure:"y" yaml:"y" toml:"y"`
	Width     float32 `mapstructure:"width" yaml:"width" toml:"width"`
	Height    float32 `mapstructure:"height" yaml:"height" toml:"height"`
	MinWidth  float32 `mapstructure:"min_width" yaml:"min_width" toml:"min_width"`
	MinHeight float32 `mapstructure:"min_height" yaml:"min_height" toml:"min_height"`
}

// IPCConfig tunes the IPC bridge.
type IPCConfig struct {
	MaxAsync        int64 `mapstructure:"max_async" yaml:"max_async" toml:"max_async"`
	WarnUnknownOnce bool  `mapstructure:"warn_unknown_once" yaml:"warn_unknown_once" toml:"warn_unknown_once"`
}

// FilesystemConfig scopes the fs:: commands.
type FilesystemConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir" toml:"base_dir"`
}

// ChromiumConfig configures the Chromium process behind the CDP adapter.
type ChromiumConfig struct {
	// ExecPath is empty to let chromedp locate the browser.
	ExecPath    string   `mapstructure:"exec_path" yaml:"exec_path" toml:"exec_path"`
	UserDataDir string   `mapstructure:"user_data_dir" yaml:"user_data_dir" toml:"user_data_dir"`
	Headless    bool     `mapstructure:"headless" yaml:"headless" toml:"headless"`
	ExtraFlags  []string `mapstructure:"extra_flags" yaml:"extra_flags" toml:"extra_flags"`
}
