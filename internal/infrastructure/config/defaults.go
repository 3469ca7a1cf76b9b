package config

// Default configuration constants
const (
	defaultWindowWidth  = 1280
	defaultWindowHeight = 720

	defaultMaxAsync = 64

	defaultGripZoneHeight = 24
	defaultEmbeddedWidth  = 480
	defaultEmbeddedHeight = 360
	defaultEmbeddedMin    = 100

	defaultMaxLogSizeMB  = 10
	defaultMaxBackups    = 3
	defaultMaxLogAgeDays = 7
)

// DefaultConfig returns the default configuration values for flurx.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  defaultMaxLogSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAgeDays: defaultMaxLogAgeDays,
		},
		Window: WindowConfig{
			Title:     "flurx",
			Width:     defaultWindowWidth,
			Height:    defaultWindowHeight,
			Resizable: true,
		},
		Protocol: ProtocolConfig{
			AssetsDir: "assets",
			LocalRoot: "ui",
		},
		Webview: WebviewConfig{
			Theme:     "auto",
			Clipboard: true,
		},
		Embedding: EmbeddingConfig{
			GripZoneHeight: defaultGripZoneHeight,
			PersistBounds:  true,
			Bounds: BoundsConfig{
				X:         0,
				Y:         0,
				Width:     defaultEmbeddedWidth,
				Height:    defaultEmbeddedHeight,
				MinWidth:  defaultEmbeddedMin,
				MinHeight: defaultEmbeddedMin,
			},
		},
		IPC: IPCConfig{
			MaxAsync:        defaultMaxAsync,
			WarnUnknownOnce: true,
		},
		Filesystem: FilesystemConfig{
			Enabled: false,
		},
	}
}
