package config

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#([0-9a-f]{6}|[0-9a-f]{8})$`)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateWindow(config)...)
	validationErrors = append(validationErrors, validateProtocol(config)...)
	validationErrors = append(validationErrors, validateWebview(config)...)
	validationErrors = append(validationErrors, validateEmbedding(config)...)

	if config.IPC.MaxAsync < 1 {
		validationErrors = append(validationErrors, "ipc.max_async must be at least 1")
	}
	if config.Filesystem.Enabled && config.Filesystem.BaseDir == "" {
		validationErrors = append(validationErrors, "filesystem.base_dir is required when filesystem.enabled is true")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error, fatal (got: %s)",
			config.Logging.Level,
		))
	}
	switch config.Logging.Format {
	case "json", "console", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: console, json (got: %s)",
			config.Logging.Format,
		))
	}
	if config.Logging.EnableFileLog && config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
	}
	return validationErrors
}

func validateWindow(config *Config) []string {
	var validationErrors []string
	if config.Window.Width <= 0 {
		validationErrors = append(validationErrors, "window.width must be positive")
	}
	if config.Window.Height <= 0 {
		validationErrors = append(validationErrors, "window.height must be positive")
	}
	return validationErrors
}

func validateProtocol(config *Config) []string {
	var validationErrors []string
	if config.Protocol.AssetsDir == "" {
		validationErrors = append(validationErrors, "protocol.assets_dir cannot be empty")
	}
	if strings.Contains(config.Protocol.LocalRoot, "..") {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"protocol.local_root must stay inside protocol.assets_dir (got: %s)",
			config.Protocol.LocalRoot,
		))
	}
	return validationErrors
}

func validateWebview(config *Config) []string {
	switch bg := config.Webview.Background; {
	case bg == "", bg == "transparent", hexColor.MatchString(bg):
		return nil
	default:
		return []string{fmt.Sprintf(
			"webview.background must be empty, transparent or #rrggbb[aa] (got: %s)",
			bg,
		)}
	}
}

func validateEmbedding(config *Config) []string {
	var validationErrors []string
	b := config.Embedding.Bounds
	if b.Width < 0 || b.Height < 0 {
		validationErrors = append(validationErrors, "embedding.bounds width and height must be non-negative")
	}
	if b.MinWidth < 0 || b.MinHeight < 0 {
		validationErrors = append(validationErrors, "embedding.bounds min_width and min_height must be non-negative")
	}
	if b.X < 0 || b.Y < 0 {
		validationErrors = append(validationErrors, "embedding.bounds x and y must be non-negative")
	}
	return validationErrors
}
