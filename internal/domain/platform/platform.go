// Package platform holds build-time switches for OS-specific webview behavior.
package platform
