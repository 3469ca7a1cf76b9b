//go:build !darwin

package platform

// InvertY is set where webview and host-window cursor coordinates grow in
// opposite vertical directions.
const InvertY = false
