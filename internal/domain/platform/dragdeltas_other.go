//go:build !linux

package platform

// WebviewDragDeltas selects the page-side grip::drag stream as the drag
// delta source instead of host cursor motion.
const WebviewDragDeltas = false
