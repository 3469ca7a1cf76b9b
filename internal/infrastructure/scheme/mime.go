package scheme

import (
	"fmt"
	"path"
	"strings"
)

var mimeTypes = map[string]string{
	"html":  "text/html",
	"htm":   "text/html",
	"js":    "text/javascript",
	"mjs":   "text/javascript",
	"css":   "text/css",
	"json":  "application/json",
	"wasm":  "application/wasm",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"bmp":   "image/bmp",
	"svg":   "image/svg+xml",
	"ico":   "image/vnd.microsoft.icon",
	"webp":  "image/webp",
	"mp3":   "audio/mpeg",
	"mp4":   "video/mp4",
	"mpeg":  "video/mpeg",
	"pdf":   "application/pdf",
	"zip":   "application/zip",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	"csv":   "text/csv",
	"txt":   "text/plain",
}

// MimeType returns the content type served for p. Extensions outside the
// table are a configuration error.
func MimeType(p string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if mime, ok := mimeTypes[ext]; ok {
		return mime, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMIME, path.Base(p))
}
