// Package scheme serves flurx://localhost/<path> requests from the local
// root directory.
package scheme

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/logging"
)

const (
	// Scheme is the custom URI scheme webviews load local content from.
	Scheme = "flurx"
	// Host is the only host served under Scheme.
	Host = "localhost"
	// IndexFile answers requests for a directory.
	IndexFile = "index.html"
)

var (
	// ErrUnknownMIME is returned for files whose extension has no known
	// content type.
	ErrUnknownMIME = errors.New("unknown mime type")
	// ErrRootNotFound is returned when the local root directory is missing.
	ErrRootNotFound = errors.New("local root not found")
)

// PageHandler generates content for a specific page path.
type PageHandler interface {
	Handle(req port.SchemeRequest) port.SchemeResponse
}

// PageHandlerFunc is an adapter to allow use of ordinary functions as PageHandlers.
type PageHandlerFunc func(req port.SchemeRequest) port.SchemeResponse

func (f PageHandlerFunc) Handle(req port.SchemeRequest) port.SchemeResponse {
	return f(req)
}

// Handler resolves requests to files under the local root. Registered pages
// take precedence over files.
type Handler struct {
	root   string
	pages  map[string]PageHandler
	logger zerolog.Logger
	mu     sync.RWMutex
}

// NewHandler serves files from <assetsDir>/<localRoot>.
func NewHandler(ctx context.Context, assetsDir, localRoot string) (*Handler, error) {
	root, err := filepath.Abs(filepath.Join(assetsDir, localRoot))
	if err != nil {
		return nil, fmt.Errorf("resolve local root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootNotFound, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	log := logging.FromContext(ctx)
	return &Handler{
		root:   root,
		pages:  make(map[string]PageHandler),
		logger: log.With().Str("component", "scheme-handler").Logger(),
	}, nil
}

// Root returns the absolute directory files are served from.
func (h *Handler) Root() string {
	return h.root
}

// RegisterPage registers a handler for a specific path.
func (h *Handler) RegisterPage(p string, handler PageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pages[p] = handler
	h.logger.Debug().Str("path", p).Msg("registered page handler")
}

// Hook returns a per-webview protocol callback that adds csp as the
// Content-Security-Policy header when non-empty.
func (h *Handler) Hook(csp string) func(port.SchemeRequest) port.SchemeResponse {
	return func(req port.SchemeRequest) port.SchemeResponse {
		resp := h.Handle(req)
		if csp != "" {
			if resp.Headers == nil {
				resp.Headers = make(map[string]string)
			}
			resp.Headers["Content-Security-Policy"] = csp
		}
		return resp
	}
}

// Handle serves one request.
func (h *Handler) Handle(req port.SchemeRequest) port.SchemeResponse {
	p := RequestPath(req)

	h.mu.RLock()
	page, ok := h.pages[p]
	h.mu.RUnlock()
	if ok {
		return page.Handle(req)
	}

	if strings.HasSuffix(p, "/") {
		p += IndexFile
	}

	mime, err := MimeType(p)
	if err != nil {
		h.logger.Error().Err(err).Str("path", p).Msg("cannot serve file")
		return errorResponse(http.StatusInternalServerError, err)
	}

	full := filepath.Join(h.root, filepath.FromSlash(p))
	if full != h.root && !strings.HasPrefix(full, h.root+string(filepath.Separator)) {
		return errorResponse(http.StatusForbidden, fmt.Errorf("path %q escapes local root", p))
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.logger.Debug().Str("path", p).Msg("file not found")
			return errorResponse(http.StatusNotFound, fmt.Errorf("not found: %s", p))
		}
		h.logger.Error().Err(err).Str("path", p).Msg("failed to read file")
		return errorResponse(http.StatusInternalServerError, err)
	}

	return port.SchemeResponse{
		Data:        data,
		ContentType: mime,
		StatusCode:  http.StatusOK,
		Headers:     map[string]string{"Content-Type": mime},
	}
}

// RequestPath returns the cleaned, slash-rooted path of req. Directory
// requests keep their trailing slash.
func RequestPath(req port.SchemeRequest) string {
	p := req.Path
	if p == "" && req.URI != "" {
		if u, err := url.Parse(req.URI); err == nil {
			p = u.Path
		}
	}
	trailing := p == "" || strings.HasSuffix(p, "/")
	p = path.Clean("/" + p)
	if trailing && p != "/" {
		p += "/"
	}
	return p
}

// URL returns the flurx:// URL for a path under the local root.
func URL(p string) string {
	return Scheme + "://" + Host + "/" + strings.TrimPrefix(p, "/")
}

func errorResponse(status int, err error) port.SchemeResponse {
	return port.SchemeResponse{
		Data:        []byte(err.Error()),
		ContentType: "text/plain",
		StatusCode:  status,
		Headers:     map[string]string{"Content-Type": "text/plain"},
	}
}
