package cdp

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
)

var errClosed = errors.New("target closed")

// View is one Chromium target backing a webview.
type View struct {
	adapter  *Adapter
	ctx      context.Context
	cancel   context.CancelFunc
	targetID target.ID
	context  cdp.BrowserContextID
	windowID browser.WindowID
	parent   port.Parent
	hooks    port.Hooks
	html     string
	https    bool
	log      zerolog.Logger

	mu       sync.Mutex
	queue    []string
	closed   bool
	devtools bool
	title    string
	url      string

	notify chan struct{}
	done   chan struct{}
}

func (v *View) browserCtx() context.Context {
	return cdp.WithExecutor(v.ctx, chromedp.FromContext(v.ctx).Browser)
}

func (v *View) targetCtx() context.Context {
	return cdp.WithExecutor(v.ctx, chromedp.FromContext(v.ctx).Target)
}

func (v *View) platformErr(err error, op string) error {
	if v.ctx.Err() != nil {
		return port.NewAdapterError(port.ErrNotFound, errClosed, "%s on target %s", op, v.targetID)
	}
	return port.NewAdapterError(port.ErrPlatform, err, "%s on target %s", op, v.targetID)
}

func (v *View) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) SetBounds(_ context.Context, bounds geometry.Bounds) error {
	if v.isClosed() {
		return port.NewAdapterError(port.ErrNotFound, errClosed, "set bounds on target %s", v.targetID)
	}
	if v.parent.Kind != port.ParentChild {
		return nil
	}
	if err := browser.SetWindowBounds(v.windowID, windowBounds(v.parent.Origin, bounds)).Do(v.browserCtx()); err != nil {
		return v.platformErr(err, "set bounds")
	}
	return nil
}

func (v *View) SetVisible(_ context.Context, visible bool) error {
	if v.isClosed() {
		return port.NewAdapterError(port.ErrNotFound, errClosed, "set visible on target %s", v.targetID)
	}
	state := browser.WindowStateMinimized
	if visible {
		state = browser.WindowStateNormal
	}
	if err := browser.SetWindowBounds(v.windowID, &browser.Bounds{WindowState: state}).Do(v.browserCtx()); err != nil {
		return v.platformErr(err, "set visible")
	}
	return nil
}

// EvaluateScript queues script on the view's worker and returns.
func (v *View) EvaluateScript(_ context.Context, script string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return port.NewAdapterError(port.ErrNotFound, errClosed, "evaluate script on target %s", v.targetID)
	}
	v.queue = append(v.queue, script)
	v.mu.Unlock()

	select {
	case v.notify <- struct{}{}:
	default:
	}
	return nil
}

// runScripts drains the queue in order until the view closes.
func (v *View) runScripts() {
	defer close(v.done)
	for {
		select {
		case <-v.ctx.Done():
			return
		case <-v.notify:
		}

		v.mu.Lock()
		batch := v.queue
		v.queue = nil
		v.mu.Unlock()

		for _, script := range batch {
			_, exc, err := runtime.Evaluate(script).Do(v.targetCtx())
			switch {
			case err != nil:
				if v.ctx.Err() != nil {
					return
				}
				v.log.Warn().Err(err).Msg("script evaluation failed")
			case exc != nil:
				v.log.Debug().Str("exception", exc.Text).Msg("script threw")
			}
		}
	}
}

// Devtools cannot be toggled over the protocol. Views launched with
// auto-open report open and accept an idempotent open.
func (v *View) OpenDevtools(context.Context) error {
	if v.DevtoolsOpen() {
		return nil
	}
	return port.NewAdapterError(port.ErrPlatform, nil, "devtools cannot be opened on target %s", v.targetID)
}

func (v *View) CloseDevtools(context.Context) error {
	if !v.DevtoolsOpen() {
		return nil
	}
	return port.NewAdapterError(port.ErrPlatform, nil, "devtools cannot be closed on target %s", v.targetID)
}

func (v *View) DevtoolsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.devtools
}

// Reparent brings the target's window to the front.
func (v *View) Reparent(_ context.Context, _ world.Entity) error {
	if v.isClosed() {
		return port.NewAdapterError(port.ErrNotFound, errClosed, "reparent target %s", v.targetID)
	}
	if err := target.ActivateTarget(v.targetID).Do(v.browserCtx()); err != nil {
		return v.platformErr(err, "activate")
	}
	return nil
}

// Close closes the target. Closing twice is harmless.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	err := chromedp.Cancel(v.ctx)
	v.cancel()
	<-v.done
	v.adapter.forget(v)
	if v.context != "" {
		if derr := target.DisposeBrowserContext(v.context).Do(v.adapter.browserCtx()); derr != nil {
			v.log.Debug().Err(derr).Msg("dispose incognito context failed")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return port.NewAdapterError(port.ErrPlatform, err, "close target %s", v.targetID)
	}
	return nil
}

// listen handles target events. It runs on chromedp's reader goroutine, so
// anything that sends a command is moved to its own goroutine.
func (v *View) listen(ev any) {
	switch ev := ev.(type) {
	case *runtime.EventBindingCalled:
		if ev.Name == bindingName {
			v.handleBinding(ev.Payload)
		}
	case *page.EventFrameNavigated:
		if ev.Frame != nil && ev.Frame.ParentID == "" {
			v.mu.Lock()
			v.url = ev.Frame.URL
			v.mu.Unlock()
		}
	case *page.EventFrameStartedLoading:
		if string(ev.FrameID) == string(v.targetID) && v.hooks.OnPageLoad != nil {
			v.hooks.OnPageLoad(port.LoadStarted, v.currentURL())
		}
	case *page.EventLoadEventFired:
		if v.hooks.OnPageLoad != nil {
			v.hooks.OnPageLoad(port.LoadFinished, v.currentURL())
		}
	case *fetch.EventRequestPaused:
		go v.handlePaused(ev)
	}
}

func (v *View) currentURL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.url
}

func (v *View) handleBinding(payload string) {
	event, isDrag, err := parseDragDrop(payload)
	if !isDrag {
		if v.hooks.OnIPC != nil {
			v.hooks.OnIPC(payload)
		}
		return
	}
	if err != nil {
		v.log.Debug().Err(err).Msg("dropping drag event")
		return
	}
	if v.hooks.OnDragDrop != nil {
		v.hooks.OnDragDrop(event)
	}
}

// titleChanged is called by the adapter's browser listener.
func (v *View) titleChanged(title string) {
	v.mu.Lock()
	changed := title != v.title
	v.title = title
	v.mu.Unlock()
	if changed && v.hooks.OnTitleChanged != nil {
		v.hooks.OnTitleChanged(title)
	}
}

func (v *View) handlePaused(ev *fetch.EventRequestPaused) {
	ctx := v.targetCtx()
	if req, ok := localRequest(ev.Request.URL, ev.Request.Method); ok {
		resp := v.serveLocal(req)
		if err := fulfill(ctx, ev.RequestID, resp); err != nil {
			v.log.Warn().Err(err).Str("url", ev.Request.URL).Msg("fulfill failed")
		}
		return
	}

	if ev.ResourceType == network.ResourceTypeDocument && v.hooks.OnNavigation != nil && !v.hooks.OnNavigation(ev.Request.URL) {
		v.log.Debug().Str("url", ev.Request.URL).Msg("navigation blocked")
		if err := fetch.FailRequest(ev.RequestID, network.ErrorReasonBlockedByClient).Do(ctx); err != nil {
			v.log.Warn().Err(err).Msg("fail request failed")
		}
		return
	}

	if err := fetch.ContinueRequest(ev.RequestID).Do(ctx); err != nil {
		v.log.Debug().Err(err).Msg("continue request failed")
	}
}

func (v *View) serveLocal(req port.SchemeRequest) port.SchemeResponse {
	if req.Path == inlinePath && v.html != "" {
		return port.SchemeResponse{
			Data:        []byte(v.html),
			ContentType: "text/html",
			StatusCode:  http.StatusOK,
			Headers:     map[string]string{"Content-Type": "text/html"},
		}
	}
	if v.hooks.OnCustomProtocol == nil {
		return port.SchemeResponse{StatusCode: http.StatusNotFound, ContentType: "text/plain", Data: []byte("not found")}
	}
	return v.hooks.OnCustomProtocol(req)
}

func fulfill(ctx context.Context, id fetch.RequestID, resp port.SchemeResponse) error {
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	headers := make([]*fetch.HeaderEntry, 0, len(resp.Headers)+1)
	hasType := false
	for name, value := range resp.Headers {
		if http.CanonicalHeaderKey(name) == "Content-Type" {
			hasType = true
		}
		headers = append(headers, &fetch.HeaderEntry{Name: name, Value: value})
	}
	if !hasType && resp.ContentType != "" {
		headers = append(headers, &fetch.HeaderEntry{Name: "Content-Type", Value: resp.ContentType})
	}
	return fetch.FulfillRequest(id, int64(status)).
		WithResponseHeaders(headers).
		WithBody(base64.StdEncoding.EncodeToString(resp.Data)).
		Do(ctx)
}
