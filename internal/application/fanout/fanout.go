// Package fanout turns native webview callbacks into per-tick event
// streams the host reads on the main thread.
package fanout

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/logging"
)

// Size of windows opened for pages that did not ask for one.
const (
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
)

type filterSet struct {
	navigation atomic.Pointer[OnNavigation]
	download   atomic.Pointer[OnDownload]
	newWindow  atomic.Pointer[OnNewWindowRequest]
	dragDrop   atomic.Pointer[OnDragDrop]
}

// FanOut owns the callback queues and the streams they are republished on.
type FanOut struct {
	logger zerolog.Logger

	pageLoadStartedQ  Queue[PageLoadStarted]
	pageLoadFinishedQ Queue[PageLoadFinished]
	navigatedQ        Queue[Navigated]
	downloadStartedQ  Queue[DownloadStarted]
	downloadDoneQ     Queue[DownloadCompleted]
	newWindowQ        Queue[NewWindowRequested]
	dragEnteredQ      Queue[DragEntered]
	dragOverQ         Queue[DragOver]
	droppedQ          Queue[Dropped]
	dragLeaveQ        Queue[DragLeave]
	titleQ            Queue[DocumentTitleChanged]

	PageLoadStarted      Stream[PageLoadStarted]
	PageLoadFinished     Stream[PageLoadFinished]
	Navigated            Stream[Navigated]
	DownloadStarted      Stream[DownloadStarted]
	DownloadCompleted    Stream[DownloadCompleted]
	NewWindowRequested   Stream[NewWindowRequested]
	NewWindowOpened      Stream[NewWindowOpened]
	DragEntered          Stream[DragEntered]
	DragOver             Stream[DragOver]
	Dropped              Stream[Dropped]
	DragLeave            Stream[DragLeave]
	DocumentTitleChanged Stream[DocumentTitleChanged]

	// main-thread only
	filters map[world.Entity]*filterSet
}

// New creates an empty fan-out.
func New(ctx context.Context) *FanOut {
	log := logging.FromContext(ctx)
	return &FanOut{
		logger:  log.With().Str("component", "fanout").Logger(),
		filters: make(map[world.Entity]*filterSet),
	}
}

// Hooks returns the native callbacks for webview. OnIPC and
// OnCustomProtocol are left for the caller. The callbacks only touch the
// queues and the filter snapshot taken at the last Pump.
func (f *FanOut) Hooks(w *world.World, webview world.Entity) port.Hooks {
	fs := f.filterSet(webview)
	f.snapshot(w, webview, fs)

	return port.Hooks{
		OnPageLoad: func(event port.LoadEvent, url string) {
			switch event {
			case port.LoadStarted:
				f.pageLoadStartedQ.Push(PageLoadStarted{Webview: webview, URL: url})
			case port.LoadFinished:
				f.pageLoadFinishedQ.Push(PageLoadFinished{Webview: webview, URL: url})
			}
		},
		OnNavigation: func(url string) bool {
			allow := true
			if filter := fs.navigation.Load(); filter != nil {
				allow = f.guard("navigation", false, func() bool { return filter.Fn(webview, url) })
			}
			if allow {
				f.navigatedQ.Push(Navigated{Webview: webview, URL: url})
			}
			return allow
		},
		OnDownloadStarted: func(url string, dest *string) bool {
			allow := true
			if filter := fs.download.Load(); filter != nil {
				allow = f.guard("download", false, func() bool { return filter.Fn(webview, url, dest) })
			}
			if !allow {
				return false
			}
			var d string
			if dest != nil {
				d = *dest
			}
			f.downloadStartedQ.Push(DownloadStarted{Webview: webview, URL: url, Dest: d})
			return true
		},
		OnDownloadCompleted: func(url, dest string, ok bool) {
			f.downloadDoneQ.Push(DownloadCompleted{Webview: webview, URL: url, Dest: dest, OK: ok})
		},
		OnNewWindowRequest: func(url string) port.NewWindowResponse {
			resp := port.NewWindowResponse{Action: port.NewWindowAllow}
			if filter := fs.newWindow.Load(); filter != nil {
				resp = f.guardWindow(func() port.NewWindowResponse { return filter.Fn(webview, url) })
			}
			if resp.Action == port.NewWindowCreate {
				f.newWindowQ.Push(NewWindowRequested{Webview: webview, URL: url, Window: resp.Window})
			}
			return resp
		},
		OnDragDrop: func(event port.DragDropEvent) bool {
			switch event.Kind {
			case port.DragEnter:
				f.dragEnteredQ.Push(DragEntered{Webview: webview, Paths: event.Paths, Position: event.Position})
			case port.DragOver:
				f.dragOverQ.Push(DragOver{Webview: webview, Position: event.Position})
			case port.DragDrop:
				f.droppedQ.Push(Dropped{Webview: webview, Paths: event.Paths, Position: event.Position})
			case port.DragLeave:
				f.dragLeaveQ.Push(DragLeave{Webview: webview})
			}
			if filter := fs.dragDrop.Load(); filter != nil {
				return f.guard("drag-drop", false, func() bool { return filter.Fn(webview, event) })
			}
			return false
		},
		OnTitleChanged: func(title string) {
			f.titleQ.Push(DocumentTitleChanged{Webview: webview, Title: title})
		},
	}
}

func (f *FanOut) filterSet(webview world.Entity) *filterSet {
	fs, ok := f.filters[webview]
	if !ok {
		fs = &filterSet{}
		f.filters[webview] = fs
	}
	return fs
}

func (f *FanOut) snapshot(w *world.World, webview world.Entity, fs *filterSet) {
	storeFilter(w, webview, &fs.navigation, func(v OnNavigation) bool { return v.Fn != nil })
	storeFilter(w, webview, &fs.download, func(v OnDownload) bool { return v.Fn != nil })
	storeFilter(w, webview, &fs.newWindow, func(v OnNewWindowRequest) bool { return v.Fn != nil })
	storeFilter(w, webview, &fs.dragDrop, func(v OnDragDrop) bool { return v.Fn != nil })
}

func storeFilter[T any](w *world.World, webview world.Entity, slot *atomic.Pointer[T], valid func(T) bool) {
	v, ok := world.Get[T](w, webview)
	if !ok || !valid(v) {
		slot.Store(nil)
		return
	}
	slot.Store(&v)
}

// guard runs a host filter and turns a panic into fallback.
func (f *FanOut) guard(name string, fallback bool, fn func() bool) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Interface("panic", r).Str("filter", name).Msg("webview filter panicked")
			result = fallback
		}
	}()
	return fn()
}

func (f *FanOut) guardWindow(fn func() port.NewWindowResponse) (resp port.NewWindowResponse) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Interface("panic", r).Str("filter", "new-window").Msg("webview filter panicked")
			resp = port.NewWindowResponse{Action: port.NewWindowDeny}
		}
	}()
	return fn()
}

// Forget drops filter state for a destroyed webview.
func (f *FanOut) Forget(webview world.Entity) {
	delete(f.filters, webview)
}

// Pump republishes everything queued since the last call. Streams from the
// previous tick are reset first. It also refreshes filter snapshots,
// mirrors titles into DocumentTitle and spawns windows requested through
// CreateWindow.
func (f *FanOut) Pump(w *world.World) {
	for webview, fs := range f.filters {
		f.snapshot(w, webview, fs)
	}

	republish(&f.pageLoadStartedQ, &f.PageLoadStarted)
	republish(&f.pageLoadFinishedQ, &f.PageLoadFinished)
	republish(&f.navigatedQ, &f.Navigated)
	republish(&f.downloadStartedQ, &f.DownloadStarted)
	republish(&f.downloadDoneQ, &f.DownloadCompleted)
	republish(&f.newWindowQ, &f.NewWindowRequested)
	republish(&f.dragEnteredQ, &f.DragEntered)
	republish(&f.dragOverQ, &f.DragOver)
	republish(&f.droppedQ, &f.Dropped)
	republish(&f.dragLeaveQ, &f.DragLeave)
	republish(&f.titleQ, &f.DocumentTitleChanged)

	for _, ev := range f.DocumentTitleChanged.Read() {
		if w.Alive(ev.Webview) {
			world.Insert(w, ev.Webview, entity.DocumentTitle(ev.Title))
		}
	}

	f.NewWindowOpened.Reset()
	for _, req := range f.NewWindowRequested.Read() {
		win := spawnWindow(w, req)
		f.logger.Debug().Uint64("webview", uint64(req.Webview)).Uint64("window", uint64(win)).Str("url", req.URL).Msg("opened new window")
		f.NewWindowOpened.Publish(NewWindowOpened{Webview: req.Webview, Window: win})
	}
}

func republish[T any](q *Queue[T], s *Stream[T]) {
	s.Reset()
	for _, v := range q.Drain() {
		s.Publish(v)
	}
}

func spawnWindow(w *world.World, req NewWindowRequested) world.Entity {
	win := w.Spawn()
	title := req.Window.Title
	if title == "" {
		title = req.URL
	}
	world.Insert(w, win, entity.Window{
		Title: title,
		Size:  windowSize(req.Window.Width, req.Window.Height),
	})
	cfg := entity.DefaultWebviewConfig()
	cfg.Source = entity.URI(req.URL)
	world.Insert(w, win, cfg)
	return win
}

func windowSize(width, height float32) geometry.Vec2 {
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if height <= 0 {
		height = DefaultWindowHeight
	}
	return geometry.V(width, height)
}
