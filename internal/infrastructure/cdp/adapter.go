// Package cdp implements the native webview adapter on Chromium, driven over
// the DevTools protocol. Each webview is its own target in its own window.
package cdp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/logging"
)

// Options configures the Chromium process. Flags are browser-wide, so
// Autoplay and AutoOpenDevtools apply to every view.
type Options struct {
	ExecPath         string
	UserDataDir      string
	Headless         bool
	ExtraFlags       []string
	Autoplay         bool
	AutoOpenDevtools bool
	// DownloadDir receives downloads. Defaults to <tmp>/flurx-downloads.
	DownloadDir string
}

// Adapter launches one Chromium process and opens a target per Build.
type Adapter struct {
	opts        Options
	allocCancel context.CancelFunc
	rootCtx     context.Context
	rootCancel  context.CancelFunc
	log         zerolog.Logger

	mu        sync.Mutex
	views     map[target.ID]*View
	downloads map[string]*download
}

type download struct {
	view *View
	url  string
	dest string
}

// allocatorOptions turns Options into exec allocator options.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	out = append(out,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("hide-scrollbars", false),
		chromedp.Flag("mute-audio", false),
	)
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserDataDir != "" {
		out = append(out, chromedp.UserDataDir(opts.UserDataDir))
	}
	if opts.Autoplay {
		out = append(out, chromedp.Flag("autoplay-policy", "no-user-gesture-required"))
	}
	if opts.AutoOpenDevtools {
		out = append(out, chromedp.Flag("auto-open-devtools-for-tabs", true))
	}
	for _, flag := range opts.ExtraFlags {
		name, value := splitFlag(flag)
		out = append(out, chromedp.Flag(name, value))
	}
	return out
}

// splitFlag parses "--name=value" or "--name".
func splitFlag(flag string) (string, any) {
	for len(flag) > 0 && flag[0] == '-' {
		flag = flag[1:]
	}
	for i := 0; i < len(flag); i++ {
		if flag[i] == '=' {
			return flag[:i], flag[i+1:]
		}
	}
	return flag, true
}

// New starts Chromium. ctx bounds the process lifetime.
func New(ctx context.Context, opts Options) (*Adapter, error) {
	log := logging.FromContext(ctx).With().Str("component", "cdp").Logger()

	if opts.DownloadDir == "" {
		opts.DownloadDir = filepath.Join(os.TempDir(), "flurx-downloads")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0o750); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	rootCtx, rootCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) { log.Debug().Msgf(format, args...) }),
		chromedp.WithErrorf(func(format string, args ...any) { log.Error().Msgf(format, args...) }),
	)

	a := &Adapter{
		opts:        opts,
		allocCancel: allocCancel,
		rootCtx:     rootCtx,
		rootCancel:  rootCancel,
		log:         log,
		views:       make(map[target.ID]*View),
		downloads:   make(map[string]*download),
	}

	// The first Run launches the browser.
	if err := chromedp.Run(rootCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		bctx := cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Browser)
		if err := target.SetDiscoverTargets(true).Do(bctx); err != nil {
			return err
		}
		return browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(opts.DownloadDir).
			WithEventsEnabled(true).
			Do(bctx)
	})); err != nil {
		rootCancel()
		allocCancel()
		return nil, fmt.Errorf("start chromium: %w", err)
	}

	chromedp.ListenBrowser(rootCtx, a.listenBrowser)
	log.Info().Str("exec", opts.ExecPath).Bool("headless", opts.Headless).Msg("chromium started")
	return a, nil
}

func (a *Adapter) browserCtx() context.Context {
	return cdp.WithExecutor(a.rootCtx, chromedp.FromContext(a.rootCtx).Browser)
}

// Build opens a new window target and loads the content.
func (a *Adapter) Build(
	ctx context.Context,
	parent port.Parent,
	cfg entity.WebviewConfig,
	load port.Loader,
	hooks port.Hooks,
) (port.NativeHandle, error) {
	if a.rootCtx.Err() != nil {
		return nil, port.NewAdapterError(port.ErrNotFound, a.rootCtx.Err(), "chromium is not running")
	}
	bctx := a.browserCtx()

	create := target.CreateTarget("about:blank").WithNewWindow(true)
	if parent.Kind == port.ParentChild {
		wb := windowBounds(parent.Origin, parent.Bounds)
		create = create.WithWidth(wb.Width).WithHeight(wb.Height)
	}
	var bcid cdp.BrowserContextID
	if cfg.Incognito {
		var err error
		if bcid, err = target.CreateBrowserContext().Do(bctx); err != nil {
			return nil, port.NewAdapterError(port.ErrPlatform, err, "create incognito context")
		}
		create = create.WithBrowserContextID(bcid)
	}
	targetID, err := create.Do(bctx)
	if err != nil {
		return nil, port.NewAdapterError(port.ErrPlatform, err, "create target")
	}

	tctx, cancel := chromedp.NewContext(a.rootCtx, chromedp.WithTargetID(targetID))
	v := &View{
		adapter:  a,
		ctx:      tctx,
		cancel:   cancel,
		targetID: targetID,
		context:  bcid,
		parent:   parent,
		hooks:    hooks,
		html:     load.HTML,
		https:    cfg.UseHTTPSScheme,
		devtools: cfg.DevtoolsEnabled && cfg.DevtoolsInitiallyOpen && a.opts.AutoOpenDevtools,
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		log:      a.log.With().Str("target", string(targetID)).Logger(),
	}
	chromedp.ListenTarget(tctx, v.listen)

	if err := chromedp.Run(tctx, setupActions(v, cfg, load)); err != nil {
		_ = chromedp.Cancel(tctx)
		cancel()
		return nil, port.NewAdapterError(port.ErrPlatform, err, "set up target %s", targetID)
	}

	a.mu.Lock()
	a.views[targetID] = v
	a.mu.Unlock()

	go v.runScripts()
	go v.navigate(startURL(load, cfg.UseHTTPSScheme))

	logging.FromContext(ctx).Debug().
		Str("target", string(targetID)).
		Str("url", load.URL).
		Bool("child", parent.Kind == port.ParentChild).
		Msg("chromium webview built")
	return v, nil
}

// startURL picks what the target navigates to first.
func startURL(load port.Loader, https bool) string {
	switch {
	case load.HTML != "":
		return origin(https) + inlinePath
	case load.URL != "":
		return toChromium(load.URL, https)
	default:
		return "about:blank"
	}
}

func (v *View) navigate(url string) {
	if err := chromedp.Run(v.ctx, chromedp.Navigate(url)); err != nil && v.ctx.Err() == nil {
		v.log.Warn().Err(err).Str("url", url).Msg("initial navigation failed")
	}
}

func setupActions(v *View, cfg entity.WebviewConfig, load port.Loader) chromedp.Tasks {
	local := origin(cfg.UseHTTPSScheme) + "/*"
	tasks := chromedp.Tasks{
		runtime.AddBinding(bindingName),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if _, err := page.AddScriptToEvaluateOnNewDocument(shimScript).Do(ctx); err != nil {
				return err
			}
			if load.InitScript == "" {
				return nil
			}
			_, err := page.AddScriptToEvaluateOnNewDocument(load.InitScript).Do(ctx)
			return err
		}),
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{
			{URLPattern: local, RequestStage: fetch.RequestStageRequest},
			{URLPattern: "*", ResourceType: network.ResourceTypeDocument, RequestStage: fetch.RequestStageRequest},
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			bctx := cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Browser)
			id, _, err := browser.GetWindowForTarget().WithTargetID(v.targetID).Do(bctx)
			if err != nil {
				return err
			}
			v.windowID = id
			if v.parent.Kind != port.ParentChild {
				return nil
			}
			return browser.SetWindowBounds(id, windowBounds(v.parent.Origin, v.parent.Bounds)).Do(bctx)
		}),
	}
	if cfg.UserAgent != "" {
		tasks = append(tasks, emulation.SetUserAgentOverride(cfg.UserAgent))
	}
	if color := backgroundColor(cfg.Background); color != nil {
		tasks = append(tasks, emulation.SetDefaultBackgroundColorOverride().WithColor(color))
	}
	if scheme := colorScheme(cfg.Theme); scheme != "" {
		tasks = append(tasks, emulation.SetEmulatedMedia().WithFeatures([]*emulation.MediaFeature{
			{Name: "prefers-color-scheme", Value: scheme},
		}))
	}
	if !cfg.Visible {
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			return browser.SetWindowBounds(v.windowID, &browser.Bounds{WindowState: browser.WindowStateMinimized}).
				Do(cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Browser))
		}))
	}
	return tasks
}

func (a *Adapter) view(id target.ID) *View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.views[id]
}

func (a *Adapter) forget(v *View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.views, v.targetID)
	for guid, d := range a.downloads {
		if d.view == v {
			delete(a.downloads, guid)
		}
	}
}

// listenBrowser handles browser-wide events: titles, popups and downloads.
// Like View.listen it must not block.
func (a *Adapter) listenBrowser(ev any) {
	switch ev := ev.(type) {
	case *target.EventTargetInfoChanged:
		if v := a.view(ev.TargetInfo.TargetID); v != nil {
			v.titleChanged(ev.TargetInfo.Title)
		}
	case *target.EventTargetCreated:
		info := ev.TargetInfo
		if info.Type != "page" || info.OpenerID == "" {
			return
		}
		if opener := a.view(info.OpenerID); opener != nil {
			go a.handlePopup(opener, info.TargetID, info.URL)
		}
	case *browser.EventDownloadWillBegin:
		if v := a.view(target.ID(ev.FrameID)); v != nil {
			go a.beginDownload(v, ev)
		}
	case *browser.EventDownloadProgress:
		if ev.State != browser.DownloadProgressStateInProgress {
			go a.finishDownload(ev.GUID, ev.State == browser.DownloadProgressStateCompleted)
		}
	}
}

// handlePopup answers a window.open. The popup target itself is always
// closed: Allow navigates the opener, Create leaves the new window to the
// host.
func (a *Adapter) handlePopup(opener *View, popup target.ID, url string) {
	resp := port.NewWindowResponse{Action: port.NewWindowAllow}
	if opener.hooks.OnNewWindowRequest != nil {
		resp = opener.hooks.OnNewWindowRequest(url)
	}
	if err := target.CloseTarget(popup).Do(a.browserCtx()); err != nil {
		a.log.Debug().Err(err).Str("popup", string(popup)).Msg("close popup failed")
	}
	if resp.Action == port.NewWindowAllow && url != "" && url != "about:blank" {
		opener.navigate(url)
	}
}

func (a *Adapter) beginDownload(v *View, ev *browser.EventDownloadWillBegin) {
	dest := filepath.Join(a.opts.DownloadDir, ev.SuggestedFilename)
	if v.hooks.OnDownloadStarted != nil && !v.hooks.OnDownloadStarted(ev.URL, &dest) {
		if err := browser.CancelDownload(ev.GUID).Do(a.browserCtx()); err != nil {
			a.log.Debug().Err(err).Msg("cancel download failed")
		}
		return
	}
	a.mu.Lock()
	a.downloads[ev.GUID] = &download{view: v, url: ev.URL, dest: dest}
	a.mu.Unlock()
}

func (a *Adapter) finishDownload(guid string, completed bool) {
	a.mu.Lock()
	d, ok := a.downloads[guid]
	delete(a.downloads, guid)
	a.mu.Unlock()
	if !ok {
		return
	}

	if completed {
		// allowAndName saves under the guid.
		if err := os.Rename(filepath.Join(a.opts.DownloadDir, guid), d.dest); err != nil {
			a.log.Warn().Err(err).Str("dest", d.dest).Msg("move download failed")
			completed = false
		}
	}
	if d.view.hooks.OnDownloadCompleted != nil {
		d.view.hooks.OnDownloadCompleted(d.url, d.dest, completed)
	}
}

// Close closes every target concurrently, then Chromium.
func (a *Adapter) Close() error {
	a.mu.Lock()
	views := make([]*View, 0, len(a.views))
	for _, v := range a.views {
		views = append(views, v)
	}
	a.mu.Unlock()

	var g errgroup.Group
	for _, v := range views {
		g.Go(v.Close)
	}
	err := g.Wait()

	if cerr := chromedp.Cancel(a.rootCtx); cerr != nil && !errors.Is(cerr, context.Canceled) && err == nil {
		err = cerr
	}
	a.rootCancel()
	a.allocCancel()
	return err
}

var _ port.NativeAdapter = (*Adapter)(nil)
