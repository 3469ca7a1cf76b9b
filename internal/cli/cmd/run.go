package cmd

import (
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/flurx/internal/bootstrap"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/infrastructure/ebitenhost"
	"github.com/bnema/flurx/internal/logging"
)

var (
	runEmbedded bool
	runHeadless bool
	runTicks    int
)

var runCmd = &cobra.Command{
	Use:   "run [source]",
	Short: "Open a window with a webview",
	Long: `Run opens the host window and loads source into a webview.

source is a URL, a path to an .html file or inline HTML starting with '<'.
Without a source the flurx://localhost root is loaded.

With --embedded the webview is a draggable, resizable child placed per the
[embedding] section. With --headless no window or browser is started and the
runtime ticks an in-memory webview --ticks times.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runEmbedded, "embedded", false, "load the source into an embedded child webview")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "tick an in-memory webview without a window")
	runCmd.Flags().IntVar(&runTicks, "ticks", 60, "ticks to run with --headless")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	cfg := app.Config
	timer := bootstrap.NewStartupTimer()

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)
	log.Debug().Stringer("build", app.BuildInfo).Msg("starting flurx")

	if !runHeadless && app.Manager != nil {
		if err := app.WatchConfig(nil); err != nil {
			log.Warn().Err(err).Msg("config watcher not started")
		}
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	source, err := bootstrap.ParseSource(arg)
	if err != nil {
		return err
	}
	wc, err := bootstrap.WebviewConfigFrom(cfg, source)
	if err != nil {
		return err
	}
	timer.Mark("config")

	svc, err := bootstrap.NewServices(ctx, bootstrap.ServicesInput{
		Config:   cfg,
		Build:    app.BuildInfo,
		Headless: runHeadless,
		Stdout:   cmd.OutOrStdout(),
		Timer:    timer,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn().Err(err).Msg("services close failed")
		}
	}()

	rt, err := bootstrap.NewRuntime(ctx, svc.RuntimeDeps())
	if err != nil {
		return err
	}
	defer rt.Close()

	window := rt.SpawnWindow(bootstrap.WindowFromConfig(cfg))
	spec := bootstrap.WebviewSpec{Name: "main", Config: wc}
	if runEmbedded {
		spec = bootstrap.EmbeddedSpec(cfg, "main", wc)
	}
	rt.SpawnWebview(window, spec)
	timer.Mark("runtime")
	timer.Log(ctx)

	if runHeadless {
		ran := rt.RunHeadless(ctx, window, runTicks, time.Second/60)
		log.Info().Int("ticks", ran).Bool("exit_requested", rt.ExitRequested()).Msg("headless run finished")
		return nil
	}

	return ebitenhost.Run(ctx, rt, window, ebitenhost.Options{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Resizable:  cfg.Window.Resizable,
		Background: clearColor(wc.Background),
	})
}

// clearColor is the host window fill behind the webviews.
func clearColor(bg entity.Background) color.Color {
	if bg.Kind != entity.BackgroundColor {
		return color.Black
	}
	return color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: bg.A}
}
