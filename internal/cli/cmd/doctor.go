package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/bnema/flurx/internal/cli"
	"github.com/bnema/flurx/internal/cli/styles"
	"github.com/bnema/flurx/internal/infrastructure/clipboard"
	"github.com/bnema/flurx/internal/infrastructure/config"
	"github.com/bnema/flurx/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/flurx/internal/infrastructure/scheme"
)

// chromiumNames are looked up on PATH when chromium.exec_path is empty.
var chromiumNames = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"microsoft-edge",
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the browser, assets and config",
	Long: `Doctor checks what 'flurx run' needs:
- a Chromium executable,
- the flurx://localhost root,
- the bounds database,
- a clipboard tool.

It exits non-zero when a required check fails.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	cfg := app.Config

	report := styles.DoctorReport{Sections: []styles.DoctorSection{
		{Title: "Config", Icon: styles.IconConfig, Checks: []styles.DoctorCheck{configCheck(app)}},
		{Title: "Runtime", Icon: styles.IconGlobe, Checks: []styles.DoctorCheck{chromiumCheck(cfg), clipboardCheck()}},
		{Title: "Protocol", Icon: styles.IconFolder, Checks: []styles.DoctorCheck{localRootCheck(app.Ctx(), cfg)}},
		{Title: "Storage", Icon: styles.IconDatabase, Checks: []styles.DoctorCheck{databaseCheck(app.Ctx(), cfg)}},
	}}

	fmt.Fprintln(cmd.OutOrStdout(), styles.NewDoctorRenderer(app.Theme).Render(report))
	if !report.OK() {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

func configCheck(app *cli.App) styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "config.toml"}
	if app.Manager != nil {
		c.Detail = app.Manager.ConfigFile()
	} else if path, err := config.GetConfigFile(); err == nil {
		c.Detail = path
	}
	if app.ConfigErr != nil {
		c.Status = styles.CheckFail
		c.Detail = app.ConfigErr.Error()
	}
	return c
}

func chromiumCheck(cfg *config.Config) styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "Chromium"}
	if p := cfg.Chromium.ExecPath; p != "" {
		if _, err := os.Stat(p); err != nil {
			c.Status = styles.CheckFail
			c.Detail = err.Error()
			return c
		}
		c.Detail = p
		return c
	}
	for _, name := range chromiumNames {
		if p, err := exec.LookPath(name); err == nil {
			c.Detail = p
			return c
		}
	}
	c.Status = styles.CheckFail
	c.Detail = "no Chromium found on PATH; set chromium.exec_path"
	return c
}

func clipboardCheck() styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "Clipboard"}
	if !clipboard.New().Available() {
		c.Status = styles.CheckWarn
		c.Detail = clipboard.ErrNoTool.Error()
	}
	return c
}

func localRootCheck(ctx context.Context, cfg *config.Config) styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "Local root"}
	h, err := scheme.NewHandler(ctx, cfg.Protocol.AssetsDir, cfg.Protocol.LocalRoot)
	if err != nil {
		// only flurx://localhost loads need it
		c.Status = styles.CheckWarn
		c.Detail = err.Error()
		return c
	}
	c.Detail = h.Root()
	return c
}

func databaseCheck(ctx context.Context, cfg *config.Config) styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "Bounds database"}
	if !cfg.Embedding.PersistBounds {
		c.Detail = "disabled"
		return c
	}
	path := cfg.Embedding.DatabasePath
	if path == "" {
		var err error
		if path, err = config.GetDatabaseFile(); err != nil {
			c.Status = styles.CheckFail
			c.Detail = err.Error()
			return c
		}
	}

	db, err := sqlite.NewConnection(ctx, path)
	if err != nil {
		c.Status = styles.CheckFail
		c.Detail = err.Error()
		return c
	}
	defer func() { _ = sqlite.Close(db) }()

	version, err := sqlite.GetMigrationStatus(ctx, db)
	if err != nil {
		c.Status = styles.CheckWarn
		c.Detail = err.Error()
		return c
	}
	c.Detail = fmt.Sprintf("%s (schema v%d)", path, version)
	return c
}
