package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/flurx/internal/cli/styles"
	"github.com/bnema/flurx/internal/infrastructure/config"
)

var configSchemaOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file location",
	RunE:  runConfigPath,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of config.toml",
	Long: `Print the JSON Schema describing config.toml.

Examples:
  flurx config schema
  flurx config schema -o flurx.schema.json`,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSchemaCmd)
	configSchemaCmd.Flags().StringVarP(&configSchemaOut, "output", "o", "", "write the schema to a file")
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	path, err := config.GetConfigFile()
	if app.Manager != nil && app.Manager.ConfigFile() != "" {
		path, err = app.Manager.ConfigFile(), nil
	}
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderError(err))
		return nil
	}

	_, statErr := os.Stat(path)
	fmt.Fprint(cmd.OutOrStdout(), renderer.RenderPath(path, !errors.Is(statErr, os.ErrNotExist)))
	if app.ConfigErr != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderError(app.ConfigErr))
	}
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	if configSchemaOut != "" {
		if err := config.WriteSchemaFile(configSchemaOut); err != nil {
			return err
		}
		if app := GetApp(); app != nil {
			fmt.Fprint(cmd.OutOrStdout(), styles.NewConfigRenderer(app.Theme).RenderSchemaWritten(configSchemaOut))
		}
		return nil
	}

	data, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
