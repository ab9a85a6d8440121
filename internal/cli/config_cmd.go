package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptcap/promptcap/internal/cli/formatter"
	"github.com/promptcap/promptcap/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and migrate the configuration file",
	}

	cmd.AddCommand(
		newConfigShowCmd(app),
		newConfigMigrateCmd(app),
	)

	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(app.Config, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", formatter.Dim("# config file:"), app.ConfigPath)
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite the configuration file at the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath

			raw, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				if err := config.Save(config.Default(), path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration (version %d) to %s\n",
					config.CurrentVersion, path)
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}

			migrated, err := config.MigrateRaw(raw)
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := json.Unmarshal(migrated, cfg); err != nil {
				return fmt.Errorf("parsing migrated config: %w", err)
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s to version %d\n", path, config.CurrentVersion)
			return nil
		},
	}
}
