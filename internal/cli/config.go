package cli

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/sadopc/timetable/internal/config"
)

var noStore = map[string]string{"store": "none"}

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, the config file and
TIMETABLE_* environment variables have been applied.

Example:
  timetable config
  timetable config init`,
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			status := "not found, using defaults"
			if _, err := os.Stat(a.configPath); err == nil {
				status = "loaded"
			}
			fmt.Fprintf(out, "%s %s %s\n\n", colorHeader.Sprint("Config file:"), a.configPath, colorMuted.Sprintf("(%s)", status))

			data, err := toml.Marshal(a.config)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Write a config file with default values",
		Annotations: noStore,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil {
				return fmt.Errorf("%s already exists", a.configPath)
			}
			if err := config.Default().SaveTo(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", a.configPath)
			return nil
		},
	})

	return cmd
}
