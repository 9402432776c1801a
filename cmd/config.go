package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/daymark/internal/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Inspect runtime configuration",
	Long: `Configuration resolves from compiled defaults, then the YAML config
file, then DAYMARK_* environment variables.

Examples:
  daymark config show
  daymark config path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintData(ctx.Config)
		}
		out, err := yaml.Marshal(ctx.Config)
		if err != nil {
			return err
		}
		ctx.Formatter.Printf("%s", out)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file and database locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := flagConfig
		if file == "" {
			file = config.DefaultConfigFile()
		}
		paths := map[string]string{"config": file, "database": ctx.Config.Storage.Path}
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintData(paths)
		}
		ctx.Formatter.Printf("config:   %s\ndatabase: %s\n", paths["config"], paths["database"])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
