package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/output"
)

// Settings flags.
var (
	settingsFlagTimezone string
	settingsFlagTheme    string
)

// settingsCmd shows or changes the acting user's settings.
var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"user", "me"},
	Short:   "Show or change your timezone and theme",
	Long: `The timezone decides when your day rolls over.

Examples:
  daymark settings
  daymark settings --timezone Europe/Berlin`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().StringVar(&settingsFlagTimezone, "timezone", "", "IANA timezone, e.g. America/New_York")
	settingsCmd.Flags().StringVar(&settingsFlagTheme, "theme", "", "Interface theme")
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	var update journal.SettingsUpdate
	if cmd.Flags().Changed("timezone") {
		update.Timezone = &settingsFlagTimezone
	}
	if cmd.Flags().Changed("theme") {
		update.Theme = &settingsFlagTheme
	}

	var (
		user *model.User
		err  error
	)
	if update.Timezone == nil && update.Theme == nil {
		user, err = ctx.Journal.Settings(ctx.UserID)
	} else {
		user, err = ctx.Journal.UpdateSettings(ctx.UserID, update)
	}
	if err != nil {
		return err
	}

	return emit(user, func(c *output.CLIFormatter) {
		c.Title("User " + user.ID)
		c.Printf("  Timezone: %s\n", orDefault(user.Timezone, "UTC"))
		c.Printf("  Theme:    %s\n", orDefault(user.Theme, "default"))
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
