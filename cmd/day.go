package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/output"
)

// dayCmd shows one day.
var dayCmd = &cobra.Command{
	Use:     "day [DATE...]",
	Aliases: []string{"today", "show"},
	Short:   "Show the page of a day",
	Long: `Show fields, tasks, counters, timers and entries of a day.
Past days come from their snapshot when one was captured.

Examples:
  daymark day
  daymark day yesterday
  daymark day 3 days ago
  daymark day 2024-01-05`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showDay(joinArgs(args))
	},
}

// Sleep flags.
var (
	sleepFlagDate string
	sleepFlagBed  string
	sleepFlagWake string
)

// daySleepCmd records bedtime and wake time.
var daySleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Record last night's bedtime and this morning's wake time",
	Long: `Record sleep times as HH:MM. An empty value clears it.

Examples:
  daymark day sleep --bed 23:30 --wake 07:00
  daymark day sleep --wake 06:45 --date yesterday`,
	Args: cobra.NoArgs,
	RunE: runDaySleep,
}

func init() {
	daySleepCmd.Flags().StringVarP(&sleepFlagDate, "date", "d", "", "Day to record (default today)")
	daySleepCmd.Flags().StringVar(&sleepFlagBed, "bed", "", "Previous night's bedtime (HH:MM)")
	daySleepCmd.Flags().StringVar(&sleepFlagWake, "wake", "", "Wake time (HH:MM)")

	dayCmd.AddCommand(daySleepCmd)
	rootCmd.AddCommand(dayCmd)
}

func showDay(input string) error {
	date, err := resolveDate(input)
	if err != nil {
		return err
	}
	state, err := ctx.Journal.GetStateForDate(ctx.UserID, date)
	if err != nil {
		return err
	}
	return emit(state, func(c *output.CLIFormatter) {
		c.PrintDay(state, ctx.Now())
	})
}

func runDaySleep(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(sleepFlagDate)
	if err != nil {
		return err
	}

	var update journal.SleepUpdate
	if cmd.Flags().Changed("bed") {
		update.PreviousBedtime = &sleepFlagBed
	}
	if cmd.Flags().Changed("wake") {
		update.WakeTime = &sleepFlagWake
	}

	log, err := ctx.Journal.SetSleep(ctx.UserID, date, update)
	if err != nil {
		return err
	}
	return done("Sleep recorded for "+log.Date, log)
}
