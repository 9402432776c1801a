package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/output"
	"github.com/manav03panchal/daymark/internal/parser"
)

// timerCmd manages duration trackers.
var timerCmd = &cobra.Command{
	Use:     "timer",
	Aliases: []string{"timers", "tracker"},
	Short:   "Stopwatch-style duration trackers",
	Long: `Timers accumulate elapsed time across start/stop cycles. Each stop
logs the session for analytics. A locked timer ignores start, stop and reset.

Examples:
  daymark timer create Reading
  daymark timer start Reading
  daymark timer stop Reading
  daymark timer lock Reading`,
	RunE: runTimerList,
}

var timerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List timers",
	Args:  cobra.NoArgs,
	RunE:  runTimerList,
}

var timerCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := ctx.Journal.CreateDurationTracker(ctx.UserID, args[0])
		if err != nil {
			return err
		}
		return done("Created timer "+tracker.Name, tracker)
	},
}

var timerStartCmd = &cobra.Command{
	Use:   "start NAME",
	Short: "Start a timer",
	Args:  cobra.ExactArgs(1),
	RunE:  timerAction("Started", func(id string) (*model.DurationTracker, error) { return ctx.Journal.StartTracker(ctx.UserID, id) }),
}

var timerStopCmd = &cobra.Command{
	Use:   "stop NAME",
	Short: "Stop a timer and log the session",
	Args:  cobra.ExactArgs(1),
	RunE:  timerAction("Stopped", func(id string) (*model.DurationTracker, error) { return ctx.Journal.StopTracker(ctx.UserID, id) }),
}

var timerResetCmd = &cobra.Command{
	Use:   "reset NAME",
	Short: "Stop a timer and clear its elapsed time",
	Args:  cobra.ExactArgs(1),
	RunE:  timerAction("Reset", func(id string) (*model.DurationTracker, error) { return ctx.Journal.ResetTracker(ctx.UserID, id) }),
}

var timerLockCmd = &cobra.Command{
	Use:   "lock NAME",
	Short: "Lock a timer",
	Args:  cobra.ExactArgs(1),
	RunE: timerAction("Locked", func(id string) (*model.DurationTracker, error) {
		return ctx.Journal.SetTrackerLocked(ctx.UserID, id, true)
	}),
}

var timerUnlockCmd = &cobra.Command{
	Use:   "unlock NAME",
	Short: "Unlock a timer",
	Args:  cobra.ExactArgs(1),
	RunE: timerAction("Unlocked", func(id string) (*model.DurationTracker, error) {
		return ctx.Journal.SetTrackerLocked(ctx.UserID, id, false)
	}),
}

var timerDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Delete a timer and its session log",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := findTimer(args[0])
		if err != nil {
			return err
		}
		if err := ctx.Journal.DeleteDurationTracker(ctx.UserID, tracker.ID); err != nil {
			return err
		}
		return done("Deleted timer "+tracker.Name, tracker)
	},
}

// sinceCmd manages time-since trackers.
var sinceCmd = &cobra.Command{
	Use:   "since",
	Short: "Track the time since something last happened",
	Long: `A since-tracker remembers one moment and shows how long ago it was.

Examples:
  daymark since create "Last haircut" --at "3 weeks ago"
  daymark since reset "Last haircut"`,
	RunE: runSinceList,
}

var sinceFlagAt string

var sinceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List since-trackers",
	Args:  cobra.NoArgs,
	RunE:  runSinceList,
}

var sinceCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a since-tracker (default now)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSinceCreate,
}

var sinceResetCmd = &cobra.Command{
	Use:   "reset NAME",
	Short: "Restart a since-tracker from now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := findSince(args[0])
		if err != nil {
			return err
		}
		tracker, err = ctx.Journal.ResetTimeSince(ctx.UserID, tracker.ID)
		if err != nil {
			return err
		}
		return done("Reset "+tracker.Name, tracker)
	},
}

var sinceDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Delete a since-tracker",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := findSince(args[0])
		if err != nil {
			return err
		}
		if err := ctx.Journal.DeleteTimeSinceTracker(ctx.UserID, tracker.ID); err != nil {
			return err
		}
		return done("Deleted "+tracker.Name, tracker)
	},
}

func init() {
	for _, c := range []*cobra.Command{timerStartCmd, timerStopCmd, timerResetCmd, timerLockCmd, timerUnlockCmd, timerDeleteCmd} {
		c.ValidArgsFunction = completeTimerArgs
	}
	timerCmd.AddCommand(timerListCmd, timerCreateCmd, timerStartCmd, timerStopCmd, timerResetCmd,
		timerLockCmd, timerUnlockCmd, timerDeleteCmd)

	sinceCreateCmd.Flags().StringVar(&sinceFlagAt, "at", "", "When it happened (default now)")
	sinceCmd.AddCommand(sinceListCmd, sinceCreateCmd, sinceResetCmd, sinceDeleteCmd)

	rootCmd.AddCommand(timerCmd, sinceCmd)
}

func findTimer(ref string) (*model.DurationTracker, error) {
	trackers, err := ctx.Journal.ListDurationTrackers(ctx.UserID)
	if err != nil {
		return nil, err
	}
	return findNamed("duration tracker", ref, trackers,
		func(t *model.DurationTracker) string { return t.Name },
		func(t *model.DurationTracker) string { return t.ID })
}

func findSince(ref string) (*model.TimeSinceTracker, error) {
	trackers, err := ctx.Journal.ListTimeSinceTrackers(ctx.UserID)
	if err != nil {
		return nil, err
	}
	return findNamed("time-since tracker", ref, trackers,
		func(t *model.TimeSinceTracker) string { return t.Name },
		func(t *model.TimeSinceTracker) string { return t.ID })
}

// timerAction builds a command that applies act to the named timer.
func timerAction(verb string, act func(id string) (*model.DurationTracker, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		tracker, err := findTimer(args[0])
		if err != nil {
			return err
		}
		tracker, err = act(tracker.ID)
		if err != nil {
			return err
		}
		return done(verb+" "+tracker.Name+" ("+output.FormatDuration(tracker.Elapsed(ctx.Clock.Now()))+")", tracker)
	}
}

func runTimerList(cmd *cobra.Command, args []string) error {
	trackers, err := ctx.Journal.ListDurationTrackers(ctx.UserID)
	if err != nil {
		return err
	}
	return emit(trackers, func(c *output.CLIFormatter) {
		if len(trackers) == 0 {
			c.Muted("No timers yet. Create one with 'daymark timer create NAME'.")
			return
		}
		c.PrintDay(&model.DayState{Date: "Timers", DurationTrackers: trackers}, ctx.Now())
	})
}

func runSinceList(cmd *cobra.Command, args []string) error {
	trackers, err := ctx.Journal.ListTimeSinceTrackers(ctx.UserID)
	if err != nil {
		return err
	}
	return emit(trackers, func(c *output.CLIFormatter) {
		if len(trackers) == 0 {
			c.Muted("Nothing tracked yet. Create one with 'daymark since create NAME'.")
			return
		}
		now := ctx.Now()
		rows := make([]output.TableRow, 0, len(trackers))
		for _, t := range trackers {
			rows = append(rows, output.TableRow{Columns: []string{
				t.Name, output.FormatSince(t.Since, now), t.Since.In(now.Location()).Format("2006-01-02 15:04"),
			}})
		}
		c.PrintTable([]string{"Tracker", "Since", "At"}, rows)
	})
}

func runSinceCreate(cmd *cobra.Command, args []string) error {
	var at *time.Time
	if sinceFlagAt != "" {
		t, err := parser.ResolveTime(sinceFlagAt, ctx.Now())
		if err != nil {
			return err
		}
		at = &t
	}
	tracker, err := ctx.Journal.CreateTimeSinceTracker(ctx.UserID, args[0], at)
	if err != nil {
		return err
	}
	return done("Tracking "+tracker.Name+" since "+tracker.Since.In(ctx.Now().Location()).Format("2006-01-02 15:04"), tracker)
}
