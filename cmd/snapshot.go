package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/output"
	"github.com/manav03panchal/daymark/internal/snapshot"
)

// snapshotCmd represents the snapshot command.
var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snapshots", "snap"},
	Short:   "Capture and browse frozen copies of past days",
	Long: `A snapshot freezes the whole page of a day. Today is captured
automatically when it is viewed; 'save' captures any day on demand.
Old snapshots are pruned by the retention policy.

Examples:
  daymark snapshot save
  daymark snapshot list
  daymark snapshot show yesterday
  daymark snapshot retention --max-days 90`,
	RunE: runSnapshotList,
}

// Retention flags.
var (
	retentionFlagDays  int
	retentionFlagCount int
)

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [DATE...]",
	Short: "Capture a day (default today)",
	RunE:  runSnapshotSave,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show DATE...",
	Short: "Show the captured page of a day",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSnapshotShow,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured days, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:     "delete DATE...",
	Aliases: []string{"rm"},
	Short:   "Delete the capture of a day",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSnapshotDelete,
}

var snapshotRetentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Show or change how long snapshots are kept (0 = unlimited)",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotRetention,
}

func init() {
	snapshotRetentionCmd.Flags().IntVar(&retentionFlagDays, "max-days", 0, "Keep snapshots of the last N days")
	snapshotRetentionCmd.Flags().IntVar(&retentionFlagCount, "max-count", 0, "Keep at most N snapshots")

	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotShowCmd, snapshotListCmd, snapshotDeleteCmd, snapshotRetentionCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(joinArgs(args))
	if err != nil {
		return err
	}
	state, err := ctx.Journal.SaveSnapshot(ctx.UserID, date)
	if err != nil {
		return err
	}
	return done("Captured "+state.Date, state)
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(joinArgs(args))
	if err != nil {
		return err
	}
	state, err := ctx.Journal.GetSnapshot(ctx.UserID, date)
	if err != nil {
		return err
	}
	return emit(state, func(c *output.CLIFormatter) {
		c.PrintDay(state, ctx.Now())
	})
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	infos, err := ctx.Journal.ListSnapshots(ctx.UserID)
	if err != nil {
		return err
	}
	return emit(infos, func(c *output.CLIFormatter) {
		if len(infos) == 0 {
			c.Muted("No snapshots yet.")
			return
		}
		loc := ctx.Now().Location()
		rows := make([]output.TableRow, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, output.TableRow{Columns: []string{
				info.Date, string(info.Source), info.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			}})
		}
		c.PrintTable([]string{"Date", "Source", "Captured"}, rows)
	})
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(joinArgs(args))
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteSnapshot(ctx.UserID, date); err != nil {
		return err
	}
	return done("Deleted snapshot of "+date, map[string]string{"date": date})
}

// retentionResult is the outcome of a retention change.
type retentionResult struct {
	Policy snapshot.Policy `json:"policy"`
	Pruned []string        `json:"pruned"`
}

func describeLimit(n int, unit string) string {
	if n == 0 {
		return "unlimited " + unit
	}
	return strconv.Itoa(n) + " " + unit
}

func runSnapshotRetention(cmd *cobra.Command, args []string) error {
	policy, err := ctx.Journal.RetentionPolicy(ctx.UserID)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("max-days") && !flags.Changed("max-count") {
		return emit(policy, func(c *output.CLIFormatter) {
			c.Printf("Keeping %s, %s\n", describeLimit(policy.MaxDays, "days"), describeLimit(policy.MaxCount, "snapshots"))
		})
	}

	if flags.Changed("max-days") {
		policy.MaxDays = retentionFlagDays
	}
	if flags.Changed("max-count") {
		policy.MaxCount = retentionFlagCount
	}
	pruned, err := ctx.Journal.SetRetentionPolicy(ctx.UserID, policy)
	if err != nil {
		return err
	}
	return emit(retentionResult{Policy: policy, Pruned: pruned}, func(c *output.CLIFormatter) {
		c.Success(fmt.Sprintf("Keeping %s, %s", describeLimit(policy.MaxDays, "days"), describeLimit(policy.MaxCount, "snapshots")))
		if len(pruned) > 0 {
			c.Muted(fmt.Sprintf("Pruned %d snapshot(s): %v", len(pruned), pruned))
		}
	})
}
