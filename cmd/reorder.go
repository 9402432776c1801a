package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/model"
)

var reorderFlagDate string

// reorderCmd sets the display order of a list.
var reorderCmd = &cobra.Command{
	Use:   "reorder LIST ITEM...",
	Short: "Set the display order of fields, tasks, counters or trackers",
	Long: `Items are given in their new order and numbered from 0.

Lists: fields, tasks, counters, timers, since

Examples:
  daymark reorder counters Tea Coffee
  daymark reorder tasks 1a2b3c4d 5e6f7a8b --date yesterday`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{"fields", "tasks", "counters", "timers", "since"},
	RunE:      runReorder,
}

func init() {
	reorderCmd.Flags().StringVarP(&reorderFlagDate, "date", "d", "", "Day of the tasks (tasks only)")
	rootCmd.AddCommand(reorderCmd)
}

// reorderTarget maps a list name to its table and a resolver for its items.
func reorderTarget(list string) (model.Table, func(string) (string, error), bool) {
	switch list {
	case "fields":
		return model.TableFieldTemplates, func(ref string) (string, error) {
			t, err := findTemplate(ref)
			if err != nil {
				return "", err
			}
			return t.ID, nil
		}, true
	case "tasks":
		return model.TableDailyTasks, func(ref string) (string, error) {
			taskFlagDate = reorderFlagDate
			return findTask(ref)
		}, true
	case "counters":
		return model.TableCustomCounters, func(ref string) (string, error) {
			c, err := findCounter(ref)
			if err != nil {
				return "", err
			}
			return c.ID, nil
		}, true
	case "timers":
		return model.TableDurationTrackers, func(ref string) (string, error) {
			t, err := findTimer(ref)
			if err != nil {
				return "", err
			}
			return t.ID, nil
		}, true
	case "since":
		return model.TableTimeSinceTrackers, func(ref string) (string, error) {
			t, err := findSince(ref)
			if err != nil {
				return "", err
			}
			return t.ID, nil
		}, true
	}
	return "", nil, false
}

func runReorder(cmd *cobra.Command, args []string) error {
	table, resolve, ok := reorderTarget(args[0])
	if !ok {
		// let the service report the unknown table
		table = model.Table(args[0])
		resolve = func(ref string) (string, error) { return ref, nil }
	}

	updates := make([]model.OrderUpdate, 0, len(args)-1)
	for i, ref := range args[1:] {
		id, err := resolve(ref)
		if err != nil {
			return err
		}
		updates = append(updates, model.OrderUpdate{ID: id, OrderIndex: i})
	}

	if err := ctx.Journal.Reorder(ctx.UserID, table, updates); err != nil {
		return err
	}
	return done("Reordered "+args[0], updates)
}
