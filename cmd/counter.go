package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	derrors "github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/output"
)

// counterCmd represents the counter command.
var counterCmd = &cobra.Command{
	Use:     "counter",
	Aliases: []string{"counters", "c"},
	Short:   "Count things per day",
	Long: `Counters are defined once and hold a separate value on every day.

Examples:
  daymark counter create Coffee
  daymark counter inc Coffee
  daymark counter inc Coffee -- -3
  daymark counter set Coffee 2 --date yesterday
  daymark counter list`,
	RunE: runCounterList,
}

var counterFlagDate string

var counterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List counters with their values for a day",
	Args:  cobra.NoArgs,
	RunE:  runCounterList,
}

var counterCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a counter",
	Args:  cobra.ExactArgs(1),
	RunE:  runCounterCreate,
}

var counterIncCmd = &cobra.Command{
	Use:     "inc NAME [DELTA]",
	Aliases: []string{"add"},
	Short:   "Add to a counter (default 1)",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runCounterInc,
}

var counterSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Set a counter's value for a day",
	Args:  cobra.ExactArgs(2),
	RunE:  runCounterSet,
}

var counterDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Delete a counter and all its values",
	Args:    cobra.ExactArgs(1),
	RunE:    runCounterDelete,
}

func init() {
	for _, c := range []*cobra.Command{counterCmd, counterListCmd, counterIncCmd, counterSetCmd} {
		c.Flags().StringVarP(&counterFlagDate, "date", "d", "", "Day (default today)")
	}
	for _, c := range []*cobra.Command{counterIncCmd, counterSetCmd, counterDeleteCmd} {
		c.ValidArgsFunction = completeCounterArgs
	}

	counterCmd.AddCommand(counterListCmd, counterCreateCmd, counterIncCmd, counterSetCmd, counterDeleteCmd)
	rootCmd.AddCommand(counterCmd)
}

func findCounter(ref string) (*model.CustomCounter, error) {
	counters, err := ctx.Journal.ListCounters(ctx.UserID)
	if err != nil {
		return nil, err
	}
	return findNamed("counter", ref, counters,
		func(c *model.CustomCounter) string { return c.Name },
		func(c *model.CustomCounter) string { return c.ID })
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, derrors.NewValidationErrorWithValue(name, s, "must be a whole number", nil)
	}
	return n, nil
}

func runCounterList(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(counterFlagDate)
	if err != nil {
		return err
	}
	state, err := ctx.Journal.GetStateForDate(ctx.UserID, date)
	if err != nil {
		return err
	}
	return emit(state.CustomCounters, func(c *output.CLIFormatter) {
		if len(state.CustomCounters) == 0 {
			c.Muted("No counters yet. Create one with 'daymark counter create NAME'.")
			return
		}
		rows := make([]output.TableRow, 0, len(state.CustomCounters))
		for _, counter := range state.CustomCounters {
			rows = append(rows, output.TableRow{Columns: []string{counter.Name, strconv.Itoa(counter.Value)}})
		}
		c.Title(state.Date)
		c.PrintTable([]string{"Counter", "Value"}, rows)
	})
}

func runCounterCreate(cmd *cobra.Command, args []string) error {
	counter, err := ctx.Journal.CreateCounter(ctx.UserID, args[0])
	if err != nil {
		return err
	}
	return done("Created counter "+counter.Name, counter)
}

func runCounterInc(cmd *cobra.Command, args []string) error {
	counter, err := findCounter(args[0])
	if err != nil {
		return err
	}
	delta := 1
	if len(args) > 1 {
		if delta, err = parseInt("delta", args[1]); err != nil {
			return err
		}
	}
	date, err := resolveDate(counterFlagDate)
	if err != nil {
		return err
	}

	value, err := ctx.Journal.IncrementCounter(ctx.UserID, counter.ID, date, delta)
	if err != nil {
		return err
	}
	return done(fmt.Sprintf("%s: %d", counter.Name, value),
		model.CounterState{ID: counter.ID, Name: counter.Name, Value: value, OrderIndex: counter.OrderIndex})
}

func runCounterSet(cmd *cobra.Command, args []string) error {
	counter, err := findCounter(args[0])
	if err != nil {
		return err
	}
	value, err := parseInt("value", args[1])
	if err != nil {
		return err
	}
	date, err := resolveDate(counterFlagDate)
	if err != nil {
		return err
	}

	if err := ctx.Journal.SetCounterValue(ctx.UserID, counter.ID, date, value); err != nil {
		return err
	}
	return done(fmt.Sprintf("%s: %d on %s", counter.Name, value, date),
		model.CounterState{ID: counter.ID, Name: counter.Name, Value: value, OrderIndex: counter.OrderIndex})
}

func runCounterDelete(cmd *cobra.Command, args []string) error {
	counter, err := findCounter(args[0])
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteCounter(ctx.UserID, counter.ID); err != nil {
		return err
	}
	return done("Deleted counter "+counter.Name, counter)
}
