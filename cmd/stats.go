package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/analytics"
	"github.com/manav03panchal/daymark/internal/output"
	"github.com/manav03panchal/daymark/internal/parser"
)

// Stats command flags.
var (
	statsFlagField    string
	statsFlagFields   []string
	statsFlagCounter  string
	statsFlagCounters []string
	statsFlagTimer    string
	statsFlagTimers   []string
	statsFlagPeriod   string
	statsFlagFrom     string
	statsFlagTo       string
	statsFlagGroup    string
	statsFlagStatus   string
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"stat", "analytics"},
	Short:   "Chart a field, counter or timer over time",
	Long: `Aggregate one series, or several combined, over a date range.

Select exactly one of --field, --fields, --counter, --counters, --timer
or --timers. The range is --period, or --from and --to.

Examples:
  daymark stats --field Mood --period "last 30 days" --group week
  daymark stats --counters Coffee,Tea --period "this month"
  daymark stats --timer Reading --from 2024-01-01 --to 2024-03-31 --group month
  daymark stats tasks --period "last week" --status completed`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsTasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Task completion over time",
	Args:  cobra.NoArgs,
	RunE:  runStatsTasks,
}

func addRangeFlags(c *cobra.Command) {
	c.Flags().StringVarP(&statsFlagPeriod, "period", "p", "", "Range such as 'this week' or 'last 30 days' (default this month)")
	c.Flags().StringVar(&statsFlagFrom, "from", "", "Range start")
	c.Flags().StringVar(&statsFlagTo, "to", "", "Range end (default today)")
	c.Flags().StringVarP(&statsFlagGroup, "group", "g", "day", "Grouping: none, day, week, month, year")
}

func init() {
	addRangeFlags(statsCmd)
	statsCmd.Flags().StringVar(&statsFlagField, "field", "", "Field key")
	statsCmd.Flags().StringSliceVar(&statsFlagFields, "fields", nil, "Field keys to combine")
	statsCmd.Flags().StringVar(&statsFlagCounter, "counter", "", "Counter name")
	statsCmd.Flags().StringSliceVar(&statsFlagCounters, "counters", nil, "Counter names to combine")
	statsCmd.Flags().StringVar(&statsFlagTimer, "timer", "", "Timer name")
	statsCmd.Flags().StringSliceVar(&statsFlagTimers, "timers", nil, "Timer names to combine")
	statsCmd.MarkFlagsMutuallyExclusive("period", "from")
	statsCmd.RegisterFlagCompletionFunc("field", completeFieldArgs)
	statsCmd.RegisterFlagCompletionFunc("counter", completeCounterArgs)
	statsCmd.RegisterFlagCompletionFunc("timer", completeTimerArgs)

	addRangeFlags(statsTasksCmd)
	statsTasksCmd.Flags().StringVar(&statsFlagStatus, "status", "all", "Tasks to count: all, completed, incomplete")

	statsCmd.AddCommand(statsTasksCmd)
	rootCmd.AddCommand(statsCmd)
}

// statsRange resolves the range flags. No flags means this month.
func statsRange() (parser.DateRange, error) {
	now := ctx.Now()
	if statsFlagFrom == "" && statsFlagTo == "" {
		period := statsFlagPeriod
		if period == "" {
			period = "this month"
		}
		return parser.ResolveRange(period, now)
	}

	start, err := parser.ResolveDate(statsFlagFrom, now)
	if err != nil {
		return parser.DateRange{}, err
	}
	end, err := parser.ResolveDate(statsFlagTo, now)
	if err != nil {
		return parser.DateRange{}, err
	}
	return parser.DateRange{Start: start, End: end}, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	r, err := statsRange()
	if err != nil {
		return err
	}
	resp, err := ctx.Analytics.Query(ctx.UserID, analytics.Request{
		StartDate:    r.Start,
		EndDate:      r.End,
		GroupBy:      statsFlagGroup,
		FieldKey:     statsFlagField,
		FieldKeys:    statsFlagFields,
		CounterName:  statsFlagCounter,
		CounterNames: statsFlagCounters,
		TimerName:    statsFlagTimer,
		TimerNames:   statsFlagTimers,
	})
	if err != nil {
		return err
	}
	return printAnalytics(r, resp)
}

func runStatsTasks(cmd *cobra.Command, args []string) error {
	r, err := statsRange()
	if err != nil {
		return err
	}
	resp, err := ctx.Analytics.QueryTasks(ctx.UserID, analytics.Request{
		StartDate:        r.Start,
		EndDate:          r.End,
		GroupBy:          statsFlagGroup,
		CompletionStatus: statsFlagStatus,
	})
	if err != nil {
		return err
	}
	return printAnalytics(r, resp)
}

func printAnalytics(r parser.DateRange, resp *analytics.Response) error {
	return emit(resp, func(c *output.CLIFormatter) {
		c.Muted(r.Start + " to " + r.End)
		c.PrintAnalytics(resp)
	})
}
