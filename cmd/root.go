// Package cmd provides the CLI commands for Daymark.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/config"
	derrors "github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/output"
	"github.com/manav03panchal/daymark/internal/parser"
	"github.com/manav03panchal/daymark/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagUser   string
	flagConfig string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "daymark",
	Short: "A daily journal for fields, tasks, counters and timers",
	Long: `Daymark keeps one page per day: custom fields, tasks with sub-tasks,
counters, timers and a free-form activity log. Past days are kept as
snapshots and everything can be charted over time.

Examples:
  daymark
  daymark day yesterday
  daymark task add "Write report"
  daymark counter inc Coffee
  daymark stats --field Mood --period "last 30 days" --group week
  daymark serve`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupContext,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showDay("")
	},
}

// needsContext reports whether cmd touches the database.
func needsContext(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "completion", "help", "version":
		return false
	}
	return true
}

func setupContext(cmd *cobra.Command, args []string) error {
	if !needsContext(cmd) {
		return nil
	}

	format, err := output.ParseFormat(flagFormat)
	if err != nil {
		return derrors.NewValidationError("format", err.Error())
	}

	cfg, err := config.LoadPath(flagConfig)
	if err != nil {
		return err
	}

	opts := runtime.DefaultOptions()
	opts.Config = cfg
	opts.Format = format
	opts.ColorMode = output.ColorMode(flagColor)
	opts.Debug = flagDebug
	if flagUser != "" {
		opts.UserID = flagUser
	}

	ctx, err = runtime.New(opts)
	if err != nil {
		return err
	}
	ctx.Formatter.Writer = cmd.OutOrStdout()
	ctx.Debugf("user %s, database %s", ctx.UserID, ctx.DB.Path())
	return nil
}

// Execute runs the root command, reports any error and releases the context.
func Execute() error {
	err := rootCmd.Execute()
	if ctx != nil {
		if cerr := ctx.Close(); err == nil {
			err = cerr
		}
		ctx = nil
	}
	if err != nil {
		reportError(err)
	}
	return err
}

func reportError(err error) {
	if flagFormat == string(output.FormatJSON) {
		f := output.NewFormatter()
		f.Writer = rootCmd.OutOrStdout()
		_ = output.NewJSONFormatter(f).PrintError(runtime.Classifiable(err))
		return
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error: "+runtime.FormatError(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "",
		"Journal to act on (default $DAYMARK_USER or the login name)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $DAYMARK_CONFIG or the XDG config path)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("daymark %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// =============================================================================
// Shared helpers
// =============================================================================

// emit prints v as JSON, or runs cli for terminal output.
func emit(v any, cli func(c *output.CLIFormatter)) error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintData(v)
	}
	cli(ctx.CLIFormatter())
	return nil
}

// done reports a mutation that has nothing else to show.
func done(message string, v any) error {
	return emit(v, func(c *output.CLIFormatter) { c.Success(message) })
}

// joinArgs rebuilds a phrase the shell split into words.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// resolveDate turns a natural-language date into YYYY-MM-DD in the user's
// timezone.
func resolveDate(input string) (string, error) {
	return parser.ResolveDate(input, ctx.Now())
}

// matchID picks the id equal to ref or ending with it. Suffixes let users
// type the short ids the CLI prints.
func matchID(kind, ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if ref != "" && strings.HasSuffix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", derrors.NewNotFoundError(kind, ref, nil)
	case 1:
		return matches[0], nil
	default:
		return "", derrors.NewValidationErrorWithValue("id", ref,
			fmt.Sprintf("matches %d %ss, type more characters", len(matches), kind), nil)
	}
}

// findNamed resolves ref to an item by case-insensitive name, then by id.
func findNamed[T any](kind, ref string, items []T, name, id func(T) string) (T, error) {
	var zero T
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(name(it), strings.TrimSpace(ref)) {
			return it, nil
		}
		ids = append(ids, id(it))
	}
	match, err := matchID(kind, ref, ids)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if id(it) == match {
			return it, nil
		}
	}
	return zero, derrors.NewNotFoundError(kind, ref, nil)
}
