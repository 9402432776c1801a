package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/output"
)

// entryCmd represents the entry command.
var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"log", "note"},
	Short:   "Write to the activity log of a day",
	Long: `Entries are timestamped lines in a day's activity log.

Examples:
  daymark entry add Went for a run
  daymark entry add --image photos/run.jpg
  daymark entry edit 1a2b3c4d Went for a long run
  daymark entry delete 1a2b3c4d`,
}

// Entry flags.
var (
	entryFlagDate  string
	entryFlagImage string
)

var entryAddCmd = &cobra.Command{
	Use:   "add [TEXT...]",
	Short: "Add an entry",
	RunE:  runEntryAdd,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit ID [TEXT...]",
	Short: "Change an entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEntryEdit,
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runEntryDelete,
}

func init() {
	for _, c := range []*cobra.Command{entryAddCmd, entryEditCmd, entryDeleteCmd} {
		c.Flags().StringVarP(&entryFlagDate, "date", "d", "", "Day of the entry (default today)")
	}
	entryAddCmd.Flags().StringVar(&entryFlagImage, "image", "", "Image reference")
	entryEditCmd.Flags().StringVar(&entryFlagImage, "image", "", "New image reference (empty clears)")

	entryCmd.AddCommand(entryAddCmd, entryEditCmd, entryDeleteCmd)
	rootCmd.AddCommand(entryCmd)
}

// findEntry resolves an entry id or id suffix among the entries of --date.
func findEntry(ref string) (string, error) {
	date, err := resolveDate(entryFlagDate)
	if err != nil {
		return "", err
	}
	state, err := ctx.Journal.GetStateForDate(ctx.UserID, date)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(state.Entries))
	for i, e := range state.Entries {
		ids[i] = e.ID
	}
	return matchID("entry", ref, ids)
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(entryFlagDate)
	if err != nil {
		return err
	}
	entry, err := ctx.Journal.AddEntry(ctx.UserID, date, joinArgs(args), entryFlagImage)
	if err != nil {
		return err
	}
	return done("Logged entry "+output.ShortID(entry.ID)+" on "+entry.Date, entry)
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	id, err := findEntry(args[0])
	if err != nil {
		return err
	}

	var patch journal.EntryPatch
	if len(args) > 1 {
		text := joinArgs(args[1:])
		patch.Text = &text
	}
	if cmd.Flags().Changed("image") {
		patch.ImageRef = &entryFlagImage
	}

	entry, err := ctx.Journal.UpdateEntry(ctx.UserID, id, patch)
	if err != nil {
		return err
	}
	return done("Updated entry "+output.ShortID(entry.ID), entry)
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	id, err := findEntry(args[0])
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteEntry(ctx.UserID, id); err != nil {
		return err
	}
	return done("Deleted entry "+output.ShortID(id), map[string]string{"id": id})
}
