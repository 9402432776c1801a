package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/output"
)

// fieldCmd represents the field command.
var fieldCmd = &cobra.Command{
	Use:     "field",
	Aliases: []string{"fields", "fl"},
	Short:   "Manage custom fields and their daily values",
	Long: `Template fields appear on every day; daily fields exist on one day only.

Field types: text, number, currency, date, time, datetime, boolean.

Examples:
  daymark field create Mood --type number
  daymark field set Mood 4
  daymark field set Mood 3 --date yesterday
  daymark field daily set Weather rain
  daymark field list`,
	RunE: runFieldList,
}

// Field flags.
var (
	fieldFlagType string
	fieldFlagDate string
)

var fieldListCmd = &cobra.Command{
	Use:   "list",
	Short: "List template fields",
	Args:  cobra.NoArgs,
	RunE:  runFieldList,
}

var fieldCreateCmd = &cobra.Command{
	Use:   "create KEY",
	Short: "Create a template field",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldCreate,
}

var fieldTypeCmd = &cobra.Command{
	Use:   "type KEY TYPE",
	Short: "Change the type of a template field",
	Args:  cobra.ExactArgs(2),
	RunE:  runFieldType,
}

var fieldDeleteCmd = &cobra.Command{
	Use:     "delete KEY",
	Aliases: []string{"rm"},
	Short:   "Delete a template field and today's value",
	Args:    cobra.ExactArgs(1),
	RunE:    runFieldDelete,
}

var fieldSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set the value of a template field on a day",
	Args:  cobra.ExactArgs(2),
	RunE:  runFieldSet,
}

var fieldDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Manage fields that exist on a single day",
}

var fieldDailySetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Create or update a daily field",
	Args:  cobra.ExactArgs(2),
	RunE:  runFieldDailySet,
}

var fieldDailyDeleteCmd = &cobra.Command{
	Use:     "delete KEY",
	Aliases: []string{"rm"},
	Short:   "Delete a daily field",
	Args:    cobra.ExactArgs(1),
	RunE:    runFieldDailyDelete,
}

func init() {
	fieldCreateCmd.Flags().StringVarP(&fieldFlagType, "type", "t", string(model.FieldTypeText), "Field type")
	fieldSetCmd.Flags().StringVarP(&fieldFlagDate, "date", "d", "", "Day to set (default today)")
	fieldDailySetCmd.Flags().StringVarP(&fieldFlagType, "type", "t", string(model.FieldTypeText), "Field type")
	fieldDailySetCmd.Flags().StringVarP(&fieldFlagDate, "date", "d", "", "Day to set (default today)")
	fieldDailyDeleteCmd.Flags().StringVarP(&fieldFlagDate, "date", "d", "", "Day to change (default today)")

	fieldDailyCmd.AddCommand(fieldDailySetCmd, fieldDailyDeleteCmd)
	fieldCmd.AddCommand(fieldListCmd, fieldCreateCmd, fieldTypeCmd, fieldDeleteCmd, fieldSetCmd, fieldDailyCmd)
	rootCmd.AddCommand(fieldCmd)

	fieldTypeCmd.ValidArgsFunction = completeFieldArgs
	fieldDeleteCmd.ValidArgsFunction = completeFieldArgs
	fieldSetCmd.ValidArgsFunction = completeFieldArgs
}

func findTemplate(ref string) (*model.FieldTemplate, error) {
	templates, err := ctx.Journal.ListTemplates(ctx.UserID)
	if err != nil {
		return nil, err
	}
	return findNamed("field template", ref, templates,
		func(t *model.FieldTemplate) string { return t.FieldKey },
		func(t *model.FieldTemplate) string { return t.ID })
}

func runFieldList(cmd *cobra.Command, args []string) error {
	templates, err := ctx.Journal.ListTemplates(ctx.UserID)
	if err != nil {
		return err
	}
	return emit(templates, func(c *output.CLIFormatter) {
		if len(templates) == 0 {
			c.Muted("No fields yet. Create one with 'daymark field create KEY --type TYPE'.")
			return
		}
		rows := make([]output.TableRow, 0, len(templates))
		for _, t := range templates {
			rows = append(rows, output.TableRow{Columns: []string{t.FieldKey, string(t.FieldType), output.ShortID(t.ID)}})
		}
		c.PrintTable([]string{"Field", "Type", "ID"}, rows)
	})
}

func runFieldCreate(cmd *cobra.Command, args []string) error {
	tmpl, err := ctx.Journal.CreateTemplate(ctx.UserID, args[0], fieldFlagType)
	if err != nil {
		return err
	}
	return done("Created field "+tmpl.FieldKey+" ("+string(tmpl.FieldType)+")", tmpl)
}

func runFieldType(cmd *cobra.Command, args []string) error {
	tmpl, err := findTemplate(args[0])
	if err != nil {
		return err
	}
	tmpl, err = ctx.Journal.UpdateTemplateType(ctx.UserID, tmpl.ID, args[1])
	if err != nil {
		return err
	}
	return done(tmpl.FieldKey+" is now "+string(tmpl.FieldType), tmpl)
}

func runFieldDelete(cmd *cobra.Command, args []string) error {
	tmpl, err := findTemplate(args[0])
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteTemplate(ctx.UserID, tmpl.ID); err != nil {
		return err
	}
	return done("Deleted field "+tmpl.FieldKey, tmpl)
}

func runFieldSet(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(fieldFlagDate)
	if err != nil {
		return err
	}
	value, err := ctx.Journal.SetFieldValue(ctx.UserID, date, args[0], args[1])
	if err != nil {
		return err
	}
	return done(value.FieldKey+" = "+value.Value+" on "+value.Date, value)
}

func runFieldDailySet(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(fieldFlagDate)
	if err != nil {
		return err
	}
	value, err := ctx.Journal.SetDailyField(ctx.UserID, date, args[0], fieldFlagType, args[1])
	if err != nil {
		return err
	}
	return done(value.FieldKey+" = "+value.Value+" on "+value.Date, value)
}

func runFieldDailyDelete(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(fieldFlagDate)
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteDailyField(ctx.UserID, date, args[0]); err != nil {
		return err
	}
	return done("Deleted "+args[0]+" from "+date, map[string]string{"date": date, "key": args[0]})
}
