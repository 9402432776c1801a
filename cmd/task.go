package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/output"
)

// taskCmd represents the task command.
var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Manage the tasks of a day",
	Long: `Tasks belong to a day and may carry one level of sub-tasks.
Completing a task logs an entry; reopening it removes that entry.

Tasks are addressed by the short id shown in listings.

Examples:
  daymark task add "Write report" --points 3
  daymark task add Outline --parent 1a2b3c4d
  daymark task done 1a2b3c4d
  daymark task list --date yesterday`,
	RunE: runTaskList,
}

// Task flags.
var (
	taskFlagDate      string
	taskFlagParent    string
	taskFlagDue       string
	taskFlagTitle     string
	taskFlagPoints    int
	taskFlagPinned    bool
	taskFlagRecurring bool
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tasks of a day",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(args[0], true)
	},
}

var taskUndoCmd = &cobra.Command{
	Use:     "undo ID",
	Aliases: []string{"reopen"},
	Short:   "Mark a task incomplete",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(args[0], false)
	},
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Flip a task between complete and incomplete",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskToggle,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task and its sub-tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

func init() {
	for _, c := range []*cobra.Command{taskCmd, taskListCmd, taskAddCmd, taskDoneCmd, taskUndoCmd, taskToggleCmd, taskEditCmd, taskDeleteCmd} {
		c.Flags().StringVarP(&taskFlagDate, "date", "d", "", "Day the task belongs to (default today)")
	}

	taskAddCmd.Flags().StringVarP(&taskFlagParent, "parent", "p", "", "Parent task id")
	taskAddCmd.Flags().StringVar(&taskFlagDue, "due", "", "Due date")
	taskAddCmd.Flags().IntVar(&taskFlagPoints, "points", 0, "Effort points")
	taskAddCmd.Flags().BoolVar(&taskFlagPinned, "pin", false, "Pin the task")
	taskAddCmd.Flags().BoolVar(&taskFlagRecurring, "recurring", false, "Mark the task recurring")

	taskEditCmd.Flags().StringVar(&taskFlagTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVar(&taskFlagDue, "due", "", "New due date (empty clears)")
	taskEditCmd.Flags().IntVar(&taskFlagPoints, "points", 0, "New effort points")
	taskEditCmd.Flags().BoolVar(&taskFlagPinned, "pin", false, "Pin or unpin")
	taskEditCmd.Flags().BoolVar(&taskFlagRecurring, "recurring", false, "Set or clear recurring")

	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskDoneCmd, taskUndoCmd, taskToggleCmd, taskEditCmd, taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}

// flattenTasks lists every task of a tree, parents first.
func flattenTasks(nodes []*model.TaskNode) []*model.TaskNode {
	var out []*model.TaskNode
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, flattenTasks(n.Subtasks)...)
	}
	return out
}

// findTask resolves a task id or id suffix among the tasks of --date.
func findTask(ref string) (string, error) {
	date, err := resolveDate(taskFlagDate)
	if err != nil {
		return "", err
	}
	state, err := ctx.Journal.GetStateForDate(ctx.UserID, date)
	if err != nil {
		return "", err
	}
	tasks := flattenTasks(state.DailyTasks)
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return matchID("task", ref, ids)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(taskFlagDate)
	if err != nil {
		return err
	}
	state, err := ctx.Journal.GetStateForDate(ctx.UserID, date)
	if err != nil {
		return err
	}
	return emit(state.DailyTasks, func(c *output.CLIFormatter) {
		if len(state.DailyTasks) == 0 {
			c.Muted("No tasks on " + state.Date + ".")
			return
		}
		c.PrintDay(&model.DayState{Date: state.Date, DailyTasks: state.DailyTasks}, ctx.Now())
	})
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(taskFlagDate)
	if err != nil {
		return err
	}
	in := journal.TaskInput{
		Date:      date,
		Title:     joinArgs(args),
		Points:    taskFlagPoints,
		Pinned:    taskFlagPinned,
		Recurring: taskFlagRecurring,
	}
	if taskFlagParent != "" {
		if in.ParentTaskID, err = findTask(taskFlagParent); err != nil {
			return err
		}
	}
	if taskFlagDue != "" {
		if in.DueDate, err = resolveDate(taskFlagDue); err != nil {
			return err
		}
	}

	task, err := ctx.Journal.AddTask(ctx.UserID, in)
	if err != nil {
		return err
	}
	return done(fmt.Sprintf("Added %q (%s)", task.Title, output.ShortID(task.ID)), task)
}

func setTaskDone(ref string, complete bool) error {
	id, err := findTask(ref)
	if err != nil {
		return err
	}
	task, err := ctx.Journal.SetTaskDone(ctx.UserID, id, complete)
	if err != nil {
		return err
	}
	return reportTaskState(task)
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	id, err := findTask(args[0])
	if err != nil {
		return err
	}
	task, err := ctx.Journal.ToggleTask(ctx.UserID, id)
	if err != nil {
		return err
	}
	return reportTaskState(task)
}

func reportTaskState(task *model.DailyTask) error {
	if task.Done {
		return done(fmt.Sprintf("Completed %q", task.Title), task)
	}
	return done(fmt.Sprintf("Reopened %q", task.Title), task)
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	id, err := findTask(args[0])
	if err != nil {
		return err
	}

	var patch journal.TaskPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &taskFlagTitle
	}
	if flags.Changed("due") {
		due := ""
		if taskFlagDue != "" {
			if due, err = resolveDate(taskFlagDue); err != nil {
				return err
			}
		}
		patch.DueDate = &due
	}
	if flags.Changed("points") {
		patch.Points = &taskFlagPoints
	}
	if flags.Changed("pin") {
		patch.Pinned = &taskFlagPinned
	}
	if flags.Changed("recurring") {
		patch.Recurring = &taskFlagRecurring
	}

	task, err := ctx.Journal.UpdateTask(ctx.UserID, id, patch)
	if err != nil {
		return err
	}
	return done(fmt.Sprintf("Updated %q", task.Title), task)
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := findTask(args[0])
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteTask(ctx.UserID, id); err != nil {
		return err
	}
	return done("Deleted task "+output.ShortID(id), map[string]string{"id": id})
}
