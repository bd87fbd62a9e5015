package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/parser"
	"github.com/balkashynov/dotask/internal/recurrence"
	"github.com/balkashynov/dotask/internal/store"
)

var editCmd = &cobra.Command{
	Use:   "edit <task_id>",
	Short: "Edit an existing task",
	Long: `Edit fields of an existing task. Only the flags you pass change.
Every change is recorded in the task's log (see 'dotask log <id>').

Use "none" to clear --due, --deadline, --every, --estimate or --actual.

Usage:
  dotask edit 3f2a --due tomorrow --priority high
  dotask edit 3f2a --add-label urgent --remove-label later`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		task, err := a.resolveTask(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		before := len(task.Logs)
		if err := applyEditFlags(cmd, a, &task); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		res := a.store.Dispatch(store.UpdateTask{Task: task})
		if res.Task == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: task %s not found\n", args[0])
			return
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Updated task %s: %s\n", shortID(res.Task.ID), res.Task.Title)
		if len(res.Task.Logs) == before {
			fmt.Fprintln(out, "  No changes")
		}
		for _, l := range res.Task.Logs[before:] {
			fmt.Fprintf(out, "  %s\n", l.Message)
		}
	}),
}

func isNone(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "none")
}

func parseOptionalDate(s string, now time.Time) (*time.Time, error) {
	if isNone(s) {
		return nil, nil
	}
	return parser.ParseDueDate(s, now)
}

// applyEditFlags applies the changed flags to task
func applyEditFlags(cmd *cobra.Command, a *app, task *models.Task) error {
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("title cannot be empty")
		}
		task.Title = strings.TrimSpace(title)
	}
	if flags.Changed("note") {
		task.Description, _ = flags.GetString("note")
	}
	if flags.Changed("due") {
		s, _ := flags.GetString("due")
		d, err := parseOptionalDate(s, a.now())
		if err != nil {
			return fmt.Errorf("parsing due date: %w", err)
		}
		task.DueDate = d
	}
	if flags.Changed("deadline") {
		s, _ := flags.GetString("deadline")
		d, err := parseOptionalDate(s, a.now())
		if err != nil {
			return fmt.Errorf("parsing deadline: %w", err)
		}
		task.Deadline = d
	}
	if flags.Changed("priority") {
		p, _ := flags.GetString("priority")
		task.Priority = models.ParsePriority(p)
	}
	if flags.Changed("list") {
		l, _ := flags.GetString("list")
		task.ListID = a.ensureList(cmd, l)
	}
	if flags.Changed("add-label") {
		add, _ := flags.GetStringSlice("add-label")
		for _, id := range a.ensureLabels(cmd, add) {
			if !task.HasLabel(id) {
				task.LabelIDs = append(task.LabelIDs, id)
			}
		}
	}
	if flags.Changed("remove-label") {
		remove, _ := flags.GetStringSlice("remove-label")
		for _, ref := range remove {
			l, ok := findLabel(a.store.Labels(), ref)
			if !ok {
				continue
			}
			kept := task.LabelIDs[:0]
			for _, id := range task.LabelIDs {
				if id != l.ID {
					kept = append(kept, id)
				}
			}
			task.LabelIDs = kept
		}
	}
	if flags.Changed("estimate") {
		s, _ := flags.GetString("estimate")
		if isNone(s) {
			s = ""
		}
		task.Estimate = s
	}
	if flags.Changed("actual") {
		s, _ := flags.GetString("actual")
		if isNone(s) {
			s = ""
		}
		task.ActualTime = s
	}
	if flags.Changed("every") {
		s, _ := flags.GetString("every")
		rule, custom, err := parser.ParseRecurrence(s)
		if err != nil {
			return fmt.Errorf("parsing recurrence: %w", err)
		}
		task.Recurrence = rule
		task.CustomRecurrence = custom
	}
	if flags.Changed("color") {
		task.Color, _ = flags.GetString("color")
	}
	return recurrence.Validate(task.Recurrence, task.CustomRecurrence)
}

func init() {
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("note", "n", "", "Description")
	editCmd.Flags().String("due", "", "Due date, or none")
	editCmd.Flags().String("deadline", "", "Deadline, or none")
	editCmd.Flags().String("priority", "", "Priority: none, low, medium, high")
	editCmd.Flags().StringP("list", "l", "", "Move to list")
	editCmd.Flags().StringSlice("add-label", []string{}, "Labels to add")
	editCmd.Flags().StringSlice("remove-label", []string{}, "Labels to remove")
	editCmd.Flags().StringP("estimate", "e", "", "Time estimate, or none")
	editCmd.Flags().String("actual", "", "Actual time spent, or none")
	editCmd.Flags().String("every", "", "Repeat rule, or none")
	editCmd.Flags().String("color", "", "Display color")
}
