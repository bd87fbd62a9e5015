package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/intake"
	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/parser"
	"github.com/balkashynov/dotask/internal/recurrence"
	"github.com/balkashynov/dotask/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add [task description]",
	Short: "Add a new task",
	Long: `Add a new task with optional metadata.

Modes:
  Quick: dotask add "Task title" (with optional flags)
  Smart parsing: dotask add "Pay rent #home @personal +high due:1/6/2024 every:month"
  AI: dotask add --ai "call the dentist next friday, it's urgent"

Smart parsing syntax:
  #label1,label2 - Labels (comma-separated or individual, created if missing)
  @list          - List name (created if missing)
  +priority      - Priority (low/medium/high or 1/2/3)
  due:3days      - Due date (today, tomorrow, dd/mm/yyyy, X days, X hours, X weeks)
  every:week     - Repeat (day, week, weekdays, month, year, or 3days, 2weeks...)

Flags take precedence over smart syntax.`,
	Args: cobra.MinimumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		text := strings.Join(args, " ")
		useAI, _ := cmd.Flags().GetBool("ai")

		var task models.Task
		if useAI {
			task = aiTask(cmd, a, text)
		} else {
			parsed := parser.ParseTitle(text, a.now())
			if len(parsed.Errors) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", strings.Join(parsed.Errors, ", "))
				return
			}
			if parsed.Title == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: task title is empty")
				return
			}
			task = parsedTask(cmd, a, parsed)
		}

		if err := applyAddFlags(cmd, a, &task); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		res := a.store.Dispatch(store.AddTask{Task: task})
		if res.Task == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: task was not created")
			return
		}
		printCreated(cmd.OutOrStdout(), a, *res.Task)
	}),
}

// aiTask asks the intake collaborator for a draft. Failures fall back to a
// plain task and never abort the command.
func aiTask(cmd *cobra.Command, a *app, text string) models.Task {
	p := a.intakeParser()
	if p == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "No Gemini API key configured (set GEMINI_API_KEY), adding as plain text")
	}

	draft := intake.Resolve(context.Background(), p, text, a.now(), a.logger)
	if p != nil && draft == intake.Fallback(text) {
		fmt.Fprintln(cmd.OutOrStdout(), "Couldn't understand that, task added as plain text")
	}
	return draft.ToTask(models.InboxListID)
}

// parsedTask turns the smart syntax into a task, creating missing lists and labels
func parsedTask(cmd *cobra.Command, a *app, parsed parser.ParsedTask) models.Task {
	task := models.Task{
		ListID:           models.InboxListID,
		Title:            parsed.Title,
		Priority:         parsed.Priority,
		DueDate:          parsed.DueDate,
		Recurrence:       parsed.Recurrence,
		CustomRecurrence: parsed.CustomRecurrence,
	}
	if parsed.List != "" {
		task.ListID = a.ensureList(cmd, parsed.List)
	}
	task.LabelIDs = a.ensureLabels(cmd, parsed.Labels)
	return task
}

// applyAddFlags overrides task fields with explicit flags
func applyAddFlags(cmd *cobra.Command, a *app, task *models.Task) error {
	flags := cmd.Flags()

	if list, _ := flags.GetString("list"); list != "" {
		task.ListID = a.ensureList(cmd, list)
	}
	if labels, _ := flags.GetStringSlice("labels"); len(labels) > 0 {
		task.LabelIDs = a.ensureLabels(cmd, labels)
	}
	if p, _ := flags.GetString("priority"); p != "" {
		task.Priority = models.ParsePriority(p)
	}
	if note, _ := flags.GetString("note"); note != "" {
		task.Description = note
	}
	if est, _ := flags.GetString("estimate"); est != "" {
		task.Estimate = est
	}
	if due, _ := flags.GetString("due"); due != "" {
		d, err := parser.ParseDueDate(due, a.now())
		if err != nil {
			return fmt.Errorf("parsing due date: %w", err)
		}
		task.DueDate = d
	}
	if dl, _ := flags.GetString("deadline"); dl != "" {
		d, err := parser.ParseDueDate(dl, a.now())
		if err != nil {
			return fmt.Errorf("parsing deadline: %w", err)
		}
		task.Deadline = d
	}
	if every, _ := flags.GetString("every"); every != "" {
		rule, custom, err := parser.ParseRecurrence(every)
		if err != nil {
			return fmt.Errorf("parsing recurrence: %w", err)
		}
		task.Recurrence = rule
		task.CustomRecurrence = custom
	}
	if err := recurrence.Validate(task.Recurrence, task.CustomRecurrence); err != nil {
		return err
	}
	if remind, _ := flags.GetString("remind"); remind != "" {
		at, err := parser.ParseDueDate(remind, a.now())
		if err != nil {
			return fmt.Errorf("parsing reminder: %w", err)
		}
		task.Reminders = append(task.Reminders, models.Reminder{Time: *at})
	}
	return nil
}

// printCreated prints the summary of a new task
func printCreated(w io.Writer, a *app, task models.Task) {
	fmt.Fprintf(w, "Created task %s: %s\n", shortID(task.ID), task.Title)
	fmt.Fprintf(w, "  List: %s\n", a.store.ListName(task.ListID))
	if len(task.LabelIDs) > 0 {
		fmt.Fprintf(w, "  Labels: %s\n", a.labelNames(task.LabelIDs))
	}
	if task.Priority != models.PriorityNone {
		fmt.Fprintf(w, "  Priority: %s\n", task.Priority)
	}
	if task.Description != "" {
		fmt.Fprintf(w, "  Note: %s\n", task.Description)
	}
	if task.DueDate != nil {
		fmt.Fprintf(w, "  Due: %s\n", parser.FormatDueDate(task.DueDate, a.now()))
	}
	if task.Recurrence.IsSet() {
		fmt.Fprintf(w, "  Repeats: %s\n", recurrence.Describe(task.Recurrence, task.CustomRecurrence))
	}
	if task.Estimate != "" {
		fmt.Fprintf(w, "  Estimate: %s\n", task.Estimate)
	}
	for _, r := range task.Reminders {
		fmt.Fprintf(w, "  Reminder: %s\n", r.Time.Format("02/01/2006 15:04"))
	}
}

func init() {
	// Add flags to the add command
	addCmd.Flags().Bool("ai", false, "Parse the description with Gemini")
	addCmd.Flags().StringP("list", "l", "", "List name")
	addCmd.Flags().StringSliceP("labels", "t", []string{}, "Comma-separated labels")
	addCmd.Flags().StringP("priority", "", "", "Priority: none, low, medium, high, or 1-3")
	addCmd.Flags().StringP("due", "", "", "Due date: today, tomorrow, dd/mm/yyyy [HH:MM], X days, X hours, X weeks")
	addCmd.Flags().StringP("deadline", "", "", "Hard deadline, same formats as --due")
	addCmd.Flags().StringP("every", "", "", "Repeat: day, week, weekdays, month, year, or an interval like 3days")
	addCmd.Flags().StringP("remind", "r", "", "Reminder time, same formats as --due (e.g. 30m)")
	addCmd.Flags().StringP("estimate", "e", "", "Time estimate, e.g. 45m")
	addCmd.Flags().StringP("note", "n", "", "Description")
}
