package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/parser"
	"github.com/balkashynov/dotask/internal/views"
)

var lsCmd = &cobra.Command{
	Use:   "ls [view]",
	Short: "List tasks",
	Long: `List the tasks of a view.

Views: inbox (default), today, next7, upcoming, all, activity,
a list name (e.g. "work") or a label ("#urgent").

Sort: smart (priority then due date), due, priority, added, alpha.
Completed tasks always come last.`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		name := a.cfg.DefaultView
		if len(args) > 0 {
			name = args[0]
		}
		sortFlag, _ := cmd.Flags().GetString("sort")
		if sortFlag == "" {
			sortFlag = a.cfg.DefaultSort
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		view, ok := views.ParseView(name, a.store.Lists(), a.store.Labels())
		if !ok {
			printUnknownView(cmd.ErrOrStderr(), name)
			return
		}
		if view.Kind == views.KindActivity {
			limit, _ := cmd.Flags().GetInt("limit")
			printActivity(cmd.OutOrStdout(), views.Activity(a.store.Tasks(), limit), jsonOutput)
			return
		}

		tasks, _ := views.Select(a.store.Tasks(), view, "", views.ParseSort(sortFlag), a.now())
		title := views.Title(view, a.store.Lists(), a.store.Labels())
		printTasks(cmd.OutOrStdout(), a, title, tasks, jsonOutput)
	}),
}

// printTasks renders tasks as a table or JSON
func printUnknownView(w io.Writer, name string) {
	fmt.Fprintf(w, "Error: unknown view %q (try inbox, today, next7, upcoming, all, activity, a list or a label)\n", name)
}

func printTasks(w io.Writer, a *app, title string, tasks []models.Task, jsonOutput bool) {
	if jsonOutput {
		if tasks == nil {
			tasks = []models.Task{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tasks); err != nil {
			fmt.Fprintf(w, "Error encoding tasks: %v\n", err)
		}
		return
	}

	if len(tasks) == 0 {
		fmt.Fprintf(w, "%s: no tasks. Use 'dotask add \"task description\"' to create one.\n", title)
		return
	}

	fmt.Fprintf(w, "%s (%d)\n\n", title, len(tasks))

	// Print table header
	fmt.Fprintf(w, "%-8s %-3s %-40s %-12s %-6s %s\n", "ID", "", "TITLE", "LIST", "PRIO", "DUE")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, task := range tasks {
		status := "[ ]"
		if task.Completed {
			status = "[x]"
		}

		// Truncate title if too long
		title := task.Title
		if task.Recurrence.IsSet() {
			title += " 🔁"
		}
		if len(task.Subtasks) > 0 {
			title += fmt.Sprintf(" (%d/%d)", completedSubtasks(task), len(task.Subtasks))
		}
		if len([]rune(title)) > 38 {
			title = string([]rune(title)[:35]) + "..."
		}

		list := a.store.ListName(task.ListID)
		if len([]rune(list)) > 11 {
			list = string([]rune(list)[:8]) + "..."
		}

		prio := ""
		if task.Priority != models.PriorityNone {
			prio = strings.ToLower(string(task.Priority))
		}

		fmt.Fprintf(w, "%-8s %-3s %-40s %-12s %-6s %s",
			shortID(task.ID),
			status,
			title,
			list,
			prio,
			parser.FormatDueDate(task.DueDate, a.now()))
		if len(task.LabelIDs) > 0 {
			fmt.Fprintf(w, "  %s", a.labelNames(task.LabelIDs))
		}
		fmt.Fprintln(w)
	}
}

func completedSubtasks(t models.Task) int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// printActivity renders the newest-first activity feed
func printActivity(w io.Writer, feed []views.ActivityEntry, jsonOutput bool) {
	if jsonOutput {
		type entry struct {
			TaskID    string `json:"taskId"`
			TaskTitle string `json:"taskTitle"`
			Timestamp string `json:"timestamp"`
			Message   string `json:"message"`
		}
		out := make([]entry, 0, len(feed))
		for _, e := range feed {
			out = append(out, entry{e.TaskID, e.TaskTitle, e.Log.Timestamp.Format("2006-01-02T15:04:05Z07:00"), e.Log.Message})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	if len(feed) == 0 {
		fmt.Fprintln(w, "No activity yet.")
		return
	}
	for _, e := range feed {
		fmt.Fprintf(w, "%s  %-8s %s: %s\n",
			e.Log.Timestamp.Format("02/01/2006 15:04"),
			shortID(e.TaskID),
			e.TaskTitle,
			e.Log.Message)
	}
}

func init() {
	lsCmd.Flags().StringP("sort", "s", "", "Sort: smart, due, priority, added, alpha")
	lsCmd.Flags().Bool("json", false, "JSON output")
	lsCmd.Flags().Int("limit", 50, "Max entries for the activity view")
}
