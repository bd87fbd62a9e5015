package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/parser"
	"github.com/balkashynov/dotask/internal/store"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed. Completing a recurring task creates its
next occurrence. IDs can be shortened to any unique prefix.`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		setCompleted(cmd, a, args[0], true)
	}),
}

var undoneCmd = &cobra.Command{
	Use:   "undone [task-id]",
	Short: "Mark a completed task as not done",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		setCompleted(cmd, a, args[0], false)
	}),
}

func setCompleted(cmd *cobra.Command, a *app, ref string, completed bool) {
	out := cmd.OutOrStdout()

	task, err := a.resolveTask(ref)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	if task.Completed == completed {
		if completed {
			fmt.Fprintf(out, "Task %s is already done: %s\n", shortID(task.ID), task.Title)
		} else {
			fmt.Fprintf(out, "Task %s is not done: %s\n", shortID(task.ID), task.Title)
		}
		return
	}

	res := a.store.Dispatch(store.ToggleComplete{ID: task.ID})
	if !res.Changed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: task %s not found\n", ref)
		return
	}

	if completed {
		fmt.Fprintf(out, "✅ Marked task %s as done: %s\n", shortID(task.ID), task.Title)
	} else {
		fmt.Fprintf(out, "↩️  Marked task %s as not done: %s\n", shortID(task.ID), task.Title)
	}
	if res.Spawned != nil {
		fmt.Fprintf(out, "🔁 Next occurrence %s", shortID(res.Spawned.ID))
		if res.Spawned.DueDate != nil {
			fmt.Fprintf(out, ": %s", parser.FormatDueDate(res.Spawned.DueDate, a.now()))
		}
		fmt.Fprintln(out)
	}
}
