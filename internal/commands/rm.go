package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/store"
)

var rmCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		task, err := a.resolveTask(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		a.store.Dispatch(store.DeleteTask{ID: task.ID})
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted task %s: %s\n", shortID(task.ID), task.Title)
	}),
}
