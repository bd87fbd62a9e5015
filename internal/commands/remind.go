package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/parser"
	"github.com/balkashynov/dotask/internal/store"
)

var remindCmd = &cobra.Command{
	Use:   "remind <task-id> <when>",
	Short: "Add a reminder to a task",
	Long: `Add a reminder to a task. <when> accepts the due date formats,
e.g. "30m", "2 hours", "tomorrow", "20/05/2024 09:00".

Reminders are delivered while 'dotask watch' or 'dotask ui' is running.`,
	Args: cobra.MinimumNArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		task, err := a.resolveTask(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		at, err := parser.ParseDueDate(strings.Join(args[1:], " "), a.now())
		if err != nil || at == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing reminder time: %v\n", err)
			return
		}
		if !at.After(a.now()) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: reminder time is in the past, it will fire on the next check")
		}

		a.store.Dispatch(store.AddReminder{TaskID: task.ID, At: *at})
		fmt.Fprintf(cmd.OutOrStdout(), "⏰ Reminder set for %s: %s\n", at.Format("02/01/2006 15:04"), task.Title)
	}),
}
