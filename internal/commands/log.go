package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/views"
)

var logCmd = &cobra.Command{
	Use:   "log [task-id]",
	Short: "Show the change log of a task, or recent activity",
	Long: `With a task id, print every log entry of that task, oldest first.
Without one, print the activity feed across all tasks, newest first.`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		out := cmd.OutOrStdout()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if len(args) == 0 {
			limit, _ := cmd.Flags().GetInt("limit")
			printActivity(out, views.Activity(a.store.Tasks(), limit), jsonOutput)
			return
		}

		task, err := a.resolveTask(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		feed := make([]views.ActivityEntry, 0, len(task.Logs))
		for _, l := range task.Logs {
			feed = append(feed, views.ActivityEntry{TaskID: task.ID, TaskTitle: task.Title, Log: l})
		}
		printActivity(out, feed, jsonOutput)
	}),
}

func init() {
	logCmd.Flags().Int("limit", 20, "Max entries in the activity feed")
	logCmd.Flags().Bool("json", false, "JSON output")
}
