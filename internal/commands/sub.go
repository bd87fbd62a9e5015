package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/parser"
	"github.com/balkashynov/dotask/internal/store"
)

var subCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage subtasks",
	Long: `Manage the checklist of a task. Subtasks are addressed by their
position as shown by 'dotask sub ls <task-id>', starting at 1.`,
}

var subAddCmd = &cobra.Command{
	Use:   "add <task-id> <title>",
	Short: "Add a subtask",
	Args:  cobra.MinimumNArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		task, err := a.resolveTask(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		c := store.AddSubtask{TaskID: task.ID, Title: strings.Join(args[1:], " ")}
		if due, _ := cmd.Flags().GetString("due"); due != "" {
			d, err := parser.ParseDueDate(due, a.now())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing due date: %v\n", err)
				return
			}
			c.DueDate = d
		}

		res := a.store.Dispatch(c)
		if res.Task == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: subtask was not added")
			return
		}
		printSubtasks(cmd, a, *res.Task)
	}),
}

var subLsCmd = &cobra.Command{
	Use:   "ls <task-id>",
	Short: "Show the subtasks of a task",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		task, err := a.resolveTask(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		printSubtasks(cmd, a, task)
	}),
}

var subDoneCmd = &cobra.Command{
	Use:   "done <task-id> <n>",
	Short: "Toggle a subtask",
	Args:  cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		editSubtask(cmd, a, args, func(task *models.Task, i int) {
			task.Subtasks[i].Completed = !task.Subtasks[i].Completed
		})
	}),
}

var subRmCmd = &cobra.Command{
	Use:   "rm <task-id> <n>",
	Short: "Delete a subtask",
	Args:  cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		editSubtask(cmd, a, args, func(task *models.Task, i int) {
			task.Subtasks = append(task.Subtasks[:i:i], task.Subtasks[i+1:]...)
		})
	}),
}

// editSubtask applies fn to the n-th subtask and stores the result
func editSubtask(cmd *cobra.Command, a *app, args []string, fn func(*models.Task, int)) {
	task, err := a.resolveTask(args[0])
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 || n > len(task.Subtasks) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid subtask number '%s'\n", args[1])
		return
	}

	fn(&task, n-1)
	res := a.store.Dispatch(store.UpdateTask{Task: task})
	if res.Task == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: task %s not found\n", args[0])
		return
	}
	printSubtasks(cmd, a, *res.Task)
}

func printSubtasks(cmd *cobra.Command, a *app, task models.Task) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%d/%d)\n", shortID(task.ID), task.Title, completedSubtasks(task), len(task.Subtasks))
	for i, s := range task.Subtasks {
		mark := "[ ]"
		if s.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(out, "  %d. %s %s", i+1, mark, s.Title)
		if s.DueDate != nil {
			fmt.Fprintf(out, "  %s", parser.FormatDueDate(s.DueDate, a.now()))
		}
		fmt.Fprintln(out)
	}
}

func init() {
	subAddCmd.Flags().String("due", "", "Due date of the subtask")

	subCmd.AddCommand(subAddCmd)
	subCmd.AddCommand(subLsCmd)
	subCmd.AddCommand(subDoneCmd)
	subCmd.AddCommand(subRmCmd)
}
