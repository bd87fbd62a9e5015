package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show and manage lists",
	Long:  "Show every list with its number of open tasks. The inbox always exists.",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		open := map[string]int{}
		for _, t := range a.store.Tasks() {
			if t.Completed {
				continue
			}
			id := t.ListID
			if models.IsInbox(id) {
				id = models.InboxListID
			}
			open[id]++
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s %-20s %s\n", "ID", "NAME", "OPEN")
		fmt.Fprintln(out, strings.Repeat("-", 48))
		fmt.Fprintf(out, "%-20s %-20s %d\n", models.InboxListID, models.InboxName, open[models.InboxListID])
		for _, l := range a.store.Lists() {
			name := l.Name
			if l.Icon != "" {
				name = l.Icon + " " + name
			}
			fmt.Fprintf(out, "%-20s %-20s %d\n", shortID(l.ID), name, open[l.ID])
		}
	}),
}

var listAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a list",
	Args:  cobra.MinimumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		name := strings.Join(args, " ")
		if _, ok := findList(a.store.Lists(), name); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: list %q already exists\n", name)
			return
		}
		color, _ := cmd.Flags().GetString("color")
		icon, _ := cmd.Flags().GetString("icon")

		res := a.store.Dispatch(store.AddList{List: models.TaskList{ID: slug(name), Name: name, Color: color, Icon: icon}})
		if res.List == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: list name cannot be empty")
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created list %q (%s)\n", res.List.Name, res.List.ID)
	}),
}

var listRenameCmd = &cobra.Command{
	Use:   "rename <list> <new name>",
	Short: "Rename a list",
	Args:  cobra.MinimumNArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		l, ok := findList(a.store.Lists(), args[0])
		if !ok || models.IsInbox(l.ID) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: list %q not found\n", args[0])
			return
		}
		old := l.Name
		l.Name = strings.Join(args[1:], " ")
		a.store.Dispatch(store.UpdateList{List: l})
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed list %q to %q\n", old, l.Name)
	}),
}

var listRmCmd = &cobra.Command{
	Use:   "rm <list>",
	Short: "Delete a list, moving its tasks to the inbox",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		l, ok := findList(a.store.Lists(), args[0])
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: list %q not found\n", args[0])
			return
		}
		if models.IsInbox(l.ID) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: the inbox cannot be deleted")
			return
		}
		a.store.Dispatch(store.DeleteList{ID: l.ID})
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %q, its tasks moved to the inbox\n", l.Name)
	}),
}

func init() {
	listAddCmd.Flags().String("color", "", "Display color")
	listAddCmd.Flags().String("icon", "", "Icon shown before the name")

	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listRenameCmd)
	listCmd.AddCommand(listRmCmd)
}
