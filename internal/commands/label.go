package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/store"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Show and manage labels",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		count := map[string]int{}
		for _, t := range a.store.Tasks() {
			for _, id := range t.LabelIDs {
				count[id]++
			}
		}

		out := cmd.OutOrStdout()
		labels := a.store.Labels()
		if len(labels) == 0 {
			fmt.Fprintln(out, "No labels. Use 'dotask label add <name>' to create one.")
			return
		}
		fmt.Fprintf(out, "%-20s %-20s %s\n", "ID", "NAME", "TASKS")
		fmt.Fprintln(out, strings.Repeat("-", 48))
		for _, l := range labels {
			fmt.Fprintf(out, "%-20s %-20s %d\n", shortID(l.ID), "#"+l.Name, count[l.ID])
		}
	}),
}

var labelAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		name := strings.TrimPrefix(args[0], "#")
		if _, ok := findLabel(a.store.Labels(), name); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: label %q already exists\n", name)
			return
		}
		color, _ := cmd.Flags().GetString("color")

		res := a.store.Dispatch(store.AddLabel{Label: models.Label{ID: slug(name), Name: name, Color: color}})
		if res.Label == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: label name cannot be empty")
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created label #%s (%s)\n", res.Label.Name, res.Label.ID)
	}),
}

var labelRenameCmd = &cobra.Command{
	Use:   "rename <label> <new name>",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		l, ok := findLabel(a.store.Labels(), args[0])
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: label %q not found\n", args[0])
			return
		}
		old := l.Name
		l.Name = strings.TrimPrefix(args[1], "#")
		a.store.Dispatch(store.UpdateLabel{Label: l})
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed label #%s to #%s\n", old, l.Name)
	}),
}

var labelRmCmd = &cobra.Command{
	Use:   "rm <label>",
	Short: "Delete a label and remove it from every task",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		l, ok := findLabel(a.store.Labels(), args[0])
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: label %q not found\n", args[0])
			return
		}
		a.store.Dispatch(store.DeleteLabel{ID: l.ID})
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted label #%s\n", l.Name)
	}),
}

func init() {
	labelAddCmd.Flags().String("color", "", "Display color")

	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelRenameCmd)
	labelCmd.AddCommand(labelRmCmd)
}
