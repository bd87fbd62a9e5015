package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/views"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tasks by title or description",
	Long: `Search every task, completed ones included, for a case-insensitive
substring of the title or description.`,
	Args: cobra.MinimumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		query := strings.Join(args, " ")
		sortFlag, _ := cmd.Flags().GetString("sort")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		tasks, _ := views.Select(a.store.Tasks(), views.View{Kind: views.KindSearch}, query, views.ParseSort(sortFlag), a.now())
		printTasks(cmd.OutOrStdout(), a, "Search: "+query, tasks, jsonOutput)
	}),
}

func init() {
	searchCmd.Flags().StringP("sort", "s", "", "Sort: smart, due, priority, added, alpha")
	searchCmd.Flags().Bool("json", false, "JSON output")
}
