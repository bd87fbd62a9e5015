package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all tasks, lists and labels",
	Long: `Write a backup of everything to a file, or to stdout without one.
Files ending in .yaml or .yml are written as YAML, anything else as JSON.`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		backup := a.store.Backup()

		if len(args) == 0 {
			format, _ := cmd.Flags().GetString("format")
			data, err := store.MarshalBackup(backup, format != "json")
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}
			cmd.OutOrStdout().Write(data)
			return
		}

		if err := store.WriteBackup(args[0], backup); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks, %d lists and %d labels to %s\n",
			len(backup.Tasks), len(backup.Lists), len(backup.Labels), args[0])
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with a backup",
	Long: `Load a backup written by 'dotask export'. Everything currently stored
is replaced, so --force is required unless there are no tasks yet.`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		force, _ := cmd.Flags().GetBool("force")
		if n := len(a.store.Tasks()); n > 0 && !force {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %d tasks would be replaced, use --force to continue\n", n)
			return
		}

		backup, err := store.ReadBackup(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		a.store.Dispatch(store.Restore{Backup: backup})
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks, %d lists and %d labels\n",
			len(backup.Tasks), len(backup.Lists), len(backup.Labels))
	}),
}

func init() {
	exportCmd.Flags().String("format", "yaml", "Format for stdout: yaml or json")
	importCmd.Flags().Bool("force", false, "Replace existing tasks")
}
