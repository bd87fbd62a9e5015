package commands

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// configPath overrides ~/.dotask/config.toml
var configPath string

var rootCmd = &cobra.Command{
	Use:   "dotask",
	Short: "A personal task manager for the terminal",
	Long: `dotask keeps your tasks, lists and labels in one place.
Recurring tasks, reminders, subtasks and attachments included, with an
optional AI assistant that turns a sentence into a task.`,
	SilenceUsage: true,
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.dotask/config.toml)")

	// Add subcommands here
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(versionCmd)
}
