package commands

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/notify"
	"github.com/balkashynov/dotask/internal/tui"
	"github.com/balkashynov/dotask/internal/views"
)

var uiCmd = &cobra.Command{
	Use:   "ui [view]",
	Short: "Open the interactive task list",
	Long: `Open the interactive task list. Reminders are delivered while it runs.

Press 'a' to add a task: with a Gemini API key configured the text is read
by the AI assistant, otherwise it is added as typed.`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		name := a.cfg.DefaultView
		if len(args) > 0 {
			name = args[0]
		}
		view, ok := views.ParseView(name, a.store.Lists(), a.store.Labels())
		if !ok {
			printUnknownView(cmd.ErrOrStderr(), name)
			return
		}
		perm := a.ensurePermission(cmd.InOrStdin(), cmd.OutOrStdout())

		// The alt screen owns the terminal, so log lines go to a file instead
		f, err := tea.LogToFile(filepath.Join(filepath.Dir(a.cfgPath), "ui.log"), "dotask")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		defer f.Close()
		a.logger.SetOutput(f)

		err = tui.Run(tui.Options{
			Store:     a.store,
			Parser:    a.intakeParser(),
			Scheduler: a.newScheduler(notify.NewCommandNotifier(), func() notify.Permission { return perm }),
			View:      view,
			Sort:      views.ParseSort(a.cfg.DefaultSort),
			Now:       a.now,
			Logger:    a.logger,
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}),
}
