package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for dotask",
	Long:  `Display detailed help for all dotask commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
██████╗  ██████╗ ████████╗ █████╗ ███████╗██╗  ██╗
██╔══██╗██╔═══██╗╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝
██║  ██║██║   ██║   ██║   ███████║███████╗█████╔╝
██║  ██║██║   ██║   ██║   ██╔══██║╚════██║██╔═██╗
██████╔╝╚██████╔╝   ██║   ██║  ██║███████║██║  ██╗
╚═════╝  ╚═════╝    ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝

dotask - personal task manager

COMMANDS:

  add <task>              Create a new task with smart parsing
    -l, --list            List name (created if missing)
    -t, --labels          Comma-separated labels
    --priority            Priority: none|low|medium|high
    --due                 Due date (today, tomorrow, dd/mm/yyyy [HH:MM], 3d, 2h)
    --deadline            Hard deadline, same formats as --due
    --every               Repeat: day|week|weekdays|month|year|3days
    -r, --remind          Reminder time, same formats as --due
    -e, --estimate        Time estimate
    -n, --note            Description
    --ai                  Let Gemini read the task (needs GEMINI_API_KEY)

    Smart syntax:
      #label        Add labels (created if missing)
      @list         Put in list
      +priority     Set priority (low/medium/high)
      due:2d        Set due date (2 days from now)
      every:week    Repeat weekly

    Example:
      dotask add "Pay rent #home @personal +high due:1/6/2024 every:month"

  ls [view]               Show a view: inbox, today, next7, upcoming, all,
                          activity, a list name or a #label
    -s, --sort            smart|due|priority|added|alpha
    --json                JSON output

  search <query>          Search titles and descriptions
  edit <id>               Change any field; every change is logged
  done <id>               Complete a task (recurring tasks spawn the next one)
  undone <id>             Reopen a task
  rm <id>                 Delete a task

  sub add <id> <title>    Add a subtask
  sub ls <id>             Show subtasks
  sub done <id> <n>       Toggle subtask n
  sub rm <id> <n>         Remove subtask n

  remind <id> <when>      Add a reminder (30m, tomorrow 09:00, dd/mm/yyyy HH:MM)
  attach <id> <file|url>  Attach a file or a link
  log [id]                Task history, or recent activity across tasks

  list                    Show lists (add, rename, rm)
  label                   Show labels (add, rename, rm)

  export [file]           Back up everything (.yaml/.yml as YAML, else JSON)
  import <file>           Replace all data with a backup
    --force               Required when tasks already exist

  watch                   Deliver reminders until Ctrl+C
  ui                      Interactive task list
    Keys:
      ↑/↓           Navigate tasks
      tab           Next view
      s             Change sort
      /             Search
      a             Add a task (AI when configured)
      space         Complete/reopen
      d             Delete
      esc/q         Quit

  version                 Show version information
  help                    Show this help

Task ids can be shortened to any unique prefix.

`)
}
