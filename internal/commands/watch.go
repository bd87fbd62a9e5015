package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/config"
	"github.com/balkashynov/dotask/internal/notify"
	"github.com/balkashynov/dotask/internal/reminder"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Deliver reminders until interrupted",
	Long: `Check for due reminders every few seconds (reminder_interval in the
config, 10s by default) and show a desktop notification for each one.
Runs until Ctrl+C.`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		perm := a.ensurePermission(cmd.InOrStdin(), cmd.OutOrStdout())
		printOnly, _ := cmd.Flags().GetBool("print")

		var n notify.Notifier = notify.Multi{notify.NewCommandNotifier(), notify.NewWriterNotifier(cmd.OutOrStdout())}
		if printOnly {
			n = notify.NewWriterNotifier(cmd.OutOrStdout())
		}

		sch := a.newScheduler(n, func() notify.Permission { return perm })

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching reminders every %s (Ctrl+C to stop)\n", sch.Interval())
		if err := sch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}),
}

// newScheduler builds a reminder scheduler wired to the app's store
func (a *app) newScheduler(n notify.Notifier, perm func() notify.Permission) *reminder.Scheduler {
	return reminder.New(a.store, n,
		reminder.WithPermission(perm),
		reminder.WithInterval(a.cfg.Interval()),
		reminder.WithLogger(a.logger),
	)
}

// ensurePermission asks once for notification permission and stores the answer
func (a *app) ensurePermission(in io.Reader, out io.Writer) notify.Permission {
	if p := a.cfg.Permission(); p.Decided() {
		return p
	}

	p := askPermission(in, out)
	if p.Decided() {
		if err := config.SavePermission(a.cfgPath, p); err != nil {
			a.logger.Printf("failed to save notification permission: %v", err)
		}
		a.cfg.Notifications = string(p)
	}
	return p
}

// askPermission prompts on out and reads a y/n answer from in.
// No answer (EOF) leaves the permission undecided.
func askPermission(in io.Reader, out io.Writer) notify.Permission {
	fmt.Fprint(out, "Allow dotask to show desktop notifications for reminders? [y/n] ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return notify.PermissionDefault
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return notify.PermissionGranted
	case "n", "no":
		return notify.PermissionDenied
	default:
		return notify.PermissionDefault
	}
}

func init() {
	watchCmd.Flags().Bool("print", false, "Print reminders instead of showing desktop notifications")
}
