// Package notify delivers reminder notifications to the desktop or a writer.
package notify

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// Permission records whether the user allowed notifications
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps stored text to a Permission; unknown values are default
func ParsePermission(s string) Permission {
	switch Permission(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// Decided reports whether the user already answered the permission prompt
func (p Permission) Decided() bool {
	return p == PermissionGranted || p == PermissionDenied
}

const noDescription = "No description"

// ReminderTitle is the notification title for a task reminder
func ReminderTitle(taskTitle string) string {
	return "Reminder: " + taskTitle
}

// ReminderBody is the notification body for a task reminder
func ReminderBody(description string) string {
	if strings.TrimSpace(description) == "" {
		return noDescription
	}
	return description
}

// Notifier shows one notification
type Notifier interface {
	Notify(title, body string) error
}

var ErrUnsupportedPlatform = errors.New("desktop notifications are not supported on this platform")

// CommandExecutor runs an external program
type CommandExecutor interface {
	Run(name string, args ...string) error
}

type execExecutor struct{}

func (execExecutor) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// CommandNotifier shows notifications through notify-send on Linux and
// osascript on macOS
type CommandNotifier struct {
	goos string
	exec CommandExecutor
}

// Option configures a CommandNotifier
type Option func(*CommandNotifier)

// WithCommandExecutor replaces the process runner
func WithCommandExecutor(e CommandExecutor) Option {
	return func(n *CommandNotifier) {
		n.exec = e
	}
}

// WithGOOS overrides runtime.GOOS
func WithGOOS(goos string) Option {
	return func(n *CommandNotifier) {
		n.goos = goos
	}
}

// NewCommandNotifier creates a notifier for the current platform
func NewCommandNotifier(opts ...Option) *CommandNotifier {
	n := &CommandNotifier{goos: runtime.GOOS, exec: execExecutor{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify shows the notification
func (n *CommandNotifier) Notify(title, body string) error {
	var err error
	switch n.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		err = n.exec.Run("notify-send", "--app-name=dotask", title, body)
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleQuote(body), appleQuote(title))
		err = n.exec.Run("osascript", "-e", script)
	default:
		return ErrUnsupportedPlatform
	}
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// WriterNotifier prints notifications as lines, for terminals without a
// desktop and for `watch --print`
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier writing to w
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify writes "title: body"
func (n *WriterNotifier) Notify(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "🔔 %s: %s\n", title, body)
	return err
}

// Multi fans a notification out to every notifier and joins their errors
type Multi []Notifier

// Notify delivers to each notifier in order
func (m Multi) Notify(title, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
