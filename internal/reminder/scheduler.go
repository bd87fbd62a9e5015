// Package reminder fires due task reminders on a fixed interval.
package reminder

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/balkashynov/dotask/internal/notify"
	"github.com/balkashynov/dotask/internal/store"
)

// DefaultInterval is how often the scheduler checks for due reminders
const DefaultInterval = 10 * time.Second

// Dispatcher applies store commands
type Dispatcher interface {
	Dispatch(cmd store.Command) store.Result
}

// Reloader is implemented by stores that other processes write to as well
type Reloader interface {
	Reload() error
}

// Scheduler marks due reminders fired and notifies the user about them
type Scheduler struct {
	store      Dispatcher
	notifier   notify.Notifier
	permission func() notify.Permission
	interval   time.Duration
	now        func() time.Time
	logger     *log.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithInterval sets the tick interval; non-positive values keep the default
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithPermission sets the function consulted before every notification
func WithPermission(fn func() notify.Permission) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.permission = fn
		}
	}
}

// WithClock overrides time.Now for Run
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithLogger sets the logger used for notification failures
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a scheduler. A nil notifier disables notifications; without
// WithPermission the permission is treated as not granted.
func New(st Dispatcher, n notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:      st,
		notifier:   n,
		permission: func() notify.Permission { return notify.PermissionDefault },
		interval:   DefaultInterval,
		now:        time.Now,
		logger:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the tick interval
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Tick fires every reminder due at now and returns them.
// A store implementing Reloader is reloaded first.
func (s *Scheduler) Tick(now time.Time) []store.FiredReminder {
	if r, ok := s.store.(Reloader); ok {
		if err := r.Reload(); err != nil {
			s.logger.Printf("reminder: reload failed: %v", err)
		}
	}
	res := s.store.Dispatch(store.FireDueReminders{Now: now})
	if len(res.Fired) == 0 {
		return nil
	}

	if s.notifier == nil || s.permission() != notify.PermissionGranted {
		return res.Fired
	}

	for _, f := range res.Fired {
		title := notify.ReminderTitle(f.TaskTitle)
		body := notify.ReminderBody(f.Description)
		if err := s.notifier.Notify(title, body); err != nil {
			s.logger.Printf("reminder: notification for %q failed: %v", f.TaskTitle, err)
		}
	}
	return res.Fired
}

// Run ticks until ctx is cancelled. The first check happens immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(s.now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}
