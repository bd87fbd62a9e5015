package commands

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/config"
	"github.com/balkashynov/dotask/internal/db"
	"github.com/balkashynov/dotask/internal/intake"
	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/store"
)

// app bundles everything a command needs
type app struct {
	cfg     config.Config
	cfgPath string
	kv      *db.KV
	store   *store.Store
	logger  *log.Logger
	now     func() time.Time
}

// openApp loads config, opens the database and the store
func openApp() (*app, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	logger := log.New(os.Stderr, "dotask: ", 0)

	kv, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	st := store.New(kv, store.WithLogger(logger))
	if err := st.Open(); err != nil {
		kv.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		cfgPath: path,
		kv:      kv,
		store:   st,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Close flushes the store and closes the database
func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.kv.Close())
}

// withApp wraps a command function to open the app first
func withApp(fn func(*cobra.Command, []string, *app)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		a, err := openApp()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.logger.Printf("close: %v", err)
			}
		}()
		fn(cmd, args, a)
	}
}

// intakeParser returns the Gemini client, or nil when no key is configured
func (a *app) intakeParser() intake.Parser {
	if a.cfg.Gemini.APIKey == "" {
		return nil
	}
	return intake.NewGeminiClient(a.cfg.Gemini.APIKey,
		intake.WithModel(a.cfg.Gemini.Model),
		intake.WithBaseURL(a.cfg.Gemini.BaseURL),
	)
}

// resolveTask finds a task by full id or unique id prefix
func (a *app) resolveTask(ref string) (models.Task, error) {
	id, err := a.store.ResolveTaskID(ref)
	if err != nil {
		return models.Task{}, err
	}
	t, ok := a.store.Task(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %s", store.ErrTaskNotFound, ref)
	}
	return t, nil
}

// findList resolves a list by id or case-insensitive name
func findList(lists []models.TaskList, ref string) (models.TaskList, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "@")
	if models.IsInbox(ref) || strings.EqualFold(ref, models.InboxName) {
		return models.TaskList{ID: models.InboxListID, Name: models.InboxName}, true
	}
	for _, l := range lists {
		if l.ID == ref || strings.EqualFold(l.Name, ref) {
			return l, true
		}
	}
	return models.TaskList{}, false
}

// findLabel resolves a label by id or case-insensitive name
func findLabel(labels []models.Label, ref string) (models.Label, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	for _, l := range labels {
		if l.ID == ref || strings.EqualFold(l.Name, ref) {
			return l, true
		}
	}
	return models.Label{}, false
}

// ensureList returns the id of the named list, creating it if needed
func (a *app) ensureList(cmd *cobra.Command, ref string) string {
	if l, ok := findList(a.store.Lists(), ref); ok {
		return l.ID
	}
	name := strings.TrimPrefix(strings.TrimSpace(ref), "@")
	res := a.store.Dispatch(store.AddList{List: models.TaskList{ID: slug(name), Name: name}})
	if res.List == nil {
		return models.InboxListID
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created list %q\n", res.List.Name)
	return res.List.ID
}

// ensureLabels maps label names to ids, creating unknown labels
func (a *app) ensureLabels(cmd *cobra.Command, refs []string) []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		id := ""
		if l, ok := findLabel(a.store.Labels(), ref); ok {
			id = l.ID
		} else {
			name := strings.TrimPrefix(ref, "#")
			res := a.store.Dispatch(store.AddLabel{Label: models.Label{ID: slug(name), Name: name}})
			if res.Label == nil {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created label %q\n", res.Label.Name)
			id = res.Label.ID
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// slug turns a display name into a readable id
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// shortID is the prefix shown in tables
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// labelNames renders label ids as "#name" words
func (a *app) labelNames(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, "#"+a.store.LabelName(id))
	}
	return strings.Join(names, " ")
}
