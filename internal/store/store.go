// Package store owns all tasks, lists and labels. Every mutation goes
// through Dispatch so that logging and persistence happen in one place.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/dotask/internal/models"
)

// Keys under which the three collections are persisted
const (
	KeyTasks  = "tasks"
	KeyLists  = "lists"
	KeyLabels = "labels"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAmbiguousID  = errors.New("task id prefix is ambiguous")
)

// Persister is the local key/value store the Store writes through to
type Persister interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Store is the single owner of task, list and label records.
// It is safe for use from the reminder goroutine and a UI at the same time;
// all access is serialised.
type Store struct {
	mu sync.Mutex

	kv     Persister
	now    func() time.Time
	newID  func() string
	logger *log.Logger

	tasks  []models.Task
	lists  []models.TaskList
	labels []models.Label

	open    bool
	pending dirty
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides uuid.NewString
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithLogger sets the logger used for persistence and load warnings
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store backed by kv. Call Open before use.
func New(kv Persister, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.New(io.Discard, "", 0),
		tasks:  []models.Task{},
		lists:  models.SeedLists(),
		labels: models.SeedLabels(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads persisted state. Each key falls back to its default on its own
// when it is missing or cannot be decoded.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv == nil {
		return fmt.Errorf("store has no persister")
	}
	if err := s.loadAll(); err != nil {
		return err
	}
	s.open = true
	return nil
}

// Reload re-reads every collection so that a long-running process sees
// writes made by other processes. Collections with unsaved changes are
// written first; if that still fails they are kept as they are.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	if s.pending != 0 {
		s.persist(s.pending)
	}
	return s.loadAll()
}

func (s *Store) loadAll() error {
	if s.pending&dirtyTasks == 0 {
		var tasks []models.Task
		ok, err := s.load(KeyTasks, &tasks)
		if err != nil {
			return err
		}
		if !ok || tasks == nil {
			tasks = []models.Task{}
		}
		for i := range tasks {
			tasks[i].Normalize()
		}
		s.tasks = tasks
	}

	if s.pending&dirtyLists == 0 {
		var lists []models.TaskList
		ok, err := s.load(KeyLists, &lists)
		if err != nil {
			return err
		}
		if !ok {
			lists = models.SeedLists()
		}
		if lists == nil {
			lists = []models.TaskList{}
		}
		s.lists = lists
	}

	if s.pending&dirtyLabels == 0 {
		var labels []models.Label
		ok, err := s.load(KeyLabels, &labels)
		if err != nil {
			return err
		}
		if !ok {
			labels = models.SeedLabels()
		}
		if labels == nil {
			labels = []models.Label{}
		}
		s.labels = labels
	}
	return nil
}

// load decodes key into out. It reports false when the key is absent or malformed.
func (s *Store) load(key string, out any) (bool, error) {
	data, found, err := s.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Printf("discarding malformed %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Close stops accepting commands. Collections are already saved by Dispatch;
// only those whose last write failed are written again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false

	var errs []error
	for _, k := range []struct {
		key string
		bit dirty
	}{{KeyTasks, dirtyTasks}, {KeyLists, dirtyLists}, {KeyLabels, dirtyLabels}} {
		if s.pending&k.bit == 0 {
			continue
		}
		if err := s.persistKey(k.key); err != nil {
			errs = append(errs, err)
			continue
		}
		s.pending &^= k.bit
	}
	return errors.Join(errs...)
}

// Dispatch applies cmd and persists whatever it changed.
// Unknown ids are a silent no-op: the returned Result has Changed == false.
func (s *Store) Dispatch(cmd Command) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || cmd == nil {
		return Result{}
	}

	res := cmd.apply(s)
	if res.Changed {
		s.persist(res.dirty)
	}
	return res
}

func (s *Store) persist(d dirty) {
	s.persistBit(d, dirtyTasks, KeyTasks)
	s.persistBit(d, dirtyLists, KeyLists)
	s.persistBit(d, dirtyLabels, KeyLabels)
}

// persistBit writes key when d has bit set and remembers failed writes
func (s *Store) persistBit(d, bit dirty, key string) {
	if d&bit == 0 {
		return
	}
	if err := s.persistKey(key); err != nil {
		s.logger.Printf("persist: %v", err)
		s.pending |= bit
		return
	}
	s.pending &^= bit
}

func (s *Store) persistKey(key string) error {
	var v any
	switch key {
	case KeyTasks:
		v = s.tasks
	case KeyLists:
		v = s.lists
	case KeyLabels:
		v = s.labels
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Put(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Tasks returns a copy of every task, most recent first
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns a copy of the task with the given id
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// ResolveTaskID expands a unique id prefix to a full task id
func (s *Store) ResolveTaskID(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrTaskNotFound
	}

	match := ""
	for _, t := range s.tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	}
	return match, nil
}

// Lists returns a copy of all user lists (the inbox is implicit)
func (s *Store) Lists() []models.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TaskList(nil), s.lists...)
}

// Labels returns a copy of all labels
func (s *Store) Labels() []models.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Label(nil), s.labels...)
}

// ListName returns the display name of a list, "Inbox" for the inbox or an unknown id
func (s *Store) ListName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listName(id)
}

// LabelName returns the display name of a label, "Unknown" if it does not exist
func (s *Store) LabelName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labelName(id)
}

func (s *Store) listName(id string) string {
	if models.IsInbox(id) {
		return models.InboxName
	}
	for _, l := range s.lists {
		if l.ID == id {
			return l.Name
		}
	}
	return models.InboxName
}

func (s *Store) labelName(id string) string {
	for _, l := range s.labels {
		if l.ID == id {
			return l.Name
		}
	}
	return "Unknown"
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) newLog(msg string) models.TaskLog {
	return models.TaskLog{
		ID:        s.newID(),
		Timestamp: s.now(),
		Message:   msg,
	}
}
