package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/dotask/internal/models"
)

// Backup is a full copy of the store's collections
type Backup struct {
	ExportedAt time.Time         `json:"exportedAt" yaml:"exportedAt"`
	Tasks      []models.Task     `json:"tasks" yaml:"tasks"`
	Lists      []models.TaskList `json:"lists" yaml:"lists"`
	Labels     []models.Label    `json:"labels" yaml:"labels"`
}

// Backup returns a deep copy of every collection
func (s *Store) Backup() Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := Backup{
		ExportedAt: s.now(),
		Tasks:      make([]models.Task, len(s.tasks)),
		Lists:      append([]models.TaskList{}, s.lists...),
		Labels:     append([]models.Label{}, s.labels...),
	}
	for i, t := range s.tasks {
		b.Tasks[i] = t.Clone()
	}
	return b
}

// Restore replaces every collection with the backup's contents.
// Tasks are normalised; nothing is logged on them.
type Restore struct {
	Backup Backup
}

func (c Restore) apply(s *Store) Result {
	tasks := make([]models.Task, len(c.Backup.Tasks))
	for i, t := range c.Backup.Tasks {
		t = t.Clone()
		if t.ID == "" {
			t.ID = s.newID()
		}
		t.Normalize()
		tasks[i] = t
	}

	s.tasks = tasks
	s.lists = append([]models.TaskList{}, c.Backup.Lists...)
	s.labels = append([]models.Label{}, c.Backup.Labels...)
	return changed(dirtyTasks | dirtyLists | dirtyLabels)
}

// IsYAML reports whether path names a YAML file
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// MarshalBackup encodes b as YAML or indented JSON
func MarshalBackup(b Backup, asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(b)
	}
	return json.MarshalIndent(b, "", "  ")
}

// WriteBackup writes b to path, choosing the format from the extension.
// The file is replaced atomically.
func WriteBackup(path string, b Backup) error {
	data, err := MarshalBackup(b, IsYAML(path))
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename backup: %w", err)
	}
	return nil
}

// ReadBackup loads a backup written by WriteBackup
func ReadBackup(path string) (Backup, error) {
	var b Backup
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}

	if IsYAML(path) {
		err = yaml.Unmarshal(data, &b)
	} else {
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return b, fmt.Errorf("failed to parse backup %s: %w", path, err)
	}
	return b, nil
}
