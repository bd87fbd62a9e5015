package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/dotask/internal/intake"
	"github.com/balkashynov/dotask/internal/notify"
	"github.com/balkashynov/dotask/internal/store"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dotask")
	path := filepath.Join(dir, DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	assert.Equal(t, "inbox", cfg.DefaultView)
	assert.Equal(t, "smart", cfg.DefaultSort)
	assert.Equal(t, 10*time.Second, cfg.Interval())
	assert.Equal(t, store.DefaultMaxAttachmentSize, cfg.AttachmentLimit())
	assert.Equal(t, notify.PermissionDefault, cfg.Permission())
	assert.Equal(t, intake.DefaultGeminiModel, cfg.Gemini.Model)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreate_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	data := `
default_view = "today"
reminder_interval = "1m"
notifications = "granted"

[gemini]
api_key = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "today", cfg.DefaultView)
	assert.Equal(t, "smart", cfg.DefaultSort, "unset keys keep defaults")
	assert.Equal(t, time.Minute, cfg.Interval())
	assert.Equal(t, notify.PermissionGranted, cfg.Permission())
	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultDBName), cfg.DBPath)
}

func TestLoadOrCreate_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	t.Setenv("DOTASK_DB_PATH", "/tmp/other.db")
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("DOTASK_REMINDER_INTERVAL", "30s")
	t.Setenv("DOTASK_MAX_ATTACHMENT_SIZE", "1024")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Interval())
	assert.Equal(t, int64(1024), cfg.AttachmentLimit())

	onDisk, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Empty(t, onDisk.Gemini.APIKey, "overrides are not written back")
}

func TestInterval_Invalid(t *testing.T) {
	assert.Equal(t, 10*time.Second, Config{ReminderInterval: "soon"}.Interval())
	assert.Equal(t, 10*time.Second, Config{ReminderInterval: "-5s"}.Interval())
}

func TestSavePermission(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	_, err := LoadOrCreate(path)
	require.NoError(t, err)

	require.NoError(t, SavePermission(path, notify.PermissionDenied))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, notify.PermissionDenied, cfg.Permission())
	assert.Equal(t, "inbox", cfg.DefaultView)
}
