package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/balkashynov/dotask/internal/intake"
	"github.com/balkashynov/dotask/internal/notify"
	"github.com/balkashynov/dotask/internal/reminder"
	"github.com/balkashynov/dotask/internal/store"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "dotask.db"
	DefaultDirName        = ".dotask"
)

type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

type Config struct {
	DBPath            string       `toml:"db_path"`
	DefaultView       string       `toml:"default_view"`
	DefaultSort       string       `toml:"default_sort"`
	ReminderInterval  string       `toml:"reminder_interval"`
	MaxAttachmentSize int64        `toml:"max_attachment_size"`
	Notifications     string       `toml:"notifications"`
	Gemini            GeminiConfig `toml:"gemini"`
}

// DefaultDir returns ~/.dotask
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// DefaultPath returns ~/.dotask/config.toml
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFileName), nil
}

// Load reads the config file (creating it on first run), then applies .env
// and environment overrides. Overrides are never written back.
func Load(path string) (Config, error) {
	cfg, err := LoadOrCreate(path)
	if err != nil {
		return cfg, err
	}
	// A missing .env is fine
	_ = godotenv.Load()
	return applyEnv(cfg), nil
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:            filepath.Join(dir, DefaultDBName),
		DefaultView:       "inbox",
		DefaultSort:       "smart",
		ReminderInterval:  reminder.DefaultInterval.String(),
		MaxAttachmentSize: store.DefaultMaxAttachmentSize,
		Notifications:     string(notify.PermissionDefault),
		Gemini: GeminiConfig{
			Model:   intake.DefaultGeminiModel,
			BaseURL: intake.DefaultGeminiBaseURL,
		},
	}
}

func applyEnv(cfg Config) Config {
	cfg.DBPath = getEnv("DOTASK_DB_PATH", cfg.DBPath)
	cfg.ReminderInterval = getEnv("DOTASK_REMINDER_INTERVAL", cfg.ReminderInterval)
	cfg.MaxAttachmentSize = getEnvAsInt64("DOTASK_MAX_ATTACHMENT_SIZE", cfg.MaxAttachmentSize)
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", cfg.Gemini.BaseURL)
	return cfg
}

// Interval parses ReminderInterval, falling back to the scheduler default
func (c Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.ReminderInterval)
	if err != nil || d <= 0 {
		return reminder.DefaultInterval
	}
	return d
}

// AttachmentLimit returns the max attachment size in bytes
func (c Config) AttachmentLimit() int64 {
	if c.MaxAttachmentSize <= 0 {
		return store.DefaultMaxAttachmentSize
	}
	return c.MaxAttachmentSize
}

// Permission returns the stored notification permission
func (c Config) Permission() notify.Permission {
	return notify.ParsePermission(c.Notifications)
}

// SavePermission records the user's answer in the config file at path.
// Only the notifications key changes; env overrides are not persisted.
func SavePermission(path string, p notify.Permission) error {
	cfg, err := LoadOrCreate(path)
	if err != nil {
		return err
	}
	cfg.Notifications = string(p)
	return Save(path, cfg)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
