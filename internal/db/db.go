package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/dotask/internal/models"
)

// MemoryPath opens a throwaway in-memory database
const MemoryPath = ":memory:"

// KV is the local key/value store the task store persists into
type KV struct {
	db *gorm.DB
}

// Open sets up the database connection and runs migrations
func Open(dbPath string) (*KV, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}

	if dbPath != MemoryPath {
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: an in-memory database only lives as long as its connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	kv := &KV{db: db}
	if err := kv.runMigrations(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return kv, nil
}

// DefaultPath returns the path to the SQLite database file
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".dotask", "dotask.db"), nil
}

// runMigrations creates/updates the database schema
func (k *KV) runMigrations() error {
	return k.db.AutoMigrate(&models.KVEntry{})
}

// Get returns the value stored under key. A missing key is not an error.
func (k *KV) Get(key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := k.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

// Put inserts or replaces the value stored under key
func (k *KV) Put(key string, value []byte) error {
	entry := models.KVEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	err := k.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (k *KV) Close() error {
	if k == nil || k.db == nil {
		return nil
	}
	sqlDB, err := k.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
