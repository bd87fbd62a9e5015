package models

import (
	"time"
)

// KVEntry is one row of the local key/value store.
// Values are JSON documents (tasks, lists, labels).
type KVEntry struct {
	Key       string    `gorm:"primarykey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
