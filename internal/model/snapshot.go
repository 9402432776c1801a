package model

import (
	"encoding/json"
	"time"
)

// SnapshotSource records how a snapshot was captured.
type SnapshotSource string

const (
	SnapshotManual SnapshotSource = "manual"
	SnapshotAuto   SnapshotSource = "auto"
)

// Snapshot is a frozen capture of one user's materialized day.
// State holds a versioned document whose layout is owned by the snapshot package.
type Snapshot struct {
	Key           string          `json:"key"`
	UserID        string          `json:"user_id"`
	Date          string          `json:"date"`
	SchemaVersion int             `json:"schema_version"`
	Source        SnapshotSource  `json:"source"`
	CreatedAt     time.Time       `json:"created_at"`
	State         json.RawMessage `json:"state"`
}

// SetKey sets the database key for this snapshot.
func (s *Snapshot) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this snapshot.
func (s *Snapshot) GetKey() string {
	return s.Key
}

// GenerateSnapshotKey generates a database key for a snapshot.
func GenerateSnapshotKey(userID, date string) string {
	return joinKey(PrefixSnapshot, userID, date)
}

// SnapshotInfo is the listing form of a snapshot.
type SnapshotInfo struct {
	Date      string         `json:"date"`
	CreatedAt time.Time      `json:"createdAt"`
	Source    SnapshotSource `json:"source"`
}
