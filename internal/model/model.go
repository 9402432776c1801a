// Package model defines the domain models for Daymark.
package model

import "strings"

// Model is the interface that all database models must implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// KeyPrefix constants for database key generation.
const (
	PrefixUser            = "user"
	PrefixRetention       = "retention"
	PrefixTemplate        = "template"
	PrefixFieldValue      = "fieldvalue"
	PrefixTask            = "task"
	PrefixTaskDate        = "taskdate"
	PrefixEntry           = "entry"
	PrefixDayLog          = "daylog"
	PrefixCounter         = "counter"
	PrefixCounterValue    = "countervalue"
	PrefixDurationTracker = "durationtracker"
	PrefixTimeSince       = "timesince"
	PrefixTimerLog        = "timerlog"
	PrefixSnapshot        = "snapshot"
)

// DateLayout is the zone-less calendar date format used for every date key.
const DateLayout = "2006-01-02"

// joinKey builds a colon separated database key.
func joinKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// UserPrefix returns the key prefix covering every row of the given kind for a user.
func UserPrefix(prefix, userID string) string {
	return joinKey(prefix, userID) + ":"
}
