package model

import (
	"sort"
	"time"
)

// ActivityEntry is a free-text log line on a date.
type ActivityEntry struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Text      string    `json:"text" validate:"max=65536"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SetKey sets the database key for this entry.
func (e *ActivityEntry) SetKey(key string) {
	e.Key = key
}

// GetKey returns the database key for this entry.
func (e *ActivityEntry) GetKey() string {
	return e.Key
}

// GenerateEntryKey generates a database key for an activity entry.
func GenerateEntryKey(userID, date, id string) string {
	return joinKey(PrefixEntry, userID, date, id)
}

// EntryDatePrefix returns the key prefix for a user's entries on a date.
func EntryDatePrefix(userID, date string) string {
	return joinKey(PrefixEntry, userID, date) + ":"
}

// NewActivityEntry creates an entry stamped with the given time.
func NewActivityEntry(userID, date, text string, at time.Time) *ActivityEntry {
	return &ActivityEntry{
		UserID:    userID,
		Date:      date,
		Text:      text,
		Timestamp: at.UTC(),
	}
}

// SortEntries orders entries by timestamp, then id.
func SortEntries(entries []*ActivityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].ID < entries[j].ID
	})
}

// DayLog holds the sleep metrics recorded for a date.
type DayLog struct {
	Key             string `json:"key"`
	UserID          string `json:"user_id"`
	Date            string `json:"date"`
	PreviousBedtime string `json:"previous_bedtime"`
	WakeTime        string `json:"wake_time"`
}

// SetKey sets the database key for this day log.
func (d *DayLog) SetKey(key string) {
	d.Key = key
}

// GetKey returns the database key for this day log.
func (d *DayLog) GetKey() string {
	return d.Key
}

// GenerateDayLogKey generates a database key for a day log.
func GenerateDayLogKey(userID, date string) string {
	return joinKey(PrefixDayLog, userID, date)
}
