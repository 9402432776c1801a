package model

import (
	"sort"
	"time"
)

// DurationTracker is a global stopwatch-style timer.
type DurationTracker struct {
	Key        string     `json:"key"`
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name" validate:"required,max=128"`
	ElapsedMs  int64      `json:"elapsed_ms"`
	IsRunning  bool       `json:"is_running"`
	IsLocked   bool       `json:"is_locked"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	OrderIndex int        `json:"order_index"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SetKey sets the database key for this tracker.
func (d *DurationTracker) SetKey(key string) {
	d.Key = key
}

// GetKey returns the database key for this tracker.
func (d *DurationTracker) GetKey() string {
	return d.Key
}

// GenerateDurationTrackerKey generates a database key for a duration tracker.
func GenerateDurationTrackerKey(userID, id string) string {
	return joinKey(PrefixDurationTracker, userID, id)
}

// NewDurationTracker creates a stopped tracker.
func NewDurationTracker(userID, name string, orderIndex int) *DurationTracker {
	return &DurationTracker{
		UserID:     userID,
		Name:       name,
		OrderIndex: orderIndex,
		CreatedAt:  time.Now().UTC(),
	}
}

// Start begins timing at now. Starting a running tracker is a no-op.
func (d *DurationTracker) Start(now time.Time) {
	if d.IsRunning {
		return
	}
	start := now.UTC()
	d.StartTime = &start
	d.IsRunning = true
}

// Stop ends the current run and returns the milliseconds it added.
func (d *DurationTracker) Stop(now time.Time) int64 {
	if !d.IsRunning || d.StartTime == nil {
		d.IsRunning = false
		d.StartTime = nil
		return 0
	}
	added := now.Sub(*d.StartTime).Milliseconds()
	if added < 0 {
		added = 0
	}
	d.ElapsedMs += added
	d.IsRunning = false
	d.StartTime = nil
	return added
}

// Reset zeroes the tracker and stops it.
func (d *DurationTracker) Reset() {
	d.ElapsedMs = 0
	d.IsRunning = false
	d.StartTime = nil
}

// Elapsed returns the accumulated time including the current run.
func (d *DurationTracker) Elapsed(now time.Time) time.Duration {
	total := time.Duration(d.ElapsedMs) * time.Millisecond
	if d.IsRunning && d.StartTime != nil {
		total += now.Sub(*d.StartTime)
	}
	return total
}

// SortDurationTrackers orders trackers by order index, then id.
func SortDurationTrackers(trackers []*DurationTracker) {
	sort.SliceStable(trackers, func(i, j int) bool {
		if trackers[i].OrderIndex != trackers[j].OrderIndex {
			return trackers[i].OrderIndex < trackers[j].OrderIndex
		}
		return trackers[i].ID < trackers[j].ID
	})
}

// TimeSinceTracker counts time since an event the user resets.
type TimeSinceTracker struct {
	Key        string    `json:"key"`
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name" validate:"required,max=128"`
	Since      time.Time `json:"since"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetKey sets the database key for this tracker.
func (t *TimeSinceTracker) SetKey(key string) {
	t.Key = key
}

// GetKey returns the database key for this tracker.
func (t *TimeSinceTracker) GetKey() string {
	return t.Key
}

// GenerateTimeSinceKey generates a database key for a time-since tracker.
func GenerateTimeSinceKey(userID, id string) string {
	return joinKey(PrefixTimeSince, userID, id)
}

// NewTimeSinceTracker creates a tracker counting from since.
func NewTimeSinceTracker(userID, name string, since time.Time, orderIndex int) *TimeSinceTracker {
	return &TimeSinceTracker{
		UserID:     userID,
		Name:       name,
		Since:      since.UTC(),
		OrderIndex: orderIndex,
		CreatedAt:  time.Now().UTC(),
	}
}

// SortTimeSinceTrackers orders trackers by order index, then id.
func SortTimeSinceTrackers(trackers []*TimeSinceTracker) {
	sort.SliceStable(trackers, func(i, j int) bool {
		if trackers[i].OrderIndex != trackers[j].OrderIndex {
			return trackers[i].OrderIndex < trackers[j].OrderIndex
		}
		return trackers[i].ID < trackers[j].ID
	})
}

// TimerLog records how much a duration tracker ran on one date.
type TimerLog struct {
	Key       string `json:"key"`
	UserID    string `json:"user_id"`
	TrackerID string `json:"tracker_id"`
	Date      string `json:"date"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// SetKey sets the database key for this log.
func (l *TimerLog) SetKey(key string) {
	l.Key = key
}

// GetKey returns the database key for this log.
func (l *TimerLog) GetKey() string {
	return l.Key
}

// GenerateTimerLogKey generates a database key for a timer log.
func GenerateTimerLogKey(userID, trackerID, date string) string {
	return joinKey(PrefixTimerLog, userID, trackerID, date)
}

// TimerLogPrefix returns the key prefix for every log of one tracker.
func TimerLogPrefix(userID, trackerID string) string {
	return joinKey(PrefixTimerLog, userID, trackerID) + ":"
}
