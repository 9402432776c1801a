package storage

import (
	"strings"
	"time"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// TrackerRepo provides operations for duration trackers, time-since trackers
// and the per-date timer logs written when a duration tracker stops.
type TrackerRepo struct {
	db *DB
}

// NewTrackerRepo creates a new tracker repository.
func NewTrackerRepo(db *DB) *TrackerRepo {
	return &TrackerRepo{db: db}
}

func newDurationTracker() *model.DurationTracker { return &model.DurationTracker{} }

func newTimeSince() *model.TimeSinceTracker { return &model.TimeSinceTracker{} }

func newTimerLog() *model.TimerLog { return &model.TimerLog{} }

func trackerNotFound(id string, err error) error {
	if IsErrKeyNotFound(err) {
		return errors.NewNotFoundError("tracker", id, errors.ErrTrackerNotFound)
	}
	return err
}

// =============================================================================
// Duration trackers
// =============================================================================

// CreateDuration stores a new duration tracker.
func (r *TrackerRepo) CreateDuration(tracker *model.DurationTracker) error {
	id, err := newID()
	if err != nil {
		return err
	}
	tracker.ID = id
	tracker.Key = model.GenerateDurationTrackerKey(tracker.UserID, id)
	return r.db.Set(tracker)
}

// GetDuration retrieves a duration tracker by id.
func (r *TrackerRepo) GetDuration(userID, id string) (*model.DurationTracker, error) {
	tracker := newDurationTracker()
	if err := r.db.Get(model.GenerateDurationTrackerKey(userID, id), tracker); err != nil {
		return nil, trackerNotFound(id, err)
	}
	return tracker, nil
}

// FindDurationByName retrieves a duration tracker by name, ignoring case.
func (r *TrackerRepo) FindDurationByName(userID, name string) (*model.DurationTracker, error) {
	matches, err := GetFilteredByPrefix(r.db, model.UserPrefix(model.PrefixDurationTracker, userID), newDurationTracker,
		func(t *model.DurationTracker) bool { return strings.EqualFold(t.Name, name) }, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.NewNotFoundError("tracker", name, errors.ErrTrackerNotFound)
	}
	return matches[0], nil
}

// UpdateDuration applies fn to a duration tracker and stores the result in
// one transaction.
func (r *TrackerRepo) UpdateDuration(userID, id string, fn func(*model.DurationTracker) error) (*model.DurationTracker, error) {
	tracker := newDurationTracker()
	err := r.db.Batch(func(tx *Tx) error {
		if err := tx.Get(model.GenerateDurationTrackerKey(userID, id), tracker); err != nil {
			return trackerNotFound(id, err)
		}
		if err := fn(tracker); err != nil {
			return err
		}
		return tx.Set(tracker)
	})
	if err != nil {
		return nil, err
	}
	return tracker, nil
}

// StopDuration stops a running tracker at now and adds the run to the timer
// log of date. The tracker and the log commit together.
func (r *TrackerRepo) StopDuration(userID, id, date string, now time.Time) (*model.DurationTracker, error) {
	tracker := newDurationTracker()
	err := r.db.Batch(func(tx *Tx) error {
		if err := tx.Get(model.GenerateDurationTrackerKey(userID, id), tracker); err != nil {
			return trackerNotFound(id, err)
		}
		if tracker.IsLocked {
			return errors.NewValidationErrorWithValue("tracker", id, "is locked", errors.ErrTrackerLocked)
		}

		added := tracker.Stop(now)
		if err := tx.Set(tracker); err != nil {
			return err
		}
		if added == 0 {
			return nil
		}

		log := newTimerLog()
		key := model.GenerateTimerLogKey(userID, id, date)
		if err := tx.Get(key, log); err != nil && !IsErrKeyNotFound(err) {
			return err
		}
		log.Key = key
		log.UserID = userID
		log.TrackerID = id
		log.Date = date
		log.ElapsedMs += added
		return tx.Set(log)
	})
	if err != nil {
		return nil, err
	}
	return tracker, nil
}

// ListDuration retrieves a user's duration trackers in display order.
func (r *TrackerRepo) ListDuration(userID string) ([]*model.DurationTracker, error) {
	trackers, err := GetAllByPrefix(r.db, model.UserPrefix(model.PrefixDurationTracker, userID), newDurationTracker)
	if err != nil {
		return nil, err
	}
	model.SortDurationTrackers(trackers)
	return trackers, nil
}

// DeleteDuration removes a duration tracker and its timer logs.
func (r *TrackerRepo) DeleteDuration(userID, id string) error {
	return r.db.Batch(func(tx *Tx) error {
		key := model.GenerateDurationTrackerKey(userID, id)
		exists, err := tx.Exists(key)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError("tracker", id, errors.ErrTrackerNotFound)
		}
		if _, err := tx.DeletePrefix(model.TimerLogPrefix(userID, id)); err != nil {
			return err
		}
		return tx.Delete(key)
	})
}

// TimerLogsInRange retrieves one tracker's logs over an inclusive date range,
// ordered by date.
func (r *TrackerRepo) TimerLogsInRange(userID, trackerID, start, end string) ([]*model.TimerLog, error) {
	return GetRange(r.db, model.TimerLogPrefix(userID, trackerID), start, end, newTimerLog, nil)
}

// =============================================================================
// Time-since trackers
// =============================================================================

// CreateTimeSince stores a new time-since tracker.
func (r *TrackerRepo) CreateTimeSince(tracker *model.TimeSinceTracker) error {
	id, err := newID()
	if err != nil {
		return err
	}
	tracker.ID = id
	tracker.Key = model.GenerateTimeSinceKey(tracker.UserID, id)
	return r.db.Set(tracker)
}

// GetTimeSince retrieves a time-since tracker by id.
func (r *TrackerRepo) GetTimeSince(userID, id string) (*model.TimeSinceTracker, error) {
	tracker := newTimeSince()
	if err := r.db.Get(model.GenerateTimeSinceKey(userID, id), tracker); err != nil {
		return nil, trackerNotFound(id, err)
	}
	return tracker, nil
}

// UpdateTimeSince stores changes to an existing time-since tracker.
func (r *TrackerRepo) UpdateTimeSince(tracker *model.TimeSinceTracker) error {
	return r.db.Set(tracker)
}

// ListTimeSince retrieves a user's time-since trackers in display order.
func (r *TrackerRepo) ListTimeSince(userID string) ([]*model.TimeSinceTracker, error) {
	trackers, err := GetAllByPrefix(r.db, model.UserPrefix(model.PrefixTimeSince, userID), newTimeSince)
	if err != nil {
		return nil, err
	}
	model.SortTimeSinceTrackers(trackers)
	return trackers, nil
}

// DeleteTimeSince removes a time-since tracker.
func (r *TrackerRepo) DeleteTimeSince(userID, id string) error {
	return r.db.Batch(func(tx *Tx) error {
		key := model.GenerateTimeSinceKey(userID, id)
		exists, err := tx.Exists(key)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError("tracker", id, errors.ErrTrackerNotFound)
		}
		return tx.Delete(key)
	})
}
