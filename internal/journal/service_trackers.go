package journal

import (
	"time"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/validate"
)

// Counters, duration trackers and time-since trackers are global rows shown
// on every date, so changing their definitions drops every cached day of the
// user. Counter values are per date and invalidate only that date.

// =============================================================================
// Counters
// =============================================================================

// CreateCounter defines a counter. Names are unique per user ignoring case.
func (s *Service) CreateCounter(userID, name string) (*model.CustomCounter, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	name = validate.SanitizeName(name)
	if err := validate.Name("name", name); err != nil {
		return nil, err
	}
	if _, err := s.counters.FindByName(userID, name); err == nil {
		return nil, errors.NewConflictError("counter", name)
	} else if !errors.IsNotFoundError(err) {
		return nil, wrap("counter.create", err)
	}

	existing, err := s.counters.List(userID)
	if err != nil {
		return nil, wrap("counter.create", err)
	}
	counter := model.NewCustomCounter(userID, name, len(existing))
	if err := s.counters.Create(counter); err != nil {
		return nil, wrap("counter.create", err)
	}
	s.touch(userID)
	return counter, nil
}

// ListCounters returns a user's counters in display order.
func (s *Service) ListCounters(userID string) ([]*model.CustomCounter, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	counters, err := s.counters.List(userID)
	return counters, wrap("counter.list", err)
}

// IncrementCounter adds delta (which may be negative) to a counter's value
// on date, today when empty, and returns the new value.
func (s *Service) IncrementCounter(userID, counterID, date string, delta int) (int, error) {
	user, err := s.user(userID)
	if err != nil {
		return 0, err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return 0, err
	}
	value, err := s.counters.AddValue(userID, counterID, date, delta)
	if err != nil {
		return 0, wrap("counter.increment", err)
	}
	s.touch(userID, date)
	return value, nil
}

// SetCounterValue overwrites a counter's value on date, today when empty.
func (s *Service) SetCounterValue(userID, counterID, date string, value int) error {
	user, err := s.user(userID)
	if err != nil {
		return err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return err
	}
	if _, err := s.counters.Get(userID, counterID); err != nil {
		return wrap("counter.set", err)
	}
	if err := s.counters.SetValue(userID, counterID, date, value); err != nil {
		return wrap("counter.set", err)
	}
	s.touch(userID, date)
	return nil
}

// DeleteCounter removes a counter together with every recorded value.
func (s *Service) DeleteCounter(userID, counterID string) error {
	if _, err := s.user(userID); err != nil {
		return err
	}
	if err := s.counters.DeleteCascade(userID, counterID); err != nil {
		return wrap("counter.delete", err)
	}
	s.touch(userID)
	return nil
}

// =============================================================================
// Duration trackers
// =============================================================================

// CreateDurationTracker defines a stopped stopwatch.
func (s *Service) CreateDurationTracker(userID, name string) (*model.DurationTracker, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	name = validate.SanitizeName(name)
	if err := validate.Name("name", name); err != nil {
		return nil, err
	}
	if _, err := s.trackers.FindDurationByName(userID, name); err == nil {
		return nil, errors.NewConflictError("tracker", name)
	} else if !errors.IsNotFoundError(err) {
		return nil, wrap("tracker.create", err)
	}

	existing, err := s.trackers.ListDuration(userID)
	if err != nil {
		return nil, wrap("tracker.create", err)
	}
	tracker := model.NewDurationTracker(userID, name, len(existing))
	if err := s.trackers.CreateDuration(tracker); err != nil {
		return nil, wrap("tracker.create", err)
	}
	s.touch(userID)
	return tracker, nil
}

// ListDurationTrackers returns a user's duration trackers in display order.
func (s *Service) ListDurationTrackers(userID string) ([]*model.DurationTracker, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	trackers, err := s.trackers.ListDuration(userID)
	return trackers, wrap("tracker.list", err)
}

func lockedError(id string) error {
	return errors.NewValidationErrorWithValue("tracker", id, "is locked", errors.ErrTrackerLocked)
}

// updateDuration applies fn to an unlocked tracker.
func (s *Service) updateDuration(op, userID, id string, fn func(*model.DurationTracker)) (*model.DurationTracker, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	tracker, err := s.trackers.UpdateDuration(userID, id, func(t *model.DurationTracker) error {
		if t.IsLocked {
			return lockedError(id)
		}
		fn(t)
		return nil
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	s.touch(userID)
	return tracker, nil
}

// StartTracker starts a stopwatch. Starting a running one changes nothing.
func (s *Service) StartTracker(userID, id string) (*model.DurationTracker, error) {
	now := s.clock.Now()
	return s.updateDuration("tracker.start", userID, id, func(t *model.DurationTracker) {
		t.Start(now)
	})
}

// StopTracker stops a stopwatch and credits the run to the user's current
// date in the timer log.
func (s *Service) StopTracker(userID, id string) (*model.DurationTracker, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	tracker, err := s.trackers.StopDuration(userID, id, s.clock.Today(user.Timezone), s.clock.Now())
	if err != nil {
		return nil, wrap("tracker.stop", err)
	}
	s.touch(userID)
	return tracker, nil
}

// ResetTracker zeroes and stops a stopwatch. Timer logs already written stay.
func (s *Service) ResetTracker(userID, id string) (*model.DurationTracker, error) {
	return s.updateDuration("tracker.reset", userID, id, func(t *model.DurationTracker) {
		t.Reset()
	})
}

// SetTrackerLocked locks or unlocks a stopwatch. A locked stopwatch refuses
// start, stop and reset.
func (s *Service) SetTrackerLocked(userID, id string, locked bool) (*model.DurationTracker, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	tracker, err := s.trackers.UpdateDuration(userID, id, func(t *model.DurationTracker) error {
		t.IsLocked = locked
		return nil
	})
	if err != nil {
		return nil, wrap("tracker.lock", err)
	}
	s.touch(userID)
	return tracker, nil
}

// DeleteDurationTracker removes a stopwatch and its timer logs.
func (s *Service) DeleteDurationTracker(userID, id string) error {
	if _, err := s.user(userID); err != nil {
		return err
	}
	if err := s.trackers.DeleteDuration(userID, id); err != nil {
		return wrap("tracker.delete", err)
	}
	s.touch(userID)
	return nil
}

// =============================================================================
// Time-since trackers
// =============================================================================

// CreateTimeSinceTracker starts counting from since, or from now when since
// is nil.
func (s *Service) CreateTimeSinceTracker(userID, name string, since *time.Time) (*model.TimeSinceTracker, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	name = validate.SanitizeName(name)
	if err := validate.Name("name", name); err != nil {
		return nil, err
	}
	from := s.clock.Now()
	if since != nil {
		from = *since
	}

	existing, err := s.trackers.ListTimeSince(userID)
	if err != nil {
		return nil, wrap("timesince.create", err)
	}
	tracker := model.NewTimeSinceTracker(userID, name, from, len(existing))
	if err := s.trackers.CreateTimeSince(tracker); err != nil {
		return nil, wrap("timesince.create", err)
	}
	s.touch(userID)
	return tracker, nil
}

// ListTimeSinceTrackers returns a user's time-since trackers in display order.
func (s *Service) ListTimeSinceTrackers(userID string) ([]*model.TimeSinceTracker, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	trackers, err := s.trackers.ListTimeSince(userID)
	return trackers, wrap("timesince.list", err)
}

// ResetTimeSince restarts a tracker from now.
func (s *Service) ResetTimeSince(userID, id string) (*model.TimeSinceTracker, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	tracker, err := s.trackers.GetTimeSince(userID, id)
	if err != nil {
		return nil, wrap("timesince.reset", err)
	}
	tracker.Since = s.clock.Now().UTC()
	if err := s.trackers.UpdateTimeSince(tracker); err != nil {
		return nil, wrap("timesince.reset", err)
	}
	s.touch(userID)
	return tracker, nil
}

// DeleteTimeSinceTracker removes a time-since tracker.
func (s *Service) DeleteTimeSinceTracker(userID, id string) error {
	if _, err := s.user(userID); err != nil {
		return err
	}
	if err := s.trackers.DeleteTimeSince(userID, id); err != nil {
		return wrap("timesince.delete", err)
	}
	s.touch(userID)
	return nil
}
