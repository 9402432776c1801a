package storage

import (
	"strings"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// CounterRepo provides operations for CustomCounter entities and their
// per-date values.
type CounterRepo struct {
	db *DB
}

// NewCounterRepo creates a new counter repository.
func NewCounterRepo(db *DB) *CounterRepo {
	return &CounterRepo{db: db}
}

func newCounter() *model.CustomCounter { return &model.CustomCounter{} }

func newCounterValue() *model.CustomCounterValue { return &model.CustomCounterValue{} }

// Create stores a new counter.
func (r *CounterRepo) Create(counter *model.CustomCounter) error {
	id, err := newID()
	if err != nil {
		return err
	}
	counter.ID = id
	counter.Key = model.GenerateCounterKey(counter.UserID, id)
	return r.db.Set(counter)
}

// Get retrieves a counter by id.
func (r *CounterRepo) Get(userID, id string) (*model.CustomCounter, error) {
	counter := newCounter()
	if err := r.db.Get(model.GenerateCounterKey(userID, id), counter); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.NewNotFoundError("counter", id, errors.ErrCounterNotFound)
		}
		return nil, err
	}
	return counter, nil
}

// FindByName retrieves a counter by name, ignoring case.
func (r *CounterRepo) FindByName(userID, name string) (*model.CustomCounter, error) {
	matches, err := GetFilteredByPrefix(r.db, model.UserPrefix(model.PrefixCounter, userID), newCounter,
		func(c *model.CustomCounter) bool { return strings.EqualFold(c.Name, name) }, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.NewNotFoundError("counter", name, errors.ErrCounterNotFound)
	}
	return matches[0], nil
}

// Update stores changes to an existing counter.
func (r *CounterRepo) Update(counter *model.CustomCounter) error {
	return r.db.Set(counter)
}

// List retrieves a user's counters in display order.
func (r *CounterRepo) List(userID string) ([]*model.CustomCounter, error) {
	counters, err := GetAllByPrefix(r.db, model.UserPrefix(model.PrefixCounter, userID), newCounter)
	if err != nil {
		return nil, err
	}
	model.SortCounters(counters)
	return counters, nil
}

// DeleteCascade removes a counter and every value recorded for it.
func (r *CounterRepo) DeleteCascade(userID, id string) error {
	return r.db.Batch(func(tx *Tx) error {
		exists, err := tx.Exists(model.GenerateCounterKey(userID, id))
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError("counter", id, errors.ErrCounterNotFound)
		}
		if _, err := tx.DeletePrefix(model.CounterValuePrefix(userID, id)); err != nil {
			return err
		}
		return tx.Delete(model.GenerateCounterKey(userID, id))
	})
}

// Value returns a counter's value on a date, zero when none was recorded.
func (r *CounterRepo) Value(userID, counterID, date string) (int, error) {
	v := newCounterValue()
	if err := r.db.Get(model.GenerateCounterValueKey(userID, counterID, date), v); err != nil {
		if IsErrKeyNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return v.Value, nil
}

// SetValue records a counter's value on a date.
func (r *CounterRepo) SetValue(userID, counterID, date string, value int) error {
	return r.db.Batch(func(tx *Tx) error {
		return setCounterValue(tx, userID, counterID, date, value)
	})
}

// AddValue adjusts a counter's value on a date by delta and returns the new
// value. The read and the write share one transaction.
func (r *CounterRepo) AddValue(userID, counterID, date string, delta int) (int, error) {
	var value int
	err := r.db.Batch(func(tx *Tx) error {
		exists, err := tx.Exists(model.GenerateCounterKey(userID, counterID))
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError("counter", counterID, errors.ErrCounterNotFound)
		}

		current := newCounterValue()
		if err := tx.Get(model.GenerateCounterValueKey(userID, counterID, date), current); err != nil && !IsErrKeyNotFound(err) {
			return err
		}
		value = current.Value + delta
		return setCounterValue(tx, userID, counterID, date, value)
	})
	return value, err
}

// ValuesForDate returns every counter value of a user on a date keyed by
// counter id. Each counter's value is a point read, so the cost follows the
// number of counters rather than the length of their history.
func (r *CounterRepo) ValuesForDate(userID, date string) (map[string]int, error) {
	byCounter := make(map[string]int)
	err := r.db.View(func(tx *Tx) error {
		counters, err := ScanPrefix(tx, model.UserPrefix(model.PrefixCounter, userID), newCounter)
		if err != nil {
			return err
		}
		for _, c := range counters {
			v := newCounterValue()
			if err := tx.Get(model.GenerateCounterValueKey(userID, c.ID, date), v); err != nil {
				if IsErrKeyNotFound(err) {
					continue
				}
				return err
			}
			byCounter[c.ID] = v.Value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return byCounter, nil
}

// ValuesInRange retrieves one counter's values over an inclusive date range,
// ordered by date.
func (r *CounterRepo) ValuesInRange(userID, counterID, start, end string) ([]*model.CustomCounterValue, error) {
	return GetRange(r.db, model.CounterValuePrefix(userID, counterID), start, end, newCounterValue, nil)
}

func setCounterValue(tx *Tx, userID, counterID, date string, value int) error {
	return tx.Set(&model.CustomCounterValue{
		Key:       model.GenerateCounterValueKey(userID, counterID, date),
		UserID:    userID,
		CounterID: counterID,
		Date:      date,
		Value:     value,
	})
}
