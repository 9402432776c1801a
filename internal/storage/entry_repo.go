package storage

import (
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// EntryRepo provides operations for ActivityEntry entities.
type EntryRepo struct {
	db *DB
}

// NewEntryRepo creates a new entry repository.
func NewEntryRepo(db *DB) *EntryRepo {
	return &EntryRepo{db: db}
}

func newEntry() *model.ActivityEntry { return &model.ActivityEntry{} }

// Create stores a new entry.
func (r *EntryRepo) Create(entry *model.ActivityEntry) error {
	id, err := newID()
	if err != nil {
		return err
	}
	entry.ID = id
	entry.Key = model.GenerateEntryKey(entry.UserID, entry.Date, id)
	return r.db.Set(entry)
}

// Get retrieves an entry by id regardless of its date.
func (r *EntryRepo) Get(userID, id string) (*model.ActivityEntry, error) {
	var entry *model.ActivityEntry
	err := r.db.View(func(tx *Tx) error {
		var err error
		entry, err = findEntry(tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Update stores changes to an existing entry.
func (r *EntryRepo) Update(entry *model.ActivityEntry) error {
	return r.db.Set(entry)
}

// Delete removes an entry and returns its date.
func (r *EntryRepo) Delete(userID, id string) (string, error) {
	var date string
	err := r.db.Batch(func(tx *Tx) error {
		entry, err := findEntry(tx, userID, id)
		if err != nil {
			return err
		}
		date = entry.Date
		return tx.Delete(entry.Key)
	})
	return date, err
}

// ListForDate retrieves a user's entries on a date in timestamp order.
func (r *EntryRepo) ListForDate(userID, date string) ([]*model.ActivityEntry, error) {
	entries, err := GetAllByPrefix(r.db, model.EntryDatePrefix(userID, date), newEntry)
	if err != nil {
		return nil, err
	}
	model.SortEntries(entries)
	return entries, nil
}

// findEntry scans a user's entries for an id.
func findEntry(tx *Tx, userID, id string) (*model.ActivityEntry, error) {
	prefix := model.UserPrefix(model.PrefixEntry, userID)
	matches, err := scan(tx, prefix, prefix, "", newEntry,
		func(e *model.ActivityEntry) bool { return e.ID == id }, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.NewNotFoundError("entry", id, errors.ErrEntryNotFound)
	}
	return matches[0], nil
}

// deleteEntryByID removes an entry if it still exists.
func deleteEntryByID(tx *Tx, userID, id string) error {
	entry, err := findEntry(tx, userID, id)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	return tx.Delete(entry.Key)
}

// DayLogRepo provides operations for per-date sleep metrics.
type DayLogRepo struct {
	db *DB
}

// NewDayLogRepo creates a new day log repository.
func NewDayLogRepo(db *DB) *DayLogRepo {
	return &DayLogRepo{db: db}
}

// Get retrieves the day log for a date. A date with no log yields an empty one.
func (r *DayLogRepo) Get(userID, date string) (*model.DayLog, error) {
	log := &model.DayLog{}
	err := r.db.Get(model.GenerateDayLogKey(userID, date), log)
	if err != nil {
		if IsErrKeyNotFound(err) {
			return &model.DayLog{Key: model.GenerateDayLogKey(userID, date), UserID: userID, Date: date}, nil
		}
		return nil, err
	}
	return log, nil
}

// Save stores the day log.
func (r *DayLogRepo) Save(log *model.DayLog) error {
	log.Key = model.GenerateDayLogKey(log.UserID, log.Date)
	return r.db.Set(log)
}
