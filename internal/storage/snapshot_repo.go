package storage

import (
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// SnapshotRepo provides raw persistence for Snapshot documents. Encoding and
// retention live in the snapshot package.
type SnapshotRepo struct {
	db *DB
}

// NewSnapshotRepo creates a new snapshot repository.
func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

func newSnapshot() *model.Snapshot { return &model.Snapshot{} }

// Put stores a snapshot, replacing any previous one for the same date.
func (r *SnapshotRepo) Put(snap *model.Snapshot) error {
	snap.Key = model.GenerateSnapshotKey(snap.UserID, snap.Date)
	return r.db.Set(snap)
}

// Get retrieves the snapshot of a date.
func (r *SnapshotRepo) Get(userID, date string) (*model.Snapshot, error) {
	snap := newSnapshot()
	if err := r.db.Get(model.GenerateSnapshotKey(userID, date), snap); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.NewNotFoundError("snapshot", date, errors.ErrSnapshotNotFound)
		}
		return nil, err
	}
	return snap, nil
}

// Exists reports whether a snapshot exists for a date.
func (r *SnapshotRepo) Exists(userID, date string) (bool, error) {
	return r.db.Exists(model.GenerateSnapshotKey(userID, date))
}

// Delete removes the snapshot of a date.
func (r *SnapshotRepo) Delete(userID, date string) error {
	return r.db.Batch(func(tx *Tx) error {
		key := model.GenerateSnapshotKey(userID, date)
		exists, err := tx.Exists(key)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError("snapshot", date, errors.ErrSnapshotNotFound)
		}
		return tx.Delete(key)
	})
}

// DeleteDates removes the snapshots of several dates in one transaction.
// Missing dates are ignored.
func (r *SnapshotRepo) DeleteDates(userID string, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	return r.db.Batch(func(tx *Tx) error {
		for _, date := range dates {
			if err := tx.Delete(model.GenerateSnapshotKey(userID, date)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Dates returns every captured date of a user in ascending order.
// Only keys are read, so listing does not decode snapshot bodies.
func (r *SnapshotRepo) Dates(userID string) ([]string, error) {
	prefix := model.UserPrefix(model.PrefixSnapshot, userID)
	keys, err := r.db.ListByPrefix(prefix)
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(keys))
	for i, key := range keys {
		dates[i] = key[len(prefix):]
	}
	return dates, nil
}

// List retrieves every snapshot of a user in ascending date order.
func (r *SnapshotRepo) List(userID string) ([]*model.Snapshot, error) {
	return GetAllByPrefix(r.db, model.UserPrefix(model.PrefixSnapshot, userID), newSnapshot)
}
