package snapshot

import (
	"sort"

	"github.com/manav03panchal/daymark/internal/clock"
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/logging"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/storage"
	"github.com/manav03panchal/daymark/internal/validate"
)

// Store persists snapshots and applies retention after every change.
type Store struct {
	repo     *storage.SnapshotRepo
	users    *storage.UserRepo
	clock    *clock.Clock
	defaults Policy
}

// NewStore creates a snapshot store. defaults is the policy of users who
// never set one.
func NewStore(db *storage.DB, clk *clock.Clock, defaults Policy) *Store {
	return &Store{
		repo:     storage.NewSnapshotRepo(db),
		users:    storage.NewUserRepo(db),
		clock:    clk,
		defaults: defaults,
	}
}

// Save captures state for date, replacing any earlier capture of that date,
// then prunes according to the user's policy.
func (s *Store) Save(userID, date string, state *model.DayState, source model.SnapshotSource) error {
	if err := validate.Date("date", date); err != nil {
		return err
	}
	raw, err := encode(state)
	if err != nil {
		return errors.NewSystemErrorWithOp("snapshot.save", "failed to encode state", err)
	}

	snap := &model.Snapshot{
		UserID:        userID,
		Date:          date,
		SchemaVersion: SchemaVersion,
		Source:        source,
		CreatedAt:     s.clock.Now().UTC(),
		State:         raw,
	}
	if err := s.repo.Put(snap); err != nil {
		return errors.NewSystemErrorWithOp("snapshot.save", "failed to store snapshot", err)
	}
	logging.Info("snapshot saved",
		logging.KeyUserID, userID,
		logging.KeyDate, date,
		logging.KeySource, string(source))

	_, err = s.Prune(userID)
	return err
}

// Get returns the captured state of a date, or a NotFoundError.
func (s *Store) Get(userID, date string) (*model.DayState, error) {
	snap, err := s.repo.Get(userID, date)
	if err != nil {
		return nil, err
	}
	state, err := decode(snap)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("snapshot.get", "failed to decode snapshot", err)
	}
	return state, nil
}

// Exists reports whether a date has been captured.
func (s *Store) Exists(userID, date string) (bool, error) {
	return s.repo.Exists(userID, date)
}

// Source reports how a date was captured. ok is false when it never was.
func (s *Store) Source(userID, date string) (source model.SnapshotSource, ok bool, err error) {
	snap, err := s.repo.Get(userID, date)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return snap.Source, true, nil
}

// Delete removes the capture of a date.
func (s *Store) Delete(userID, date string) error {
	return s.repo.Delete(userID, date)
}

// List returns every capture of a user, most recent date first.
func (s *Store) List(userID string) ([]model.SnapshotInfo, error) {
	snaps, err := s.repo.List(userID)
	if err != nil {
		return nil, err
	}
	infos := make([]model.SnapshotInfo, 0, len(snaps))
	for _, snap := range snaps {
		infos = append(infos, model.SnapshotInfo{
			Date:      snap.Date,
			CreatedAt: snap.CreatedAt,
			Source:    snap.Source,
		})
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Date > infos[j].Date
	})
	return infos, nil
}

// Policy returns a user's retention policy.
func (s *Store) Policy(userID string) (Policy, error) {
	stored, err := s.users.GetRetention(userID)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return s.defaults, nil
		}
		return Policy{}, err
	}
	return Policy{MaxDays: stored.MaxDays, MaxCount: stored.MaxCount}, nil
}

// SetPolicy stores a user's retention policy and prunes immediately.
// It returns the dates removed.
func (s *Store) SetPolicy(userID string, p Policy) ([]string, error) {
	if err := validate.NonNegative("maxDays", p.MaxDays); err != nil {
		return nil, err
	}
	if err := validate.NonNegative("maxCount", p.MaxCount); err != nil {
		return nil, err
	}
	if err := s.users.SetRetention(model.NewRetentionPolicy(userID, p.MaxDays, p.MaxCount)); err != nil {
		return nil, err
	}
	return s.Prune(userID)
}

// Prune removes captures outside the user's policy and returns their dates.
func (s *Store) Prune(userID string) ([]string, error) {
	p, err := s.Policy(userID)
	if err != nil {
		return nil, err
	}
	if p.Unlimited() {
		return []string{}, nil
	}

	dates, err := s.repo.Dates(userID)
	if err != nil {
		return nil, err
	}
	doomed := PlanPrune(dates, s.today(userID), p)
	if err := s.repo.DeleteDates(userID, doomed); err != nil {
		return nil, err
	}
	if len(doomed) > 0 {
		logging.Info("snapshots pruned",
			logging.KeyUserID, userID,
			logging.KeyCount, len(doomed))
	}
	return doomed, nil
}

func (s *Store) today(userID string) string {
	tz := model.DefaultTimezone
	if user, err := s.users.Get(userID); err == nil {
		tz = user.Timezone
	}
	return s.clock.Today(tz)
}
