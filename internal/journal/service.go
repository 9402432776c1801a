package journal

import (
	"github.com/manav03panchal/daymark/internal/clock"
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/logging"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/snapshot"
	"github.com/manav03panchal/daymark/internal/storage"
	"github.com/manav03panchal/daymark/internal/validate"
)

// Options tunes a Service.
type Options struct {
	// AutoCapture snapshots today (and an uncaptured yesterday) on live reads.
	AutoCapture bool
}

// Service reads and changes a user's journal. Every mutation invalidates the
// affected cache entries and refreshes automatic captures of the dates it
// touched before it returns, so the next read observes it.
type Service struct {
	db           *storage.DB
	cache        *StateCache
	snapshots    *snapshot.Store
	clock        *clock.Clock
	opts         Options
	materializer *Materializer

	users     *storage.UserRepo
	templates *storage.TemplateRepo
	values    *storage.FieldValueRepo
	tasks     *storage.TaskRepo
	entries   *storage.EntryRepo
	dayLogs   *storage.DayLogRepo
	counters  *storage.CounterRepo
	trackers  *storage.TrackerRepo
}

// NewService wires a service over its collaborators. The cache and the
// snapshot store are owned by the caller.
func NewService(db *storage.DB, cache *StateCache, snapshots *snapshot.Store, clk *clock.Clock, opts Options) *Service {
	return &Service{
		db:           db,
		cache:        cache,
		snapshots:    snapshots,
		clock:        clk,
		opts:         opts,
		materializer: NewMaterializer(db),
		users:        storage.NewUserRepo(db),
		templates:    storage.NewTemplateRepo(db),
		values:       storage.NewFieldValueRepo(db),
		tasks:        storage.NewTaskRepo(db),
		entries:      storage.NewEntryRepo(db),
		dayLogs:      storage.NewDayLogRepo(db),
		counters:     storage.NewCounterRepo(db),
		trackers:     storage.NewTrackerRepo(db),
	}
}

// wrap passes typed errors through and hides anything else behind a
// SystemError tagged with op.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsValidationError(err) || errors.IsNotFoundError(err) ||
		errors.IsConflictError(err) || errors.IsSystemError(err) {
		return err
	}
	return errors.NewSystemErrorWithOp(op, "operation failed", err)
}

// user loads a user's settings, creating defaults on first contact.
func (s *Service) user(userID string) (*model.User, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	user, created, err := s.users.GetOrCreate(userID)
	if err != nil {
		return nil, wrap("user.load", err)
	}
	if created {
		logging.Info("user created", logging.KeyUserID, userID)
	}
	return user, nil
}

// resolveDate validates date, substituting the user's today when empty.
func (s *Service) resolveDate(user *model.User, date string) (string, error) {
	if date == "" {
		return s.clock.Today(user.Timezone), nil
	}
	if err := validate.Date("date", date); err != nil {
		return "", err
	}
	return date, nil
}

// Today returns the user's current date.
func (s *Service) Today(userID string) (string, error) {
	user, err := s.user(userID)
	if err != nil {
		return "", err
	}
	return s.clock.Today(user.Timezone), nil
}

// =============================================================================
// Reads
// =============================================================================

// GetState returns the user's day view for today.
func (s *Service) GetState(userID string) (*model.DayState, error) {
	return s.GetStateForDate(userID, "")
}

// GetStateForDate returns the user's day view for date (today when empty).
// Dates before today are served from their snapshot when one exists; every
// other read is live and cached.
func (s *Service) GetStateForDate(userID, date string) (*model.DayState, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	date, err = s.resolveDate(user, date)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today(user.Timezone)

	if date < today {
		state, err := s.snapshots.Get(userID, date)
		if err == nil {
			return state, nil
		}
		if !errors.IsNotFoundError(err) {
			return nil, wrap("state.get", err)
		}
	}

	fresh := false
	state, err := s.cache.GetOrLoad(userID, date, func() (*model.DayState, error) {
		fresh = true
		return s.materializer.Materialize(userID, date)
	})
	if err != nil {
		return nil, wrap("state.materialize", err)
	}

	if date == today && s.opts.AutoCapture {
		s.autoCapture(userID, today, state, fresh)
	}
	return state, nil
}

// autoCapture records today's live state. A missing capture is always taken;
// an existing automatic capture is refreshed whenever the day was
// re-materialized. Manual captures are never overwritten. The first capture
// of a day also records yesterday if nothing did. Failures are logged and
// never fail the read.
func (s *Service) autoCapture(userID, today string, state *model.DayState, fresh bool) {
	infos, err := s.snapshotSources(userID, today, clock.ShiftDate(today, -1))
	if err != nil {
		logging.Warn("auto-capture skipped", logging.KeyUserID, userID, logging.KeyError, err)
		return
	}

	source, captured := infos[today]
	if captured && (source != model.SnapshotAuto || !fresh) {
		return
	}
	if err := s.snapshots.Save(userID, today, state, model.SnapshotAuto); err != nil {
		logging.Warn("auto-capture failed", logging.KeyUserID, userID, logging.KeyDate, today, logging.KeyError, err)
		return
	}
	if captured {
		return
	}

	yesterday := clock.ShiftDate(today, -1)
	if _, ok := infos[yesterday]; ok {
		return
	}
	prev, err := s.materializer.Materialize(userID, yesterday)
	if err == nil {
		err = s.snapshots.Save(userID, yesterday, prev, model.SnapshotAuto)
	}
	if err != nil {
		logging.Warn("auto-capture failed", logging.KeyUserID, userID, logging.KeyDate, yesterday, logging.KeyError, err)
	}
}

// touch records that a mutation changed the listed dates of a user: their
// cached days are dropped and their automatic captures are taken again. With
// no dates every cached day is dropped and only today's capture is retaken.
// Manual captures stay frozen until deleted.
func (s *Service) touch(userID string, dates ...string) {
	s.cache.Invalidate(userID, dates...)
	if len(dates) == 0 {
		dates = []string{s.today(userID)}
	}
	for _, date := range dates {
		s.recapture(userID, date)
	}
}

// recapture replaces an automatic capture of date with its live state.
func (s *Service) recapture(userID, date string) {
	source, ok, err := s.snapshots.Source(userID, date)
	if err == nil && (!ok || source != model.SnapshotAuto) {
		return
	}
	var state *model.DayState
	if err == nil {
		state, err = s.materializer.Materialize(userID, date)
	}
	if err == nil {
		err = s.snapshots.Save(userID, date, state, model.SnapshotAuto)
	}
	if err != nil {
		logging.Warn("auto-capture refresh failed",
			logging.KeyUserID, userID,
			logging.KeyDate, date,
			logging.KeyError, err)
	}
}

// today returns a stored user's current date without creating the user.
func (s *Service) today(userID string) string {
	tz := model.DefaultTimezone
	if user, err := s.users.Get(userID); err == nil {
		tz = user.Timezone
	}
	return s.clock.Today(tz)
}

// snapshotSources reports the capture source of each listed date that has one.
func (s *Service) snapshotSources(userID string, dates ...string) (map[string]model.SnapshotSource, error) {
	infos, err := s.snapshots.List(userID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}
	sources := make(map[string]model.SnapshotSource, len(dates))
	for _, info := range infos {
		if wanted[info.Date] {
			sources[info.Date] = info.Source
		}
	}
	return sources, nil
}

// =============================================================================
// Settings
// =============================================================================

// SettingsUpdate carries optional changes to a user's settings.
type SettingsUpdate struct {
	Timezone *string `json:"timezone"`
	Theme    *string `json:"theme"`
}

// Settings returns a user's settings.
func (s *Service) Settings(userID string) (*model.User, error) {
	return s.user(userID)
}

// UpdateSettings applies changes to a user's settings. A timezone change
// moves "today", so every cached day of the user is dropped.
func (s *Service) UpdateSettings(userID string, update SettingsUpdate) (*model.User, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if update.Timezone != nil {
		if err := validate.Timezone(*update.Timezone); err != nil {
			return nil, err
		}
		user.Timezone = *update.Timezone
	}
	if update.Theme != nil {
		if err := validate.Text("theme", *update.Theme, 0, validate.MaxNameLength); err != nil {
			return nil, err
		}
		user.Theme = validate.SanitizeName(*update.Theme)
	}
	if err := s.users.Update(user); err != nil {
		return nil, wrap("settings.update", err)
	}
	s.touch(userID)
	return user, nil
}

// =============================================================================
// Ordering
// =============================================================================

// Reorder moves rows of a draggable list. The whole batch applies or none of it.
func (s *Service) Reorder(userID string, table model.Table, updates []model.OrderUpdate) error {
	if _, err := s.user(userID); err != nil {
		return err
	}
	if err := s.db.Reorder(table, userID, updates); err != nil {
		return wrap("reorder", err)
	}
	s.touch(userID)
	return nil
}

// =============================================================================
// Snapshots
// =============================================================================

// SaveSnapshot captures the live state of date (today when empty) and
// returns it.
func (s *Service) SaveSnapshot(userID, date string) (*model.DayState, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return nil, err
	}
	state, err := s.materializer.Materialize(userID, date)
	if err != nil {
		return nil, wrap("snapshot.save", err)
	}
	if err := s.snapshots.Save(userID, date, state, model.SnapshotManual); err != nil {
		return nil, wrap("snapshot.save", err)
	}
	return state, nil
}

// GetSnapshot returns the captured state of a date.
func (s *Service) GetSnapshot(userID, date string) (*model.DayState, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	if err := validate.Date("date", date); err != nil {
		return nil, err
	}
	state, err := s.snapshots.Get(userID, date)
	return state, wrap("snapshot.get", err)
}

// DeleteSnapshot removes the capture of a date.
func (s *Service) DeleteSnapshot(userID, date string) error {
	if err := validate.UserID(userID); err != nil {
		return err
	}
	if err := validate.Date("date", date); err != nil {
		return err
	}
	return wrap("snapshot.delete", s.snapshots.Delete(userID, date))
}

// ListSnapshots returns a user's captures, most recent first.
func (s *Service) ListSnapshots(userID string) ([]model.SnapshotInfo, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	infos, err := s.snapshots.List(userID)
	return infos, wrap("snapshot.list", err)
}

// RetentionPolicy returns a user's snapshot retention policy.
func (s *Service) RetentionPolicy(userID string) (snapshot.Policy, error) {
	if err := validate.UserID(userID); err != nil {
		return snapshot.Policy{}, err
	}
	p, err := s.snapshots.Policy(userID)
	return p, wrap("retention.get", err)
}

// SetRetentionPolicy stores a policy, prunes at once and returns the dates
// removed.
func (s *Service) SetRetentionPolicy(userID string, p snapshot.Policy) ([]string, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	pruned, err := s.snapshots.SetPolicy(userID, p)
	return pruned, wrap("retention.set", err)
}

// =============================================================================
// Cache administration
// =============================================================================

// ClearCache drops every cached day of every user.
func (s *Service) ClearCache() {
	s.cache.Clear()
	logging.Info("state cache cleared")
}

// CacheStats reports cache activity.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}
