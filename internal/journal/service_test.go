package journal

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/daymark/internal/clock"
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/snapshot"
	"github.com/manav03panchal/daymark/internal/storage"
)

const testUser = "user-1"

// testNow is 2024-01-05 in UTC.
var testNow = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	svc *Service
	db  *storage.DB
	now time.Time
}

func (f *serviceFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func setupService(t *testing.T) *serviceFixture {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cache := newTestCache(t)
	f := &serviceFixture{db: db, now: testNow}
	clk := &clock.Clock{Now: func() time.Time { return f.now }}
	store := snapshot.NewStore(db, clk, snapshot.Policy{})
	f.svc = NewService(db, cache, store, clk, Options{AutoCapture: true})
	return f
}

func entryTexts(state *model.DayState) []string {
	texts := make([]string, 0, len(state.Entries))
	for _, e := range state.Entries {
		texts = append(texts, e.Text)
	}
	return texts
}

// =============================================================================
// State Read Tests
// =============================================================================

func TestTemplateWithoutValueResolvesToDefault(t *testing.T) {
	f := setupService(t)
	tmpl, err := f.svc.CreateTemplate(testUser, "Mood", "number")
	require.NoError(t, err)

	state, err := f.svc.GetStateForDate(testUser, "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, []model.ResolvedField{
		{ID: tmpl.ID, Key: "Mood", Value: "", FieldType: model.FieldTypeNumber},
	}, state.CustomFields)
}

func TestReadAfterWrite(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.CreateTemplate(testUser, "Mood", "number")
	require.NoError(t, err)

	before, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, "", before.CustomFields[0].Value)

	_, err = f.svc.SetFieldValue(testUser, "", "mood", "4")
	require.NoError(t, err)

	after, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, "4", after.CustomFields[0].Value)
	assert.Equal(t, "Mood", after.CustomFields[0].Key)
}

func TestGetStateValidatesInput(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.GetStateForDate(testUser, "2024-13-01")
	assert.True(t, errors.IsValidationError(err))

	_, err = f.svc.GetStateForDate("bad:user", "2024-01-05")
	assert.True(t, errors.IsValidationError(err))
}

func TestPastDatePrefersSnapshot(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.AddEntry(testUser, "2024-01-03", "first", "")
	require.NoError(t, err)
	_, err = f.svc.SaveSnapshot(testUser, "2024-01-03")
	require.NoError(t, err)
	_, err = f.svc.AddEntry(testUser, "2024-01-03", "second", "")
	require.NoError(t, err)

	state, err := f.svc.GetStateForDate(testUser, "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, entryTexts(state))

	require.NoError(t, f.svc.DeleteSnapshot(testUser, "2024-01-03"))
	state, err = f.svc.GetStateForDate(testUser, "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, entryTexts(state))
}

func TestTodayIsAlwaysLive(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.SaveSnapshot(testUser, "")
	require.NoError(t, err)
	_, err = f.svc.AddEntry(testUser, "", "after snapshot", "")
	require.NoError(t, err)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"after snapshot"}, entryTexts(state))
}

// =============================================================================
// Auto-capture Tests
// =============================================================================

func TestAutoCaptureTodayAndYesterday(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.AddEntry(testUser, "2024-01-04", "late night", "")
	require.NoError(t, err)

	_, err = f.svc.GetState(testUser)
	require.NoError(t, err)

	infos, err := f.svc.ListSnapshots(testUser)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "2024-01-05", infos[0].Date)
	assert.Equal(t, model.SnapshotAuto, infos[0].Source)
	assert.Equal(t, "2024-01-04", infos[1].Date)

	yesterday, err := f.svc.GetSnapshot(testUser, "2024-01-04")
	require.NoError(t, err)
	assert.Equal(t, []string{"late night"}, entryTexts(yesterday))
}

func TestAutoCaptureSkipsPastDates(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.GetStateForDate(testUser, "2024-01-01")
	require.NoError(t, err)

	infos, err := f.svc.ListSnapshots(testUser)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestAutoCaptureFollowsTodaysChanges(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.GetState(testUser)
	require.NoError(t, err)

	_, err = f.svc.AddEntry(testUser, "", "breakfast", "")
	require.NoError(t, err)
	_, err = f.svc.GetState(testUser)
	require.NoError(t, err)

	snap, err := f.svc.GetSnapshot(testUser, "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"breakfast"}, entryTexts(snap))

	// Tomorrow, yesterday's capture holds the day as it was left.
	f.advance(24 * time.Hour)
	state, err := f.svc.GetStateForDate(testUser, "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"breakfast"}, entryTexts(state))
}

func TestAutoCaptureFollowsWritesAfterLastRead(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.CreateTemplate(testUser, "Mood", "number")
	require.NoError(t, err)
	_, err = f.svc.GetState(testUser)
	require.NoError(t, err)

	// written after the last read of the day
	_, err = f.svc.SetFieldValue(testUser, "", "Mood", "7")
	require.NoError(t, err)

	f.advance(24 * time.Hour)
	state, err := f.svc.GetStateForDate(testUser, "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "7", state.CustomFields[0].Value)

	_, err = f.svc.SetFieldValue(testUser, "2024-01-05", "Mood", "9")
	require.NoError(t, err)
	state, err = f.svc.GetStateForDate(testUser, "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "9", state.CustomFields[0].Value)

	infos, err := f.svc.ListSnapshots(testUser)
	require.NoError(t, err)
	for _, info := range infos {
		if info.Date == "2024-01-05" {
			assert.Equal(t, model.SnapshotAuto, info.Source)
		}
	}
}

func TestPastDateWritesRefreshAutoCapture(t *testing.T) {
	f := setupService(t)
	// captures today and yesterday
	_, err := f.svc.GetState(testUser)
	require.NoError(t, err)

	_, err = f.svc.AddEntry(testUser, "2024-01-04", "remembered later", "")
	require.NoError(t, err)
	task, err := f.svc.AddTask(testUser, TaskInput{Date: "2024-01-04", Title: "Call home"})
	require.NoError(t, err)
	_, err = f.svc.SetTaskDone(testUser, task.ID, true)
	require.NoError(t, err)

	state, err := f.svc.GetStateForDate(testUser, "2024-01-04")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"remembered later", "Completed: Call home"}, entryTexts(state))
	require.Len(t, state.DailyTasks, 1)
	assert.True(t, state.DailyTasks[0].Done)

	require.NoError(t, f.svc.DeleteTask(testUser, task.ID))
	state, err = f.svc.GetStateForDate(testUser, "2024-01-04")
	require.NoError(t, err)
	assert.Empty(t, state.DailyTasks)
}

func TestPastDateWritesKeepManualSnapshot(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.AddEntry(testUser, "2024-01-02", "kept", "")
	require.NoError(t, err)
	_, err = f.svc.SaveSnapshot(testUser, "2024-01-02")
	require.NoError(t, err)

	_, err = f.svc.AddEntry(testUser, "2024-01-02", "live only", "")
	require.NoError(t, err)

	state, err := f.svc.GetStateForDate(testUser, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, entryTexts(state))

	infos, err := f.svc.ListSnapshots(testUser)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, model.SnapshotManual, infos[0].Source)
}

func TestGlobalChangesRefreshOnlyTodaysCapture(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.GetState(testUser)
	require.NoError(t, err)

	_, err = f.svc.CreateCounter(testUser, "Coffee")
	require.NoError(t, err)

	today, err := f.svc.GetSnapshot(testUser, "2024-01-05")
	require.NoError(t, err)
	require.Len(t, today.CustomCounters, 1)
	assert.Equal(t, "Coffee", today.CustomCounters[0].Name)

	yesterday, err := f.svc.GetSnapshot(testUser, "2024-01-04")
	require.NoError(t, err)
	assert.Empty(t, yesterday.CustomCounters)
}

func TestAutoCaptureKeepsManualSnapshot(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.SaveSnapshot(testUser, "")
	require.NoError(t, err)
	_, err = f.svc.AddEntry(testUser, "", "not captured", "")
	require.NoError(t, err)
	_, err = f.svc.GetState(testUser)
	require.NoError(t, err)

	snap, err := f.svc.GetSnapshot(testUser, "2024-01-05")
	require.NoError(t, err)
	assert.Empty(t, snap.Entries)
}

// =============================================================================
// Settings Tests
// =============================================================================

func TestTimezoneMovesToday(t *testing.T) {
	f := setupService(t)
	f.now = time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)

	today, err := f.svc.Today(testUser)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", today)

	tz := "Asia/Tokyo"
	user, err := f.svc.UpdateSettings(testUser, SettingsUpdate{Timezone: &tz})
	require.NoError(t, err)
	assert.Equal(t, tz, user.Timezone)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-06", state.Date)

	bad := "Mars/Olympus"
	_, err = f.svc.UpdateSettings(testUser, SettingsUpdate{Timezone: &bad})
	assert.True(t, errors.IsValidationError(err))
}

// =============================================================================
// Field Tests
// =============================================================================

func TestCreateTemplateConflict(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.CreateTemplate(testUser, "Mood", "number")
	require.NoError(t, err)

	_, err = f.svc.CreateTemplate(testUser, "mood", "text")
	assert.True(t, errors.IsConflictError(err))

	_, err = f.svc.CreateTemplate(testUser, "Energy", "colour")
	assert.ErrorIs(t, err, errors.ErrInvalidFieldType)

	_, err = f.svc.SetDailyField(testUser, "", "MOOD", "text", "x")
	assert.True(t, errors.IsConflictError(err))
}

func TestSetFieldValueValidatesType(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.CreateTemplate(testUser, "Worked Out", "boolean")
	require.NoError(t, err)

	_, err = f.svc.SetFieldValue(testUser, "", "Worked Out", "maybe")
	assert.ErrorIs(t, err, errors.ErrInvalidValue)

	row, err := f.svc.SetFieldValue(testUser, "", "Worked Out", "TRUE")
	require.NoError(t, err)
	assert.Equal(t, model.BoolTrue, row.Value)

	_, err = f.svc.SetFieldValue(testUser, "", "Unknown", "1")
	assert.ErrorIs(t, err, errors.ErrTemplateNotFound)
}

func TestDeleteTemplateRemovesOnlyTodaysValue(t *testing.T) {
	f := setupService(t)
	tmpl, err := f.svc.CreateTemplate(testUser, "Mood", "number")
	require.NoError(t, err)
	_, err = f.svc.SetFieldValue(testUser, "2024-01-04", "Mood", "3")
	require.NoError(t, err)
	_, err = f.svc.SetFieldValue(testUser, "", "Mood", "4")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTemplate(testUser, tmpl.ID))

	values := storage.NewFieldValueRepo(f.db)
	_, err = values.Get(testUser, "2024-01-05", "Mood")
	assert.True(t, storage.IsErrKeyNotFound(err))
	kept, err := values.Get(testUser, "2024-01-04", "Mood")
	require.NoError(t, err)
	assert.Equal(t, "3", kept.Value)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Empty(t, state.CustomFields)
	assert.Empty(t, state.DailyCustomFields, "orphaned template values stay out of the day view")
}

func TestDailyOnlyFields(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.SetDailyField(testUser, "", "Weather", "text", "sunny")
	require.NoError(t, err)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	require.Len(t, state.DailyCustomFields, 1)
	assert.Equal(t, "sunny", state.DailyCustomFields[0].Value)

	other, err := f.svc.GetStateForDate(testUser, "2024-01-06")
	require.NoError(t, err)
	assert.Empty(t, other.DailyCustomFields)

	require.NoError(t, f.svc.DeleteDailyField(testUser, "", "Weather"))
	err = f.svc.DeleteDailyField(testUser, "", "Weather")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSetSleep(t *testing.T) {
	f := setupService(t)
	bed, wake := "23:15", "06:45"
	_, err := f.svc.SetSleep(testUser, "", SleepUpdate{PreviousBedtime: &bed, WakeTime: &wake})
	require.NoError(t, err)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, "23:15", state.PreviousBedtime)
	assert.Equal(t, "06:45", state.WakeTime)

	bad := "7am"
	_, err = f.svc.SetSleep(testUser, "", SleepUpdate{WakeTime: &bad})
	assert.True(t, errors.IsValidationError(err))
}

// =============================================================================
// Task Tests
// =============================================================================

func TestToggleTaskLogsEntry(t *testing.T) {
	f := setupService(t)
	task, err := f.svc.AddTask(testUser, TaskInput{Title: "Run"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", task.Date)

	done, err := f.svc.ToggleTask(testUser, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Done)
	require.NotNil(t, done.CompletedAt)
	assert.NotEmpty(t, done.ActivityEntryID)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"Completed: Run"}, entryTexts(state))
	assert.True(t, state.DailyTasks[0].Done)

	open, err := f.svc.ToggleTask(testUser, task.ID)
	require.NoError(t, err)
	assert.False(t, open.Done)
	assert.Nil(t, open.CompletedAt)

	state, err = f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Empty(t, state.Entries)
}

func TestSubtasks(t *testing.T) {
	f := setupService(t)
	parent, err := f.svc.AddTask(testUser, TaskInput{Date: "2024-01-06", Title: "Groceries"})
	require.NoError(t, err)
	child, err := f.svc.AddTask(testUser, TaskInput{Title: "Milk", ParentTaskID: parent.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-06", child.Date, "sub-task follows its parent's date")

	_, err = f.svc.AddTask(testUser, TaskInput{Title: "Oat", ParentTaskID: child.ID})
	assert.ErrorIs(t, err, errors.ErrTaskDepth)

	state, err := f.svc.GetStateForDate(testUser, "2024-01-06")
	require.NoError(t, err)
	require.Len(t, state.DailyTasks, 1)
	require.Len(t, state.DailyTasks[0].Subtasks, 1)
	assert.Equal(t, "Milk", state.DailyTasks[0].Subtasks[0].Title)

	require.NoError(t, f.svc.DeleteTask(testUser, parent.ID))
	state, err = f.svc.GetStateForDate(testUser, "2024-01-06")
	require.NoError(t, err)
	assert.Empty(t, state.DailyTasks)
}

func TestSubtaskOrderFollowsParentsDate(t *testing.T) {
	f := setupService(t)
	for _, title := range []string{"Today one", "Today two", "Today three"} {
		_, err := f.svc.AddTask(testUser, TaskInput{Title: title})
		require.NoError(t, err)
	}
	parent, err := f.svc.AddTask(testUser, TaskInput{Date: "2024-01-02", Title: "Taxes"})
	require.NoError(t, err)
	assert.Equal(t, 0, parent.OrderIndex)

	first, err := f.svc.AddTask(testUser, TaskInput{Title: "Receipts", ParentTaskID: parent.ID})
	require.NoError(t, err)
	second, err := f.svc.AddTask(testUser, TaskInput{Title: "Forms", ParentTaskID: parent.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", first.Date)
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)

	next, err := f.svc.AddTask(testUser, TaskInput{Date: "2024-01-02", Title: "Filing"})
	require.NoError(t, err)
	assert.Equal(t, 1, next.OrderIndex, "sub-tasks do not count as top-level siblings")

	_, err = f.svc.AddTask(testUser, TaskInput{Title: "Orphan", ParentTaskID: "missing"})
	assert.ErrorIs(t, err, errors.ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	f := setupService(t)
	task, err := f.svc.AddTask(testUser, TaskInput{Title: "Read"})
	require.NoError(t, err)

	title, points, pinned := "Read a chapter", 3, true
	updated, err := f.svc.UpdateTask(testUser, task.ID, TaskPatch{Title: &title, Points: &points, Pinned: &pinned})
	require.NoError(t, err)
	assert.Equal(t, "Read a chapter", updated.Title)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, 3, state.DailyTasks[0].Points)
	assert.True(t, state.DailyTasks[0].Pinned)

	empty := "  "
	_, err = f.svc.UpdateTask(testUser, task.ID, TaskPatch{Title: &empty})
	assert.True(t, errors.IsValidationError(err))
}

// =============================================================================
// Entry Tests
// =============================================================================

func TestEntries(t *testing.T) {
	f := setupService(t)
	first, err := f.svc.AddEntry(testUser, "", "coffee", "")
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.svc.AddEntry(testUser, "", "", "img/1.png")
	require.NoError(t, err)

	_, err = f.svc.AddEntry(testUser, "", "   ", "")
	assert.True(t, errors.IsValidationError(err))

	text := "espresso"
	_, err = f.svc.UpdateEntry(testUser, first.ID, EntryPatch{Text: &text})
	require.NoError(t, err)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"espresso", ""}, entryTexts(state))

	require.NoError(t, f.svc.DeleteEntry(testUser, first.ID))
	assert.True(t, errors.IsNotFoundError(f.svc.DeleteEntry(testUser, first.ID)))
}

// =============================================================================
// Counter and Tracker Tests
// =============================================================================

func TestCounters(t *testing.T) {
	f := setupService(t)
	coffee, err := f.svc.CreateCounter(testUser, "Coffee")
	require.NoError(t, err)
	_, err = f.svc.CreateCounter(testUser, "coffee")
	assert.True(t, errors.IsConflictError(err))

	v, err := f.svc.IncrementCounter(testUser, coffee.ID, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = f.svc.IncrementCounter(testUser, coffee.ID, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, []model.CounterState{{ID: coffee.ID, Name: "Coffee", Value: 2}}, state.CustomCounters)

	other, err := f.svc.GetStateForDate(testUser, "2024-01-06")
	require.NoError(t, err)
	assert.Equal(t, 0, other.CustomCounters[0].Value)

	require.NoError(t, f.svc.SetCounterValue(testUser, coffee.ID, "2024-01-06", 5))
	other, err = f.svc.GetStateForDate(testUser, "2024-01-06")
	require.NoError(t, err)
	assert.Equal(t, 5, other.CustomCounters[0].Value)

	_, err = f.svc.IncrementCounter(testUser, "missing", "", 1)
	assert.ErrorIs(t, err, errors.ErrCounterNotFound)

	require.NoError(t, f.svc.DeleteCounter(testUser, coffee.ID))
	state, err = f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Empty(t, state.CustomCounters)
}

func TestDurationTracker(t *testing.T) {
	f := setupService(t)
	tracker, err := f.svc.CreateDurationTracker(testUser, "Deep work")
	require.NoError(t, err)

	_, err = f.svc.StartTracker(testUser, tracker.ID)
	require.NoError(t, err)
	f.advance(30 * time.Minute)
	stopped, err := f.svc.StopTracker(testUser, tracker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30*time.Minute/time.Millisecond), stopped.ElapsedMs)
	assert.False(t, stopped.IsRunning)

	logs, err := storage.NewTrackerRepo(f.db).TimerLogsInRange(testUser, tracker.ID, "2024-01-05", "2024-01-05")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, stopped.ElapsedMs, logs[0].ElapsedMs)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	require.Len(t, state.DurationTrackers, 1)
	assert.Equal(t, stopped.ElapsedMs, state.DurationTrackers[0].ElapsedMs)

	_, err = f.svc.SetTrackerLocked(testUser, tracker.ID, true)
	require.NoError(t, err)
	_, err = f.svc.StartTracker(testUser, tracker.ID)
	assert.ErrorIs(t, err, errors.ErrTrackerLocked)
	_, err = f.svc.ResetTracker(testUser, tracker.ID)
	assert.ErrorIs(t, err, errors.ErrTrackerLocked)

	_, err = f.svc.SetTrackerLocked(testUser, tracker.ID, false)
	require.NoError(t, err)
	reset, err := f.svc.ResetTracker(testUser, tracker.ID)
	require.NoError(t, err)
	assert.Zero(t, reset.ElapsedMs)

	require.NoError(t, f.svc.DeleteDurationTracker(testUser, tracker.ID))
	_, err = f.svc.StartTracker(testUser, tracker.ID)
	assert.ErrorIs(t, err, errors.ErrTrackerNotFound)
}

func TestTimeSinceTracker(t *testing.T) {
	f := setupService(t)
	tracker, err := f.svc.CreateTimeSinceTracker(testUser, "Last cigarette", nil)
	require.NoError(t, err)
	assert.True(t, tracker.Since.Equal(testNow))

	f.advance(time.Hour)
	reset, err := f.svc.ResetTimeSince(testUser, tracker.ID)
	require.NoError(t, err)
	assert.True(t, reset.Since.Equal(testNow.Add(time.Hour)))

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	require.Len(t, state.TimeSinceTrackers, 1)

	require.NoError(t, f.svc.DeleteTimeSinceTracker(testUser, tracker.ID))
	state, err = f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Empty(t, state.TimeSinceTrackers)
}

func TestReorderInvalidatesCache(t *testing.T) {
	f := setupService(t)
	a, err := f.svc.CreateCounter(testUser, "A")
	require.NoError(t, err)
	b, err := f.svc.CreateCounter(testUser, "B")
	require.NoError(t, err)

	state, err := f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, "A", state.CustomCounters[0].Name)

	err = f.svc.Reorder(testUser, model.TableCustomCounters, []model.OrderUpdate{
		{ID: a.ID, OrderIndex: 10},
		{ID: b.ID, OrderIndex: 0},
	})
	require.NoError(t, err)

	state, err = f.svc.GetState(testUser)
	require.NoError(t, err)
	assert.Equal(t, "B", state.CustomCounters[0].Name)

	err = f.svc.Reorder(testUser, model.Table("users"), nil)
	assert.ErrorIs(t, err, errors.ErrUnknownTable)
}

func TestRetentionThroughService(t *testing.T) {
	f := setupService(t)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		_, err := f.svc.SaveSnapshot(testUser, d)
		require.NoError(t, err)
	}

	pruned, err := f.svc.SetRetentionPolicy(testUser, snapshot.Policy{MaxCount: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, pruned)

	p, err := f.svc.RetentionPolicy(testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, p.MaxCount)

	_, err = f.svc.GetSnapshot(testUser, "2024-01-01")
	assert.True(t, errors.IsNotFoundError(err))
}
