package journal

import (
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/storage"
)

// DayInputs are the raw rows a day view is assembled from.
type DayInputs struct {
	Date          string
	DayLog        *model.DayLog
	Templates     []*model.FieldTemplate
	Values        []*model.DailyFieldValue
	Tasks         []*model.DailyTask
	Counters      []*model.CustomCounter
	CounterValues map[string]int
	Entries       []*model.ActivityEntry
	TimeSince     []*model.TimeSinceTracker
	Durations     []*model.DurationTracker
}

// Assemble builds the day view from its inputs. It has no side effects and
// equal inputs always produce an equal view. Every list in the result is
// non-nil so the encoded form never contains null arrays.
func Assemble(in DayInputs) (*model.DayState, error) {
	state := &model.DayState{Date: in.Date}
	if in.DayLog != nil {
		state.PreviousBedtime = in.DayLog.PreviousBedtime
		state.WakeTime = in.DayLog.WakeTime
	}

	state.CustomFields, state.DailyCustomFields = MergeFields(in.Templates, in.Values)

	tree, err := BuildTaskTree(in.Tasks)
	if err != nil {
		return nil, err
	}
	state.DailyTasks = tree

	counters := make([]*model.CustomCounter, len(in.Counters))
	copy(counters, in.Counters)
	model.SortCounters(counters)
	state.CustomCounters = make([]model.CounterState, 0, len(counters))
	for _, c := range counters {
		state.CustomCounters = append(state.CustomCounters, model.CounterState{
			ID:         c.ID,
			Name:       c.Name,
			Value:      in.CounterValues[c.ID],
			OrderIndex: c.OrderIndex,
		})
	}

	state.Entries = make([]*model.ActivityEntry, len(in.Entries))
	copy(state.Entries, in.Entries)
	model.SortEntries(state.Entries)

	state.TimeSinceTrackers = make([]*model.TimeSinceTracker, len(in.TimeSince))
	copy(state.TimeSinceTrackers, in.TimeSince)
	model.SortTimeSinceTrackers(state.TimeSinceTrackers)

	state.DurationTrackers = make([]*model.DurationTracker, len(in.Durations))
	copy(state.DurationTrackers, in.Durations)
	model.SortDurationTrackers(state.DurationTrackers)

	return state, nil
}

// Materializer loads a day's rows from storage and assembles them. Trackers
// and counter definitions are always the current rows, even for past dates.
type Materializer struct {
	dayLogs   *storage.DayLogRepo
	templates *storage.TemplateRepo
	values    *storage.FieldValueRepo
	tasks     *storage.TaskRepo
	entries   *storage.EntryRepo
	counters  *storage.CounterRepo
	trackers  *storage.TrackerRepo
}

// NewMaterializer creates a materializer over db.
func NewMaterializer(db *storage.DB) *Materializer {
	return &Materializer{
		dayLogs:   storage.NewDayLogRepo(db),
		templates: storage.NewTemplateRepo(db),
		values:    storage.NewFieldValueRepo(db),
		tasks:     storage.NewTaskRepo(db),
		entries:   storage.NewEntryRepo(db),
		counters:  storage.NewCounterRepo(db),
		trackers:  storage.NewTrackerRepo(db),
	}
}

// Materialize returns the live day view of a user on date.
func (m *Materializer) Materialize(userID, date string) (*model.DayState, error) {
	in := DayInputs{Date: date}
	var err error

	if in.DayLog, err = m.dayLogs.Get(userID, date); err != nil {
		return nil, err
	}
	if in.Templates, err = m.templates.List(userID); err != nil {
		return nil, err
	}
	if in.Values, err = m.values.ListForDate(userID, date); err != nil {
		return nil, err
	}
	if in.Tasks, err = m.tasks.ListForDate(userID, date); err != nil {
		return nil, err
	}
	if in.Counters, err = m.counters.List(userID); err != nil {
		return nil, err
	}
	if in.CounterValues, err = m.counters.ValuesForDate(userID, date); err != nil {
		return nil, err
	}
	if in.Entries, err = m.entries.ListForDate(userID, date); err != nil {
		return nil, err
	}
	if in.TimeSince, err = m.trackers.ListTimeSince(userID); err != nil {
		return nil, err
	}
	if in.Durations, err = m.trackers.ListDuration(userID); err != nil {
		return nil, err
	}

	return Assemble(in)
}
