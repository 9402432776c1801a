package model

// DayState is the fully materialized view of one user's day.
// Export formatters consume this shape directly.
type DayState struct {
	Date              string              `json:"date"`
	PreviousBedtime   string              `json:"previousBedtime"`
	WakeTime          string              `json:"wakeTime"`
	CustomFields      []ResolvedField     `json:"customFields"`
	DailyCustomFields []ResolvedField     `json:"dailyCustomFields"`
	DailyTasks        []*TaskNode         `json:"dailyTasks"`
	CustomCounters    []CounterState      `json:"customCounters"`
	Entries           []*ActivityEntry    `json:"entries"`
	TimeSinceTrackers []*TimeSinceTracker `json:"timeSinceTrackers"`
	DurationTrackers  []*DurationTracker  `json:"durationTrackers"`
}

// Table names accepted by the bulk reorder operation.
type Table string

const (
	TableFieldTemplates    Table = "field_templates"
	TableDailyTasks        Table = "daily_tasks"
	TableCustomCounters    Table = "custom_counters"
	TableDurationTrackers  Table = "duration_trackers"
	TableTimeSinceTrackers Table = "time_since_trackers"
)

// Prefix returns the key prefix of the table's rows.
func (t Table) Prefix() (string, bool) {
	switch t {
	case TableFieldTemplates:
		return PrefixTemplate, true
	case TableDailyTasks:
		return PrefixTask, true
	case TableCustomCounters:
		return PrefixCounter, true
	case TableDurationTrackers:
		return PrefixDurationTracker, true
	case TableTimeSinceTrackers:
		return PrefixTimeSince, true
	default:
		return "", false
	}
}

// OrderUpdate moves one row of a draggable list.
type OrderUpdate struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"orderIndex"`
}
