package analytics

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/logging"
	"github.com/manav03panchal/daymark/internal/storage"
	"github.com/manav03panchal/daymark/internal/validate"
)

// DefaultMaxRangeDays bounds a query's span when no bound is configured.
const DefaultMaxRangeDays = 3660

// CompletionStatus filters the tasks of a task query.
type CompletionStatus string

const (
	CompletionAll        CompletionStatus = "all"
	CompletionCompleted  CompletionStatus = "completed"
	CompletionIncomplete CompletionStatus = "incomplete"
)

// ParseCompletionStatus validates a filter name. Empty means all.
func ParseCompletionStatus(name string) (CompletionStatus, error) {
	c := CompletionStatus(strings.ToLower(strings.TrimSpace(name)))
	switch c {
	case "":
		return CompletionAll, nil
	case CompletionAll, CompletionCompleted, CompletionIncomplete:
		return c, nil
	default:
		return "", errors.NewValidationErrorWithValue("completionStatus", name,
			"must be all, completed or incomplete", nil)
	}
}

func (c CompletionStatus) keep(done bool) bool {
	switch c {
	case CompletionCompleted:
		return done
	case CompletionIncomplete:
		return !done
	default:
		return true
	}
}

// Request is an analytics query. Exactly one series selector is set for a
// series query; task queries use none.
type Request struct {
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	GroupBy          string   `json:"groupBy"`
	CompletionStatus string   `json:"completionStatus,omitempty"`
	FieldKey         string   `json:"fieldKey,omitempty"`
	FieldKeys        []string `json:"fieldKeys,omitempty"`
	CounterName      string   `json:"counterName,omitempty"`
	CounterNames     []string `json:"counterNames,omitempty"`
	TimerName        string   `json:"timerName,omitempty"`
	TimerNames       []string `json:"timerNames,omitempty"`
}

// Response is either a single aggregated series or several series with their
// combination.
type Response struct {
	Single   *Result
	Fields   []*Result
	Combined *Result
}

// MarshalJSON encodes a single series as {data, summary} and several as
// {fields, combined: {data, summary}}.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Single != nil {
		return json.Marshal(r.Single)
	}
	return json.Marshal(struct {
		Fields   []*Result `json:"fields"`
		Combined *Result   `json:"combined"`
	}{Fields: r.Fields, Combined: r.Combined})
}

// Engine answers analytics queries from raw per-date rows. It never reads
// snapshots or the state cache.
type Engine struct {
	templates    *storage.TemplateRepo
	values       *storage.FieldValueRepo
	counters     *storage.CounterRepo
	trackers     *storage.TrackerRepo
	tasks        *storage.TaskRepo
	maxRangeDays int
}

// NewEngine creates an engine over db. A non-positive maxRangeDays uses
// DefaultMaxRangeDays.
func NewEngine(db *storage.DB, maxRangeDays int) *Engine {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &Engine{
		templates:    storage.NewTemplateRepo(db),
		values:       storage.NewFieldValueRepo(db),
		counters:     storage.NewCounterRepo(db),
		trackers:     storage.NewTrackerRepo(db),
		tasks:        storage.NewTaskRepo(db),
		maxRangeDays: maxRangeDays,
	}
}

// seriesLoader loads one named series over the request range.
type seriesLoader func(userID, name, start, end string) (Series, error)

// Query aggregates the field, counter or timer series a request selects.
func (e *Engine) Query(userID string, req Request) (*Response, error) {
	g, err := e.checkRequest(userID, req)
	if err != nil {
		return nil, err
	}

	var (
		load   seriesLoader
		names  []string
		single bool
		set    int
	)
	pick := func(one string, many []string, l seriesLoader) {
		if one != "" {
			set++
			load, names, single = l, []string{one}, true
		}
		if len(many) > 0 {
			set++
			load, names, single = l, many, false
		}
	}
	pick(req.FieldKey, req.FieldKeys, e.loadField)
	pick(req.CounterName, req.CounterNames, e.loadCounter)
	pick(req.TimerName, req.TimerNames, e.loadTimer)

	if set != 1 {
		return nil, errors.NewValidationError("series",
			"exactly one of fieldKey, fieldKeys, counterName, counterNames, timerName or timerNames is required")
	}

	results := make([]*Result, 0, len(names))
	for _, name := range names {
		series, err := load(userID, name, req.StartDate, req.EndDate)
		if err != nil {
			return nil, wrap("analytics.query", err)
		}
		r, err := Aggregate(series, g)
		if err != nil {
			return nil, wrap("analytics.query", err)
		}
		results = append(results, r)
	}

	logging.DebugLog("analytics query",
		logging.KeyUserID, userID,
		logging.KeyCount, len(results))

	if single {
		return &Response{Single: results[0]}, nil
	}
	return &Response{Fields: results, Combined: Combine(results)}, nil
}

// QueryTasks aggregates task completion over the request range.
func (e *Engine) QueryTasks(userID string, req Request) (*Response, error) {
	g, err := e.checkRequest(userID, req)
	if err != nil {
		return nil, err
	}
	status, err := ParseCompletionStatus(req.CompletionStatus)
	if err != nil {
		return nil, err
	}

	tasks, err := e.tasks.ListInRange(userID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, wrap("analytics.tasks", err)
	}
	samples := make([]TaskSample, 0, len(tasks))
	for _, t := range tasks {
		if !status.keep(t.Done) {
			continue
		}
		samples = append(samples, TaskSample{
			Date:        t.Date,
			Done:        t.Done,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
		})
	}

	r, err := Aggregate(&TaskSeries{Name: "tasks", Tasks: samples}, g)
	if err != nil {
		return nil, wrap("analytics.tasks", err)
	}
	return &Response{Single: r}, nil
}

func (e *Engine) checkRequest(userID string, req Request) (GroupBy, error) {
	if err := validate.UserID(userID); err != nil {
		return "", err
	}
	if _, err := validate.DateRange(req.StartDate, req.EndDate, e.maxRangeDays); err != nil {
		return "", err
	}
	return ParseGroupBy(req.GroupBy)
}

// loadField reads a template field's values. The template's current type
// decides how they aggregate.
func (e *Engine) loadField(userID, key, start, end string) (Series, error) {
	tmpl, err := e.templates.FindByKey(userID, key)
	if err != nil {
		return nil, err
	}
	rows, err := e.values.ListByKeyInRange(userID, tmpl.FieldKey, start, end)
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, Sample{Date: row.Date, Value: row.Value})
	}
	return SeriesFor(tmpl.FieldKey, tmpl.FieldType, samples)
}

// loadCounter reads a counter's per-date values as an additive series.
func (e *Engine) loadCounter(userID, name, start, end string) (Series, error) {
	counter, err := e.counters.FindByName(userID, name)
	if err != nil {
		return nil, err
	}
	rows, err := e.counters.ValuesInRange(userID, counter.ID, start, end)
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, Sample{Date: row.Date, Value: strconv.Itoa(row.Value)})
	}
	return &NumericSeries{Name: counter.Name, Additive: true, Samples: samples}, nil
}

var msPerMinute = decimal.NewFromInt(60_000)

// loadTimer reads a duration tracker's timer log as minutes per date.
func (e *Engine) loadTimer(userID, name, start, end string) (Series, error) {
	tracker, err := e.trackers.FindDurationByName(userID, name)
	if err != nil {
		return nil, err
	}
	logs, err := e.trackers.TimerLogsInRange(userID, tracker.ID, start, end)
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, 0, len(logs))
	for _, log := range logs {
		minutes := decimal.NewFromInt(log.ElapsedMs).Div(msPerMinute)
		samples = append(samples, Sample{Date: log.Date, Value: minutes.String()})
	}
	return &NumericSeries{Name: tracker.Name, Additive: true, Samples: samples}, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsValidationError(err) || errors.IsNotFoundError(err) || errors.IsSystemError(err) {
		return err
	}
	return errors.NewSystemErrorWithOp(op, "analytics query failed", err)
}
