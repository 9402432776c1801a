package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/manav03panchal/daymark/internal/validate"
)

// Trend classifies how a series moved across its buckets.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendUnknown    Trend = "unknown"
)

// trendThreshold is the relative change between halves that counts as movement.
const trendThreshold = 0.05

// Bucket is the aggregate of one period.
type Bucket struct {
	Period string
	Value  float64
	Stats  Stats
}

// MarshalJSON flattens the statistics next to the period and value.
func (b Bucket) MarshalJSON() ([]byte, error) {
	return flatten(b.Stats, map[string]any{"period": b.Period, "value": b.Value})
}

// Summary is the aggregate of a whole range.
type Summary struct {
	Stats Stats
	Trend Trend
}

// MarshalJSON flattens the statistics next to the trend.
func (s Summary) MarshalJSON() ([]byte, error) {
	return flatten(s.Stats, map[string]any{"trend": s.Trend})
}

// flatten merges the JSON object of stats with extra keys.
func flatten(stats Stats, extra map[string]any) ([]byte, error) {
	fields := make(map[string]any, len(extra)+5)
	if stats != nil {
		raw, err := json.Marshal(stats)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
	}
	for k, v := range extra {
		fields[k] = v
	}
	return json.Marshal(fields)
}

// Result is an aggregated series.
type Result struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Data    []Bucket `json:"data"`
	Summary Summary  `json:"summary"`
}

// Values returns the representative value of each bucket in order.
func (r *Result) Values() []float64 {
	values := make([]float64, len(r.Data))
	for i, b := range r.Data {
		values[i] = b.Value
	}
	return values
}

// Aggregate buckets a series by g and summarizes it. Samples that are empty
// or do not parse as the series' type are skipped. The series is not
// modified.
func Aggregate(s Series, g GroupBy) (*Result, error) {
	switch s := s.(type) {
	case *NumericSeries:
		points := make([]numericPoint, 0, len(s.Samples))
		for _, sample := range s.Samples {
			if strings.TrimSpace(sample.Value) == "" {
				continue
			}
			d, err := validate.ParseAmount(sample.Value)
			if err != nil {
				continue
			}
			points = append(points, numericPoint{date: sample.Date, value: d})
		}
		return build(s.Name, KindNumeric, points, func(p numericPoint) string { return p.date }, g,
			func(items []numericPoint) *NumericStats {
				values := make([]decimal.Decimal, len(items))
				for i, p := range items {
					values[i] = p.value
				}
				return newNumericStats(values, s.Additive)
			},
			func(parts []*NumericStats) *NumericStats { return mergeNumeric(parts, s.Additive) }), nil

	case *BooleanSeries:
		points := make([]booleanPoint, 0, len(s.Samples))
		for _, sample := range s.Samples {
			v, err := strconv.ParseBool(strings.TrimSpace(sample.Value))
			if err != nil {
				continue
			}
			points = append(points, booleanPoint{date: sample.Date, value: v})
		}
		return build(s.Name, KindBoolean, points, func(p booleanPoint) string { return p.date }, g,
			func(items []booleanPoint) *BooleanStats {
				values := make([]bool, len(items))
				for i, p := range items {
					values[i] = p.value
				}
				return newBooleanStats(values)
			}, mergeBoolean), nil

	case *CategoricalSeries:
		points := make([]Sample, 0, len(s.Samples))
		for _, sample := range s.Samples {
			if strings.TrimSpace(sample.Value) != "" {
				points = append(points, sample)
			}
		}
		return build(s.Name, KindCategorical, points, func(p Sample) string { return p.Date }, g,
			func(items []Sample) *CategoricalStats {
				values := make([]string, len(items))
				for i, p := range items {
					values[i] = p.Value
				}
				return newCategoricalStats(values)
			}, mergeCategorical), nil

	case *TaskSeries:
		return build(s.Name, KindTask, s.Tasks, func(t TaskSample) string { return t.Date }, g,
			newTaskStats, mergeTasks), nil

	default:
		return nil, fmt.Errorf("unsupported series %T", s)
	}
}

type numericPoint struct {
	date  string
	value decimal.Decimal
}

type booleanPoint struct {
	date  string
	value bool
}

// build groups items, aggregates each bucket with collect and then
// summarizes the buckets with merge.
func build[T any, S Stats](name string, kind Kind, items []T, date func(T) string, g GroupBy,
	collect func([]T) S, merge func([]S) S) *Result {
	groups := groupItems(items, date, g)

	parts := make([]S, 0, len(groups))
	data := make([]Bucket, 0, len(groups))
	for _, grp := range groups {
		st := collect(grp.items)
		parts = append(parts, st)
		data = append(data, Bucket{Period: grp.period, Value: st.Representative(), Stats: st})
	}

	r := &Result{Name: name, Kind: kind, Data: data}
	r.Summary = Summary{Stats: merge(parts), Trend: ClassifyTrend(r.Values())}
	return r
}

// ClassifyTrend compares the mean of the second half of values with the mean
// of the first half. The halves split at len/2. Fewer than two values are
// unknown. A zero first-half mean is compared by sign.
func ClassifyTrend(values []float64) Trend {
	n := len(values)
	if n < 2 {
		return TrendUnknown
	}
	first := mean(values[:n/2])
	second := mean(values[n/2:])

	if first == 0 {
		switch {
		case second > 0:
			return TrendIncreasing
		case second < 0:
			return TrendDecreasing
		default:
			return TrendStable
		}
	}

	change := (second - first) / abs(first)
	switch {
	case change > trendThreshold:
		return TrendIncreasing
	case change < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Combine sums the representative values of several results per period over
// the union of their periods. Each combined bucket carries numeric stats of
// its contributions, so its Sum is the bucket value; the summary covers the
// combined values.
func Combine(results []*Result) *Result {
	contributions := make(map[string][]decimal.Decimal)
	periods := make([]string, 0)
	for _, r := range results {
		for _, b := range r.Data {
			if _, ok := contributions[b.Period]; !ok {
				periods = append(periods, b.Period)
			}
			contributions[b.Period] = append(contributions[b.Period], decimal.NewFromFloat(b.Value))
		}
	}
	sort.Strings(periods)

	data := make([]Bucket, 0, len(periods))
	totals := make([]decimal.Decimal, 0, len(periods))
	for _, period := range periods {
		st := newNumericStats(contributions[period], true)
		data = append(data, Bucket{Period: period, Value: st.Sum, Stats: st})
		totals = append(totals, st.sum)
	}

	r := &Result{Name: "combined", Kind: KindNumeric, Data: data}
	r.Summary = Summary{Stats: newNumericStats(totals, true), Trend: ClassifyTrend(r.Values())}
	return r
}
