package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the aggregate of one bucket or of a whole range. The set of
// implementations is closed and mirrors the Series variants.
type Stats interface {
	Kind() Kind
	// Representative is the single value plotted for a bucket, compared by
	// Trend and summed by Combine.
	Representative() float64
	isStats()
}

// =============================================================================
// Numeric
// =============================================================================

// NumericStats aggregates numbers. Sums are exact; the float fields are
// their rendered form.
type NumericStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`

	additive bool
	min      decimal.Decimal
	max      decimal.Decimal
	sum      decimal.Decimal
}

func (s *NumericStats) Kind() Kind { return KindNumeric }
func (s *NumericStats) isStats()   {}

// Representative is the sum for additive series and the average otherwise.
func (s *NumericStats) Representative() float64 {
	if s.additive {
		return s.Sum
	}
	return s.Avg
}

func newNumericStats(values []decimal.Decimal, additive bool) *NumericStats {
	s := &NumericStats{additive: additive}
	for _, v := range values {
		s.include(v, v, v, 1)
	}
	s.finish()
	return s
}

func mergeNumeric(parts []*NumericStats, additive bool) *NumericStats {
	s := &NumericStats{additive: additive}
	for _, p := range parts {
		if p.Count > 0 {
			s.include(p.min, p.max, p.sum, p.Count)
		}
	}
	s.finish()
	return s
}

func (s *NumericStats) include(lo, hi, sum decimal.Decimal, count int) {
	if s.Count == 0 || lo.LessThan(s.min) {
		s.min = lo
	}
	if s.Count == 0 || hi.GreaterThan(s.max) {
		s.max = hi
	}
	s.sum = s.sum.Add(sum)
	s.Count += count
}

func (s *NumericStats) finish() {
	if s.Count == 0 {
		return
	}
	s.Min = s.min.InexactFloat64()
	s.Max = s.max.InexactFloat64()
	s.Sum = s.sum.InexactFloat64()
	s.Avg = s.sum.Div(decimal.NewFromInt(int64(s.Count))).InexactFloat64()
}

// =============================================================================
// Boolean
// =============================================================================

// BooleanStats counts true and false answers. TrueCount + FalseCount always
// equals TotalCount.
type BooleanStats struct {
	TrueCount      int     `json:"trueCount"`
	FalseCount     int     `json:"falseCount"`
	TotalCount     int     `json:"totalCount"`
	TruePercentage float64 `json:"truePercentage"`
}

func (s *BooleanStats) Kind() Kind              { return KindBoolean }
func (s *BooleanStats) isStats()                {}
func (s *BooleanStats) Representative() float64 { return s.TruePercentage }

func newBooleanStats(values []bool) *BooleanStats {
	s := &BooleanStats{}
	for _, v := range values {
		if v {
			s.TrueCount++
		} else {
			s.FalseCount++
		}
	}
	s.finish()
	return s
}

func mergeBoolean(parts []*BooleanStats) *BooleanStats {
	s := &BooleanStats{}
	for _, p := range parts {
		s.TrueCount += p.TrueCount
		s.FalseCount += p.FalseCount
	}
	s.finish()
	return s
}

func (s *BooleanStats) finish() {
	s.TotalCount = s.TrueCount + s.FalseCount
	if s.TotalCount > 0 {
		s.TruePercentage = float64(s.TrueCount) * 100 / float64(s.TotalCount)
	}
}

// =============================================================================
// Categorical
// =============================================================================

// CategoricalStats counts values. Ties for the most common value go to the
// value seen first.
type CategoricalStats struct {
	Count           int    `json:"count"`
	UniqueCount     int    `json:"uniqueCount"`
	MostCommonValue string `json:"mostCommonValue"`
	MostCommonCount int    `json:"mostCommonCount"`

	order []string
	freq  map[string]int
}

func (s *CategoricalStats) Kind() Kind              { return KindCategorical }
func (s *CategoricalStats) isStats()                {}
func (s *CategoricalStats) Representative() float64 { return float64(s.Count) }

func newCategoricalStats(values []string) *CategoricalStats {
	s := &CategoricalStats{freq: make(map[string]int)}
	for _, v := range values {
		s.include(v, 1)
	}
	s.finish()
	return s
}

func mergeCategorical(parts []*CategoricalStats) *CategoricalStats {
	s := &CategoricalStats{freq: make(map[string]int)}
	for _, p := range parts {
		for _, v := range p.order {
			s.include(v, p.freq[v])
		}
	}
	s.finish()
	return s
}

func (s *CategoricalStats) include(v string, n int) {
	if _, seen := s.freq[v]; !seen {
		s.order = append(s.order, v)
	}
	s.freq[v] += n
	s.Count += n
}

func (s *CategoricalStats) finish() {
	s.UniqueCount = len(s.order)
	for _, v := range s.order {
		if s.freq[v] > s.MostCommonCount {
			s.MostCommonValue = v
			s.MostCommonCount = s.freq[v]
		}
	}
}

// =============================================================================
// Task
// =============================================================================

// TaskStats summarizes task completion. The time to complete is averaged
// over completed tasks that carry both timestamps and rounded to whole
// minutes once.
type TaskStats struct {
	Total                    int     `json:"total"`
	Completed                int     `json:"completed"`
	Incomplete               int     `json:"incomplete"`
	CompletionRate           float64 `json:"completionRate"`
	AvgTimeToCompleteMinutes int     `json:"avgTimeToCompleteMinutes"`

	timed     int
	totalTime time.Duration
}

func (s *TaskStats) Kind() Kind              { return KindTask }
func (s *TaskStats) isStats()                {}
func (s *TaskStats) Representative() float64 { return s.CompletionRate }

func newTaskStats(tasks []TaskSample) *TaskStats {
	s := &TaskStats{}
	for _, t := range tasks {
		s.Total++
		if !t.Done {
			continue
		}
		s.Completed++
		if t.CompletedAt != nil && !t.CreatedAt.IsZero() {
			took := t.CompletedAt.Sub(t.CreatedAt)
			if took < 0 {
				took = 0
			}
			s.timed++
			s.totalTime += took
		}
	}
	s.finish()
	return s
}

func mergeTasks(parts []*TaskStats) *TaskStats {
	s := &TaskStats{}
	for _, p := range parts {
		s.Total += p.Total
		s.Completed += p.Completed
		s.timed += p.timed
		s.totalTime += p.totalTime
	}
	s.finish()
	return s
}

func (s *TaskStats) finish() {
	s.Incomplete = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total)
	}
	if s.timed > 0 {
		avg := s.totalTime / time.Duration(s.timed)
		s.AvgTimeToCompleteMinutes = int(math.Round(avg.Minutes()))
	}
}
