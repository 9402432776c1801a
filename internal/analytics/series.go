// Package analytics aggregates per-date journal values over a date range.
//
// A series is one of four closed variants: numeric, boolean, categorical or
// task. Each variant is bucketed by period, aggregated with its own
// statistics, summarized over its buckets and classified by trend. Several
// series can be combined into a per-period sum.
package analytics

import (
	"fmt"
	"time"

	"github.com/manav03panchal/daymark/internal/model"
)

// Kind names the aggregation family of a series.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindBoolean     Kind = "boolean"
	KindCategorical Kind = "categorical"
	KindTask        Kind = "task"
)

// Sample is one raw value recorded on a date.
type Sample struct {
	Date  string
	Value string
}

// TaskSample is one task scheduled on a date.
type TaskSample struct {
	Date        string
	Done        bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Series is a named raw time series. The set of implementations is closed.
type Series interface {
	Kind() Kind
	seriesName() string
}

// NumericSeries holds number or currency samples. Additive series (counters,
// timers) are represented per bucket by their sum, others by their average.
type NumericSeries struct {
	Name     string
	Additive bool
	Samples  []Sample
}

// BooleanSeries holds "true"/"false" samples.
type BooleanSeries struct {
	Name    string
	Samples []Sample
}

// CategoricalSeries holds free-form samples counted by value.
type CategoricalSeries struct {
	Name    string
	Samples []Sample
}

// TaskSeries holds the tasks of a range.
type TaskSeries struct {
	Name  string
	Tasks []TaskSample
}

func (s *NumericSeries) Kind() Kind     { return KindNumeric }
func (s *BooleanSeries) Kind() Kind     { return KindBoolean }
func (s *CategoricalSeries) Kind() Kind { return KindCategorical }
func (s *TaskSeries) Kind() Kind        { return KindTask }

func (s *NumericSeries) seriesName() string     { return s.Name }
func (s *BooleanSeries) seriesName() string     { return s.Name }
func (s *CategoricalSeries) seriesName() string { return s.Name }
func (s *TaskSeries) seriesName() string        { return s.Name }

// SeriesFor wraps the samples of a field in the variant its type aggregates
// as. Every model.FieldType must map to a variant.
func SeriesFor(name string, t model.FieldType, samples []Sample) (Series, error) {
	switch t {
	case model.FieldTypeNumber, model.FieldTypeCurrency:
		return &NumericSeries{Name: name, Samples: samples}, nil
	case model.FieldTypeBoolean:
		return &BooleanSeries{Name: name, Samples: samples}, nil
	case model.FieldTypeText, model.FieldTypeDate, model.FieldTypeTime, model.FieldTypeDateTime:
		return &CategoricalSeries{Name: name, Samples: samples}, nil
	default:
		return nil, fmt.Errorf("no aggregation for field type %q", t)
	}
}
