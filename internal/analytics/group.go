package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// GroupBy is the bucketing period of a query.
type GroupBy string

const (
	GroupNone  GroupBy = "none"
	GroupDay   GroupBy = "day"
	GroupWeek  GroupBy = "week"
	GroupMonth GroupBy = "month"
	GroupYear  GroupBy = "year"
)

// ParseGroupBy validates a grouping name. Empty means day.
func ParseGroupBy(name string) (GroupBy, error) {
	g := GroupBy(strings.ToLower(strings.TrimSpace(name)))
	switch g {
	case "":
		return GroupDay, nil
	case GroupNone, GroupDay, GroupWeek, GroupMonth, GroupYear:
		return g, nil
	default:
		return "", errors.NewValidationErrorWithValue("groupBy", name,
			"must be none, day, week, month or year", nil)
	}
}

// Period returns the bucket key of a YYYY-MM-DD date: the date itself for
// none and day, the Monday of its week, YYYY-MM or YYYY.
func (g GroupBy) Period(date string) (string, error) {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return "", err
	}
	switch g {
	case GroupWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format(model.DateLayout), nil
	case GroupMonth:
		return t.Format("2006-01"), nil
	case GroupYear:
		return t.Format("2006"), nil
	default:
		return t.Format(model.DateLayout), nil
	}
}

// group is the items of one bucket.
type group[T any] struct {
	period string
	items  []T
}

// groupItems buckets items by period in ascending order. With GroupNone
// every item is its own bucket. Items with an invalid date are dropped.
func groupItems[T any](items []T, date func(T) string, g GroupBy) []group[T] {
	groups := make([]group[T], 0)
	index := make(map[string]int)
	for _, item := range items {
		period, err := g.Period(date(item))
		if err != nil {
			continue
		}
		if g == GroupNone {
			groups = append(groups, group[T]{period: period, items: []T{item}})
			continue
		}
		i, ok := index[period]
		if !ok {
			i = len(groups)
			index[period] = i
			groups = append(groups, group[T]{period: period})
		}
		groups[i].items = append(groups[i].items, item)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].period < groups[j].period
	})
	return groups
}
