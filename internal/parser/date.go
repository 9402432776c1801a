// Package parser resolves the natural-language dates and periods accepted by
// CLI flags into the YYYY-MM-DD keys the journal stores.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/manav03panchal/daymark/internal/model"
)

// ResolveDate turns input into a date key relative to now. Empty input and
// "today" mean now's date; YYYY-MM-DD passes through; anything else goes
// through go-dateparser. now's location decides which calendar day an
// instant falls on.
func ResolveDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "today", "now":
		return now.Format(model.DateLayout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(model.DateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(model.DateLayout), nil
	}

	if t, err := time.Parse(model.DateLayout, input); err == nil {
		return t.Format(model.DateLayout), nil
	}

	t, err := parseNatural(input, now)
	if err != nil {
		return "", NewDateError("date", input)
	}
	return t.In(now.Location()).Format(model.DateLayout), nil
}

// ResolveTime turns input into an instant relative to now. Empty input and
// "now" mean now.
func ResolveTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "now") {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	t, err := parseNatural(input, now)
	if err != nil {
		return time.Time{}, NewTimeError("time", input)
	}
	return t, nil
}

func parseNatural(input string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, err
	}
	return result.Time, nil
}

// periodRegex matches period expressions like "this week", "last month".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(week|month|quarter|year)$`)

// lastDaysRegex matches rolling windows like "last 30 days".
var lastDaysRegex = regexp.MustCompile(`(?i)^(?:last|past)\s+(\d+)\s+days?$`)

// DateRange is an inclusive range of date keys.
type DateRange struct {
	Start string
	End   string
}

// ResolveRange turns a period name into an inclusive date range relative to
// now. Weeks start on Monday. "last N days" ends today.
func ResolveRange(input string, now time.Time) (DateRange, error) {
	input = strings.TrimSpace(input)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	span := func(start, end time.Time) DateRange {
		return DateRange{Start: start.Format(model.DateLayout), End: end.Format(model.DateLayout)}
	}

	switch strings.ToLower(input) {
	case "", "today":
		return span(day, day), nil
	case "yesterday":
		y := day.AddDate(0, 0, -1)
		return span(y, y), nil
	}

	if match := lastDaysRegex.FindStringSubmatch(input); match != nil {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 {
			return DateRange{}, NewRangeError(input)
		}
		return span(day.AddDate(0, 0, -(n-1)), day), nil
	}

	match := periodRegex.FindStringSubmatch(input)
	if match == nil {
		return DateRange{}, NewRangeError(input)
	}
	previous := strings.EqualFold(match[1], "last") || strings.EqualFold(match[1], "previous")

	var start, end time.Time
	switch strings.ToLower(match[2]) {
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		if previous {
			start = start.AddDate(0, 0, -7)
		}
		end = start.AddDate(0, 0, 6)

	case "month":
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		if previous {
			start = start.AddDate(0, -1, 0)
		}
		end = start.AddDate(0, 1, -1)

	case "quarter":
		quarter := (int(day.Month()) - 1) / 3
		start = time.Date(day.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, day.Location())
		if previous {
			start = start.AddDate(0, -3, 0)
		}
		end = start.AddDate(0, 3, -1)

	case "year":
		start = time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
		if previous {
			start = start.AddDate(-1, 0, 0)
		}
		end = start.AddDate(1, 0, -1)
	}

	return span(start, end), nil
}
