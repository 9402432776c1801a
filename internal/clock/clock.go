// Package clock resolves a user's current calendar date from their timezone.
package clock

import (
	"time"

	"github.com/manav03panchal/daymark/internal/model"
)

// Clock reports the current date in a user's timezone. Now is injectable so
// tests can pin the wall clock.
type Clock struct {
	Now func() time.Time
}

// New returns a Clock backed by the system clock.
func New() *Clock {
	return &Clock{Now: time.Now}
}

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) *Clock {
	return &Clock{Now: func() time.Time { return t }}
}

// Location resolves an IANA zone name. Empty or unknown names resolve to UTC.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today returns the YYYY-MM-DD date of the current instant in tz.
func (c *Clock) Today(tz string) string {
	return c.Now().In(Location(tz)).Format(model.DateLayout)
}

// Yesterday returns the date before Today in tz.
func (c *Clock) Yesterday(tz string) string {
	return ShiftDate(c.Today(tz), -1)
}

// ShiftDate moves a YYYY-MM-DD date by days. Invalid input is returned unchanged.
func ShiftDate(date string, days int) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(model.DateLayout)
}
