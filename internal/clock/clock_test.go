package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToday(t *testing.T) {
	// 02:30 UTC on Jan 5 is still Jan 4 in New York and already Jan 5 in Tokyo.
	c := Fixed(time.Date(2024, 1, 5, 2, 30, 0, 0, time.UTC))

	tests := []struct {
		tz   string
		want string
	}{
		{"UTC", "2024-01-05"},
		{"America/New_York", "2024-01-04"},
		{"Asia/Tokyo", "2024-01-05"},
		{"", "2024-01-05"},
		{"Not/AZone", "2024-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Today(tt.tz))
		})
	}
}

func TestLocationFailsClosedToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Location("bogus"))
	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, "Europe/Paris", Location("Europe/Paris").String())
}

func TestYesterdayAndShift(t *testing.T) {
	c := Fixed(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-29", c.Yesterday("UTC"))
	assert.Equal(t, "2025-01-01", ShiftDate("2024-12-31", 1))
	assert.Equal(t, "garbage", ShiftDate("garbage", 1))
}

func TestNewUsesSystemClock(t *testing.T) {
	c := New()
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), c.Today("UTC"))
}
