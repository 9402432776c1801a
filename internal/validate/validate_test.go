package validate

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// =============================================================================
// Date Tests
// =============================================================================

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "2024-01-15", false},
		{"leap_day", "2024-02-29", false},
		{"not_leap_year", "2023-02-29", true},
		{"short_month", "2024-1-15", true},
		{"slashes", "2024/01/15", true},
		{"month_13", "2024-13-01", true},
		{"empty", "", true},
		{"with_time", "2024-01-15T10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Date("date", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidDate)
				assert.True(t, errors.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	t.Run("single_day", func(t *testing.T) {
		days, err := DateRange("2024-01-01", "2024-01-01", 10)
		require.NoError(t, err)
		assert.Equal(t, 1, days)
	})

	t.Run("crosses_leap_day", func(t *testing.T) {
		days, err := DateRange("2024-02-28", "2024-03-01", 10)
		require.NoError(t, err)
		assert.Equal(t, 3, days)
	})

	t.Run("end_before_start", func(t *testing.T) {
		_, err := DateRange("2024-01-10", "2024-01-01", 10)
		assert.ErrorIs(t, err, errors.ErrEndBeforeStart)
	})

	t.Run("too_large", func(t *testing.T) {
		_, err := DateRange("2024-01-01", "2024-01-11", 10)
		assert.ErrorIs(t, err, errors.ErrRangeTooLarge)
	})

	t.Run("no_limit", func(t *testing.T) {
		days, err := DateRange("2000-01-01", "2024-01-01", 0)
		require.NoError(t, err)
		assert.Greater(t, days, 8000)
	})

	t.Run("invalid_start", func(t *testing.T) {
		_, err := DateRange("nope", "2024-01-01", 10)
		assert.ErrorIs(t, err, errors.ErrInvalidDate)
	})
}

// =============================================================================
// Identity and Key Tests
// =============================================================================

func TestUserID(t *testing.T) {
	assert.NoError(t, UserID("user-1"))
	assert.NoError(t, UserID("auth0|abc123"))
	assert.Error(t, UserID(""))
	assert.Error(t, UserID("a:b"))
	assert.Error(t, UserID(strings.Repeat("x", MaxUserIDLength+1)))
}

func TestFieldKey(t *testing.T) {
	assert.NoError(t, FieldKey("mood"))
	assert.NoError(t, FieldKey("Morning Weight"))
	assert.NoError(t, FieldKey(strings.Repeat("k", MaxFieldKeyLength)))

	for _, bad := range []string{"", "   ", "a:b", strings.Repeat("k", MaxFieldKeyLength+1)} {
		err := FieldKey(bad)
		assert.ErrorIs(t, err, errors.ErrInvalidFieldKey, "key %q", bad)
	}
}

func TestFieldType(t *testing.T) {
	for _, ft := range model.FieldTypes {
		got, err := FieldType(string(ft))
		require.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	got, err := FieldType("  Number ")
	require.NoError(t, err)
	assert.Equal(t, model.FieldTypeNumber, got)

	_, err = FieldType("color")
	assert.ErrorIs(t, err, errors.ErrInvalidFieldType)
}

// =============================================================================
// FieldValue Tests
// =============================================================================

func TestFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		typ     model.FieldType
		value   string
		want    string
		wantErr bool
	}{
		{"text", model.FieldTypeText, "hello", "hello", false},
		{"text_control_chars", model.FieldTypeText, "a\x07b", "ab", false},
		{"number", model.FieldTypeNumber, "72.5", "72.5", false},
		{"number_negative", model.FieldTypeNumber, "-3", "-3", false},
		{"number_invalid", model.FieldTypeNumber, "abc", "", true},
		{"currency_symbol", model.FieldTypeCurrency, "$1,250.50", "$1,250.50", false},
		{"currency_invalid", model.FieldTypeCurrency, "$$x", "", true},
		{"date", model.FieldTypeDate, "2024-03-01", "2024-03-01", false},
		{"date_invalid", model.FieldTypeDate, "03/01/2024", "", true},
		{"time", model.FieldTypeTime, "07:30", "07:30", false},
		{"time_invalid", model.FieldTypeTime, "25:00", "", true},
		{"datetime", model.FieldTypeDateTime, "2024-03-01T07:30", "2024-03-01T07:30", false},
		{"datetime_rfc3339", model.FieldTypeDateTime, "2024-03-01T07:30:00Z", "2024-03-01T07:30:00Z", false},
		{"datetime_invalid", model.FieldTypeDateTime, "tomorrow", "", true},
		{"boolean_true", model.FieldTypeBoolean, "TRUE", "true", false},
		{"boolean_one", model.FieldTypeBoolean, "1", "true", false},
		{"boolean_false", model.FieldTypeBoolean, "false", "false", false},
		{"boolean_invalid", model.FieldTypeBoolean, "yes please", "", true},
		{"empty_boolean_default", model.FieldTypeBoolean, "", "false", false},
		{"empty_number", model.FieldTypeNumber, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FieldValue(tt.typ, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldValueUnknownType(t *testing.T) {
	_, err := FieldValue(model.FieldType("color"), "red")
	assert.ErrorIs(t, err, errors.ErrInvalidFieldType)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{"$1,250.50", "1250.5"},
		{"€ 10", "10"},
		{"£3.25", "3.25"},
		{"-7.5", "-7.5"},
	}
	for _, tt := range tests {
		d, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.String(), tt.in)
	}

	_, err := ParseAmount("n/a")
	assert.Error(t, err)
}

func TestParseAmountRange(t *testing.T) {
	for _, in := range []string{
		"1e400",
		"1e300000000",
		"-1e300000000",
		"1e-300000000",
		"1e30",
		"1234567890123456789012345678901",
		"0.0000000000000000000000000000001",
		strings.Repeat("9", 200),
	} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, errors.ErrAmountRange, in)
	}

	for _, in := range []string{"1e29", "123456789012345678901234567890", "0.000000000000000000000000000001", "0e400"} {
		d, err := ParseAmount(in)
		require.NoError(t, err, in)
		f := d.InexactFloat64()
		assert.False(t, math.IsInf(f, 0) || math.IsNaN(f), in)
	}

	_, err := FieldValue(model.FieldTypeNumber, "1e400")
	assert.True(t, errors.IsValidationError(err))
	assert.ErrorIs(t, err, errors.ErrInvalidValue)
	_, err = FieldValue(model.FieldTypeCurrency, "$1e300000000")
	assert.True(t, errors.IsValidationError(err))
}

// =============================================================================
// Misc Tests
// =============================================================================

func TestTimeOfDay(t *testing.T) {
	assert.NoError(t, TimeOfDay("wakeTime", ""))
	assert.NoError(t, TimeOfDay("wakeTime", "06:45"))
	assert.Error(t, TimeOfDay("wakeTime", "6.45"))
}

func TestTimezone(t *testing.T) {
	assert.NoError(t, Timezone("UTC"))
	assert.NoError(t, Timezone("America/New_York"))
	assert.Error(t, Timezone(""))
	assert.Error(t, Timezone("Mars/Olympus"))
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("name", "Coffee"))
	assert.Error(t, Name("name", "   "))
	assert.Error(t, Name("name", strings.Repeat("n", MaxNameLength+1)))
}

func TestNonNegative(t *testing.T) {
	assert.NoError(t, NonNegative("maxDays", 0))
	assert.NoError(t, NonNegative("maxDays", 30))
	assert.Error(t, NonNegative("maxDays", -1))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Coffee", SanitizeName("  Cof\x00fee \t"))
	assert.Equal(t, "line1\nline2", SanitizeText(" line1\r\nline2 "))
	assert.Equal(t, "a\tb", StripControlChars("a\tb\x1b"))
}
