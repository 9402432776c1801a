// Package validate provides input validation helpers for Daymark.
// Every function returns a *errors.ValidationError describing how to fix the input.
package validate

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

const (
	// MaxFieldKeyLength is the maximum length for a field key.
	MaxFieldKeyLength = 64
	// MaxNameLength is the maximum length for counter and tracker names.
	MaxNameLength = 128
	// MaxTitleLength is the maximum length for a task title.
	MaxTitleLength = 512
	// MaxTextLength is the maximum length for entries and field values.
	MaxTextLength = 65536
	// MaxUserIDLength is the maximum length for an opaque user id.
	MaxUserIDLength = 128
)

// dateTimeLayouts are the accepted layouts for datetime field values.
var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Date validates a YYYY-MM-DD date key.
func Date(field, value string) error {
	if _, err := ParseDate(field, value); err != nil {
		return err
	}
	return nil
}

// ParseDate validates and parses a YYYY-MM-DD date key as midnight UTC.
func ParseDate(field, value string) (time.Time, error) {
	if len(value) != len(model.DateLayout) {
		return time.Time{}, errors.NewValidationErrorWithValue(field, value,
			"must be a YYYY-MM-DD date", errors.ErrInvalidDate)
	}
	t, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, errors.NewValidationErrorWithValue(field, value,
			"must be a YYYY-MM-DD date", errors.ErrInvalidDate)
	}
	return t, nil
}

// DateRange validates an inclusive date range no longer than maxDays.
// It returns the number of days covered.
func DateRange(start, end string, maxDays int) (int, error) {
	s, err := ParseDate("startDate", start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate("endDate", end)
	if err != nil {
		return 0, err
	}
	if e.Before(s) {
		return 0, errors.NewValidationErrorWithValue("endDate", end,
			"must not be before startDate "+start, errors.ErrEndBeforeStart)
	}
	days := int(e.Sub(s).Hours()/24) + 1
	if maxDays > 0 && days > maxDays {
		return 0, errors.NewValidationErrorWithValue("endDate", end,
			"range covers "+strconv.Itoa(days)+" days, limit is "+strconv.Itoa(maxDays),
			errors.ErrRangeTooLarge)
	}
	return days, nil
}

// UserID validates an opaque user identifier supplied by the identity layer.
func UserID(id string) error {
	if id == "" {
		return errors.NewValidationError("userId", "cannot be empty")
	}
	if len(id) > MaxUserIDLength || strings.ContainsAny(id, ":\x00") {
		return errors.NewValidationErrorWithValue("userId", id,
			"must be at most 128 characters without ':'", nil)
	}
	return nil
}

// FieldKey validates a template or daily-only field key.
func FieldKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.NewValidationErrorWithValue("key", key, "cannot be empty", errors.ErrInvalidFieldKey)
	}
	if utf8.RuneCountInString(trimmed) > MaxFieldKeyLength || strings.ContainsAny(trimmed, ":\x00") {
		return errors.NewValidationErrorWithValue("key", key,
			"must be 1-64 characters without ':'", errors.ErrInvalidFieldKey)
	}
	return nil
}

// FieldType validates and converts a field type name.
func FieldType(name string) (model.FieldType, error) {
	t := model.FieldType(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", errors.NewValidationErrorWithValue("type", name, "unknown field type", errors.ErrInvalidFieldType)
	}
	return t, nil
}

// FieldValue validates a raw value against a field type and returns its
// canonical stored form. Empty values are always accepted.
func FieldValue(t model.FieldType, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return t.DefaultValue(), nil
	}

	invalid := func(msg string) error {
		return errors.NewValidationErrorWithValue("value", value, msg, errors.ErrInvalidValue)
	}

	switch t {
	case model.FieldTypeText:
		if utf8.RuneCountInString(value) > MaxTextLength {
			return "", invalid("text too long")
		}
		return StripControlChars(value), nil
	case model.FieldTypeNumber, model.FieldTypeCurrency:
		if _, err := ParseAmount(value); err != nil {
			return "", invalid("must be a number")
		}
		return value, nil
	case model.FieldTypeDate:
		if err := Date("value", value); err != nil {
			return "", err
		}
		return value, nil
	case model.FieldTypeTime:
		if err := TimeOfDay("value", value); err != nil {
			return "", err
		}
		return value, nil
	case model.FieldTypeDateTime:
		for _, layout := range dateTimeLayouts {
			if _, err := time.Parse(layout, value); err == nil {
				return value, nil
			}
		}
		return "", invalid("must be YYYY-MM-DDTHH:MM")
	case model.FieldTypeBoolean:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", invalid("must be true or false")
		}
		if b {
			return model.BoolTrue, nil
		}
		return model.BoolFalse, nil
	default:
		return "", errors.NewValidationErrorWithValue("type", string(t), "unknown field type", errors.ErrInvalidFieldType)
	}
}

// Amounts carry at most MaxAmountDigits digits on either side of the point.
// maxAmountLength caps the cleaned input before it is parsed.
const (
	MaxAmountDigits = 30
	maxAmountLength = 128
)

// ParseAmount parses a number or currency amount. Currency symbols, spaces
// and thousands separators are ignored. Values with more than
// MaxAmountDigits integer or fractional digits fail with errors.ErrAmountRange.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if len(cleaned) > maxAmountLength {
		return decimal.Zero, errors.ErrAmountRange
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	// bound the exponent before anything rescales the coefficient
	exp := int64(d.Exponent())
	if exp < -MaxAmountDigits || exp > MaxAmountDigits ||
		int64(d.NumDigits())+exp > MaxAmountDigits {
		return decimal.Zero, errors.ErrAmountRange
	}
	return d, nil
}

// TimeOfDay validates an HH:MM wall-clock time.
func TimeOfDay(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("15:04", value); err != nil {
		return errors.NewValidationErrorWithValue(field, value, "must be HH:MM", errors.ErrInvalidValue)
	}
	return nil
}

// Timezone validates an IANA zone name.
func Timezone(name string) error {
	if name == "" {
		return errors.NewValidationError("timezone", "cannot be empty")
	}
	if _, err := time.LoadLocation(name); err != nil {
		return errors.NewValidationErrorWithValue("timezone", name, "unknown IANA timezone", nil)
	}
	return nil
}

// Name validates a counter or tracker name.
func Name(field, name string) error {
	return Text(field, strings.TrimSpace(name), 1, MaxNameLength)
}

// Text validates a free-text length in runes.
func Text(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		return errors.NewValidationError(field, "cannot be empty")
	}
	if n > max {
		return errors.NewValidationError(field, "must be at most "+strconv.Itoa(max)+" characters")
	}
	return nil
}

// NonNegative validates an integer bound where zero means unlimited.
func NonNegative(field string, value int) error {
	if value < 0 {
		return errors.NewValidationErrorWithValue(field, strconv.Itoa(value), "must be zero or positive", nil)
	}
	return nil
}
