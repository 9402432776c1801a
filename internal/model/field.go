package model

import (
	"sort"
	"time"
)

// FieldType is the declared type of a template field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeCurrency FieldType = "currency"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeBoolean  FieldType = "boolean"
)

// Boolean field values are stored as these literal strings everywhere.
const (
	BoolTrue  = "true"
	BoolFalse = "false"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeCurrency,
	FieldTypeDate,
	FieldTypeTime,
	FieldTypeDateTime,
	FieldTypeBoolean,
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultValue returns the value a field shows on a date with no stored row.
func (t FieldType) DefaultValue() string {
	if t == FieldTypeBoolean {
		return BoolFalse
	}
	return ""
}

// FieldTemplate defines a field whose key and type persist across dates.
type FieldTemplate struct {
	Key        string    `json:"key"`
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FieldKey   string    `json:"field_key" validate:"required,max=64"`
	FieldType  FieldType `json:"field_type" validate:"required"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetKey sets the database key for this template.
func (f *FieldTemplate) SetKey(key string) {
	f.Key = key
}

// GetKey returns the database key for this template.
func (f *FieldTemplate) GetKey() string {
	return f.Key
}

// GenerateTemplateKey generates a database key for a field template.
func GenerateTemplateKey(userID, id string) string {
	return joinKey(PrefixTemplate, userID, id)
}

// NewFieldTemplate creates a template with the given parameters.
func NewFieldTemplate(userID, fieldKey string, fieldType FieldType, orderIndex int) *FieldTemplate {
	return &FieldTemplate{
		UserID:     userID,
		FieldKey:   fieldKey,
		FieldType:  fieldType,
		OrderIndex: orderIndex,
		CreatedAt:  time.Now().UTC(),
	}
}

// SortTemplates orders templates by order index, then id for a stable result.
func SortTemplates(templates []*FieldTemplate) {
	sort.SliceStable(templates, func(i, j int) bool {
		if templates[i].OrderIndex != templates[j].OrderIndex {
			return templates[i].OrderIndex < templates[j].OrderIndex
		}
		return templates[i].ID < templates[j].ID
	})
}

// DailyFieldValue is the value of a field on one date.
type DailyFieldValue struct {
	Key        string    `json:"key"`
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	FieldKey   string    `json:"field_key"`
	Value      string    `json:"value"`
	FieldType  FieldType `json:"field_type"`
	IsTemplate bool      `json:"is_template"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SetKey sets the database key for this value.
func (v *DailyFieldValue) SetKey(key string) {
	v.Key = key
}

// GetKey returns the database key for this value.
func (v *DailyFieldValue) GetKey() string {
	return v.Key
}

// GenerateFieldValueKey generates a database key for a field value.
func GenerateFieldValueKey(userID, date, fieldKey string) string {
	return joinKey(PrefixFieldValue, userID, date, fieldKey)
}

// FieldValueDatePrefix returns the key prefix for every field value of a user on a date.
func FieldValueDatePrefix(userID, date string) string {
	return joinKey(PrefixFieldValue, userID, date) + ":"
}

// ResolvedField is one field of a materialized day.
type ResolvedField struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	FieldType FieldType `json:"field_type"`
}
