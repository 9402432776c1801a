// Package journal materializes a user's day and applies mutations to it.
//
// A day view is assembled from persistent definitions (field templates,
// counters, trackers) overlaid with the rows recorded for one date. Reads go
// through a StateCache; every mutation invalidates the affected entries
// before it returns.
package journal

import (
	"sort"

	"github.com/manav03panchal/daymark/internal/model"
)

// MergeFields overlays the values recorded on one date onto the user's
// templates. It returns exactly one resolved field per template, in template
// order, plus the date's daily-only fields. A template without a stored
// value resolves to its type's default. The template's current type always
// wins over the type stored with the value. Inputs are not modified.
func MergeFields(templates []*model.FieldTemplate, values []*model.DailyFieldValue) (custom, dailyOnly []model.ResolvedField) {
	ordered := make([]*model.FieldTemplate, len(templates))
	copy(ordered, templates)
	model.SortTemplates(ordered)

	byKey := make(map[string]*model.DailyFieldValue, len(values))
	for _, v := range values {
		byKey[v.FieldKey] = v
	}

	custom = make([]model.ResolvedField, 0, len(ordered))
	claimed := make(map[string]bool, len(ordered))
	for _, tmpl := range ordered {
		value := tmpl.FieldType.DefaultValue()
		if v, ok := byKey[tmpl.FieldKey]; ok && v.Value != "" {
			value = v.Value
		}
		claimed[tmpl.FieldKey] = true
		custom = append(custom, model.ResolvedField{
			ID:        tmpl.ID,
			Key:       tmpl.FieldKey,
			Value:     value,
			FieldType: tmpl.FieldType,
		})
	}

	extras := make([]*model.DailyFieldValue, 0)
	for _, v := range values {
		// Template-backed rows whose template is gone belong to history only.
		if v.IsTemplate || claimed[v.FieldKey] {
			continue
		}
		extras = append(extras, v)
	}
	sort.SliceStable(extras, func(i, j int) bool {
		if !extras[i].CreatedAt.Equal(extras[j].CreatedAt) {
			return extras[i].CreatedAt.Before(extras[j].CreatedAt)
		}
		return extras[i].FieldKey < extras[j].FieldKey
	})

	dailyOnly = make([]model.ResolvedField, 0, len(extras))
	for _, v := range extras {
		dailyOnly = append(dailyOnly, model.ResolvedField{
			ID:        v.ID,
			Key:       v.FieldKey,
			Value:     v.Value,
			FieldType: v.FieldType,
		})
	}
	return custom, dailyOnly
}
