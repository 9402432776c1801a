package journal

import (
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/storage"
	"github.com/manav03panchal/daymark/internal/validate"
)

// =============================================================================
// Templates
// =============================================================================

// CreateTemplate defines a field that appears on every date. Keys are
// unique per user ignoring case.
func (s *Service) CreateTemplate(userID, fieldKey, fieldType string) (*model.FieldTemplate, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	fieldKey = validate.SanitizeName(fieldKey)
	if err := validate.FieldKey(fieldKey); err != nil {
		return nil, err
	}
	t, err := validate.FieldType(fieldType)
	if err != nil {
		return nil, err
	}

	count, err := s.templates.Count(userID)
	if err != nil {
		return nil, wrap("template.create", err)
	}
	tmpl := model.NewFieldTemplate(userID, fieldKey, t, count)
	if err := s.templates.Create(tmpl); err != nil {
		return nil, wrap("template.create", err)
	}
	s.touch(userID)
	return tmpl, nil
}

// UpdateTemplateType changes a template's type. Stored values keep their
// text; the new type applies from the next read on.
func (s *Service) UpdateTemplateType(userID, id, fieldType string) (*model.FieldTemplate, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	t, err := validate.FieldType(fieldType)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.templates.Get(userID, id)
	if err != nil {
		return nil, wrap("template.update", err)
	}
	tmpl.FieldType = t
	if err := s.templates.Update(tmpl); err != nil {
		return nil, wrap("template.update", err)
	}
	s.touch(userID)
	return tmpl, nil
}

// DeleteTemplate removes a template and its value on the user's current
// date. Values recorded on other dates stay for analytics.
func (s *Service) DeleteTemplate(userID, id string) error {
	user, err := s.user(userID)
	if err != nil {
		return err
	}
	today := s.clock.Today(user.Timezone)
	if _, err := s.templates.DeleteWithValue(userID, id, today); err != nil {
		return wrap("template.delete", err)
	}
	s.touch(userID)
	return nil
}

// ListTemplates returns a user's templates in display order.
func (s *Service) ListTemplates(userID string) ([]*model.FieldTemplate, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	templates, err := s.templates.List(userID)
	return templates, wrap("template.list", err)
}

// =============================================================================
// Values
// =============================================================================

// SetFieldValue records a template field's value on date (today when empty).
// The value is validated against the template's current type.
func (s *Service) SetFieldValue(userID, date, fieldKey, value string) (*model.DailyFieldValue, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return nil, err
	}
	tmpl, err := s.templates.FindByKey(userID, fieldKey)
	if err != nil {
		return nil, wrap("field.set", err)
	}
	normalized, err := validate.FieldValue(tmpl.FieldType, value)
	if err != nil {
		return nil, err
	}

	row := &model.DailyFieldValue{
		UserID:     userID,
		Date:       date,
		FieldKey:   tmpl.FieldKey,
		Value:      normalized,
		FieldType:  tmpl.FieldType,
		IsTemplate: true,
	}
	if err := s.values.Upsert(row); err != nil {
		return nil, wrap("field.set", err)
	}
	s.touch(userID, date)
	return row, nil
}

// SetDailyField records a one-off field that exists on a single date only.
// Its key may not shadow a template.
func (s *Service) SetDailyField(userID, date, fieldKey, fieldType, value string) (*model.DailyFieldValue, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return nil, err
	}
	fieldKey = validate.SanitizeName(fieldKey)
	if err := validate.FieldKey(fieldKey); err != nil {
		return nil, err
	}
	t, err := validate.FieldType(fieldType)
	if err != nil {
		return nil, err
	}
	normalized, err := validate.FieldValue(t, value)
	if err != nil {
		return nil, err
	}

	if _, err := s.templates.FindByKey(userID, fieldKey); err == nil {
		return nil, errors.NewConflictError("template", fieldKey)
	} else if !errors.IsNotFoundError(err) {
		return nil, wrap("field.daily", err)
	}

	row := &model.DailyFieldValue{
		UserID:    userID,
		Date:      date,
		FieldKey:  fieldKey,
		Value:     normalized,
		FieldType: t,
	}
	if err := s.values.Upsert(row); err != nil {
		return nil, wrap("field.daily", err)
	}
	s.touch(userID, date)
	return row, nil
}

// DeleteDailyField removes a one-off field from a date. Template values are
// cleared by writing an empty value instead.
func (s *Service) DeleteDailyField(userID, date, fieldKey string) error {
	user, err := s.user(userID)
	if err != nil {
		return err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return err
	}
	row, err := s.values.Get(userID, date, fieldKey)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return errors.NewNotFoundError("field", fieldKey, nil)
		}
		return wrap("field.delete", err)
	}
	if row.IsTemplate {
		return errors.NewValidationErrorWithValue("fieldKey", fieldKey,
			"belongs to a template; set an empty value to clear it", nil)
	}
	if err := s.values.Delete(userID, date, fieldKey); err != nil {
		return wrap("field.delete", err)
	}
	s.touch(userID, date)
	return nil
}

// =============================================================================
// Sleep
// =============================================================================

// SleepUpdate carries optional changes to a date's sleep metrics. An empty
// string clears a metric.
type SleepUpdate struct {
	PreviousBedtime *string `json:"previousBedtime"`
	WakeTime        *string `json:"wakeTime"`
}

// SetSleep records the sleep metrics of date (today when empty).
func (s *Service) SetSleep(userID, date string, update SleepUpdate) (*model.DayLog, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return nil, err
	}
	log, err := s.dayLogs.Get(userID, date)
	if err != nil {
		return nil, wrap("sleep.set", err)
	}
	if update.PreviousBedtime != nil {
		if err := validate.TimeOfDay("previousBedtime", *update.PreviousBedtime); err != nil {
			return nil, err
		}
		log.PreviousBedtime = *update.PreviousBedtime
	}
	if update.WakeTime != nil {
		if err := validate.TimeOfDay("wakeTime", *update.WakeTime); err != nil {
			return nil, err
		}
		log.WakeTime = *update.WakeTime
	}
	if err := s.dayLogs.Save(log); err != nil {
		return nil, wrap("sleep.set", err)
	}
	s.touch(userID, date)
	return log, nil
}
