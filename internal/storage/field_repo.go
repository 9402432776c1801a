package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// newID returns a UUID v7 string so that ids sort by creation time.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// TemplateRepo provides operations for FieldTemplate entities.
type TemplateRepo struct {
	db *DB
}

// NewTemplateRepo creates a new template repository.
func NewTemplateRepo(db *DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

// Create stores a new template. A template whose key matches an existing
// one (case-insensitively) is rejected with a ConflictError.
func (r *TemplateRepo) Create(tmpl *model.FieldTemplate) error {
	id, err := newID()
	if err != nil {
		return err
	}
	tmpl.ID = id
	tmpl.Key = model.GenerateTemplateKey(tmpl.UserID, id)

	return r.db.Batch(func(tx *Tx) error {
		existing, err := findTemplate(tx, tmpl.UserID, tmpl.FieldKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.NewConflictError("template", tmpl.FieldKey)
		}
		return tx.Set(tmpl)
	})
}

// Get retrieves a template by id.
func (r *TemplateRepo) Get(userID, id string) (*model.FieldTemplate, error) {
	tmpl := &model.FieldTemplate{}
	if err := r.db.Get(model.GenerateTemplateKey(userID, id), tmpl); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.NewNotFoundError("template", id, errors.ErrTemplateNotFound)
		}
		return nil, err
	}
	return tmpl, nil
}

// FindByKey retrieves a template by its field key.
func (r *TemplateRepo) FindByKey(userID, fieldKey string) (*model.FieldTemplate, error) {
	var found *model.FieldTemplate
	err := r.db.View(func(tx *Tx) error {
		var err error
		found, err = findTemplate(tx, userID, fieldKey)
		return err
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errors.NewNotFoundError("template", fieldKey, errors.ErrTemplateNotFound)
	}
	return found, nil
}

// Update stores changes to an existing template.
func (r *TemplateRepo) Update(tmpl *model.FieldTemplate) error {
	return r.db.Set(tmpl)
}

// List retrieves a user's templates in display order.
func (r *TemplateRepo) List(userID string) ([]*model.FieldTemplate, error) {
	templates, err := GetAllByPrefix(r.db, model.UserPrefix(model.PrefixTemplate, userID), func() *model.FieldTemplate {
		return &model.FieldTemplate{}
	})
	if err != nil {
		return nil, err
	}
	model.SortTemplates(templates)
	return templates, nil
}

// Count returns how many templates a user has.
func (r *TemplateRepo) Count(userID string) (int, error) {
	keys, err := r.db.ListByPrefix(model.UserPrefix(model.PrefixTemplate, userID))
	return len(keys), err
}

// DeleteWithValue removes a template and, in the same transaction, its
// value on the given date. Values on other dates are left untouched.
func (r *TemplateRepo) DeleteWithValue(userID, id, date string) (*model.FieldTemplate, error) {
	tmpl := &model.FieldTemplate{}
	err := r.db.Batch(func(tx *Tx) error {
		if err := tx.Get(model.GenerateTemplateKey(userID, id), tmpl); err != nil {
			if IsErrKeyNotFound(err) {
				return errors.NewNotFoundError("template", id, errors.ErrTemplateNotFound)
			}
			return err
		}
		if err := tx.Delete(tmpl.Key); err != nil {
			return err
		}
		return tx.Delete(model.GenerateFieldValueKey(userID, date, tmpl.FieldKey))
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// findTemplate scans a user's templates for a field key.
func findTemplate(tx *Tx, userID, fieldKey string) (*model.FieldTemplate, error) {
	matches, err := scan(tx, model.UserPrefix(model.PrefixTemplate, userID), model.UserPrefix(model.PrefixTemplate, userID), "",
		func() *model.FieldTemplate { return &model.FieldTemplate{} },
		func(t *model.FieldTemplate) bool { return strings.EqualFold(t.FieldKey, fieldKey) }, 1)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

// FieldValueRepo provides operations for DailyFieldValue entities.
type FieldValueRepo struct {
	db *DB
}

// NewFieldValueRepo creates a new field value repository.
func NewFieldValueRepo(db *DB) *FieldValueRepo {
	return &FieldValueRepo{db: db}
}

// Get retrieves the value of a field on a date.
func (r *FieldValueRepo) Get(userID, date, fieldKey string) (*model.DailyFieldValue, error) {
	v := &model.DailyFieldValue{}
	if err := r.db.Get(model.GenerateFieldValueKey(userID, date, fieldKey), v); err != nil {
		return nil, err
	}
	return v, nil
}

// Upsert creates the row on first write for a date, or updates it.
func (r *FieldValueRepo) Upsert(v *model.DailyFieldValue) error {
	v.Key = model.GenerateFieldValueKey(v.UserID, v.Date, v.FieldKey)
	now := time.Now().UTC()

	return r.db.Batch(func(tx *Tx) error {
		existing := &model.DailyFieldValue{}
		err := tx.Get(v.Key, existing)
		switch {
		case err == nil:
			v.ID = existing.ID
			v.CreatedAt = existing.CreatedAt
		case IsErrKeyNotFound(err):
			id, err := newID()
			if err != nil {
				return err
			}
			v.ID = id
			v.CreatedAt = now
		default:
			return err
		}
		v.UpdatedAt = now
		return tx.Set(v)
	})
}

// Delete removes the value of a field on a date.
func (r *FieldValueRepo) Delete(userID, date, fieldKey string) error {
	return r.db.Delete(model.GenerateFieldValueKey(userID, date, fieldKey))
}

// ListForDate retrieves every field value of a user on a date.
func (r *FieldValueRepo) ListForDate(userID, date string) ([]*model.DailyFieldValue, error) {
	return GetAllByPrefix(r.db, model.FieldValueDatePrefix(userID, date), func() *model.DailyFieldValue {
		return &model.DailyFieldValue{}
	})
}

// ListByKeyInRange retrieves one field's values over an inclusive date range,
// ordered by date.
func (r *FieldValueRepo) ListByKeyInRange(userID, fieldKey, start, end string) ([]*model.DailyFieldValue, error) {
	return GetRange(r.db, model.UserPrefix(model.PrefixFieldValue, userID), start, end,
		func() *model.DailyFieldValue { return &model.DailyFieldValue{} },
		func(v *model.DailyFieldValue) bool { return v.FieldKey == fieldKey })
}
