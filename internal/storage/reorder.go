package storage

import (
	"encoding/json"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	daymarkerrors "github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// orderIndexField is the JSON name of the order index on every draggable row.
const orderIndexField = "order_index"

// Reorder applies a bulk order-index update to one of the draggable tables.
// The whole update commits in a single transaction; an unknown id aborts it.
func (d *DB) Reorder(table model.Table, userID string, updates []model.OrderUpdate) error {
	prefix, ok := table.Prefix()
	if !ok {
		return daymarkerrors.NewValidationErrorWithValue("table", string(table),
			"unknown table", daymarkerrors.ErrUnknownTable)
	}

	return d.Batch(func(tx *Tx) error {
		for _, u := range updates {
			key := prefix + ":" + userID + ":" + u.ID
			if err := tx.patchOrderIndex(key, u.OrderIndex); err != nil {
				if errors.Is(err, ErrKeyNotFound) {
					return daymarkerrors.NewNotFoundError(string(table), u.ID, err)
				}
				return err
			}
		}
		return nil
	})
}

// patchOrderIndex rewrites the order_index of a stored document without
// decoding it into a concrete model.
func (t *Tx) patchOrderIndex(key string, orderIndex int) error {
	item, err := t.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return err
	}

	var doc map[string]json.RawMessage
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return err
	}

	raw, err := json.Marshal(orderIndex)
	if err != nil {
		return err
	}
	doc[orderIndexField] = raw

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return t.txn.Set([]byte(key), data)
}
