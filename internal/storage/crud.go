package storage

import (
	"encoding/json"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/daymark/internal/model"
)

var (
	// ErrKeyNotFound is returned when a key is not found in the database.
	ErrKeyNotFound = errors.New("key not found")
)

// IsErrKeyNotFound returns true if the error is a key not found error.
func IsErrKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, badger.ErrKeyNotFound)
}

// Tx is a read or read-write view of the database. Writes made through a Tx
// obtained from Batch commit atomically when the callback returns nil.
type Tx struct {
	txn *badger.Txn
}

// View runs fn in a read-only transaction.
func (d *DB) View(fn func(tx *Tx) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
}

// Batch runs fn in a read-write transaction. Nothing is written unless fn
// returns nil and the commit succeeds.
func (d *DB) Batch(fn func(tx *Tx) error) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
}

// Get retrieves a value by key and unmarshals it into v.
func (t *Tx) Get(key string, v model.Model) error {
	item, err := t.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return err
	}

	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return err
		}
		v.SetKey(key)
		return nil
	})
}

// Set stores a model under its key.
func (t *Tx) Set(v model.Model) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return t.txn.Set([]byte(v.GetKey()), data)
}

// Delete removes a key. Deleting a missing key is not an error.
func (t *Tx) Delete(key string) error {
	return t.txn.Delete([]byte(key))
}

// Exists checks if a key exists.
func (t *Tx) Exists(key string) (bool, error) {
	_, err := t.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Keys returns every key with the given prefix in ascending order.
func (t *Tx) Keys(prefix string) []string {
	var keys []string

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)
	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, string(it.Item().KeyCopy(nil)))
	}
	return keys
}

// DeletePrefix removes every key with the given prefix and returns how many
// were removed.
func (t *Tx) DeletePrefix(prefix string) (int, error) {
	keys := t.Keys(prefix)
	for _, key := range keys {
		if err := t.txn.Delete([]byte(key)); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// Get retrieves a value by key and unmarshals it into v.
func (d *DB) Get(key string, v model.Model) error {
	return d.View(func(tx *Tx) error {
		return tx.Get(key, v)
	})
}

// Set stores a model in the database.
func (d *DB) Set(v model.Model) error {
	return d.Batch(func(tx *Tx) error {
		return tx.Set(v)
	})
}

// Delete removes a key from the database.
func (d *DB) Delete(key string) error {
	return d.Batch(func(tx *Tx) error {
		return tx.Delete(key)
	})
}

// Exists checks if a key exists in the database.
func (d *DB) Exists(key string) (bool, error) {
	var exists bool
	err := d.View(func(tx *Tx) error {
		var err error
		exists, err = tx.Exists(key)
		return err
	})
	return exists, err
}

// ListByPrefix retrieves all keys with the given prefix.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.View(func(tx *Tx) error {
		keys = tx.Keys(prefix)
		return nil
	})
	return keys, err
}

// scan decodes rows starting at seek while their key has prefix and is not
// greater than stop (empty stop means no upper bound). Rows rejected by
// filter are skipped; limit <= 0 means no limit.
func scan[T model.Model](t *Tx, prefix, seek, stop string, newFunc func() T, filter func(T) bool, limit int) ([]T, error) {
	var results []T

	opts := badger.DefaultIteratorOptions
	opts.PrefetchSize = 100
	opts.Prefix = []byte(prefix)
	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(seek)); it.Valid(); it.Next() {
		item := it.Item()
		key := string(item.Key())
		if stop != "" && key > stop {
			break
		}

		v := newFunc()
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
		if err != nil {
			return nil, err
		}
		v.SetKey(key)

		if filter != nil && !filter(v) {
			continue
		}
		results = append(results, v)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// ScanPrefix retrieves all values with the given prefix inside a transaction.
func ScanPrefix[T model.Model](t *Tx, prefix string, newFunc func() T) ([]T, error) {
	return scan(t, prefix, prefix, "", newFunc, nil, 0)
}

// GetAllByPrefix retrieves all values with the given prefix.
func GetAllByPrefix[T model.Model](d *DB, prefix string, newFunc func() T) ([]T, error) {
	var results []T
	err := d.View(func(tx *Tx) error {
		var err error
		results, err = ScanPrefix(tx, prefix, newFunc)
		return err
	})
	return results, err
}

// GetFilteredByPrefix retrieves values with the given prefix accepted by
// filter, stopping after limit matches when limit > 0.
func GetFilteredByPrefix[T model.Model](d *DB, prefix string, newFunc func() T, filter func(T) bool, limit int) ([]T, error) {
	var results []T
	err := d.View(func(tx *Tx) error {
		var err error
		results, err = scan(tx, prefix, prefix, "", newFunc, filter, limit)
		return err
	})
	return results, err
}

// GetRange retrieves values whose key lies in [prefix+from, prefix+to+"\xff"].
// With date-ordered keys this selects an inclusive date range.
func GetRange[T model.Model](d *DB, prefix, from, to string, newFunc func() T, filter func(T) bool) ([]T, error) {
	var results []T
	err := d.View(func(tx *Tx) error {
		var err error
		results, err = scan(tx, prefix, prefix+from, prefix+to+"\xff", newFunc, filter, 0)
		return err
	})
	return results, err
}
