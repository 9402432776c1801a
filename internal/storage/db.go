// Package storage provides the database layer for Daymark.
//
// Every row is a JSON document under a colon separated key
// (prefix:userID:...). Compound mutations run through Batch so that all of
// their writes commit together.
package storage

import (
	"os"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/daymark/internal/config"
	"github.com/manav03panchal/daymark/internal/errors"
)

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path under the XDG base directories.
func DefaultPath() string {
	return config.DefaultDataPath()
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := opts.Path

	if opts.InMemory || opts.Path == "" {
		// In-memory mode for testing
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
		path = ""
	} else {
		if err := os.MkdirAll(opts.Path, 0o700); err != nil {
			return nil, errors.NewSystemErrorWithOp("open", "failed to create data directory", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, errors.NewSystemErrorWithOp("open",
				"database is in use by another daymark process", err)
		}
		return nil, errors.NewSystemErrorWithOp("open", "failed to open database", err)
	}

	return &DB{db: db, path: path}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the on-disk directory, or "" for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}
