// Package history is the boundary to the time-series history stores
// dummy data is written into.  A Store is opened from a database name
// whose prefix picks the backend:
//
//	PATH, sqlite:PATH     SQLite history tables
//	whisper:DIR           Graphite Whisper DBs, one per item
//	carbon:HOST:PORT      carbon plaintext line protocol
//	pickle:HOST:PORT      carbon pickle protocol
//	tstorage:DIR          embedded tstorage partitions
//
// Any name may end in ?key=value&... to override Options.
package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnsupportedValue is returned by backends that cannot store
	// the value type of a sample.
	ErrUnsupportedValue = errors.New("value type not supported by backend")

	// ErrLocked is returned by Open when another process holds the
	// store directory.
	ErrLocked = errors.New("database is locked by another process")

	// ErrClosed is returned when writing to a closed store.
	ErrClosed = errors.New("store is closed")
)

// Store is an open connection to one history database.  A Store is not
// safe for concurrent use.
type Store interface {
	// AddUint writes an unsigned integer sample for item id at ts.
	AddUint(id uint64, ts time.Time, value uint64) error

	// AddFloat writes a floating point sample.
	AddFloat(id uint64, ts time.Time, value float64) error

	// AddString writes a text sample.
	AddString(id uint64, ts time.Time, value string) error

	// Close releases the connection and any locks held.
	Close() error
}

// Backend names
const (
	BackendSQLite   = "sqlite"
	BackendWhisper  = "whisper"
	BackendCarbon   = "carbon"
	BackendPickle   = "pickle"
	BackendTStorage = "tstorage"
)

type openFunc func(target string, opts *Options) (Store, error)

var backends = map[string]openFunc{
	BackendSQLite:   openSQLite,
	BackendWhisper:  openWhisper,
	BackendCarbon:   openCarbonPlain,
	BackendPickle:   openCarbonPickle,
	BackendTStorage: openTStorage,
}

// Database is a parsed database name.
type Database struct {
	Backend string
	Target  string
	Query   string
}

// ParseName splits a database name into its backend, target and option
// query.  Names without a known backend prefix are SQLite paths.
func ParseName(name string) (Database, error) {
	var db Database

	rest := name
	if i := strings.Index(rest, "?"); i >= 0 {
		rest, db.Query = rest[:i], rest[i+1:]
	}
	db.Backend, db.Target = BackendSQLite, rest
	if i := strings.Index(rest, ":"); i >= 0 {
		if _, ok := backends[rest[:i]]; ok {
			db.Backend, db.Target = rest[:i], rest[i+1:]
		}
	}
	if db.Target == "" {
		return db, fmt.Errorf("empty database name: %q", name)
	}

	return db, nil
}

// Open connects to the named history database.  A nil opts uses
// DefaultOptions().
func Open(name string, opts *Options) (Store, error) {
	db, err := ParseName(name)
	if err != nil {
		return nil, err
	}

	o := DefaultOptions()
	if opts != nil {
		*o = *opts
	}
	if err := o.ParseQuery(db.Query); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	st, err := backends[db.Backend](db.Target, o)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", db.Backend, db.Target, err)
	}
	return st, nil
}
