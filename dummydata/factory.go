package dummydata

import (
	"github.com/go-graphite/historytools/history"
)

// OpenFunc opens a named history store.  history.Open is the production
// implementation.
type OpenFunc func(name string, opts *history.Options) (history.Store, error)

// Factory hands out the single history store of a run.  The store is
// opened on the first Get() and reused until Close().  A Factory is not
// safe for concurrent use.
type Factory struct {
	open  OpenFunc
	name  string
	store history.Store
}

// NewFactory returns an empty Factory that opens stores with open.
func NewFactory(open OpenFunc) *Factory {
	return &Factory{open: open}
}

// SetDatabaseName records the database to open.  It has no effect on a
// store that is already open.
func (f *Factory) SetDatabaseName(name string) {
	f.name = name
}

// DatabaseName returns the recorded database name.
func (f *Factory) DatabaseName() string {
	return f.name
}

// Get returns the open store, opening it with default options if this
// is the first call.  After a failed open the Factory stays empty and the
// next Get tries again.
func (f *Factory) Get() (history.Store, error) {
	if f.store != nil {
		return f.store, nil
	}

	st, err := f.open(f.name, nil)
	if err != nil {
		return nil, err
	}
	f.store = st
	return st, nil
}

// Close releases the store if one is open.  Subsequent calls are no-ops.
func (f *Factory) Close() error {
	if f.store == nil {
		return nil
	}
	err := f.store.Close()
	f.store = nil
	return err
}
