package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// History tables, one per value type.
const (
	TableFloat  = "history"
	TableUint   = "history_uint"
	TableString = "history_str"
)

type sqliteStore struct {
	db      *sql.DB
	inserts map[string]*sql.Stmt
}

// openSQLite creates or opens the SQLite database at path and makes sure
// the history tables exist.
func openSQLite(path string, opts *Options) (Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer, one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &sqliteStore{db: db, inserts: make(map[string]*sql.Stmt)}
	for _, table := range []string{TableFloat, TableUint, TableString} {
		q := fmt.Sprintf("INSERT INTO %s (itemid, clock, ns, value) VALUES (?, ?, ?, ?)", table)
		stmt, err := db.Prepare(q)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to prepare insert into %s: %w", table, err)
		}
		s.inserts[table] = stmt
	}

	return s, nil
}

func (s *sqliteStore) insert(table string, id uint64, ts time.Time, value interface{}) error {
	if s.db == nil {
		return ErrClosed
	}
	// itemid is BIGINT UNSIGNED upstream; SQLite only has signed 64 bit
	// integers, so ids are stored bit-cast and read back with uint64().
	_, err := s.inserts[table].Exec(int64(id), ts.Unix(), ts.Nanosecond(), value)
	return err
}

func (s *sqliteStore) AddUint(id uint64, ts time.Time, value uint64) error {
	return s.insert(TableUint, id, ts, int64(value))
}

func (s *sqliteStore) AddFloat(id uint64, ts time.Time, value float64) error {
	return s.insert(TableFloat, id, ts, value)
}

func (s *sqliteStore) AddString(id uint64, ts time.Time, value string) error {
	return s.insert(TableString, id, ts, value)
}

func (s *sqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	for _, stmt := range s.inserts {
		stmt.Close()
	}
	err := s.db.Close()
	s.db = nil
	return err
}
