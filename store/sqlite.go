package store

import (
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a Store backed by a single-table SQLite database. It is
// the embedded-deployment backend: no network hop, safe for a
// single-process batch job or CLI invocation.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) the signatures table in
// the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS signatures (
			id   TEXT PRIMARY KEY,
			blob BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(id string, blob []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO signatures (id, blob) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET blob = excluded.blob
	`, id, blob)
	return err
}

func (s *SQLiteStore) Get(id string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT blob FROM signatures WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *SQLiteStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM signatures WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) Scan() (Iterator, error) {
	rows, err := s.db.Query(`SELECT id, blob FROM signatures`)
	if err != nil {
		return nil, err
	}
	return &sqliteIterator{rows: rows}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqliteIterator struct {
	rows *sql.Rows
	err  error
}

func (it *sqliteIterator) Next() (Entry, bool) {
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return Entry{}, false
	}
	var e Entry
	if err := it.rows.Scan(&e.ID, &e.Blob); err != nil {
		it.err = err
		return Entry{}, false
	}
	return e, true
}

func (it *sqliteIterator) Err() error {
	return it.err
}

func (it *sqliteIterator) Close() error {
	return it.rows.Close()
}
