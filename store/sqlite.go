package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xh3b4sd/tracer"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLite is a Store backed by a single SQLite table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at pat and applies the schema.
func OpenSQLite(pat string) (*SQLite, error) {
	{
		err := os.MkdirAll(filepath.Dir(pat), 0o755)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	db, err := sql.Open("sqlite", pat)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	{
		_, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			val BLOB NOT NULL
		);`)
		if err != nil {
			_ = db.Close()
			return nil, tracer.Mask(err)
		}
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	err := s.db.Close()
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func (s *SQLite) Put(key string, val interface{}) error {
	byt, err := json.Marshal(val)
	if err != nil {
		return tracer.Mask(err)
	}

	_, err = s.db.Exec(`INSERT INTO kv (key, val) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET val = excluded.val`, key, byt)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func (s *SQLite) Get(key string, val interface{}) error {
	var byt []byte

	err := s.db.QueryRow(`SELECT val FROM kv WHERE key = ?`, key).Scan(&byt)
	if errors.Is(err, sql.ErrNoRows) {
		return tracer.Mask(fmt.Errorf("%w: %s", notFoundError, key))
	} else if err != nil {
		return tracer.Mask(err)
	}

	err = json.Unmarshal(byt, val)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func (s *SQLite) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}
