package docstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store holds the engine's local documents (the weekly plan, the session
// cursor and the performance ledger) as whole JSON documents in a SQLite
// table. Every save rewrites the full document.
type Store struct {
	db *sql.DB
}

// Document names.
const (
	DocPlan   = "plan"
	DocCursor = "cursor"
	DocLedger = "ledger"
)

// Open opens (or creates) the document database at dir/amson.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "amson.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening document db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name       TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save marshals v and rewrites the named document.
func (s *Store) Save(name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling document %s: %w", name, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		name, string(body),
	)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", name, err)
	}
	return nil
}

// Load unmarshals the named document into v. A missing document leaves v
// untouched and returns false.
func (s *Store) Load(name string, v any) (bool, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading document %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return false, fmt.Errorf("decoding document %s: %w", name, err)
	}
	return true, nil
}

// Close closes the document database.
func (s *Store) Close() error {
	return s.db.Close()
}
