// Package history persists executed command lines to a SQLite
// database, independent of the line editor's own in-memory recall
// (spec §6's line editor contract). It backs the `history` builtin.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Record struct {
	Line      string
	ExitCode  int
	SessionID string
	When      time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path. An
// empty path defaults to ~/.fsh_history.sqlite.
func Open(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".fsh_history.sqlite")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		line TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		ran_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one executed line.
func (s *Store) Append(line string, exitCode int, sessionID string) error {
	_, err := s.db.Exec(
		"INSERT INTO history (line, exit_code, session_id, ran_at) VALUES (?, ?, ?, ?)",
		line, exitCode, sessionID, time.Now(),
	)
	return err
}

// Dump returns every recorded line, oldest first.
func (s *Store) Dump() ([]Record, error) {
	rows, err := s.db.Query("SELECT line, exit_code, session_id, ran_at FROM history ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Line, &r.ExitCode, &r.SessionID, &r.When); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
