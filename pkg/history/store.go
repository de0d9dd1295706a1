// Package history provides the SQLite-backed delivery log. Every dispatch
// attempt is recorded with its outcome so operators can audit what went
// where and why it failed.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openherald/herald/pkg/domain"
	"github.com/openherald/herald/pkg/notifier"
)

// Attempt is one recorded delivery attempt.
type Attempt struct {
	ID        domain.EntityID       `json:"id"`
	Channel   string                `json:"channel"`
	Recipient string                `json:"recipient"`
	Subject   string                `json:"subject,omitempty"`
	Status    domain.DeliveryStatus `json:"status"`
	Error     string                `json:"error,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// AttemptFrom builds an Attempt from a message and its outcome.
func AttemptFrom(msg notifier.Message, status domain.DeliveryStatus, sendErr error) Attempt {
	a := Attempt{
		ID:        msg.ID,
		Channel:   msg.Channel.String(),
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		a.Error = sendErr.Error()
	}
	return a
}

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
	id         TEXT PRIMARY KEY,
	channel    TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deliveries_created ON deliveries(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_deliveries_status ON deliveries(status);
`

// Store is the SQLite-backed delivery log.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the delivery log at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts a delivery attempt.
func (s *Store) Record(a Attempt) error {
	_, err := s.db.Exec(
		`INSERT INTO deliveries (id, channel, recipient, subject, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(a.ID), a.Channel, a.Recipient, a.Subject, string(a.Status), a.Error, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("history: record %s: %w", a.ID, err)
	}
	return nil
}

// Recent returns up to n attempts, newest first.
func (s *Store) Recent(n int) ([]Attempt, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.Query(
		`SELECT id, channel, recipient, subject, status, error, created_at
		 FROM deliveries ORDER BY created_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var id, status string
		if err := rows.Scan(&id, &a.Channel, &a.Recipient, &a.Subject, &status, &a.Error, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		a.ID = domain.EntityID(id)
		a.Status = domain.DeliveryStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByStatus returns attempt counts grouped by delivery status.
func (s *Store) CountByStatus() (map[domain.DeliveryStatus]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM deliveries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("history: count: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.DeliveryStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		counts[domain.DeliveryStatus(status)] = n
	}
	return counts, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
