package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

// execer is satisfied by both [sql.DB] and [sql.Tx].
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// validate rejects a record that cannot be persisted, tagging the error with its key.
func validate(m models.Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: record %d: %v", shared.ErrInvalidInput, m.Key(), err)
	}
	return nil
}

// NextQueueOrdinal returns the ordinal for the next episode added to the queue.
func NextQueueOrdinal(q execer) (int64, error) {
	var ordinal int64
	if err := q.QueryRow("SELECT COALESCE(MAX(queued), 0) + 1 FROM episodes").Scan(&ordinal); err != nil {
		return 0, fmt.Errorf("failed to get next queue ordinal: %w", err)
	}
	return ordinal, nil
}

// withTx runs fn inside a transaction, committing when fn succeeds.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nullable maps an absent optional field to SQL NULL.
func nullable(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// optional maps SQL NULL (and the empty string) back to an absent field.
func optional(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}
