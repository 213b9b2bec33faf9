package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/embracefm/embrace/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide insertion ordering for entities: the default song
// listing orders by sequence descending so the newest upload surfaces first.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// wrapConstraint converts SQLite unique-constraint violations to [shared.ErrDuplicate]
// so callers can distinguish "email already in use" from infrastructure failures.
func wrapConstraint(err error, what string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", shared.ErrDuplicate, what)
	}
	return err
}
