package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, such as a reused email address or organization name.
	ErrDuplicate = errors.New("already exists")

	// ErrNoRowReturned is returned when an insert with RETURNING yields no
	// row. The write cannot be confirmed, so callers must treat the
	// operation as failed.
	ErrNoRowReturned = errors.New("insert returned no row")
)

// isDuplicateKeyError recognizes uniqueness violations across PostgreSQL
// and SQLite driver error strings.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "23505")
}
