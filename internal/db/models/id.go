package models

import "github.com/google/uuid"

// NewID returns a UUIDv7 string. IDs are time-sortable, so ordering rows by
// ID reproduces insertion order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
