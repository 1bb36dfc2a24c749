// Package id generates time-ordered identifiers for report runs.
package id

import (
	"github.com/google/uuid"
)

// ID identifies one report run.
type ID = uuid.UUID

// New generates a UUIDv7, falling back to a random UUID if the clock
// source fails.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}
