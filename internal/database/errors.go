package database

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an operation references a session, item or
// word that does not exist. Update paths check affected-row counts so a bad
// id fails loudly instead of silently updating nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when a username is already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// isUniqueConstraintErr returns true when the error indicates a
// unique/constraint violation, for both sqlite and postgres drivers.
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed") ||
		strings.Contains(s, "duplicate key")
}
