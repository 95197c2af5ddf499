package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique-constraint failure.
// GORM's translated sentinel covers most drivers; the string checks cover
// SQLite ("UNIQUE constraint failed") and Postgres ("duplicate key value")
// when translation is unavailable.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "duplicate key value")
}
