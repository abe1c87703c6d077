package repositories

import (
	"errors"

	"vriksh/internal/apperrors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row. Transport failures
// are returned as DataService errors instead, so callers can tell "no such
// row" from "store unreachable".
var ErrNotFound = apperrors.NotFound("record not found")

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
