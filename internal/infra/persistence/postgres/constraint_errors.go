package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isUniqueConstraintViolation reports whether err comes from a unique
// index. GORM translates driver errors to ErrDuplicatedKey for the dialects
// we run against; the message check covers drivers that don't translate
// (the sqlite dialect used in tests).
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// violatedColumn picks the column named in a unique violation message so the
// store can surface the right duplicate sentinel.
func violatedColumn(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "tax_id"):
		return "tax_id"
	case strings.Contains(msg, "email"):
		return "email"
	default:
		return ""
	}
}
