package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

// isBusy reports whether err is SQLite refusing a statement because another
// connection holds a conflicting lock. Extended result codes are masked to
// their primary code.
func isBusy(err error) bool {
	var e *sqlite.Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Code() & 0xff {
	case sqlitelib.SQLITE_BUSY, sqlitelib.SQLITE_LOCKED:
		return true
	default:
		return false
	}
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY constraint
// failure. The message check covers builds that report only the primary code.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var e *sqlite.Error
	if errors.As(err, &e) && e.Code() == sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// classifyWrite wraps a write error with op, substituting driven.ErrStoreBusy
// for lock contention so callers can decide whether to retry.
func classifyWrite(op string, err error) error {
	if isBusy(err) {
		return fmt.Errorf("%s: %w: %w", op, driven.ErrStoreBusy, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
