package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "mileage-logbook/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return apperrors.NewStorageError(operation, err)
}

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ExecuteWrite runs a statement that changes the store
func ExecuteWrite(ctx context.Context, db *sql.DB, operation string, query string, args ...interface{}) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return HandleDatabaseError(operation, err)
	}
	return nil
}

// QuerySingle executes a query that returns at most one row and scans it.
// A query without rows yields (nil, nil).
func QuerySingle[T any](ctx context.Context, db *sql.DB, operation string, query string, scanFunc func(Scanner) (*T, error), args ...interface{}) (*T, error) {
	row := db.QueryRowContext(ctx, query, args...)
	result, err := scanFunc(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, HandleDatabaseError(operation, err)
	}
	return result, nil
}
