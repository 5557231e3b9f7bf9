package store

import (
	"fmt"
	"time"
)

// SQLiteTimeLayout is fixed width, so text ordering of stored timestamps
// matches time ordering.
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatSQLiteTime renders t in UTC with SQLiteTimeLayout.
func FormatSQLiteTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeLayout)
}

// ParseSQLiteTime parses a timestamp written by FormatSQLiteTime. field names
// the column in the error.
func ParseSQLiteTime(s, field string) (time.Time, error) {
	t, err := time.Parse(SQLiteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}
