package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// IsNoRows reports whether err means the query matched nothing, for both
// pgx and database/sql.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// IsPgUniqueViolation reports whether err is a PostgreSQL unique violation
// on the named constraint.
func IsPgUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// IsSQLiteUniqueViolation reports whether err is a SQLite unique or primary
// key violation on column, given as "table.column".
//
// Local databases return a *sqlite.Error carrying the extended result code.
// Remote libSQL errors only carry the message, so those are matched on text.
func IsSQLiteUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return strings.Contains(sqErr.Error(), column)
		default:
			return false
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}
