// Package store owns the database schemas and opens the SQLite/libSQL handle.
// The PostgreSQL pool itself is created in internal/app.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"github.com/sundayezeilo/nanolink/internal/errx"
)

var (
	//go:embed schema/postgres.sql
	postgresSchema string

	//go:embed schema/sqlite.sql
	sqliteSchema string
)

const (
	driverSQLite = "sqlite"
	driverLibSQL = "libsql"
)

// pgExecer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// MigratePostgres applies the embedded PostgreSQL schema. It is idempotent.
func MigratePostgres(ctx context.Context, db pgExecer) error {
	const op = "store.MigratePostgres"

	// No arguments, so pgx uses the simple protocol and accepts the whole script.
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}

// SQLiteDriverName picks the database/sql driver for a DSN. Remote libSQL
// (Turso) URLs go through libsql-client-go, everything else is a local
// SQLite file handled by modernc.org/sqlite.
func SQLiteDriverName(dsn string) string {
	for _, prefix := range []string{"libsql://", "wss://", "ws://", "https://", "http://"} {
		if strings.HasPrefix(dsn, prefix) {
			return driverLibSQL
		}
	}
	return driverSQLite
}

// OpenSQLite opens and pings a SQLite or libSQL database.
//
// The pool is capped at one connection. Every transaction on the handle is
// therefore serialized, which is what makes the link repository's
// read-modify-write atomic. It also keeps a ":memory:" database alive for the
// lifetime of the handle.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	const op = "store.OpenSQLite"

	driver := SQLiteDriverName(dsn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errx.E(op, errx.Unavailable, err)
	}

	if driver == driverSQLite {
		for _, pragma := range []string{
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, errx.E(op, errx.Unavailable, fmt.Errorf("%s: %w", pragma, err))
			}
		}
	}

	return db, nil
}

// MigrateSQLite applies the embedded SQLite schema one statement at a time,
// since remote libSQL connections do not accept multi-statement scripts.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	const op = "store.MigrateSQLite"

	for _, stmt := range splitStatements(sqliteSchema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errx.E(op, errx.Unavailable, err)
		}
	}
	return nil
}

func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
