package shortener

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/idgen"
	"github.com/sundayezeilo/nanolink/internal/store"
)

const linkColumns = `id, short_code, long_url, owner_id, clicks, expires_at, is_active, created_at, updated_at`

const (
	sqliteSelectByCode = `SELECT ` + linkColumns + ` FROM links WHERE short_code = ?`

	sqliteSelectByOwner = `SELECT ` + linkColumns + ` FROM links WHERE owner_id = ?
ORDER BY created_at DESC, id DESC`

	sqliteUpsert = `INSERT INTO links (` + linkColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    short_code = excluded.short_code,
    long_url   = excluded.long_url,
    owner_id   = excluded.owner_id,
    clicks     = excluded.clicks,
    expires_at = excluded.expires_at,
    is_active  = excluded.is_active,
    updated_at = excluded.updated_at
RETURNING ` + linkColumns

	sqliteDelete = `DELETE FROM links WHERE id = ?`

	sqliteExists = `SELECT EXISTS (SELECT 1 FROM links WHERE short_code = ?)`

	sqliteListCodes = `SELECT short_code FROM links`
)

// sqlRunner is satisfied by *sql.DB and *sql.Tx.
type sqlRunner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqliteRepo struct {
	db  *sql.DB
	ids idgen.Generator
	now func() time.Time
}

// NewSQLiteRepository creates a Repository backed by SQLite or libSQL.
// db must come from store.OpenSQLite, whose single-connection pool is what
// serializes Update.
func NewSQLiteRepository(db *sql.DB, config *RepositoryConfig) Repository {
	config = config.withDefaults()
	return &sqliteRepo{
		db:  db,
		ids: config.IDGenerator,
		now: config.Now,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLink(row rowScanner) (Link, error) {
	var (
		link                 Link
		ownerID, expiresAt   sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&link.ID,
		&link.ShortCode,
		&link.LongURL,
		&ownerID,
		&link.Clicks,
		&expiresAt,
		&link.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Link{}, err
	}

	link.OwnerID = ownerID.String
	if expiresAt.Valid {
		t, err := store.ParseSQLiteTime(expiresAt.String, "expires_at")
		if err != nil {
			return Link{}, err
		}
		link.ExpiresAt = &t
	}

	var err error
	if link.CreatedAt, err = store.ParseSQLiteTime(createdAt, "created_at"); err != nil {
		return Link{}, err
	}
	if link.UpdatedAt, err = store.ParseSQLiteTime(updatedAt, "updated_at"); err != nil {
		return Link{}, err
	}
	return link, nil
}

func (r *sqliteRepo) upsert(ctx context.Context, run sqlRunner, link Link) (Link, error) {
	now := store.FormatSQLiteTime(r.now())

	var ownerID, expiresAt sql.NullString
	if link.OwnerID != "" {
		ownerID = sql.NullString{String: link.OwnerID, Valid: true}
	}
	if link.ExpiresAt != nil {
		expiresAt = sql.NullString{String: store.FormatSQLiteTime(*link.ExpiresAt), Valid: true}
	}

	// created_at is only written on insert; the conflict branch leaves it alone.
	row := run.QueryRowContext(ctx, sqliteUpsert,
		link.ID,
		link.ShortCode,
		link.LongURL,
		ownerID,
		link.Clicks,
		expiresAt,
		link.IsActive,
		now,
		now,
	)
	return scanSQLiteLink(row)
}

func (r *sqliteRepo) FindByCode(ctx context.Context, code string) (Link, error) {
	const op = "shortener.sqlite.FindByCode"

	link, err := scanSQLiteLink(r.db.QueryRowContext(ctx, sqliteSelectByCode, code))
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return link, nil
}

func (r *sqliteRepo) FindByOwner(ctx context.Context, ownerID string) ([]Link, error) {
	const op = "shortener.sqlite.FindByOwner"

	rows, err := r.db.QueryContext(ctx, sqliteSelectByOwner, ownerID)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	defer func() { _ = rows.Close() }()

	links := []Link{}
	for rows.Next() {
		link, err := scanSQLiteLink(rows)
		if err != nil {
			return nil, mapRepoError(op, err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, mapRepoError(op, err)
	}
	return links, nil
}

func (r *sqliteRepo) Save(ctx context.Context, link Link) (Link, error) {
	const op = "shortener.sqlite.Save"

	if link.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return Link{}, errx.E(op, errx.Unavailable, err)
		}
		link.ID = id
	}

	saved, err := r.upsert(ctx, r.db, link)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return saved, nil
}

func (r *sqliteRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	const op = "shortener.sqlite.DeleteByID"

	if _, err := r.db.ExecContext(ctx, sqliteDelete, id); err != nil {
		return mapRepoError(op, err)
	}
	return nil
}

func (r *sqliteRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const op = "shortener.sqlite.ExistsByCode"

	var exists bool
	if err := r.db.QueryRowContext(ctx, sqliteExists, code).Scan(&exists); err != nil {
		return false, mapRepoError(op, err)
	}
	return exists, nil
}

func (r *sqliteRepo) ListCodes(ctx context.Context) ([]string, error) {
	const op = "shortener.sqlite.ListCodes"

	rows, err := r.db.QueryContext(ctx, sqliteListCodes)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, mapRepoError(op, err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, mapRepoError(op, err)
	}
	return codes, nil
}

func (r *sqliteRepo) Update(ctx context.Context, code string, fn func(*Link) bool) (Link, error) {
	const op = "shortener.sqlite.Update"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	link, err := scanSQLiteLink(tx.QueryRowContext(ctx, sqliteSelectByCode, code))
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}

	if fn(&link) {
		if link, err = r.upsert(ctx, tx, link); err != nil {
			return Link{}, mapRepoError(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return link, nil
}
