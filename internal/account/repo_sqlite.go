package account

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/idgen"
	"github.com/sundayezeilo/nanolink/internal/store"
)

const (
	sqliteSelectByUsername = `SELECT username, id, password, created_at FROM accounts WHERE username = ?`

	sqliteInsert = `INSERT INTO accounts (username, id, password, created_at)
VALUES (?, ?, ?, ?)
RETURNING username, id, password, created_at`
)

type sqliteRepo struct {
	db  *sql.DB
	ids idgen.Generator
	now func() time.Time
}

// NewSQLiteRepository creates a Repository backed by SQLite or libSQL.
func NewSQLiteRepository(db *sql.DB, config *RepositoryConfig) Repository {
	config = config.withDefaults()
	return &sqliteRepo{db: db, ids: config.IDGenerator, now: config.Now}
}

func scanSQLiteAccount(row *sql.Row) (Account, error) {
	var (
		acct      Account
		createdAt string
	)
	if err := row.Scan(&acct.Username, &acct.ID, &acct.Password, &createdAt); err != nil {
		return Account{}, err
	}
	t, err := store.ParseSQLiteTime(createdAt, "created_at")
	if err != nil {
		return Account{}, err
	}
	acct.CreatedAt = t
	return acct, nil
}

func (r *sqliteRepo) FindByUsername(ctx context.Context, username string) (Account, error) {
	const op = "account.sqlite.FindByUsername"

	acct, err := scanSQLiteAccount(r.db.QueryRowContext(ctx, sqliteSelectByUsername, username))
	if err != nil {
		return Account{}, mapRepoError(op, err)
	}
	return acct, nil
}

func (r *sqliteRepo) Create(ctx context.Context, acct Account) (Account, error) {
	const op = "account.sqlite.Create"

	if acct.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return Account{}, errx.E(op, errx.Unavailable, err)
		}
		acct.ID = id
	}

	created, err := scanSQLiteAccount(r.db.QueryRowContext(ctx, sqliteInsert,
		acct.Username,
		acct.ID,
		acct.Password,
		store.FormatSQLiteTime(r.now()),
	))
	if err != nil {
		return Account{}, mapRepoError(op, err)
	}
	return created, nil
}
