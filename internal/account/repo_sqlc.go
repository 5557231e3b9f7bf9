package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	db "github.com/sundayezeilo/nanolink/internal/db/sqlc"
	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/idgen"
)

// querier is an internal interface that abstracts *db.Queries
type querier interface {
	CreateAccount(ctx context.Context, arg db.CreateAccountParams) (db.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (db.Account, error)
}

type repo struct {
	q   querier
	ids idgen.Generator
}

// NewPostgresRepository creates a Repository backed by PostgreSQL.
func NewPostgresRepository(conn db.DBTX, config *RepositoryConfig) Repository {
	return newRepository(db.New(conn), config)
}

func newRepository(q querier, config *RepositoryConfig) *repo {
	config = config.withDefaults()
	return &repo{q: q, ids: config.IDGenerator}
}

func toDomainAccount(x db.Account) (Account, error) {
	if !x.CreatedAt.Valid {
		return Account{}, fmt.Errorf("created_at unexpectedly NULL")
	}
	return Account{
		ID:        x.ID,
		Username:  x.Username,
		Password:  x.Password,
		CreatedAt: x.CreatedAt.Time,
	}, nil
}

func (r *repo) FindByUsername(ctx context.Context, username string) (Account, error) {
	const op = "account.repo.FindByUsername"

	row, err := r.q.GetAccountByUsername(ctx, username)
	if err != nil {
		return Account{}, mapRepoError(op, err)
	}
	acct, err := toDomainAccount(row)
	if err != nil {
		return Account{}, errx.E(op, errx.Unavailable, err)
	}
	return acct, nil
}

func (r *repo) Create(ctx context.Context, acct Account) (Account, error) {
	const op = "account.repo.Create"

	if acct.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return Account{}, errx.E(op, errx.Unavailable, err)
		}
		acct.ID = id
	}

	row, err := r.q.CreateAccount(ctx, db.CreateAccountParams{
		Username: acct.Username,
		ID:       acct.ID,
		Password: acct.Password,
	})
	if err != nil {
		return Account{}, mapRepoError(op, err)
	}
	created, err := toDomainAccount(row)
	if err != nil {
		return Account{}, errx.E(op, errx.Unavailable, err)
	}
	return created, nil
}
