package shortener

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/nanolink/internal/db/sqlc"
	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/idgen"
)

// querier is an internal interface that abstracts *db.Queries
type querier interface {
	GetLinkByCode(ctx context.Context, shortCode string) (db.Link, error)
	GetLinkByCodeForUpdate(ctx context.Context, shortCode string) (db.Link, error)
	ListLinksByOwner(ctx context.Context, ownerID pgtype.Text) ([]db.Link, error)
	UpsertLink(ctx context.Context, arg db.UpsertLinkParams) (db.Link, error)
	DeleteLink(ctx context.Context, id uuid.UUID) error
	LinkCodeExists(ctx context.Context, shortCode string) (bool, error)
	ListLinkCodes(ctx context.Context) ([]string, error)
}

// txFunc runs fn inside one database transaction.
type txFunc func(ctx context.Context, fn func(q querier) error) error

// txBeginner is satisfied by *pgxpool.Pool.
type txBeginner interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

type repo struct {
	q   querier
	tx  txFunc
	ids idgen.Generator
}

// NewPostgresRepository creates a Repository backed by PostgreSQL.
func NewPostgresRepository(pool txBeginner, config *RepositoryConfig) Repository {
	tx := func(ctx context.Context, fn func(q querier) error) error {
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			return fn(db.New(tx))
		})
	}
	return newRepository(db.New(pool), tx, config)
}

func newRepository(q querier, tx txFunc, config *RepositoryConfig) *repo {
	config = config.withDefaults()
	if tx == nil {
		tx = func(ctx context.Context, fn func(q querier) error) error { return fn(q) }
	}
	return &repo{
		q:   q,
		tx:  tx,
		ids: config.IDGenerator,
	}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func toTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func toText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func toDomainLink(x db.Link) (Link, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Link{}, err
	}
	updatedAt, err := mustTime(x.UpdatedAt, "updated_at")
	if err != nil {
		return Link{}, err
	}

	return Link{
		ID:        x.ID,
		ShortCode: x.ShortCode,
		LongURL:   x.LongUrl,
		OwnerID:   x.OwnerID.String,
		Clicks:    x.Clicks,
		ExpiresAt: timePtr(x.ExpiresAt),
		IsActive:  x.IsActive,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func toUpsertParams(link Link) db.UpsertLinkParams {
	return db.UpsertLinkParams{
		ID:        link.ID,
		ShortCode: link.ShortCode,
		LongUrl:   link.LongURL,
		OwnerID:   toText(link.OwnerID),
		Clicks:    link.Clicks,
		ExpiresAt: toTimestamptz(link.ExpiresAt),
		IsActive:  link.IsActive,
	}
}

func (r *repo) FindByCode(ctx context.Context, code string) (Link, error) {
	const op = "shortener.repo.FindByCode"

	row, err := r.q.GetLinkByCode(ctx, code)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	link, err := toDomainLink(row)
	if err != nil {
		return Link{}, errx.E(op, errx.Unavailable, err)
	}
	return link, nil
}

func (r *repo) FindByOwner(ctx context.Context, ownerID string) ([]Link, error) {
	const op = "shortener.repo.FindByOwner"

	rows, err := r.q.ListLinksByOwner(ctx, toText(ownerID))
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	links := make([]Link, 0, len(rows))
	for _, row := range rows {
		link, err := toDomainLink(row)
		if err != nil {
			return nil, errx.E(op, errx.Unavailable, err)
		}
		links = append(links, link)
	}
	return links, nil
}

func (r *repo) Save(ctx context.Context, link Link) (Link, error) {
	const op = "shortener.repo.Save"

	// Generate ID if not provided
	if link.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return Link{}, errx.E(op, errx.Unavailable, err)
		}
		link.ID = id
	}

	row, err := r.q.UpsertLink(ctx, toUpsertParams(link))
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	saved, err := toDomainLink(row)
	if err != nil {
		return Link{}, errx.E(op, errx.Unavailable, err)
	}
	return saved, nil
}

func (r *repo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	const op = "shortener.repo.DeleteByID"

	if err := r.q.DeleteLink(ctx, id); err != nil {
		return mapRepoError(op, err)
	}
	return nil
}

func (r *repo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const op = "shortener.repo.ExistsByCode"

	exists, err := r.q.LinkCodeExists(ctx, code)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return exists, nil
}

func (r *repo) ListCodes(ctx context.Context) ([]string, error) {
	const op = "shortener.repo.ListCodes"

	codes, err := r.q.ListLinkCodes(ctx)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return codes, nil
}

func (r *repo) Update(ctx context.Context, code string, fn func(*Link) bool) (Link, error) {
	const op = "shortener.repo.Update"

	var out Link
	err := r.tx(ctx, func(q querier) error {
		// Row lock held until commit, so concurrent clicks on one code serialize.
		row, err := q.GetLinkByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		link, err := toDomainLink(row)
		if err != nil {
			return err
		}
		if !fn(&link) {
			out = link
			return nil
		}

		saved, err := q.UpsertLink(ctx, toUpsertParams(link))
		if err != nil {
			return err
		}
		out, err = toDomainLink(saved)
		return err
	})
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return out, nil
}
