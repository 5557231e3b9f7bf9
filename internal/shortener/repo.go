package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/nanolink/internal/idgen"
)

// Repository defines the persistence operations for Link entities.
//
// Lookups of a missing record fail with errx.NotFound. A short code taken by
// another record fails with errx.Conflict. Anything else the store reports is
// errx.Unavailable.
type Repository interface {
	FindByCode(ctx context.Context, code string) (Link, error)

	// FindByOwner returns the owner's links, newest first.
	FindByOwner(ctx context.Context, ownerID string) ([]Link, error)

	// Save inserts the link, or overwrites the record with the same ID.
	// A link with a nil ID gets a fresh one.
	Save(ctx context.Context, link Link) (Link, error)

	// DeleteByID removes the record. Deleting a missing record is not an error.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ListCodes returns every stored short code.
	ListCodes(ctx context.Context) ([]string, error)

	// Update loads the link with code and hands it to fn while holding the
	// record for writing. When fn returns true the modified link is saved in
	// the same transaction. The returned link reflects fn's changes either way.
	Update(ctx context.Context, code string, fn func(*Link) bool) (Link, error)
}

// RepositoryConfig holds configuration for the repository.
type RepositoryConfig struct {
	IDGenerator idgen.Generator
	// Now stamps created_at/updated_at where the database does not. Defaults to time.Now.
	Now func() time.Time
}

func (c *RepositoryConfig) withDefaults() *RepositoryConfig {
	out := RepositoryConfig{}
	if c != nil {
		out = *c
	}
	// Default: UUID v7 (good for DB locality), retried once.
	if out.IDGenerator == nil {
		out.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}
