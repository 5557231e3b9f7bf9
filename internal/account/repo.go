package account

import (
	"context"
	"time"

	"github.com/sundayezeilo/nanolink/internal/idgen"
)

// Repository persists accounts keyed by username.
//
// A missing username fails with errx.NotFound, a taken one with
// errx.Conflict. Other store failures are errx.Unavailable.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (Account, error)
	// Create stores a new account. A nil ID gets a fresh one.
	Create(ctx context.Context, acct Account) (Account, error)
}

// RepositoryConfig holds configuration for the repository.
type RepositoryConfig struct {
	IDGenerator idgen.Generator
	Now         func() time.Time
}

func (c *RepositoryConfig) withDefaults() *RepositoryConfig {
	out := RepositoryConfig{}
	if c != nil {
		out = *c
	}
	if out.IDGenerator == nil {
		out.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}
