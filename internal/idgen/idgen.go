// Package idgen produces record identifiers for links and accounts.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator generates unique identifiers.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate() (uuid.UUID, error)
}

// Func adapts a plain function to a Generator.
type Func func() (uuid.UUID, error)

func (f Func) Generate() (uuid.UUID, error) { return f() }

type v7Gen struct {
	maxRetries int
	newV7      func() (uuid.UUID, error)
}

type Option func(*v7Gen)

// WithRetries sets how many times to retry after the initial attempt.
// Defaults to 1. Set to 0 to disable retries.
func WithRetries(n int) Option {
	return func(g *v7Gen) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// withSource swaps the underlying UUID source. Tests only.
func withSource(fn func() (uuid.UUID, error)) Option {
	return func(g *v7Gen) { g.newV7 = fn }
}

// NewV7 returns a Generator producing time-ordered UUID v7 values, so new
// links sort after older ones on the primary key.
func NewV7(opts ...Option) Generator {
	g := &v7Gen{maxRetries: 1, newV7: uuid.NewV7}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *v7Gen) Generate() (uuid.UUID, error) {
	var last error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		id, err := g.newV7()
		if err == nil {
			return id, nil
		}
		last = err
	}
	return uuid.Nil, fmt.Errorf("uuid v7 generation failed after %d attempts: %w", g.maxRetries+1, last)
}
