package shortener

import (
	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/store"
)

const (
	shortCodeConstraint = "links_short_code_unique"
	shortCodeColumn     = "links.short_code"
)

func isShortCodeUniqueViolation(err error) bool {
	return store.IsPgUniqueViolation(err, shortCodeConstraint) ||
		store.IsSQLiteUniqueViolation(err, shortCodeColumn)
}

func mapRepoError(op string, err error) error {
	switch {
	case store.IsNoRows(err):
		return errx.E(op, errx.NotFound, err)

	case isShortCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}
