package account

import (
	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/store"
)

const (
	usernameConstraint = "accounts_pkey"
	usernameColumn     = "accounts.username"
)

func mapRepoError(op string, err error) error {
	switch {
	case store.IsNoRows(err):
		return errx.E(op, errx.NotFound, err)

	case store.IsPgUniqueViolation(err, usernameConstraint),
		store.IsSQLiteUniqueViolation(err, usernameColumn):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}
