package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/sundayezeilo/nanolink/internal/errx"
)

// Reason markers carried on login failures.
const (
	ReasonUserNotFound  = "USER_NOT_FOUND"
	ReasonWrongPassword = "WRONG_PASSWORD"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUnknownUsername    = errors.New("wrong username")
	ErrWrongPassword      = errors.New("wrong password")
)

// Service checks that a username exists and that a password matches it.
type Service interface {
	Register(ctx context.Context, username, password string) (Account, error)
	Login(ctx context.Context, username, password string) (Account, error)
}

type service struct {
	repo Repository
}

// NewService creates a new service instance.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}

func (s *service) Register(ctx context.Context, username, password string) (Account, error) {
	const op = "account.service.Register"

	if err := validateCredentials(username, password); err != nil {
		return Account{}, errx.E(op, errx.Invalid, err)
	}

	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return Account{}, errx.E(op, errx.Conflict, ErrUsernameTaken)
	case errx.KindOf(err) != errx.NotFound:
		return Account{}, errx.E(op, errx.KindOf(err), err)
	}

	// The pre-check can race with another registration; the store's unique
	// key catches the loser.
	acct, err := s.repo.Create(ctx, Account{Username: username, Password: password})
	if err != nil {
		if errx.KindOf(err) == errx.Conflict {
			return Account{}, errx.E(op, errx.Conflict, fmt.Errorf("%w: %w", ErrUsernameTaken, err))
		}
		return Account{}, errx.E(op, errx.KindOf(err), err)
	}
	return acct, nil
}

func (s *service) Login(ctx context.Context, username, password string) (Account, error) {
	const op = "account.service.Login"

	// Empty fields are not rejected here: an empty username is simply unknown
	// and an empty password simply wrong.
	acct, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errx.KindOf(err) == errx.NotFound {
			return Account{}, errx.R(op, errx.NotFound, ReasonUserNotFound, ErrUnknownUsername)
		}
		return Account{}, errx.E(op, errx.KindOf(err), err)
	}

	if acct.Password != password {
		return Account{}, errx.R(op, errx.Unauthorized, ReasonWrongPassword, ErrWrongPassword)
	}
	return acct, nil
}
