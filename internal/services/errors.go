package services

import (
	"errors"

	"github.com/diewo77/talentos/internal/repository"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrPostingUnavailable is returned when a token matches no active posting.
	ErrPostingUnavailable = errors.New("posting not found or closed")
	// ErrSelfDeletion is returned when an account tries to delete itself.
	ErrSelfDeletion = errors.New("cannot delete the authenticated account")
	// ErrInvalidCredentials covers unknown email, wrong password and inactive accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
