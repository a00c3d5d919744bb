package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/internal/models"
	"github.com/diewo77/talentos/internal/repository"
	"github.com/diewo77/talentos/validation"
)

// AccountInput is the staff account form. Password is optional on edit.
type AccountInput struct {
	Name     string `form:"nome" validate:"required,max=100"`
	Email    string `form:"email" validate:"emailpattern,max=120"`
	Password string `form:"senha"`
	Role     string `form:"perfil" validate:"oneof=admin master rh"`
	Active   bool   `form:"ativo"`
}

func (in AccountInput) sanitized() AccountInput {
	in.Name = Sanitize(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Role = Sanitize(in.Role)
	return in
}

type AccountService struct {
	accounts repository.AccountRepository
}

func NewAccountService(accounts repository.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// List returns all accounts, newest first.
func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) Get(ctx context.Context, id uint) (*models.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// Create registers an active account. Duplicate emails are rejected both by
// a pre-check and by the unique index.
func (s *AccountService) Create(ctx context.Context, in AccountInput) (*models.Account, error) {
	in = in.sanitized()
	v := validation.Struct(in)
	validation.Required("senha", in.Password, v)
	if !v.Empty() {
		return nil, v.Err()
	}
	if err := s.checkEmail(ctx, in.Email, 0); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	a := &models.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.Role(in.Role),
		Active:       true,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validation.Fail("email", "email_taken")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

// Edit overwrites profile fields. The password only changes when a new one
// is supplied.
func (s *AccountService) Edit(ctx context.Context, id uint, in AccountInput) (*models.Account, error) {
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return nil, err
	}
	in = in.sanitized()
	if v := validation.Struct(in); !v.Empty() {
		return nil, v.Err()
	}
	if err := s.checkEmail(ctx, in.Email, id); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":   in.Name,
		"email":  in.Email,
		"role":   models.Role(in.Role),
		"active": in.Active,
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	if err := s.accounts.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validation.Fail("email", "email_taken")
		}
		return nil, fmt.Errorf("update account %d: %w", id, err)
	}
	return s.accounts.FindByID(ctx, id)
}

// Delete removes an account. actorID is the authenticated caller, who may
// not delete themselves.
func (s *AccountService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrSelfDeletion
	}
	return s.accounts.Delete(ctx, id)
}

// Authenticate checks email and password of an active account.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)
	v := make(validation.Violations)
	validation.Email("email", email, v)
	if !v.Empty() || password == "" {
		return nil, ErrInvalidCredentials
	}
	a, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !a.Active || !auth.CheckPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *AccountService) checkEmail(ctx context.Context, email string, exceptID uint) error {
	taken, err := s.accounts.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return validation.Fail("email", "email_taken")
	}
	return nil
}
