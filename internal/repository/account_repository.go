package repository

import (
	"context"

	"github.com/diewo77/talentos/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines staff account persistence operations.
type AccountRepository interface {
	List(ctx context.Context) ([]models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// List returns every account, newest first.
func (r *accountRepository) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&accounts).Error
	return accounts, translate(err)
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var a models.Account
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// EmailTaken reports whether another account (not exceptID) uses email.
func (r *accountRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translate(r.db.WithContext(ctx).Create(account).Error)
}

// Update writes only the given columns.
func (r *accountRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(fields))
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Account{}, id))
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, translate(err)
}
