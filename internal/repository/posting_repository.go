package repository

import (
	"context"

	"github.com/diewo77/talentos/internal/models"
	"gorm.io/gorm"
)

// PostingSummary is a posting with the number of applications it received.
type PostingSummary struct {
	models.Posting
	ApplicationCount int64 `json:"application_count"`
}

// PostingRepository defines posting persistence operations.
type PostingRepository interface {
	List(ctx context.Context) ([]PostingSummary, error)
	FindByID(ctx context.Context, id uint) (*models.Posting, error)
	FindActiveByToken(ctx context.Context, token string) (*models.Posting, error)
	Create(ctx context.Context, posting *models.Posting) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	DeleteWithApplications(ctx context.Context, id uint) ([]string, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.PostingStatus) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Posting, error)
}

type postingRepository struct {
	db *gorm.DB
}

// NewPostingRepository creates a new posting repository.
func NewPostingRepository(db *gorm.DB) PostingRepository {
	return &postingRepository{db: db}
}

// List returns every posting, newest first, with its application count.
func (r *postingRepository) List(ctx context.Context) ([]PostingSummary, error) {
	var rows []PostingSummary
	err := r.db.WithContext(ctx).
		Model(&models.Posting{}).
		Select("postings.*, COUNT(applications.id) AS application_count").
		Joins("LEFT JOIN applications ON applications.posting_id = postings.id").
		Group("postings.id").
		Order("postings.created_at DESC, postings.id DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (r *postingRepository) FindByID(ctx context.Context, id uint) (*models.Posting, error) {
	var p models.Posting
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindActiveByToken only matches postings that accept applications.
func (r *postingRepository) FindActiveByToken(ctx context.Context, token string) (*models.Posting, error) {
	var p models.Posting
	err := r.db.WithContext(ctx).
		Where("token = ? AND status = ?", token, models.PostingActive).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postingRepository) Create(ctx context.Context, posting *models.Posting) error {
	return translate(r.db.WithContext(ctx).Create(posting).Error)
}

func (r *postingRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&models.Posting{}).Where("id = ?", id).Updates(fields))
}

// DeleteWithApplications removes the posting and all of its applications in
// one transaction and returns the résumé files those applications referenced.
func (r *postingRepository) DeleteWithApplications(ctx context.Context, id uint) ([]string, error) {
	var files []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Application{}).
			Where("posting_id = ? AND resume_file <> ''", id).
			Pluck("resume_file", &files).Error; err != nil {
			return err
		}
		if err := tx.Where("posting_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&models.Posting{}, id))
	})
	if err != nil {
		return nil, translate(err)
	}
	return files, nil
}

func (r *postingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Posting{}).Count(&count).Error
	return count, translate(err)
}

func (r *postingRepository) CountByStatus(ctx context.Context, status models.PostingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Posting{}).Where("status = ?", status).Count(&count).Error
	return count, translate(err)
}

func (r *postingRepository) Recent(ctx context.Context, limit int) ([]models.Posting, error) {
	var postings []models.Posting
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&postings).Error
	return postings, translate(err)
}
