package repository

import (
	"context"
	"time"

	"github.com/diewo77/talentos/internal/models"
	"gorm.io/gorm"
)

// ApplicationRow is an application joined with the title of its posting.
type ApplicationRow struct {
	models.Application
	PostingTitle string `json:"posting_title"`
}

// SearchFilter narrows the talent pool listing. Empty fields match everything.
type SearchFilter struct {
	Query  string
	Status models.ApplicationStatus
}

// ApplicationRepository defines candidate application persistence operations.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	FindByID(ctx context.Context, id uint) (*models.Application, error)
	FindWithPosting(ctx context.Context, id uint) (*ApplicationRow, error)
	ListByPosting(ctx context.Context, postingID uint) ([]models.Application, error)
	Search(ctx context.Context, filter SearchFilter) ([]ApplicationRow, error)
	Recent(ctx context.Context, limit int) ([]ApplicationRow, error)
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error)
	Count(ctx context.Context) (int64, error)
	UpdateReview(ctx context.Context, id uint, status models.ApplicationStatus, notes string, at time.Time) error
	ResumeExists(ctx context.Context, filename string) (bool, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return translate(r.db.WithContext(ctx).Create(application).Error)
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*models.Application, error) {
	var a models.Application
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// joined selects applications with their posting title.
func (r *applicationRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("applications.*, postings.title AS posting_title").
		Joins("JOIN postings ON postings.id = applications.posting_id")
}

func (r *applicationRepository) FindWithPosting(ctx context.Context, id uint) (*ApplicationRow, error) {
	var rows []ApplicationRow
	if err := r.joined(ctx).Where("applications.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *applicationRepository) ListByPosting(ctx context.Context, postingID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("posting_id = ?", postingID).
		Order("created_at DESC, id DESC").
		Find(&apps).Error
	return apps, translate(err)
}

// Search matches the query against candidate name or posting title. Case
// sensitivity follows the store's LIKE.
func (r *applicationRepository) Search(ctx context.Context, filter SearchFilter) ([]ApplicationRow, error) {
	q := r.joined(ctx)
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("(applications.name LIKE ? OR postings.title LIKE ?)", like, like)
	}
	if filter.Status != "" {
		q = q.Where("applications.status = ?", filter.Status)
	}
	var rows []ApplicationRow
	err := q.Order("applications.created_at DESC, applications.id DESC").Scan(&rows).Error
	return rows, translate(err)
}

func (r *applicationRepository) Recent(ctx context.Context, limit int) ([]ApplicationRow, error) {
	var rows []ApplicationRow
	err := r.joined(ctx).
		Order("applications.created_at DESC, applications.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, translate(err)
}

type statusCount struct {
	Status models.ApplicationStatus
	Total  int64
}

// CountByStatus counts the whole store, every known status present and zero-filled.
func (r *applicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	counts := make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *applicationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&count).Error
	return count, translate(err)
}

// UpdateReview overwrites status and notes and stamps updated_at with at.
func (r *applicationRepository) UpdateReview(ctx context.Context, id uint, status models.ApplicationStatus, notes string, at time.Time) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "notes": notes, "updated_at": at}))
}

func (r *applicationRepository) ResumeExists(ctx context.Context, filename string) (bool, error) {
	if filename == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Where("resume_file = ?", filename).Count(&count).Error
	return count > 0, translate(err)
}
