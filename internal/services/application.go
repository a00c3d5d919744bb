package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/diewo77/talentos/internal/models"
	"github.com/diewo77/talentos/internal/notify"
	"github.com/diewo77/talentos/internal/repository"
	"github.com/diewo77/talentos/internal/storage"
	"github.com/diewo77/talentos/validation"
)

// ApplicationInput is the public application form.
type ApplicationInput struct {
	Name              string  `form:"nome" validate:"min=3,max=100"`
	Email             string  `form:"email" validate:"emailpattern,max=120"`
	Phone             string  `form:"telefone" validate:"max=20"`
	ProfileURL        string  `form:"linkedin" validate:"max=200"`
	SalaryExpectation string  `form:"expectativa_salario" validate:"max=50"`
	Resume            *Upload `form:"-" validate:"-"`
}

// Upload is a file attached to a form.
type Upload struct {
	Filename string
	Content  io.Reader
}

func (in ApplicationInput) sanitized() ApplicationInput {
	in.Name = Sanitize(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = Sanitize(in.Phone)
	in.ProfileURL = Sanitize(in.ProfileURL)
	in.SalaryExpectation = Sanitize(in.SalaryExpectation)
	return in
}

// ResumeFiles stores résumé uploads.
type ResumeFiles interface {
	Save(name string, r io.Reader) (string, error)
	Remove(name string) error
}

// TalentPool is a filtered listing plus review counts over the whole store.
type TalentPool struct {
	Applications []repository.ApplicationRow        `json:"applications"`
	Counts       map[models.ApplicationStatus]int64 `json:"counts"`
	Query        string                             `json:"query"`
	Status       models.ApplicationStatus           `json:"status,omitempty"`
}

// ApplicationWorkflow owns every write to candidate state.
type ApplicationWorkflow struct {
	postings     repository.PostingRepository
	applications repository.ApplicationRepository
	files        ResumeFiles
	notifier     notify.Notifier
	now          func() time.Time
}

func NewApplicationWorkflow(
	postings repository.PostingRepository,
	applications repository.ApplicationRepository,
	files ResumeFiles,
	notifier notify.Notifier,
) *ApplicationWorkflow {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ApplicationWorkflow{
		postings:     postings,
		applications: applications,
		files:        files,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Submit records an application to the active posting behind token. A
// résumé with an unsupported extension is dropped without error. The
// confirmation message is best effort.
func (w *ApplicationWorkflow) Submit(ctx context.Context, token string, in ApplicationInput, lang string) (*models.Application, error) {
	posting, err := w.postings.FindActiveByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostingUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !posting.AcceptsApplications() {
		return nil, ErrPostingUnavailable
	}

	in = in.sanitized()
	if v := validation.Struct(in); !v.Empty() {
		return nil, v.Err()
	}

	var stored string
	if in.Resume != nil && in.Resume.Filename != "" {
		if ext, ok := storage.AllowedExtension(in.Resume.Filename); ok {
			stored, err = w.files.Save(storage.ResumeName(in.Name, posting.ID, ext), in.Resume.Content)
			if err != nil {
				return nil, fmt.Errorf("store résumé: %w", err)
			}
		}
	}

	now := w.now()
	app := &models.Application{
		CreatedAt:         now,
		UpdatedAt:         now,
		PostingID:         posting.ID,
		Name:              in.Name,
		Email:             in.Email,
		Phone:             in.Phone,
		ProfileURL:        in.ProfileURL,
		ResumeFile:        stored,
		SalaryExpectation: in.SalaryExpectation,
		Status:            models.ApplicationPending,
	}
	if err := w.applications.Create(ctx, app); err != nil {
		if stored != "" {
			if rmErr := w.files.Remove(stored); rmErr != nil {
				log.Printf("remove orphan résumé %s: %v", stored, rmErr)
			}
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	subject, body := notify.Confirmation(lang, app.Name, posting.Title)
	if err := w.notifier.Send(ctx, app.Email, subject, body); err != nil {
		log.Printf("confirmation for application %d not sent: %v", app.ID, err)
	}
	return app, nil
}

// UpdateStatus overwrites status and notes. There is no transition graph;
// only unknown statuses are rejected. updated_at strictly increases.
func (w *ApplicationWorkflow) UpdateStatus(ctx context.Context, id uint, status, notes string) (*models.Application, error) {
	st, ok := models.ParseApplicationStatus(Sanitize(status))
	if !ok {
		return nil, validation.Fail("status", "invalid_status")
	}
	app, err := w.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// stored timestamps keep microseconds; compare at that precision
	at := w.now().Truncate(time.Microsecond)
	if prev := app.UpdatedAt.Truncate(time.Microsecond); !at.After(prev) {
		at = prev.Add(time.Microsecond)
	}
	notes = Sanitize(notes)
	if err := w.applications.UpdateReview(ctx, id, st, notes, at); err != nil {
		return nil, err
	}
	app.Status, app.Notes, app.UpdatedAt = st, notes, at
	return app, nil
}

// ListByPosting returns the posting and its applications, newest first.
func (w *ApplicationWorkflow) ListByPosting(ctx context.Context, postingID uint) (*models.Posting, []models.Application, error) {
	posting, err := w.postings.FindByID(ctx, postingID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := w.applications.ListByPosting(ctx, postingID)
	if err != nil {
		return nil, nil, err
	}
	return posting, apps, nil
}

// Get returns one application with its posting title.
func (w *ApplicationWorkflow) Get(ctx context.Context, id uint) (*repository.ApplicationRow, error) {
	return w.applications.FindWithPosting(ctx, id)
}

// TalentPool searches candidate name or posting title, optionally narrowed
// by exact status. Counts ignore the filters.
func (w *ApplicationWorkflow) TalentPool(ctx context.Context, query, status string) (*TalentPool, error) {
	query, status = Sanitize(query), Sanitize(status)
	filter := repository.SearchFilter{Query: query}
	if status != "" {
		st, ok := models.ParseApplicationStatus(status)
		if !ok {
			return nil, validation.Fail("status", "invalid_status")
		}
		filter.Status = st
	}
	rows, err := w.applications.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := w.applications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &TalentPool{Applications: rows, Counts: counts, Query: query, Status: filter.Status}, nil
}
