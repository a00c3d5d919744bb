package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/talentos/internal/models"
	"github.com/diewo77/talentos/internal/repository"
	"github.com/diewo77/talentos/validation"
	"github.com/google/uuid"
)

// PostingInput is the posting form. An empty Status means active on create
// and unchanged on edit.
type PostingInput struct {
	Title        string `form:"titulo" validate:"required,max=200"`
	Description  string `form:"descricao" validate:"required"`
	Requirements string `form:"requisitos"`
	Location     string `form:"localizacao" validate:"max=100"`
	Status       string `form:"status" validate:"omitempty,oneof=active inactive closed"`
}

func (in PostingInput) sanitized() PostingInput {
	in.Title = Sanitize(in.Title)
	in.Description = Sanitize(in.Description)
	in.Requirements = Sanitize(in.Requirements)
	in.Location = Sanitize(in.Location)
	in.Status = Sanitize(in.Status)
	return in
}

// FileRemover deletes stored résumé files.
type FileRemover interface {
	Remove(name string) error
}

type PostingService struct {
	postings repository.PostingRepository
	files    FileRemover
	newToken func() string
	now      func() time.Time
}

func NewPostingService(postings repository.PostingRepository, files FileRemover) *PostingService {
	return &PostingService{
		postings: postings,
		files:    files,
		newToken: newPostingToken,
		now:      time.Now,
	}
}

// newPostingToken returns the first 8 characters of a random UUID.
func newPostingToken() string {
	return uuid.NewString()[:8]
}

// List returns every posting, newest first, with application counts.
func (s *PostingService) List(ctx context.Context) ([]repository.PostingSummary, error) {
	return s.postings.List(ctx)
}

func (s *PostingService) Get(ctx context.Context, id uint) (*models.Posting, error) {
	return s.postings.FindByID(ctx, id)
}

// Public returns the posting behind an application link, if it is active.
func (s *PostingService) Public(ctx context.Context, token string) (*models.Posting, error) {
	p, err := s.postings.FindActiveByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostingUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !p.AcceptsApplications() {
		return nil, ErrPostingUnavailable
	}
	return p, nil
}

// postingStatus parses a submitted status; empty keeps fallback.
func postingStatus(raw string, fallback models.PostingStatus) (models.PostingStatus, error) {
	if raw == "" {
		return fallback, nil
	}
	st, ok := models.ParsePostingStatus(raw)
	if !ok {
		return "", validation.Fail("status", "invalid_status")
	}
	return st, nil
}

// Create stores a new posting with a fresh public token. A token collision
// is reported as a validation failure; it is not retried.
func (s *PostingService) Create(ctx context.Context, in PostingInput) (*models.Posting, error) {
	in = in.sanitized()
	if v := validation.Struct(in); !v.Empty() {
		return nil, v.Err()
	}
	status, err := postingStatus(in.Status, models.PostingActive)
	if err != nil {
		return nil, err
	}
	p := &models.Posting{
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Location:     in.Location,
		Status:       status,
		Token:        s.newToken(),
	}
	if status == models.PostingClosed {
		closed := s.now()
		p.ClosedAt = &closed
	}
	if err := s.postings.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validation.Fail("token", "token_taken")
		}
		return nil, fmt.Errorf("create posting: %w", err)
	}
	return p, nil
}

// Edit overwrites the posting. Any status may follow any other; closed_at
// tracks whether the posting is currently closed.
func (s *PostingService) Edit(ctx context.Context, id uint, in PostingInput) (*models.Posting, error) {
	current, err := s.postings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in = in.sanitized()
	if v := validation.Struct(in); !v.Empty() {
		return nil, v.Err()
	}
	status, err := postingStatus(in.Status, current.Status)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"title":        in.Title,
		"description":  in.Description,
		"requirements": in.Requirements,
		"location":     in.Location,
		"status":       status,
	}
	switch {
	case status == models.PostingClosed && current.Status != models.PostingClosed:
		fields["closed_at"] = s.now()
	case status != models.PostingClosed && current.ClosedAt != nil:
		fields["closed_at"] = nil
	}
	if err := s.postings.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update posting %d: %w", id, err)
	}
	return s.postings.FindByID(ctx, id)
}

// Delete removes the posting together with its applications, then drops the
// résumé files they referenced.
func (s *PostingService) Delete(ctx context.Context, id uint) error {
	files, err := s.postings.DeleteWithApplications(ctx, id)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := s.files.Remove(f); err != nil {
			log.Printf("remove résumé %s of posting %d: %v", f, id, err)
		}
	}
	return nil
}
