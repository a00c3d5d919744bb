package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/talentos/internal/config"
	"github.com/diewo77/talentos/internal/db"
	"github.com/diewo77/talentos/internal/models"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: "file:repo_" + t.Name() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func createPosting(t *testing.T, repo PostingRepository, title, token string, status models.PostingStatus) *models.Posting {
	t.Helper()
	p := &models.Posting{Title: title, Description: "desc", Token: token, Status: status}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	return p
}

func createApplication(t *testing.T, repo ApplicationRepository, postingID uint, name string, status models.ApplicationStatus) *models.Application {
	t.Helper()
	a := &models.Application{PostingID: postingID, Name: name, Email: "c@x.io", Status: status}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("create application: %v", err)
	}
	return a
}

func TestAccountRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(setupDB(t))
	a := &models.Account{Name: "Ana", Email: "ana@x.io", PasswordHash: "h", Role: models.RoleRH, Active: true}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &models.Account{Name: "Ana 2", Email: "ana@x.io", PasswordHash: "h", Role: models.RoleRH}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	taken, err := repo.EmailTaken(ctx, "ana@x.io", 0)
	if err != nil || !taken {
		t.Fatalf("expected email taken, got %v %v", taken, err)
	}
	taken, _ = repo.EmailTaken(ctx, "ana@x.io", a.ID)
	if taken {
		t.Fatalf("own email should not count as taken")
	}
}

func TestAccountRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(setupDB(t))
	a := &models.Account{Name: "Bia", Email: "bia@x.io", PasswordHash: "h", Role: models.RoleAdmin, Active: true}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Update(ctx, a.ID, map[string]any{"active": false, "name": "Beatriz"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Active || got.Name != "Beatriz" {
		t.Fatalf("update not applied: %+v", got)
	}
	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPostingRepository_ListWithCounts(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	postings := NewPostingRepository(conn)
	apps := NewApplicationRepository(conn)

	p1 := createPosting(t, postings, "Backend", "aaaa1111", models.PostingActive)
	p2 := createPosting(t, postings, "Frontend", "bbbb2222", models.PostingClosed)
	createApplication(t, apps, p1.ID, "Ana", models.ApplicationPending)
	createApplication(t, apps, p1.ID, "Bruno", models.ApplicationPending)

	rows, err := postings.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(rows))
	}
	if rows[0].ID != p2.ID || rows[0].ApplicationCount != 0 {
		t.Fatalf("expected newest posting first with no applications: %+v", rows[0])
	}
	if rows[1].ID != p1.ID || rows[1].ApplicationCount != 2 {
		t.Fatalf("expected 2 applications on first posting: %+v", rows[1])
	}
}

func TestPostingRepository_FindActiveByToken(t *testing.T) {
	ctx := context.Background()
	repo := NewPostingRepository(setupDB(t))
	createPosting(t, repo, "Open", "open0001", models.PostingActive)
	createPosting(t, repo, "Paused", "paus0001", models.PostingInactive)

	if _, err := repo.FindActiveByToken(ctx, "open0001"); err != nil {
		t.Fatalf("expected active posting: %v", err)
	}
	for _, tok := range []string{"paus0001", "missing1"} {
		if _, err := repo.FindActiveByToken(ctx, tok); !errors.Is(err, ErrNotFound) {
			t.Fatalf("token %s: expected ErrNotFound, got %v", tok, err)
		}
	}
}

func TestPostingRepository_DuplicateToken(t *testing.T) {
	repo := NewPostingRepository(setupDB(t))
	createPosting(t, repo, "One", "same0001", models.PostingActive)
	err := repo.Create(context.Background(), &models.Posting{Title: "Two", Description: "d", Token: "same0001", Status: models.PostingActive})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPostingRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	postings := NewPostingRepository(conn)
	apps := NewApplicationRepository(conn)

	p := createPosting(t, postings, "Doomed", "doom0001", models.PostingActive)
	keep := createPosting(t, postings, "Kept", "keep0001", models.PostingActive)
	a := createApplication(t, apps, p.ID, "Ana", models.ApplicationPending)
	conn.Model(&models.Application{}).Where("id = ?", a.ID).Update("resume_file", "Ana_1_abcdef.pdf")
	createApplication(t, apps, p.ID, "Bruno", models.ApplicationApproved)
	createApplication(t, apps, keep.ID, "Carla", models.ApplicationPending)

	files, err := postings.DeleteWithApplications(ctx, p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(files) != 1 || files[0] != "Ana_1_abcdef.pdf" {
		t.Fatalf("unexpected removed files %v", files)
	}
	var remaining int64
	conn.Model(&models.Application{}).Where("posting_id = ?", p.ID).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected applications removed, %d left", remaining)
	}
	if n, _ := apps.Count(ctx); n != 1 {
		t.Fatalf("expected other posting's application kept, total=%d", n)
	}
	if _, err := postings.DeleteWithApplications(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationRepository_SearchAndCounts(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	postings := NewPostingRepository(conn)
	apps := NewApplicationRepository(conn)

	golang := createPosting(t, postings, "Go Developer", "go000001", models.PostingActive)
	design := createPosting(t, postings, "Designer", "ds000001", models.PostingActive)
	createApplication(t, apps, golang.ID, "Ana Souza", models.ApplicationTalentPool)
	createApplication(t, apps, design.ID, "Bruno Lima", models.ApplicationTalentPool)
	createApplication(t, apps, design.ID, "Carla Go", models.ApplicationRejected)

	rows, err := apps.Search(ctx, SearchFilter{Query: "Go"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected name or title match on 2 rows, got %d", len(rows))
	}
	rows, _ = apps.Search(ctx, SearchFilter{Query: "Go", Status: models.ApplicationTalentPool})
	if len(rows) != 1 || rows[0].PostingTitle != "Go Developer" {
		t.Fatalf("expected one talent pool match with posting title, got %+v", rows)
	}

	counts, err := apps.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != 5 {
		t.Fatalf("expected all five statuses, got %v", counts)
	}
	if counts[models.ApplicationTalentPool] != 2 || counts[models.ApplicationRejected] != 1 || counts[models.ApplicationPending] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestApplicationRepository_UpdateReview(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	p := createPosting(t, NewPostingRepository(conn), "QA", "qa000001", models.PostingActive)
	apps := NewApplicationRepository(conn)
	a := createApplication(t, apps, p.ID, "Ana", models.ApplicationPending)

	at := a.UpdatedAt.Add(time.Hour)
	if err := apps.UpdateReview(ctx, a.ID, models.ApplicationApproved, "great fit", at); err != nil {
		t.Fatalf("update: %v", err)
	}
	row, err := apps.FindWithPosting(ctx, a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if row.Status != models.ApplicationApproved || row.Notes != "great fit" || row.PostingTitle != "QA" {
		t.Fatalf("unexpected row %+v", row)
	}
	if !row.UpdatedAt.Equal(at) {
		t.Fatalf("expected updated_at %v, got %v", at, row.UpdatedAt)
	}
	if err := apps.UpdateReview(ctx, 999, models.ApplicationApproved, "", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := apps.FindWithPosting(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationRepository_ResumeExists(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	p := createPosting(t, NewPostingRepository(conn), "Ops", "ops00001", models.PostingActive)
	apps := NewApplicationRepository(conn)
	a := &models.Application{PostingID: p.ID, Name: "Ana", Email: "a@b.co", Status: models.ApplicationPending, ResumeFile: "Ana_1_a1b2c3.pdf"}
	if err := apps.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok, _ := apps.ResumeExists(ctx, "Ana_1_a1b2c3.pdf"); !ok {
		t.Fatalf("expected résumé to exist")
	}
	if ok, _ := apps.ResumeExists(ctx, "other.pdf"); ok {
		t.Fatalf("unexpected résumé match")
	}
	if ok, _ := apps.ResumeExists(ctx, ""); ok {
		t.Fatalf("empty name must never match")
	}
}
