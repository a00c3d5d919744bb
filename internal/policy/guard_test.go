package policy_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/gate"
	"github.com/diewo77/talentos/internal/config"
	"github.com/diewo77/talentos/internal/db"
	"github.com/diewo77/talentos/internal/models"
	"github.com/diewo77/talentos/internal/policy"
	"github.com/diewo77/talentos/internal/repository"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: "file:policy_" + t.Name() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func createAccount(t *testing.T, repo repository.AccountRepository, email string, role models.Role, active bool) *models.Account {
	t.Helper()
	a := &models.Account{Name: "Conta " + string(role), Email: email, PasswordHash: "x", Role: role, Active: active}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func withIdentity(r *http.Request, a *models.Account) *http.Request {
	id := auth.Identity{AccountID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role)}
	return r.WithContext(auth.WithIdentity(r.Context(), id))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestProfileFor(t *testing.T) {
	cases := []struct {
		role   models.Role
		perm   gate.Permission
		expect bool
	}{
		{models.RoleRH, gate.NewPermission(policy.ResourcePosting, gate.ActionCreate), true},
		{models.RoleAdmin, gate.NewPermission(policy.ResourceApplication, gate.ActionUpdate), true},
		{models.RoleRH, gate.NewPermission(policy.ResourcePosting, gate.ActionDelete), false},
		{models.RoleAdmin, gate.NewPermission(policy.ResourceAccount, gate.ActionDelete), false},
		{models.RoleAdmin, gate.NewPermission(policy.ResourceMaintenance, gate.ActionView), false},
		{models.RoleMaster, gate.NewPermission(policy.ResourceAccount, gate.ActionDelete), true},
		{models.RoleMaster, gate.NewPermission(policy.ResourceMaintenance, gate.ActionView), true},
	}
	for _, c := range cases {
		if got := policy.ProfileFor(c.role).Allows(c.perm); got != c.expect {
			t.Fatalf("%s allows %s = %v, want %v", c.role, c.perm, got, c.expect)
		}
	}
	if policy.ProfileFor("guest") != nil {
		t.Fatalf("unknown role should have no profile")
	}
}

func TestCheck(t *testing.T) {
	repo := repository.NewAccountRepository(setupDB(t))
	guard := policy.NewAccessGuard(repo, time.Minute)
	rh := createAccount(t, repo, "rh@x.com", models.RoleRH, true)
	off := createAccount(t, repo, "off@x.com", models.RoleAdmin, false)
	ctx := context.Background()

	id, err := guard.Check(ctx, auth.NewToken(rh.ID))
	if err != nil || id.AccountID != rh.ID || id.Role != "rh" {
		t.Fatalf("expected rh identity, got %+v err=%v", id, err)
	}
	for name, token := range map[string]string{
		"garbage":  "nope",
		"inactive": auth.NewToken(off.ID),
		"unknown":  auth.NewToken(9999),
	} {
		if _, err := guard.Check(ctx, token); !errors.Is(err, gate.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestResolveClearsDeadSessions(t *testing.T) {
	repo := repository.NewAccountRepository(setupDB(t))
	guard := policy.NewAccessGuard(repo, time.Minute)
	off := createAccount(t, repo, "off@x.com", models.RoleAdmin, false)
	rh := createAccount(t, repo, "rh@x.com", models.RoleRH, true)

	var seen bool
	h := auth.Middleware(guard.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = auth.IdentityFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: auth.NewToken(off.ID)})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen {
		t.Fatalf("inactive account must not get an identity")
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: auth.NewToken(rh.ID)})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !seen {
		t.Fatalf("active account should get an identity")
	}
}

func TestRequirePermissionDenials(t *testing.T) {
	repo := repository.NewAccountRepository(setupDB(t))
	guard := policy.NewAccessGuard(repo, time.Minute)
	rh := createAccount(t, repo, "rh@x.com", models.RoleRH, true)
	master := createAccount(t, repo, "m@x.com", models.RoleMaster, true)
	h := guard.RequirePermission(policy.ResourceMaintenance, gate.ActionView)(okHandler)

	// anonymous browser: redirect to login with a flash
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manutencao", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	flash := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			flash = true
		}
	}
	if !flash {
		t.Fatalf("expected flash cookie")
	}

	// rh API client: 403 JSON
	req := withIdentity(httptest.NewRequest(http.MethodGet, "/manutencao", nil), rh)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] != "access_denied" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	// staff routes accept rh; maintenance accepts master
	rec = httptest.NewRecorder()
	guard.RequireStaff()(okHandler).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rh))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rh should reach staff route, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/manutencao", nil), master))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("master should reach master route, got %d", rec.Code)
	}
}

func TestResumePolicy(t *testing.T) {
	conn := setupDB(t)
	accounts := repository.NewAccountRepository(conn)
	postings := repository.NewPostingRepository(conn)
	applications := repository.NewApplicationRepository(conn)
	ctx := context.Background()

	p := &models.Posting{Title: "Dev", Description: "d", Status: models.PostingActive, Token: "abcd1234"}
	if err := postings.Create(ctx, p); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	app := &models.Application{PostingID: p.ID, Name: "Ana", Email: "ana@x.com", ResumeFile: "Ana_1_abcdef.pdf", Status: models.ApplicationPending}
	if err := applications.Create(ctx, app); err != nil {
		t.Fatalf("create application: %v", err)
	}

	guard := policy.NewAccessGuard(accounts, time.Minute)
	guard.RegisterPolicy(policy.ResourceResume, policy.NewResumePolicy(applications))
	rh := createAccount(t, accounts, "rh@x.com", models.RoleRH, true)
	id := auth.Identity{AccountID: rh.ID, Role: string(rh.Role)}
	rctx := auth.WithIdentity(ctx, id)

	if err := guard.Authorize(rctx, gate.ActionView, policy.ResourceResume, "Ana_1_abcdef.pdf"); err != nil {
		t.Fatalf("expected download allowed, got %v", err)
	}
	if err := guard.Authorize(rctx, gate.ActionView, policy.ResourceResume, "stray.pdf"); !errors.Is(err, gate.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown file, got %v", err)
	}
	if err := guard.Authorize(ctx, gate.ActionView, policy.ResourceResume, "Ana_1_abcdef.pdf"); !errors.Is(err, gate.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without identity, got %v", err)
	}
}

func TestInvalidateAccountRefreshesRole(t *testing.T) {
	repo := repository.NewAccountRepository(setupDB(t))
	guard := policy.NewAccessGuard(repo, time.Hour)
	a := createAccount(t, repo, "a@x.com", models.RoleRH, true)
	ctx := context.Background()
	token := auth.NewToken(a.ID)

	if id, _ := guard.Check(ctx, token); id.Role != "rh" {
		t.Fatalf("expected rh, got %s", id.Role)
	}
	if err := repo.Update(ctx, a.ID, map[string]any{"role": models.RoleMaster}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if id, _ := guard.Check(ctx, token); id.Role != "rh" {
		t.Fatalf("cached role expected until invalidation, got %s", id.Role)
	}
	guard.InvalidateAccount(a.ID)
	if id, _ := guard.Check(ctx, token); id.Role != "master" {
		t.Fatalf("expected master after invalidation, got %s", id.Role)
	}
}
