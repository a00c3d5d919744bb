package policy

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/gate"
	"github.com/diewo77/talentos/httpx"
	"github.com/diewo77/talentos/i18n"
	"github.com/diewo77/talentos/internal/middleware"
	"github.com/diewo77/talentos/internal/models"
	"github.com/diewo77/talentos/internal/repository"
)

// AccessGuard resolves the session account into a request identity and
// checks role permissions for routes and objects.
type AccessGuard struct {
	Gate     *gate.Gate[auth.Identity]
	accounts *gate.Cache[uint, *models.Account]
}

// NewAccessGuard creates a guard whose account lookups are cached for ttl.
func NewAccessGuard(accounts repository.AccountRepository, ttl time.Duration) *AccessGuard {
	load := func(ctx context.Context, id uint) (*models.Account, error) {
		return accounts.FindByID(ctx, id)
	}
	return &AccessGuard{
		Gate:     gate.New(profileOf),
		accounts: gate.NewCache[uint, *models.Account](load, ttl),
	}
}

// RegisterPolicy adds an object-level policy for resource.
func (g *AccessGuard) RegisterPolicy(resource string, p gate.Policy[auth.Identity]) {
	g.Gate.Register(resource, p)
}

// Check resolves a raw session token into an identity. It returns
// gate.ErrUnauthenticated for bad, expired, unknown or inactive sessions.
func (g *AccessGuard) Check(ctx context.Context, token string) (auth.Identity, error) {
	id, ok := auth.ParseToken(token)
	if !ok {
		return auth.Identity{}, gate.ErrUnauthenticated
	}
	acc, err := g.accounts.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return auth.Identity{}, gate.ErrUnauthenticated
	}
	if err != nil {
		return auth.Identity{}, err
	}
	if !acc.Active || !acc.Role.Valid() {
		return auth.Identity{}, gate.ErrUnauthenticated
	}
	return identityOf(acc), nil
}

// Resolve runs after auth.Middleware and stores the identity of a live
// account in the request context. Sessions of deleted or inactive accounts
// are cleared.
func (g *AccessGuard) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.AccountIDFromContext(r.Context()); !ok {
			next.ServeHTTP(w, r)
			return
		}
		identity, err := g.Check(r.Context(), auth.SessionToken(r))
		switch {
		case errors.Is(err, gate.ErrUnauthenticated):
			auth.ClearSession(w)
		case err != nil:
			log.Printf("resolve session: %v", err)
		default:
			r = r.WithContext(auth.WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// Authorize checks the caller's profile for resource:action and, when obj is
// non-nil, the resource policy.
func (g *AccessGuard) Authorize(ctx context.Context, action gate.Action, resource string, obj any) error {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return gate.ErrUnauthenticated
	}
	return g.Gate.Authorize(ctx, identity, action, resource, obj)
}

// InvalidateAccount drops the cached account. Call it after edits and deletes.
func (g *AccessGuard) InvalidateAccount(id uint) {
	g.accounts.Invalidate(id)
}

// RequireStaff lets through any authenticated admin, master or rh.
func (g *AccessGuard) RequireStaff() func(http.Handler) http.Handler {
	return g.RequirePermission(ResourceDashboard, gate.ActionView)
}

// RequirePermission returns middleware that blocks callers lacking
// resource:action.
func (g *AccessGuard) RequirePermission(resource string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				Deny(w, r, gate.ErrUnauthenticated)
				return
			}
			if !g.Gate.Allows(identity, action, resource) {
				Deny(w, r, gate.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deny answers an access failure: a 403 JSON body for API clients, or a
// flash message and a redirect to the login page for browsers.
func Deny(w http.ResponseWriter, r *http.Request, err error) {
	code := "permission_denied"
	if errors.Is(err, gate.ErrUnauthenticated) {
		code = "session_required"
	}
	if httpx.WantsJSON(r) {
		httpx.JSONMessage(w, http.StatusForbidden, "access_denied", i18n.T(middleware.LangFrom(r), code), nil)
		return
	}
	middleware.Flash(w, r, code)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
