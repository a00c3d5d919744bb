package handlers

import (
	"net/http"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/internal/services"
)

// AccountCache is told when an account changes so stale role data is not
// served to its open sessions.
type AccountCache interface {
	InvalidateAccount(id uint)
}

type AccountHandler struct {
	accounts *services.AccountService
	cache    AccountCache
}

func NewAccountHandler(accounts *services.AccountService, cache AccountCache) *AccountHandler {
	return &AccountHandler{accounts: accounts, cache: cache}
}

func accountInput(r *http.Request) services.AccountInput {
	return services.AccountInput{
		Name:     r.FormValue("nome"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("senha"),
		Role:     r.FormValue("perfil"),
		Active:   checked(r.FormValue("ativo")),
	}
}

func checked(v string) bool {
	switch v {
	case "on", "1", "true":
		return true
	}
	return false
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		fail(w, r, err, "/dashboard")
		return
	}
	show(w, r, map[string]any{"accounts": accounts})
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Create(r.Context(), accountInput(r))
	if err != nil {
		fail(w, r, err, "/usuarios")
		return
	}
	done(w, r, http.StatusCreated, "account_created", account, "/usuarios")
}

func (h *AccountHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, services.ErrNotFound, "/usuarios")
		return
	}
	account, err := h.accounts.Edit(r.Context(), id, accountInput(r))
	if err != nil {
		fail(w, r, err, "/usuarios")
		return
	}
	h.cache.InvalidateAccount(id)
	done(w, r, http.StatusOK, "account_updated", account, "/usuarios")
}

// Delete is reached by masters only. The caller's own account is refused.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, services.ErrNotFound, "/usuarios")
		return
	}
	actor, _ := auth.IdentityFromContext(r.Context())
	if err := h.accounts.Delete(r.Context(), actor.AccountID, id); err != nil {
		fail(w, r, err, "/usuarios")
		return
	}
	h.cache.InvalidateAccount(id)
	done(w, r, http.StatusOK, "account_deleted", map[string]uint{"deleted": id}, "/usuarios")
}
