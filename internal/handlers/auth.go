package handlers

import (
	"net/http"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/internal/services"
)

type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login shows the pending flash on GET and starts a session on POST.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		payload := map[string]any{"authenticated": false}
		if id, ok := auth.IdentityFromContext(r.Context()); ok {
			payload["authenticated"] = true
			payload["account"] = id
		}
		show(w, r, payload)
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), r.FormValue("email"), r.FormValue("senha"))
	if err != nil {
		fail(w, r, err, "/login")
		return
	}
	auth.CreateSession(w, account.ID)
	done(w, r, http.StatusOK, "login_ok", account, "/dashboard")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	done(w, r, http.StatusOK, "logout_ok", map[string]string{"status": "logged_out"}, "/login")
}
