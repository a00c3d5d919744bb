// Package handlers maps HTTP requests onto the services. Browsers get a
// flash message and a 303 redirect; API clients (Accept: application/json)
// get JSON bodies.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/diewo77/talentos/gate"
	"github.com/diewo77/talentos/httpx"
	"github.com/diewo77/talentos/i18n"
	"github.com/diewo77/talentos/internal/middleware"
	"github.com/diewo77/talentos/internal/services"
	"github.com/diewo77/talentos/validation"
)

// fieldOrder decides which violation a browser sees first.
var fieldOrder = []string{"email", "nome", "senha", "perfil", "titulo", "descricao", "localizacao", "status"}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// done reports a successful write.
func done(w http.ResponseWriter, r *http.Request, status int, code string, payload any, to string) {
	if httpx.WantsJSON(r) {
		httpx.JSON(w, status, payload)
		return
	}
	middleware.Flash(w, r, code)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// fail maps a service error onto the response. back is where browsers are
// sent with the flash message.
func fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	lang := middleware.LangFrom(r)
	if v, ok := validation.As(err); ok {
		field, code := v.First(fieldOrder...)
		if httpx.WantsJSON(r) {
			status := http.StatusBadRequest
			if code == "email_taken" || code == "token_taken" {
				status = http.StatusConflict
			}
			httpx.JSONMessage(w, status, "validation_failed", i18n.Field(lang, field, code), v)
			return
		}
		middleware.FlashMessage(w, i18n.Field(lang, field, code))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, services.ErrPostingUnavailable):
		status, code = http.StatusNotFound, "posting_unavailable"
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, errUploadTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "upload_too_large"
	case errors.Is(err, services.ErrSelfDeletion):
		status, code = http.StatusForbidden, "self_deletion"
	case errors.Is(err, services.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_login"
	case errors.Is(err, gate.ErrUnauthenticated), errors.Is(err, gate.ErrForbidden):
		status, code = http.StatusForbidden, "permission_denied"
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	if httpx.WantsJSON(r) {
		httpx.JSONMessage(w, status, code, i18n.T(lang, code), nil)
		return
	}
	middleware.Flash(w, r, code)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// show writes a read-only payload. Browsers also receive any pending flash.
func show(w http.ResponseWriter, r *http.Request, payload map[string]any) {
	if msg := middleware.PopFlash(w, r); msg != "" {
		payload["flash"] = msg
	}
	httpx.JSON(w, http.StatusOK, payload)
}
