package handlers

import (
	"context"
	"errors"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/diewo77/talentos/gate"
	"github.com/diewo77/talentos/httpx"
	"github.com/diewo77/talentos/i18n"
	"github.com/diewo77/talentos/internal/middleware"
	"github.com/diewo77/talentos/internal/storage"
)

// Authorizer checks the caller against an object-level policy.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resource string, obj any) error
}

// ResumeStore opens stored résumé files.
type ResumeStore interface {
	Path(name string) (string, bool)
	Open(name string) (*os.File, error)
}

type ResumeHandler struct {
	files    ResumeStore
	guard    Authorizer
	resource string
}

// NewResumeHandler serves files from files once guard allows the download
// of the file name under resource.
func NewResumeHandler(files ResumeStore, guard Authorizer, resource string) *ResumeHandler {
	return &ResumeHandler{files: files, guard: guard, resource: resource}
}

// Download streams a résumé as an attachment. Directory components of the
// requested name are ignored. Files not attached to an application are
// reported as missing.
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	path, ok := h.files.Path(r.PathValue("filename"))
	if !ok {
		h.notFound(w, r)
		return
	}
	name := filepath.Base(path)

	err := h.guard.Authorize(r.Context(), gate.ActionView, h.resource, name)
	switch {
	case errors.Is(err, gate.ErrForbidden):
		h.notFound(w, r)
		return
	case err != nil:
		fail(w, r, err, "/banco-talentos")
		return
	}

	f, err := h.files.Open(name)
	if errors.Is(err, storage.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		log.Printf("open résumé %s: %v", name, err)
		fail(w, r, err, "/banco-talentos")
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		fail(w, r, err, "/banco-talentos")
		return
	}

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, st.ModTime(), f)
}

func (h *ResumeHandler) notFound(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LangFrom(r)
	if httpx.WantsJSON(r) {
		httpx.JSONMessage(w, http.StatusNotFound, "file_not_found", i18n.T(lang, "file_not_found"), nil)
		return
	}
	middleware.Flash(w, r, "file_not_found")
	http.Redirect(w, r, "/banco-talentos", http.StatusSeeOther)
}
