package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/diewo77/talentos/internal/middleware"
	"github.com/diewo77/talentos/internal/obs"
	"github.com/diewo77/talentos/internal/services"
	"github.com/diewo77/talentos/validation"
)

// uploadMemory is how much of a multipart form is kept in memory before
// spilling to temporary files.
const uploadMemory = 8 << 20

// errUploadTooLarge reports a request body cut off by the body size limit.
var errUploadTooLarge = errors.New("upload too large")

type ApplicationHandler struct {
	postings     *services.PostingService
	applications *services.ApplicationWorkflow
}

func NewApplicationHandler(postings *services.PostingService, applications *services.ApplicationWorkflow) *ApplicationHandler {
	return &ApplicationHandler{postings: postings, applications: applications}
}

// PublicPosting shows the public part of an active posting.
func (h *ApplicationHandler) PublicPosting(w http.ResponseWriter, r *http.Request) {
	p, err := h.postings.Public(r.Context(), r.PathValue("token"))
	if err != nil {
		fail(w, r, err, "/")
		return
	}
	show(w, r, map[string]any{"posting": map[string]any{
		"title":        p.Title,
		"description":  p.Description,
		"requirements": p.Requirements,
		"location":     p.Location,
		"apply_path":   p.ApplyPath(),
	}})
}

// Apply accepts the public application form, with an optional "curriculo"
// file part.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	back := "/inscrever/" + token

	if err := r.ParseMultipartForm(uploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(w, r, errUploadTooLarge, back)
			return
		}
		fail(w, r, validation.Fail("curriculo", "invalid"), back)
		return
	}
	in := services.ApplicationInput{
		Name:              r.FormValue("nome"),
		Email:             r.FormValue("email"),
		Phone:             r.FormValue("telefone"),
		ProfileURL:        r.FormValue("linkedin"),
		SalaryExpectation: r.FormValue("expectativa_salario"),
	}
	if file, header, err := r.FormFile("curriculo"); err == nil {
		defer file.Close()
		in.Resume = &services.Upload{Filename: header.Filename, Content: file}
	}

	app, err := h.applications.Submit(r.Context(), token, in, middleware.LangFrom(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostingUnavailable):
			obs.ApplicationSubmitted("unavailable")
			back = "/"
		default:
			if _, ok := validation.As(err); ok {
				obs.ApplicationSubmitted("invalid")
			}
		}
		fail(w, r, err, back)
		return
	}
	obs.ApplicationSubmitted("accepted")
	done(w, r, http.StatusCreated, "application_sent", app, back)
}

// ByPosting lists the applications of one posting.
func (h *ApplicationHandler) ByPosting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "posting_id")
	if !ok {
		fail(w, r, services.ErrNotFound, "/vagas")
		return
	}
	posting, apps, err := h.applications.ListByPosting(r.Context(), id)
	if err != nil {
		fail(w, r, err, "/vagas")
		return
	}
	show(w, r, map[string]any{"posting": posting, "applications": apps})
}

// UpdateStatus records a review decision from the "status" and
// "observacoes" fields.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, services.ErrNotFound, "/banco-talentos")
		return
	}
	app, err := h.applications.UpdateStatus(r.Context(), id, r.FormValue("status"), r.FormValue("observacoes"))
	if err != nil {
		fail(w, r, err, "/banco-talentos")
		return
	}
	done(w, r, http.StatusOK, "status_updated", app, fmt.Sprintf("/candidatos/vaga/%d", app.PostingID))
}

func (h *ApplicationHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, services.ErrNotFound, "/banco-talentos")
		return
	}
	row, err := h.applications.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err, "/banco-talentos")
		return
	}
	show(w, r, map[string]any{"application": row})
}

// TalentPool searches by "busca" and filters by "status".
func (h *ApplicationHandler) TalentPool(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pool, err := h.applications.TalentPool(r.Context(), q.Get("busca"), q.Get("status"))
	if err != nil {
		fail(w, r, err, "/banco-talentos")
		return
	}
	show(w, r, map[string]any{"talent_pool": pool})
}
