package handlers

import (
	"net/http"

	"github.com/diewo77/talentos/internal/services"
)

type PostingHandler struct {
	postings *services.PostingService
}

func NewPostingHandler(postings *services.PostingService) *PostingHandler {
	return &PostingHandler{postings: postings}
}

func postingInput(r *http.Request) services.PostingInput {
	return services.PostingInput{
		Title:        r.FormValue("titulo"),
		Description:  r.FormValue("descricao"),
		Requirements: r.FormValue("requisitos"),
		Location:     r.FormValue("localizacao"),
		Status:       r.FormValue("status"),
	}
}

func (h *PostingHandler) List(w http.ResponseWriter, r *http.Request) {
	postings, err := h.postings.List(r.Context())
	if err != nil {
		fail(w, r, err, "/dashboard")
		return
	}
	show(w, r, map[string]any{"postings": postings})
}

func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	posting, err := h.postings.Create(r.Context(), postingInput(r))
	if err != nil {
		fail(w, r, err, "/vagas")
		return
	}
	done(w, r, http.StatusCreated, "posting_created", posting, "/vagas")
}

func (h *PostingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, services.ErrNotFound, "/vagas")
		return
	}
	posting, err := h.postings.Edit(r.Context(), id, postingInput(r))
	if err != nil {
		fail(w, r, err, "/vagas")
		return
	}
	done(w, r, http.StatusOK, "posting_updated", posting, "/vagas")
}

// Delete removes the posting and every application made to it.
func (h *PostingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, services.ErrNotFound, "/vagas")
		return
	}
	if err := h.postings.Delete(r.Context(), id); err != nil {
		fail(w, r, err, "/vagas")
		return
	}
	done(w, r, http.StatusOK, "posting_deleted", map[string]uint{"deleted": id}, "/vagas")
}
