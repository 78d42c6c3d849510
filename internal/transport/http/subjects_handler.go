package http

import (
	"context"
	"net/http"

	"tahadi-quiz-service/internal/domain"
)

// SubjectLister enumerates the subjects players can pick during setup.
type SubjectLister interface {
	Subjects(ctx context.Context) ([]domain.Subject, error)
}

// SubjectsHandler serves the subject catalog for the setup screen.
type SubjectsHandler struct {
	lister SubjectLister
}

func NewSubjectsHandler(lister SubjectLister) *SubjectsHandler {
	return &SubjectsHandler{lister: lister}
}

func (h *SubjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.lister.Subjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if subjects == nil {
		subjects = []domain.Subject{}
	}
	writeJSON(w, http.StatusOK, subjects)
}
