package api

import (
	"net/http"
	"strings"
)

// SubjectsHandler serves subject lookups.
type SubjectsHandler struct {
	deps Dependencies
}

// NewSubjectsHandler creates a new subjects handler.
func NewSubjectsHandler(deps Dependencies) *SubjectsHandler {
	return &SubjectsHandler{deps: deps}
}

// HandleGetCohort handles GET /subjects/{id}/cohort.
func (h *SubjectsHandler) HandleGetCohort(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_cohort"
	if !allow(w, r, op, http.MethodGet) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/subjects/")
	id, ok := strings.CutSuffix(rest, "/cohort")
	if !ok || id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	view, err := h.deps.Cohort(r.Context(), id)
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
