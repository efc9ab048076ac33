// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// AssignmentsHandler serves the read-only assignment projections.
type AssignmentsHandler struct {
	deps Dependencies
}

// NewAssignmentsHandler creates a new assignments handler.
func NewAssignmentsHandler(deps Dependencies) *AssignmentsHandler {
	return &AssignmentsHandler{deps: deps}
}

// HandleList handles GET /assignments?inspector_id=X requests.
func (h *AssignmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	inspectorID := strings.TrimSpace(r.URL.Query().Get("inspector_id"))
	if inspectorID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingInspectorID)
		return
	}
	list, err := h.deps.ListByInspector(r.Context(), inspectorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]assignmentSummary, 0, len(list))
	for _, a := range list {
		out = append(out, newAssignmentSummary(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDetail handles GET /assignments/{assignmentID} requests.
func (h *AssignmentsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignmentID")
	a, err := h.deps.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssignmentDetail(a))
}

// HandleProgress handles GET /assignments/{assignmentID}/progress requests.
func (h *AssignmentsHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignmentID")
	p, err := h.deps.ProgressOf(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
