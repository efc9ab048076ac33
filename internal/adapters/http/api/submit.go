// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SubmitHandler closes assignments via the gated submission operation.
type SubmitHandler struct {
	deps Dependencies
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps Dependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// submitRequest is the body of POST /assignments/{assignmentID}/submit.
// The body is optional; general notes default to empty.
type submitRequest struct {
	GeneralNotes string `json:"general_notes"`
}

// HandleSubmit handles POST /assignments/{assignmentID}/submit.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	a, err := h.deps.SubmitReport(r.Context(), assignmentID, req.GeneralNotes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssignmentDetail(a))
}
