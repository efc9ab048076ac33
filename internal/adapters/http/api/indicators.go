// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	service "github.com/edusight/fieldcheck/internal/app"
	"github.com/edusight/fieldcheck/internal/domain/model"
	"github.com/edusight/fieldcheck/internal/domain/review"
)

// IndicatorsHandler records findings onto indicators.
type IndicatorsHandler struct {
	deps Dependencies
}

// NewIndicatorsHandler creates a new indicators handler.
func NewIndicatorsHandler(deps Dependencies) *IndicatorsHandler {
	return &IndicatorsHandler{deps: deps}
}

// evidenceFileRequest mirrors one evidence reference in the request body.
type evidenceFileRequest struct {
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// discrepancyRequest mirrors the discrepancy payload in the request body.
type discrepancyRequest struct {
	Type     string                `json:"type"`
	Severity string                `json:"severity"`
	Notes    string                `json:"notes"`
	Evidence []evidenceFileRequest `json:"evidence"`
}

// updateIndicatorRequest is the body of PUT
// /assignments/{assignmentID}/indicators/{code}.
type updateIndicatorRequest struct {
	Outcome     string              `json:"outcome"`
	Discrepancy *discrepancyRequest `json:"discrepancy"`
	Reason      string              `json:"reason"`
}

// updateIndicatorResponse returns the updated indicator plus the
// assignment's recomputed aggregate view.
type updateIndicatorResponse struct {
	Indicator indicatorView  `json:"indicator"`
	Status    string         `json:"status"`
	Progress  model.Progress `json:"progress"`
}

func (req updateIndicatorRequest) toAction() service.IndicatorAction {
	act := service.IndicatorAction{Outcome: model.Outcome(req.Outcome), Reason: req.Reason}
	if req.Discrepancy != nil {
		in := review.DiscrepancyInput{
			Type:     model.DiscrepancyType(req.Discrepancy.Type),
			Severity: model.Severity(req.Discrepancy.Severity),
			Notes:    req.Discrepancy.Notes,
		}
		for _, f := range req.Discrepancy.Evidence {
			in.Evidence = append(in.Evidence, model.EvidenceFile{
				Filename:   f.Filename,
				SizeBytes:  f.SizeBytes,
				UploadedAt: f.UploadedAt,
			})
		}
		act.Discrepancy = &in
	}
	return act
}

// HandleUpdate handles PUT /assignments/{assignmentID}/indicators/{code}.
func (h *IndicatorsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")
	code := chi.URLParam(r, "code")

	var req updateIndicatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	a, err := h.deps.UpdateIndicator(r.Context(), assignmentID, code, req.toAction())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ind := a.Indicator(code)
	if ind == nil {
		// The aggregator just updated it; absence here is a programming bug.
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	writeJSON(w, http.StatusOK, updateIndicatorResponse{
		Indicator: newIndicatorView(*ind),
		Status:    string(a.Status),
		Progress:  a.Progress(),
	})
}
