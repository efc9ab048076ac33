// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edusight/fieldcheck/internal/adapters/identity"
	service "github.com/edusight/fieldcheck/internal/app"
	"github.com/edusight/fieldcheck/internal/domain/model"
	"github.com/edusight/fieldcheck/internal/domain/review"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the aggregator implementation.
type Dependencies interface {
	UpdateIndicator(ctx context.Context, assignmentID, code string, act service.IndicatorAction) (model.Assignment, error)
	SubmitReport(ctx context.Context, assignmentID, generalNotes string) (model.Assignment, error)
	ProgressOf(ctx context.Context, assignmentID string) (model.Progress, error)
	Get(ctx context.Context, assignmentID string) (model.Assignment, error)
	ListByInspector(ctx context.Context, inspectorID string) ([]model.Assignment, error)
}

// Server wires HTTP routes for the inspection API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionHandler     *SessionHandler
	assignmentsHandler *AssignmentsHandler
	indicatorsHandler  *IndicatorsHandler
	submitHandler      *SubmitHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, ident identity.Provider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessionHandler:     NewSessionHandler(ident),
		assignmentsHandler: NewAssignmentsHandler(deps),
		indicatorsHandler:  NewIndicatorsHandler(deps),
		submitHandler:      NewSubmitHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/session", MetricsMiddleware(s.sessionHandler.HandleSession, "session"))

	r.Route("/assignments", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.assignmentsHandler.HandleList, "assignments_list"))
		r.Route("/{assignmentID}", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.assignmentsHandler.HandleDetail, "assignment_detail"))
			r.Get("/progress", MetricsMiddleware(s.assignmentsHandler.HandleProgress, "assignment_progress"))
			r.Put("/indicators/{code}", MetricsMiddleware(s.indicatorsHandler.HandleUpdate, "indicator_update"))
			r.Post("/submit", MetricsMiddleware(s.submitHandler.HandleSubmit, "assignment_submit"))
		})
	})
}

// findingView is the flattened wire shape of a committed finding.
type findingView struct {
	Outcome    string               `json:"outcome"`
	RecordedAt time.Time            `json:"recorded_at"`
	Note       string               `json:"note,omitempty"`
	Type       string               `json:"type,omitempty"`
	Severity   string               `json:"severity,omitempty"`
	Notes      string               `json:"notes,omitempty"`
	Evidence   []model.EvidenceFile `json:"evidence,omitempty"`
	Reason     string               `json:"reason,omitempty"`
}

// newFindingView flattens a Finding variant, or returns nil for none.
func newFindingView(f model.Finding) *findingView {
	switch v := f.(type) {
	case model.Verified:
		return &findingView{Outcome: string(v.Outcome()), RecordedAt: v.At, Note: v.Note}
	case model.Discrepancy:
		return &findingView{
			Outcome:    string(v.Outcome()),
			RecordedAt: v.At,
			Type:       string(v.Type),
			Severity:   string(v.Severity),
			Notes:      v.Notes,
			Evidence:   v.Evidence,
		}
	case model.UnableToVerify:
		return &findingView{Outcome: string(v.Outcome()), RecordedAt: v.At, Reason: v.Reason}
	default:
		return nil
	}
}

// indicatorView is the wire shape of one indicator assignment.
type indicatorView struct {
	Code           string       `json:"code"`
	Name           string       `json:"name"`
	Domain         string       `json:"domain"`
	Claim          string       `json:"claim"`
	SchoolEvidence []string     `json:"school_evidence,omitempty"`
	ReviewState    string       `json:"review_state"`
	Finding        *findingView `json:"finding,omitempty"`
}

func newIndicatorView(ind model.IndicatorAssignment) indicatorView {
	return indicatorView{
		Code:           ind.Code,
		Name:           ind.Name,
		Domain:         ind.Domain,
		Claim:          ind.Claim,
		SchoolEvidence: ind.SchoolEvidence,
		ReviewState:    string(ind.State),
		Finding:        newFindingView(ind.Finding),
	}
}

// assignmentSummary is the list projection of an assignment.
type assignmentSummary struct {
	ID          string         `json:"id"`
	SchoolID    string         `json:"school_id"`
	SchoolName  string         `json:"school_name"`
	InspectorID string         `json:"inspector_id"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Status      string         `json:"status"`
	Progress    model.Progress `json:"progress"`
}

func newAssignmentSummary(a model.Assignment) assignmentSummary {
	return assignmentSummary{
		ID:          a.ID,
		SchoolID:    a.SchoolID,
		SchoolName:  a.SchoolName,
		InspectorID: a.InspectorID,
		ScheduledAt: a.ScheduledAt,
		Status:      string(a.Status),
		Progress:    a.Progress(),
	}
}

// assignmentDetail is the full projection of an assignment.
type assignmentDetail struct {
	assignmentSummary
	Indicators   []indicatorView `json:"indicators"`
	GeneralNotes string          `json:"general_notes,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

func newAssignmentDetail(a model.Assignment) assignmentDetail {
	d := assignmentDetail{
		assignmentSummary: newAssignmentSummary(a),
		Indicators:        make([]indicatorView, 0, len(a.Indicators)),
		GeneralNotes:      a.GeneralNotes,
	}
	for _, ind := range a.Indicators {
		d.Indicators = append(d.Indicators, newIndicatorView(ind))
	}
	if !a.CompletedAt.IsZero() {
		t := a.CompletedAt
		d.CompletedAt = &t
	}
	return d
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Fields    []review.FieldError `json:"fields,omitempty"`
	Remaining []string            `json:"remaining,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps core error kinds onto HTTP statuses. Anything
// unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *review.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "validation_failed",
			Message: "finding payload is missing required fields",
			Fields:  verr.Fields,
		})
		return
	}
	var incomplete *service.IncompleteAssignmentError
	if errors.As(err, &incomplete) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Code:      "incomplete_assignment",
			Message:   incomplete.Error(),
			Remaining: incomplete.Remaining,
		})
		return
	}
	var blocked *service.UnverifiableBlockedError
	if errors.As(err, &blocked) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Code:      "unverifiable_blocked",
			Message:   blocked.Error(),
			Remaining: blocked.Codes,
		})
		return
	}
	var closed *service.AssignmentClosedError
	if errors.As(err, &closed) {
		writeError(w, http.StatusConflict, "assignment_closed", closed)
		return
	}
	if service.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	if errors.Is(err, service.ErrUnknownOutcome) {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
