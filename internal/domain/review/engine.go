// Package review implements the per-indicator finding state machine: it is
// the only code allowed to move an indicator out of Pending, and it refuses
// to commit a finding whose required fields are missing. Collapsing
// "select outcome" and "fill required fields" into one validated commit
// keeps states like "discrepancy with no discrepancy type" unrepresentable.
package review

import (
	"strings"
	"time"

	"github.com/edusight/fieldcheck/internal/domain/model"
)

// defaultVerifiedNote is the confirmatory note attached to a Verified
// finding when the inspector supplies none.
const defaultVerifiedNote = "Claim verified on site; matches school submission."

// noteLimit bounds free-text notes, in Unicode code points.
const noteLimit = 2000

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithVerifiedNote overrides the auto-filled note on Verified findings.
func WithVerifiedNote(note string) Option {
	return func(e *Engine) {
		if note != "" {
			e.verifiedNote = note
		}
	}
}

// Engine validates and commits findings onto indicator assignments.
// A zero-cost value; safe for concurrent use once constructed.
type Engine struct {
	now          func() time.Time
	verifiedNote string
}

// NewEngine creates a review engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:          func() time.Time { return time.Now().UTC() },
		verifiedNote: defaultVerifiedNote,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DiscrepancyInput carries the fields required to commit a discrepancy
// finding. Evidence may be empty; everything else is mandatory.
type DiscrepancyInput struct {
	Type     model.DiscrepancyType `json:"type" validate:"required,oneof=quantity_mismatch quality_issue missing_evidence expired_or_invalid"`
	Severity model.Severity        `json:"severity" validate:"required,oneof=minor moderate critical"`
	Notes    string                `json:"notes" validate:"required,max=2000"`
	Evidence []model.EvidenceFile  `json:"evidence"`
}

// reasonInput wraps the unable-to-verify reason for struct validation so
// field errors come back under the json name the caller sent.
type reasonInput struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

// RecordVerified commits a Verified finding. It succeeds from any state:
// calling it on an already-resolved indicator replaces the finding with a
// fresh timestamp (the revision affordance).
func (e *Engine) RecordVerified(ind *model.IndicatorAssignment) model.Finding {
	f := model.Verified{Note: e.verifiedNote, At: e.now()}
	ind.State = model.StateVerified
	ind.Finding = f
	return f
}

// RecordDiscrepancy validates in and, on success, atomically replaces the
// indicator's finding. On a ValidationError the indicator is untouched.
func (e *Engine) RecordDiscrepancy(ind *model.IndicatorAssignment, in DiscrepancyInput) (model.Finding, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := validate.Struct(in); err != nil {
		return nil, wrapValidation(err)
	}
	f := model.Discrepancy{
		Type:     in.Type,
		Severity: in.Severity,
		Notes:    in.Notes,
		Evidence: append([]model.EvidenceFile(nil), in.Evidence...),
		At:       e.now(),
	}
	ind.State = model.StateDiscrepancy
	ind.Finding = f
	return f, nil
}

// RecordUnableToVerify commits an unable-to-verify finding. The reason is
// mandatory; a blank reason fails validation and leaves the indicator alone.
func (e *Engine) RecordUnableToVerify(ind *model.IndicatorAssignment, reason string) (model.Finding, error) {
	reason = strings.TrimSpace(reason)
	if err := validate.Struct(reasonInput{Reason: reason}); err != nil {
		return nil, wrapValidation(err)
	}
	f := model.UnableToVerify{Reason: reason, At: e.now()}
	ind.State = model.StateUnableToVerify
	ind.Finding = f
	return f, nil
}
