// Package model contains domain models passed between layers.
package model

import "time"

// ReviewState is the per-indicator lifecycle state.
type ReviewState string

// Indicator review states. Pending is the only state without a finding.
const (
	StatePending        ReviewState = "pending"
	StateVerified       ReviewState = "verified"
	StateDiscrepancy    ReviewState = "discrepancy_found"
	StateUnableToVerify ReviewState = "unable_to_verify"
)

// Resolved reports whether the indicator carries a committed finding.
func (s ReviewState) Resolved() bool { return s != StatePending && s != "" }

// AssignmentStatus is the aggregate state of one school-visit engagement.
// It is derived from indicator states; Completed is set only by submission.
type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
)

// Outcome identifies the variant of a committed Finding.
type Outcome string

const (
	OutcomeVerified       Outcome = "verified"
	OutcomeDiscrepancy    Outcome = "discrepancy_found"
	OutcomeUnableToVerify Outcome = "unable_to_verify"
)

// State returns the review state an indicator enters when a finding with
// this outcome is committed.
func (o Outcome) State() ReviewState { return ReviewState(o) }

// DiscrepancyType classifies how observed reality contradicts the school's
// self-reported claim.
type DiscrepancyType string

const (
	DiscrepancyQuantityMismatch DiscrepancyType = "quantity_mismatch"
	DiscrepancyQualityIssue     DiscrepancyType = "quality_issue"
	DiscrepancyMissingEvidence  DiscrepancyType = "missing_evidence"
	DiscrepancyExpiredOrInvalid DiscrepancyType = "expired_or_invalid"
)

// Severity grades a discrepancy.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// EvidenceFile references an uploaded evidence file by metadata only;
// byte storage belongs to an external collaborator.
type EvidenceFile struct {
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Finding is the inspector's recorded determination about one indicator.
// It is a sealed variant: exactly one concrete type per outcome, so an
// outcome can never disagree with the fields present. Findings are
// immutable once committed; a revision is a whole new Finding.
type Finding interface {
	Outcome() Outcome
	RecordedAt() time.Time

	finding()
}

// Verified records that the school's claim held up on site.
type Verified struct {
	Note string
	At   time.Time
}

func (Verified) Outcome() Outcome        { return OutcomeVerified }
func (f Verified) RecordedAt() time.Time { return f.At }
func (Verified) finding()                {}

// Discrepancy records observed reality contradicting the claim, with the
// structured evidence the submission report needs.
type Discrepancy struct {
	Type     DiscrepancyType
	Severity Severity
	Notes    string
	Evidence []EvidenceFile
	At       time.Time
}

func (Discrepancy) Outcome() Outcome        { return OutcomeDiscrepancy }
func (f Discrepancy) RecordedAt() time.Time { return f.At }
func (Discrepancy) finding()                {}

// UnableToVerify records that the indicator could not be checked, with the
// inspector's reason.
type UnableToVerify struct {
	Reason string
	At     time.Time
}

func (UnableToVerify) Outcome() Outcome        { return OutcomeUnableToVerify }
func (f UnableToVerify) RecordedAt() time.Time { return f.At }
func (UnableToVerify) finding()                {}

// IndicatorAssignment is one compliance indicator assigned for inspection
// at one school visit. Code is unique within an assignment. Descriptive
// fields are immutable; only State and Finding change during a visit.
//
// Invariant: Finding == nil iff State == StatePending.
type IndicatorAssignment struct {
	Code           string
	Name           string
	Domain         string
	Claim          string
	SchoolEvidence []string

	State   ReviewState
	Finding Finding
}

// Clone returns a copy safe to hand across goroutines. Finding variants are
// value types and evidence slices are copied.
func (ia IndicatorAssignment) Clone() IndicatorAssignment {
	out := ia
	out.SchoolEvidence = append([]string(nil), ia.SchoolEvidence...)
	if d, ok := ia.Finding.(Discrepancy); ok {
		d.Evidence = append([]EvidenceFile(nil), d.Evidence...)
		out.Finding = d
	}
	return out
}

// Assignment is one school-visit engagement: the set of indicators an
// inspector must review, plus the derived aggregate status.
type Assignment struct {
	ID           string
	SchoolID     string
	SchoolName   string
	InspectorID  string
	ScheduledAt  time.Time
	Status       AssignmentStatus
	Indicators   []IndicatorAssignment
	GeneralNotes string
	CompletedAt  time.Time // zero until submission
}

// Clone deep-copies the assignment so store readers never alias writer state.
func (a Assignment) Clone() Assignment {
	out := a
	out.Indicators = make([]IndicatorAssignment, len(a.Indicators))
	for i, ind := range a.Indicators {
		out.Indicators[i] = ind.Clone()
	}
	return out
}

// Indicator returns a pointer to the indicator with the given code, or nil.
func (a *Assignment) Indicator(code string) *IndicatorAssignment {
	for i := range a.Indicators {
		if a.Indicators[i].Code == code {
			return &a.Indicators[i]
		}
	}
	return nil
}

// PendingCodes lists the codes still awaiting a finding, in indicator order.
func (a *Assignment) PendingCodes() []string {
	var codes []string
	for i := range a.Indicators {
		if !a.Indicators[i].State.Resolved() {
			codes = append(codes, a.Indicators[i].Code)
		}
	}
	return codes
}

// UnverifiableCodes lists indicators resolved as unable-to-verify.
func (a *Assignment) UnverifiableCodes() []string {
	var codes []string
	for i := range a.Indicators {
		if a.Indicators[i].State == StateUnableToVerify {
			codes = append(codes, a.Indicators[i].Code)
		}
	}
	return codes
}

// Progress is the completion projection callers display.
type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Progress computes completion over the indicator list. Percentage is 0 for
// an empty list, never NaN.
func (a *Assignment) Progress() Progress {
	total := len(a.Indicators)
	done := 0
	for i := range a.Indicators {
		if a.Indicators[i].State.Resolved() {
			done++
		}
	}
	p := Progress{Completed: done, Total: total}
	if total > 0 {
		p.Percentage = float64(done) / float64(total) * 100
	}
	return p
}

// DeriveStatus recomputes the aggregate status from indicator states.
// Completed is sticky: once set by submission it is never derived away.
func (a *Assignment) DeriveStatus() {
	if a.Status == StatusCompleted {
		return
	}
	done := a.Progress().Completed
	switch {
	case done == 0:
		a.Status = StatusPending
	default:
		a.Status = StatusInProgress
	}
}

// Submitted reports whether the assignment has been closed by submission.
func (a *Assignment) Submitted() bool { return a.Status == StatusCompleted }
