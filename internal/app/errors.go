package service

import (
	"errors"
	"fmt"
	"time"
)

// ErrIndicatorNotFound reports an indicator code unknown within an existing
// assignment. Like the store's not-found, it signals a stale reference.
var ErrIndicatorNotFound = errors.New("indicator not found")

// ErrUnknownOutcome reports an indicator action whose outcome is not one of
// the three recordable outcomes.
var ErrUnknownOutcome = errors.New("unknown outcome")

// IncompleteAssignmentError reports a submission attempted while some
// indicators are still Pending. It carries the outstanding codes so the
// caller can direct the inspector to them.
type IncompleteAssignmentError struct {
	AssignmentID string
	Remaining    []string
}

func (e *IncompleteAssignmentError) Error() string {
	return fmt.Sprintf("assignment %s has %d unresolved indicator(s)", e.AssignmentID, len(e.Remaining))
}

// UnverifiableBlockedError reports a submission blocked by the
// require-verification policy: every indicator is resolved but some are
// unable-to-verify.
type UnverifiableBlockedError struct {
	AssignmentID string
	Codes        []string
}

func (e *UnverifiableBlockedError) Error() string {
	return fmt.Sprintf("assignment %s has %d unverifiable indicator(s) and verification is required", e.AssignmentID, len(e.Codes))
}

// AssignmentClosedError reports a mutation attempted on an assignment
// already closed by submission. Not retryable; the caller's view is stale.
type AssignmentClosedError struct {
	AssignmentID string
	CompletedAt  time.Time
}

func (e *AssignmentClosedError) Error() string {
	return fmt.Sprintf("assignment %s was submitted at %s and is closed", e.AssignmentID, e.CompletedAt.Format(time.RFC3339))
}
