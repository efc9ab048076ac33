// Package service provides the assignment aggregator: it owns the
// collection of inspection assignments, serializes mutations per
// assignment, recomputes derived progress after every change, and gates
// report submission on completeness.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edusight/fieldcheck/internal/adapters/repository"
	"github.com/edusight/fieldcheck/internal/domain/model"
	"github.com/edusight/fieldcheck/internal/domain/review"
	"github.com/edusight/fieldcheck/pkg/logger"
	"github.com/edusight/fieldcheck/pkg/metrics"
)

// Service implements the aggregate operations exposed to the presentation
// layer. All mutations to one assignment go through a per-assignment mutex,
// so an indicator update can never race a submission into a Completed
// assignment with a stale Pending indicator.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	engine *review.Engine

	// assignment-scoped locks; guarded by lockMu
	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	// Policy: when true, unable-to-verify findings block submission.
	requireVerification bool

	now func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a custom assignment store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine injects a custom review engine.
func WithEngine(engine *review.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSubmitRequiresVerification toggles the policy that unable-to-verify
// findings block submission. Off by default.
func WithSubmitRequiresVerification(required bool) Option {
	return func(s *Service) {
		s.requireVerification = required
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		locks: make(map[string]*sync.Mutex),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.engine == nil {
		s.engine = review.NewEngine(review.WithClock(s.now))
	}
	s.started = true
	s.logger.Info(ctx, "inspection service started",
		logger.Bool("submit_requires_verification", s.requireVerification),
	)
	return nil
}

// Stop shuts the service down. State is in-memory only, so there is
// nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "inspection service stopped")
}

// LoadAssignments places assignments into the store, deriving initial
// status from indicator states. Meant for startup seeding.
func (s *Service) LoadAssignments(ctx context.Context, assignments []model.Assignment) error {
	for _, a := range assignments {
		for i := range a.Indicators {
			if a.Indicators[i].State == "" {
				a.Indicators[i].State = model.StatePending
			}
		}
		a.DeriveStatus()
		if err := s.store.Put(ctx, a); err != nil {
			return fmt.Errorf("load assignment %q: %w", a.ID, err)
		}
	}
	s.refreshGauges(ctx)
	s.logger.Info(ctx, "assignments loaded", logger.Int("count", len(assignments)))
	return nil
}

// IndicatorAction selects one of the three record operations. Discrepancy
// is consulted only for a discrepancy outcome, Reason only for
// unable-to-verify.
type IndicatorAction struct {
	Outcome     model.Outcome
	Discrepancy *review.DiscrepancyInput
	Reason      string
}

// UpdateIndicator routes the action to the review engine for one indicator
// and recomputes the assignment's derived status and progress. Returns the
// updated assignment.
func (s *Service) UpdateIndicator(ctx context.Context, assignmentID, code string, act IndicatorAction) (model.Assignment, error) {
	unlock := s.lockAssignment(assignmentID)
	defer unlock()

	a, err := s.store.Get(ctx, assignmentID)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("update indicator: %w", err)
	}
	if a.Submitted() {
		return model.Assignment{}, &AssignmentClosedError{AssignmentID: a.ID, CompletedAt: a.CompletedAt}
	}
	ind := a.Indicator(code)
	if ind == nil {
		return model.Assignment{}, fmt.Errorf("indicator %q: %w", code, ErrIndicatorNotFound)
	}

	switch act.Outcome {
	case model.OutcomeVerified:
		s.engine.RecordVerified(ind)
	case model.OutcomeDiscrepancy:
		var in review.DiscrepancyInput
		if act.Discrepancy != nil {
			in = *act.Discrepancy
		}
		if _, err := s.engine.RecordDiscrepancy(ind, in); err != nil {
			metrics.RecordValidationFailure()
			return model.Assignment{}, err
		}
	case model.OutcomeUnableToVerify:
		if _, err := s.engine.RecordUnableToVerify(ind, act.Reason); err != nil {
			metrics.RecordValidationFailure()
			return model.Assignment{}, err
		}
	default:
		return model.Assignment{}, fmt.Errorf("%w: %q", ErrUnknownOutcome, act.Outcome)
	}

	a.DeriveStatus()
	if err := s.store.Put(ctx, a); err != nil {
		return model.Assignment{}, fmt.Errorf("update indicator: %w", err)
	}

	metrics.RecordFindingRecorded(string(act.Outcome))
	s.refreshGauges(ctx)
	prog := a.Progress()
	s.logger.Info(ctx, "finding recorded",
		logger.String("assignment", a.ID),
		logger.String("indicator", code),
		logger.String("outcome", string(act.Outcome)),
		logger.Int("completed", prog.Completed),
		logger.Int("total", prog.Total),
	)
	return a, nil
}

// SubmitReport closes the assignment once every indicator is resolved.
// Success is irreversible: the assignment becomes immutable.
func (s *Service) SubmitReport(ctx context.Context, assignmentID, generalNotes string) (model.Assignment, error) {
	unlock := s.lockAssignment(assignmentID)
	defer unlock()

	a, err := s.store.Get(ctx, assignmentID)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("submit report: %w", err)
	}
	if a.Submitted() {
		return model.Assignment{}, &AssignmentClosedError{AssignmentID: a.ID, CompletedAt: a.CompletedAt}
	}
	if pending := a.PendingCodes(); len(pending) > 0 {
		metrics.RecordSubmissionRejected("incomplete")
		return model.Assignment{}, &IncompleteAssignmentError{AssignmentID: a.ID, Remaining: pending}
	}
	if s.requireVerification {
		if codes := a.UnverifiableCodes(); len(codes) > 0 {
			metrics.RecordSubmissionRejected("unverifiable")
			return model.Assignment{}, &UnverifiableBlockedError{AssignmentID: a.ID, Codes: codes}
		}
	}

	a.GeneralNotes = strings.TrimSpace(generalNotes)
	a.Status = model.StatusCompleted
	a.CompletedAt = s.now()
	if err := s.store.Put(ctx, a); err != nil {
		return model.Assignment{}, fmt.Errorf("submit report: %w", err)
	}

	metrics.RecordSubmissionAccepted()
	s.refreshGauges(ctx)
	s.logger.Info(ctx, "report submitted",
		logger.String("assignment", a.ID),
		logger.String("inspector", a.InspectorID),
		logger.Int("indicators", len(a.Indicators)),
	)
	return a, nil
}

// ProgressOf returns the completion projection for one assignment.
func (s *Service) ProgressOf(ctx context.Context, assignmentID string) (model.Progress, error) {
	a, err := s.store.Get(ctx, assignmentID)
	if err != nil {
		return model.Progress{}, fmt.Errorf("progress: %w", err)
	}
	return a.Progress(), nil
}

// Get returns one assignment by id.
func (s *Service) Get(ctx context.Context, assignmentID string) (model.Assignment, error) {
	return s.store.Get(ctx, assignmentID)
}

// ListByInspector returns an inspector's assignments as a read-only
// projection; no locking beyond the store's own.
func (s *Service) ListByInspector(ctx context.Context, inspectorID string) ([]model.Assignment, error) {
	return s.store.ListByInspector(ctx, inspectorID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": started,
	}
	if !started {
		return stats
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return stats
	}
	var submitted, pendingIndicators int
	for i := range all {
		if all[i].Submitted() {
			submitted++
		}
		p := all[i].Progress()
		pendingIndicators += p.Total - p.Completed
	}
	stats["assignments"] = len(all)
	stats["submitted"] = submitted
	stats["pendingIndicators"] = pendingIndicators
	return stats
}

// lockAssignment serializes mutations for one assignment id and returns the
// release func. Locks are created on demand and kept for the process
// lifetime; the id space is the fixture, not unbounded input.
func (s *Service) lockAssignment(id string) func() {
	s.lockMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.lockMu.Unlock()
	l.Lock()
	return l.Unlock
}

// refreshGauges recomputes store-wide gauges after a mutation.
func (s *Service) refreshGauges(ctx context.Context) {
	all, err := s.store.List(ctx)
	if err != nil {
		return
	}
	var pending int
	byStatus := map[model.AssignmentStatus]int{
		model.StatusPending:    0,
		model.StatusInProgress: 0,
		model.StatusCompleted:  0,
	}
	for i := range all {
		p := all[i].Progress()
		pending += p.Total - p.Completed
		byStatus[all[i].Status]++
	}
	metrics.UpdateAssignmentsTotal(len(all))
	metrics.UpdateIndicatorsPending(pending)
	for status, n := range byStatus {
		metrics.UpdateAssignmentsByStatus(string(status), n)
	}
}

// IsNotFound reports whether err is either flavor of not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrIndicatorNotFound)
}
