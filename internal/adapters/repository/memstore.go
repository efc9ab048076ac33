package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/edusight/fieldcheck/internal/domain/model"
)

// MemStore is the in-memory Store implementation. Assignments are stored as
// deep copies and handed out as deep copies, so callers can never alias the
// store's state. Reads take the shared lock; writes the exclusive one.
type MemStore struct {
	mu          sync.RWMutex
	assignments map[string]model.Assignment
}

// NewMemStore creates an empty in-memory assignment store.
func NewMemStore() *MemStore {
	return &MemStore{assignments: make(map[string]model.Assignment)}
}

// Put inserts or replaces the assignment keyed by its ID.
func (s *MemStore) Put(_ context.Context, a model.Assignment) error {
	if a.ID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID] = a.Clone()
	return nil
}

// Get returns a copy of the assignment, or ErrNotFound.
func (s *MemStore) Get(_ context.Context, id string) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return model.Assignment{}, ErrNotFound
	}
	return a.Clone(), nil
}

// ListByInspector returns the inspector's assignments ordered by scheduled
// visit time, then id for determinism.
func (s *MemStore) ListByInspector(_ context.Context, inspectorID string) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Assignment
	for _, a := range s.assignments {
		if a.InspectorID == inspectorID {
			out = append(out, a.Clone())
		}
	}
	sortAssignments(out)
	return out, nil
}

// List returns all assignments ordered by scheduled visit time, then id.
func (s *MemStore) List(_ context.Context) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a.Clone())
	}
	sortAssignments(out)
	return out, nil
}

// Count returns the number of assignments tracked.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assignments)
}

func sortAssignments(list []model.Assignment) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ScheduledAt.Equal(list[j].ScheduledAt) {
			return list[i].ScheduledAt.Before(list[j].ScheduledAt)
		}
		return list[i].ID < list[j].ID
	})
}
