// Package repository defines the assignment store interface and errors.
package repository

import (
	"context"

	"github.com/edusight/fieldcheck/internal/domain/model"
)

// Store provides read/write access to inspection assignments. Durable
// persistence belongs to an external collaborator; this contract only
// guarantees a consistent in-memory view.
type Store interface {
	// Put inserts or replaces the assignment keyed by its ID.
	Put(ctx context.Context, a model.Assignment) error

	// Get returns the assignment with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Assignment, error)

	// ListByInspector returns assignments for one inspector, ordered by
	// scheduled visit time then id.
	ListByInspector(ctx context.Context, inspectorID string) ([]model.Assignment, error)

	// List returns all assignments, ordered by scheduled visit time then id.
	List(ctx context.Context) ([]model.Assignment, error)

	// Count returns the number of assignments tracked.
	Count(ctx context.Context) int
}
