// Package identity is the mock identity collaborator. It answers "who is
// the current inspector" for display purposes only; the core never uses it
// for authorization.
package identity

import "context"

// Inspector is the display identity of the signed-in inspector.
type Inspector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider resolves the current inspector.
type Provider interface {
	Current(ctx context.Context) Inspector
}

// Static is a Provider pinned to one configured inspector, matching the
// demo's mock sign-in.
type Static struct {
	inspector Inspector
}

// NewStatic creates a static identity provider.
func NewStatic(id, name string) *Static {
	return &Static{inspector: Inspector{ID: id, Name: name}}
}

// Current returns the configured inspector.
func (s *Static) Current(_ context.Context) Inspector {
	return s.inspector
}
