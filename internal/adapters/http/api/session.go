// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/edusight/fieldcheck/internal/adapters/identity"
)

// SessionHandler surfaces the mock inspector identity for display.
type SessionHandler struct {
	ident identity.Provider
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(ident identity.Provider) *SessionHandler {
	return &SessionHandler{ident: ident}
}

// HandleSession handles GET /session requests.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ident.Current(r.Context()))
}
