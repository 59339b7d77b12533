// Package api declares the ops HTTP contracts and route registration.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/touchline/scoutsim/internal/adapters/repository"
)

// ProspectDependencies defines the interface for single-player reads.
type ProspectDependencies interface {
	ProspectRank(ctx context.Context, playerID string) (Entry, error)
}

// ProspectsHandler handles per-player rank requests.
type ProspectsHandler struct {
	deps ProspectDependencies
}

// NewProspectsHandler creates a new prospects handler.
func NewProspectsHandler(deps ProspectDependencies) *ProspectsHandler {
	return &ProspectsHandler{deps: deps}
}

// HandleGetProspect handles GET /prospects/{player_id} requests.
func (h *ProspectsHandler) HandleGetProspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /prospects/
	playerID := strings.TrimPrefix(r.URL.Path, "/prospects/")
	if playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entry, err := h.deps.ProspectRank(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
