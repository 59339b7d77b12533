// Package api declares the ops HTTP contracts and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// BoardDependencies defines the interface for board list reads.
type BoardDependencies interface {
	TopProspects(ctx context.Context, n int) ([]Entry, error)
}

// BoardHandler handles prospect board requests.
type BoardHandler struct {
	deps     BoardDependencies
	maxLimit int
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies, maxLimit int) *BoardHandler {
	return &BoardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetBoard handles GET /board?limit=N requests.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_board"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			fmt.Errorf("%s: limit %d exceeds %d: %w", op, n, h.maxLimit, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopProspects(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
