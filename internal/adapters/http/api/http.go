// Package api declares the ops HTTP contracts and route registration.
//
// The surface is read-only: assignments enter the service in-process, so
// the routes cover health/metrics exposition, service stats, and prospect
// board reads.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/touchline/scoutsim/internal/domain/types"
)

// Dependencies bundles the board reads the handlers need. An interface
// bundle keeps the handler layer loosely coupled to the service facade.
type Dependencies interface {
	// TopProspects returns the best-ranked board entries.
	TopProspects(ctx context.Context, n int) ([]Entry, error)

	// ProspectRank returns the board entry for a single player.
	ProspectRank(ctx context.Context, playerID string) (Entry, error)
}

// Entry mirrors the read shape returned by board queries.
type Entry = types.Entry

// Server wires HTTP routes for the ops API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	boardHandler     *BoardHandler
	prospectsHandler *ProspectsHandler
}

// NewServer creates a new API server with all handlers. maxBoardLimit
// caps GET /board?limit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBoardLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		boardHandler:     NewBoardHandler(deps, maxBoardLimit),
		prospectsHandler: NewProspectsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/prospects/", MetricsMiddleware(s.prospectsHandler.HandleGetProspect, "prospects"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
