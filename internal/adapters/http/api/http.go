// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/talentco/skillsearch/internal/adapters/repository"
	"github.com/talentco/skillsearch/internal/adapters/vector"
	service "github.com/talentco/skillsearch/internal/app"
	"github.com/talentco/skillsearch/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Search runs the query-to-ranking pipeline.
	Search(ctx context.Context, query string, topKSkills, topNUsers int) (types.SearchResult, error)

	// UserDetail returns one user's full skill profile, no scoring.
	UserDetail(ctx context.Context, email string) (types.UserProfile, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	searchHandler *SearchHandler
	usersHandler  *UsersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		searchHandler: NewSearchHandler(deps),
		usersHandler:  NewUsersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleGetUser, "users"))
}

// searchRequest mirrors the OpenAPI schema for POST /search.
type searchRequest struct {
	Query      string `json:"query"`
	TopKSkills int    `json:"top_k_skills"`
	TopNUsers  int    `json:"top_n_users"`
}

func (s searchRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Query) == "":
		return errors.New("missing query")
	case s.TopKSkills < 0:
		return errors.New("top_k_skills must not be negative")
	case s.TopNUsers < 0:
		return errors.New("top_n_users must not be negative")
	}
	return nil
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

// writeServiceError translates upstream sentinels into HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, vector.ErrBadInput):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, vector.ErrEmbedding), errors.Is(err, vector.ErrIndex),
		errors.Is(err, service.ErrNotStarted), errors.Is(err, repository.ErrNoSnapshot),
		errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "service_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
