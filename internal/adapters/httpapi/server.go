// Package httpapi exposes the read-only operator surface: health,
// leaderboard and lifecycle status plus the Prometheus registry. The
// engine itself is a library; there are no mutating routes here.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/pkg/metrics"
)

// Default query limits.
const (
	defaultLeaderboardLimit = 10
	defaultMaxLimit         = 100
)

// Dependencies bundles the engine reads the handlers need.
type Dependencies interface {
	Leaderboard(ctx context.Context, limit int) []model.UserAccount
	ActiveTrend(ctx context.Context) *model.Trend
	ActiveCompetition(ctx context.Context) *model.Competition
	UserCount(ctx context.Context) int
}

// Server wires the operator HTTP routes.
type Server struct {
	deps     Dependencies
	maxLimit int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps the limit query parameter.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// NewServer creates the operator API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrument("healthz", s.handleHealth))
	mux.HandleFunc("/leaderboard", instrument("leaderboard", s.handleLeaderboard))
	mux.HandleFunc("/trend", instrument("trend", s.handleTrend))
	mux.HandleFunc("/competition", instrument("competition", s.handleCompetition))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"users":  s.deps.UserCount(r.Context()),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request")
			return
		}
		limit = n
	}
	if limit > s.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Leaderboard(r.Context(), limit))
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	active := s.deps.ActiveTrend(r.Context())
	if active == nil {
		writeError(w, http.StatusNotFound, "no_active_trend")
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleCompetition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	active := s.deps.ActiveCompetition(r.Context())
	if active == nil {
		writeError(w, http.StatusNotFound, "no_active_competition")
		return
	}
	writeJSON(w, http.StatusOK, active)
}

// instrument wraps a handler with request metrics.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RecordHTTPRequest(endpoint, strconv.Itoa(rec.status))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
