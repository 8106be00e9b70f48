package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
)

// RefreshRunner triggers one full refresh run. Satisfied by
// usecase.Refresh; the serve command may wrap it to attach a per-run
// deadline.
type RefreshRunner interface {
	Run(ctx context.Context) (*model.ExecutionSummary, error)
}

// RunnerFunc adapts a function to RefreshRunner
type RunnerFunc func(ctx context.Context) (*model.ExecutionSummary, error)

// Run implements RefreshRunner
func (f RunnerFunc) Run(ctx context.Context) (*model.ExecutionSummary, error) {
	return f(ctx)
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
	runs   *RunsHandler
}

// NewServer creates a new HTTP server exposing the trigger and run history
// API
func NewServer(ctx context.Context, addr string, runner RefreshRunner, repo interfaces.Repository) *Server {
	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	runs := NewRunsHandler(runner, repo)

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Route("/runs", func(r chi.Router) {
			r.Post("/", runs.HandleTrigger)
			r.Get("/", runs.HandleList)
			r.Get("/{runID}", runs.HandleGet)
		})
	})

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
		runs:   runs,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "preen",
	})
}

// writeJSON writes a JSON response with the given status
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(ctx context.Context, w http.ResponseWriter, err error, status int) {
	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	writeJSON(ctx, w, status, map[string]string{
		"error": message,
	})
}
