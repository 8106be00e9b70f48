package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
	"github.com/secmon-lab/preen/pkg/utils/async"
)

// RunsHandler serves the run trigger and run history API. A single flight
// guard keeps REST clients from stacking browser automation runs: the
// orchestrator drives one browser at a time and a second concurrent run
// would fight over the same profiles.
type RunsHandler struct {
	runner RefreshRunner
	repo   interfaces.Repository

	mu     sync.Mutex
	active bool
}

// NewRunsHandler creates a RunsHandler
func NewRunsHandler(runner RefreshRunner, repo interfaces.Repository) *RunsHandler {
	return &RunsHandler{
		runner: runner,
		repo:   repo,
	}
}

// tryAcquire marks a run as in flight. Returns false when one already is.
func (h *RunsHandler) tryAcquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active {
		return false
	}
	h.active = true
	return true
}

func (h *RunsHandler) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = false
}

// HandleTrigger starts a refresh run in the background and answers
// immediately. The run outlives the request; its summary lands in the
// repository like any other run.
func (h *RunsHandler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.tryAcquire() {
		writeError(ctx, w, goerr.New("a refresh run is already in progress"), http.StatusConflict)
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		defer h.release()
		if _, err := h.runner.Run(ctx); err != nil {
			return goerr.Wrap(err, "background refresh run failed")
		}
		return nil
	})

	writeJSON(ctx, w, http.StatusAccepted, map[string]string{
		"status": "accepted",
	})
}

// HandleList returns the most recent run summaries, newest first
func (h *RunsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(ctx, w, goerr.New("invalid limit parameter",
				goerr.V("limit", s)), http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.repo.ListRuns(ctx, limit)
	if err != nil {
		writeError(ctx, w, goerr.Wrap(err, "failed to list runs"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"runs": runs,
	})
}

// HandleGet returns one run summary by ID
func (h *RunsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := types.RunID(chi.URLParam(r, "runID"))
	if err := id.Validate(); err != nil {
		writeError(ctx, w, err, http.StatusBadRequest)
		return
	}

	summary, err := h.repo.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRunNotFound) {
			writeError(ctx, w, err, http.StatusNotFound)
			return
		}
		writeError(ctx, w, goerr.Wrap(err, "failed to get run"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, summary)
}
