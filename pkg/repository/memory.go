package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu   sync.RWMutex
	runs map[types.RunID]*model.ExecutionSummary
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		runs: make(map[types.RunID]*model.ExecutionSummary),
	}
}

// PutRun stores a run summary in memory
func (m *Memory) PutRun(ctx context.Context, summary *model.ExecutionSummary) error {
	if summary == nil {
		return goerr.New("summary is nil")
	}
	if err := summary.RunID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid run ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs[summary.RunID] = cloneSummary(summary)
	return nil
}

// GetRun retrieves a run summary by ID
func (m *Memory) GetRun(ctx context.Context, id types.RunID) (*model.ExecutionSummary, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid run ID")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	summary, exists := m.runs[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrRunNotFound, "failed to get run", goerr.V("runID", id))
	}

	return cloneSummary(summary), nil
}

// ListRuns retrieves the most recent run summaries, newest first
func (m *Memory) ListRuns(ctx context.Context, limit int) ([]*model.ExecutionSummary, error) {
	limit = normalizeLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]*model.ExecutionSummary, 0, len(m.runs))
	for _, summary := range m.runs {
		summaries = append(summaries, cloneSummary(summary))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}

	return summaries, nil
}

// Close does nothing for memory repository
func (m *Memory) Close() error {
	return nil
}

// Clear clears all data (useful for testing)
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = make(map[types.RunID]*model.ExecutionSummary)
}

// cloneSummary copies a summary so callers cannot modify stored data
func cloneSummary(s *model.ExecutionSummary) *model.ExecutionSummary {
	c := *s
	c.Results = make([]model.WorkflowResult, len(s.Results))
	copy(c.Results, s.Results)
	for i, r := range c.Results {
		if r.Details != nil {
			details := make(map[string]any, len(r.Details))
			for k, v := range r.Details {
				details[k] = v
			}
			c.Results[i].Details = details
		}
	}
	return &c
}

// normalizeLimit applies the default and the cap for list queries
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

var _ interfaces.Repository = (*Memory)(nil) // Compile-time interface check
