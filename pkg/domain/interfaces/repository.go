package interfaces

import (
	"context"

	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

// Repository defines the interface for run history persistence
type Repository interface {
	// PutRun stores a finished run summary
	PutRun(ctx context.Context, summary *model.ExecutionSummary) error

	// GetRun returns a run summary by ID, or model.ErrRunNotFound
	GetRun(ctx context.Context, id types.RunID) (*model.ExecutionSummary, error)

	// ListRuns returns the most recent run summaries, newest first
	ListRuns(ctx context.Context, limit int) ([]*model.ExecutionSummary, error)

	// Close closes the repository connection
	Close() error
}
