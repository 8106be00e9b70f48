package interfaces

import (
	"context"

	"github.com/secmon-lab/preen/pkg/domain/model"
)

// Notifier delivers a finished run summary to an operator address. Delivery
// failures never affect the run outcome.
type Notifier interface {
	Send(ctx context.Context, address string, summary *model.ExecutionSummary) error
}
