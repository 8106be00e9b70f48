package usecase

import (
	"context"

	"github.com/secmon-lab/preen/pkg/domain/model"
)

// WorkflowExecutor performs one full update attempt against a site. The
// orchestrator owns retry; implementations treat every call as an independent
// attempt with no state carried over from earlier ones.
type WorkflowExecutor interface {
	Execute(ctx context.Context, site model.Site, cred model.SiteCredential) (map[string]any, error)
}
