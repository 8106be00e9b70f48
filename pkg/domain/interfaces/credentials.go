package interfaces

import (
	"context"

	"github.com/secmon-lab/preen/pkg/domain/model"
)

// CredentialSource supplies the secret payload for a run. Implementations
// may cache; staleness is bounded by their own TTL.
type CredentialSource interface {
	Get(ctx context.Context) (*model.Credentials, error)
}
