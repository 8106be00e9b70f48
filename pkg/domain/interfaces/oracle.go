package interfaces

import "context"

// MutationOracle proposes a minimal rewrite of profile text. Implementations
// may fail for any reason (quota, transport, empty response); callers are
// expected to fall back to a local deterministic rewrite.
type MutationOracle interface {
	ProposeRewrite(ctx context.Context, original, contextLabel string) (string, error)
}
