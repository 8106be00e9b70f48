package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
)

// Disabled returns an oracle that always fails. The workflow treats oracle
// failures as the cue to apply the local fallback mutation, so a run without
// an LLM provider still refreshes every field deterministically.
func Disabled() interfaces.MutationOracle {
	return disabledOracle{}
}

type disabledOracle struct{}

func (disabledOracle) ProposeRewrite(ctx context.Context, original, contextLabel string) (string, error) {
	return "", goerr.New("rewrite oracle is not configured", goerr.T(model.TagOracle))
}
