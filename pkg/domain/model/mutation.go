package model

import (
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
)

// maxLengthDriftPercent bounds how far a rewrite may move from the original
// length before it is rejected.
const maxLengthDriftPercent = 15.0

// ValidateMutation checks a proposed rewrite against the original text. A
// rewrite is rejected when its length drifts more than 15% from the original
// or when it is character-identical to the original. The check is pure and
// deterministic; length is measured in runes.
func ValidateMutation(original, mutated string) error {
	origLen := utf8.RuneCountInString(original)
	if origLen == 0 {
		return goerr.New("original content is empty",
			goerr.T(TagMutationRejected))
	}

	mutLen := utf8.RuneCountInString(mutated)
	drift := mutLen - origLen
	if drift < 0 {
		drift = -drift
	}

	driftPercent := float64(drift) / float64(origLen) * 100
	if driftPercent > maxLengthDriftPercent {
		return goerr.New("rewrite drifted too far from original length",
			goerr.T(TagMutationRejected),
			goerr.V("originalLength", origLen),
			goerr.V("mutatedLength", mutLen),
			goerr.V("driftPercent", driftPercent))
	}

	if mutated == original {
		return goerr.New("rewrite is identical to original",
			goerr.T(TagMutationRejected))
	}

	return nil
}

// FallbackMutation returns a deterministic minimal rewrite used when the
// rewrite oracle is unavailable. It toggles trailing punctuation and always
// returns something different from its input, so it is accepted without
// validation.
func FallbackMutation(content string) string {
	switch {
	case strings.HasSuffix(content, "."):
		return strings.TrimSuffix(content, ".")
	case strings.HasSuffix(content, "!"):
		return strings.TrimSuffix(content, "!") + "."
	default:
		return content + "."
	}
}
