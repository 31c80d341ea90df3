// Package budget converts word-count targets into model token budgets.
package budget

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExceedsCapacity means the target cannot fit the model's output ceiling.
// It is a hard precondition failure, never retried.
var ErrExceedsCapacity = errors.New("target word count exceeds model capacity")

// Estimate is the token budget for one draft call.
type Estimate struct {
	EstimatedTokens int64
	MaxSafeTokens   int64
	WorkingCeiling  int64
}

type modelProfile struct {
	tokensPerWord float64
	outputCeiling int64
	promptMargin  int64
}

var profiles = map[string]modelProfile{
	"gpt-4o":        {tokensPerWord: 1.5, outputCeiling: 16384, promptMargin: 1024},
	"gpt-4o-mini":   {tokensPerWord: 1.5, outputCeiling: 16384, promptMargin: 1024},
	"gpt-4-turbo":   {tokensPerWord: 1.5, outputCeiling: 4096, promptMargin: 512},
	"gpt-3.5-turbo": {tokensPerWord: 1.4, outputCeiling: 4096, promptMargin: 512},
}

var defaultProfile = modelProfile{tokensPerWord: 1.6, outputCeiling: 4096, promptMargin: 512}

// headroomFactor leaves room for headings and markdown overhead on top of
// the plain word estimate.
const headroomFactor = 1.2

func profileFor(model string) modelProfile {
	if p, ok := profiles[model]; ok {
		return p
	}
	// Version-suffixed model names fall back to their family profile; the
	// longest matching prefix wins so nested family names resolve the same
	// way every call.
	best := ""
	for name := range profiles {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best != "" {
		return profiles[best]
	}
	return defaultProfile
}

// ForTarget computes the token budget for a word-count target on a model.
// Returns ErrExceedsCapacity when the estimate cannot fit under the model's
// output ceiling minus the reserved prompt margin.
func ForTarget(words int, model string) (Estimate, error) {
	if words <= 0 {
		return Estimate{}, fmt.Errorf("word target must be positive, got %d", words)
	}
	p := profileFor(model)
	est := Estimate{
		EstimatedTokens: int64(float64(words) * p.tokensPerWord),
		MaxSafeTokens:   p.outputCeiling - p.promptMargin,
	}
	if est.EstimatedTokens > est.MaxSafeTokens {
		return est, fmt.Errorf("%w: %d words needs ~%d tokens, model %q allows %d",
			ErrExceedsCapacity, words, est.EstimatedTokens, model, est.MaxSafeTokens)
	}
	est.WorkingCeiling = int64(float64(est.EstimatedTokens) * headroomFactor)
	if est.WorkingCeiling > est.MaxSafeTokens {
		est.WorkingCeiling = est.MaxSafeTokens
	}
	return est, nil
}
