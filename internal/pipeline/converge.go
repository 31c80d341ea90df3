package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/draft"
	"github.com/baedyl/proaicontent/internal/llm"
	"github.com/baedyl/proaicontent/models"
)

// attemptState is the corrective log threaded through draft calls. One per
// request; concurrent requests never share it.
type attemptState struct {
	attempt int
	notes   []string
}

// ConvergeOutcome is an accepted (or degrade-accepted) draft with the
// numbers the caller bills against.
type ConvergeOutcome struct {
	Text      string
	WordCount int
	Attempts  int
	Degraded  bool
}

// Controller drives drafting attempts toward the target word window. The
// outline is computed by the caller once; only the draft call repeats, each
// retry carrying the accumulated corrective notes. Retries are immediate —
// the corrective note, not timing, is the retry signal.
type Controller struct {
	drafter *draft.Agent
	// maxAttempts bounds the loop strictly.
	maxAttempts int
	// widenPct is the degrade-accept policy: the share of the original
	// window span added to each side after the attempt budget is spent.
	// Tunable policy constant, not an invariant.
	widenPct float64
	bounds   models.WordRange
	logger   *zap.Logger
}

func NewController(drafter *draft.Agent, maxAttempts int, widenPct float64, bounds models.WordRange, logger *zap.Logger) *Controller {
	return &Controller{
		drafter:     drafter,
		maxAttempts: maxAttempts,
		widenPct:    widenPct,
		bounds:      bounds,
		logger:      logger,
	}
}

// Run executes up to maxAttempts draft passes against window.
func (c *Controller) Run(ctx context.Context, req *models.GenerationRequest, in draft.DraftInput, grounding *models.GroundingResult, persona *models.Persona, usage *models.TokenUsage) (*ConvergeOutcome, error) {
	state := &attemptState{}
	window := in.Window
	var last *models.DraftAttempt

	for state.attempt < c.maxAttempts {
		state.attempt++
		in.Notes = state.notes

		out, err := c.drafter.Draft(ctx, req, in, grounding, persona, usage)
		if err != nil {
			// Drafting errors are retryable inside the loop; the note keeps
			// the next prompt unchanged but the attempt is spent.
			c.logger.Warn("draft attempt errored",
				zap.String("stage", "draft"),
				zap.Int("attempt", state.attempt),
				zap.Error(err))
			last = &models.DraftAttempt{Index: state.attempt, Reason: models.TerminationError}
			continue
		}

		attempt := c.evaluate(state, window, out)
		last = attempt
		c.logger.Info("draft attempt evaluated",
			zap.Int("attempt", attempt.Index),
			zap.Int("wordCount", attempt.WordCount),
			zap.Int("targetMin", window.Min),
			zap.Int("targetMax", window.Max),
			zap.String("reason", string(attempt.Reason)))

		switch attempt.Reason {
		case models.TerminationAccepted:
			return &ConvergeOutcome{
				Text:      attempt.Text,
				WordCount: attempt.WordCount,
				Attempts:  attempt.Index,
			}, nil
		case models.TerminationContentFiltered:
			return nil, models.NewPipelineError(models.ErrContentPolicy,
				"the content policy filter blocked this topic; generation cannot be retried").
				WithDetail("attempts", attempt.Index)
		}
		state.notes = append(state.notes, attempt.Note)
	}

	return c.exhaust(window, last)
}

// evaluate classifies one draft result and writes the corrective note for
// the next attempt.
func (c *Controller) evaluate(state *attemptState, window models.WordRange, out *draft.DraftOutput) *models.DraftAttempt {
	attempt := &models.DraftAttempt{
		Index:     state.attempt,
		WordCount: out.WordCount,
		Text:      out.Text,
	}

	if out.Text == "" {
		if out.Finish == llm.FinishContentFilter {
			attempt.Reason = models.TerminationContentFiltered
			return attempt
		}
		attempt.Reason = models.TerminationEmpty
		attempt.Note = fmt.Sprintf("Attempt %d returned no text. Produce the complete article with every outline section written out.", attempt.Index)
		return attempt
	}

	if window.Contains(out.WordCount) {
		attempt.Reason = models.TerminationAccepted
		return attempt
	}

	if out.Finish == llm.FinishLength {
		// The ceiling is fixed by the budget precondition; ask for economy
		// instead of raising it.
		attempt.Reason = models.TerminationTokenLimit
		attempt.Note = fmt.Sprintf("Attempt %d was cut off at the output limit with %d words. Write more concisely so the full article fits.", attempt.Index, out.WordCount)
		return attempt
	}

	attempt.Reason = models.TerminationError
	mid := window.Mid()
	pct := 0
	if mid > 0 {
		pct = out.WordCount * 100 / mid
	}
	if out.WordCount < window.Min {
		miss := window.Min - out.WordCount
		attempt.Note = fmt.Sprintf("Attempt %d produced %d words, about %d words under the %d-%d word target (%d%% of target). Add roughly %d more words of substantive content.",
			attempt.Index, out.WordCount, miss, window.Min, window.Max, pct, miss)
	} else {
		miss := out.WordCount - window.Max
		attempt.Note = fmt.Sprintf("Attempt %d produced %d words, about %d words over the %d-%d word target (%d%% of target). Reduce the article by roughly %d words.",
			attempt.Index, out.WordCount, miss, window.Min, window.Max, pct, miss)
	}
	return attempt
}

// exhaust applies the degrade-accept rule and otherwise builds the
// shape-specific convergence failure.
func (c *Controller) exhaust(window models.WordRange, last *models.DraftAttempt) (*ConvergeOutcome, error) {
	widened := c.widen(window)
	if last != nil && last.Text != "" && widened.Contains(last.WordCount) {
		c.logger.Info("degrade-accepting final attempt",
			zap.Int("wordCount", last.WordCount),
			zap.Int("widenedMin", widened.Min),
			zap.Int("widenedMax", widened.Max))
		return &ConvergeOutcome{
			Text:      last.Text,
			WordCount: last.WordCount,
			Attempts:  last.Index,
			Degraded:  true,
		}, nil
	}

	lastCount := 0
	attempts := c.maxAttempts
	if last != nil {
		lastCount = last.WordCount
		attempts = last.Index
	}

	var msg string
	var suggestions []string
	switch {
	case lastCount == 0:
		msg = "the model produced no usable text after every attempt"
		suggestions = []string{"simplify the topic", "remove conflicting advanced options"}
	case lastCount < window.Min/2:
		msg = fmt.Sprintf("drafts stalled far below target: best attempt reached %d of at least %d words", lastCount, window.Min)
		suggestions = []string{"lower the minimum word count", "broaden the topic so there is more to write about"}
	case lastCount > window.Max*3/2:
		msg = fmt.Sprintf("drafts ran far past target: last attempt hit %d against a maximum of %d words", lastCount, window.Max)
		suggestions = []string{"raise the maximum word count", "narrow the topic"}
	default:
		msg = fmt.Sprintf("drafts kept missing the window: last attempt was %d words against %d-%d", lastCount, window.Min, window.Max)
		suggestions = []string{"widen the word count range", "retry the request"}
	}

	return nil, models.NewPipelineError(models.ErrConvergenceFailed, msg).
		WithSuggestions(suggestions...).
		WithDetail("attempts", attempts).
		WithDetail("lastWordCount", lastCount).
		WithDetail("targetMin", window.Min).
		WithDetail("targetMax", window.Max)
}

func (c *Controller) widen(window models.WordRange) models.WordRange {
	delta := int(float64(window.Span()) * c.widenPct)
	out := models.WordRange{Min: window.Min - delta, Max: window.Max + delta}
	if out.Min < c.bounds.Min {
		out.Min = c.bounds.Min
	}
	if out.Max > c.bounds.Max {
		out.Max = c.bounds.Max
	}
	return out
}
