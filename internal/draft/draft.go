// Package draft is the two-stage generator: outline first, then full drafts
// bounded by the token budget, finished by a deterministic humanization pass.
package draft

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/llm"
	"github.com/baedyl/proaicontent/internal/textutil"
	"github.com/baedyl/proaicontent/models"
)

// Sampling for draft calls: warm enough for varied prose, penalized enough
// to discourage repetition without destabilizing coherence.
const (
	draftTemperature      = 0.9
	draftTopP             = 0.92
	draftPresencePenalty  = 0.4
	draftFrequencyPenalty = 0.5

	outlineTemperature = 0.7
	outlineMaxTokens   = 1500
)

// Agent produces outlines and drafts through the model client.
type Agent struct {
	llm       llm.Client
	humanizer *Humanizer
	logger    *zap.Logger
}

func NewAgent(client llm.Client, humanizer *Humanizer, logger *zap.Logger) *Agent {
	return &Agent{llm: client, humanizer: humanizer, logger: logger}
}

func (a *Agent) Model() string { return a.llm.Model() }

// Outline runs the outline stage. Called once per request; the result is
// reused across every convergence attempt.
func (a *Agent) Outline(ctx context.Context, req *models.GenerationRequest, grounding *models.GroundingResult, structure *models.StructureResult, persona *models.Persona, usage *models.TokenUsage) (string, error) {
	system, user := BuildOutlinePrompt(req, grounding, structure, persona)
	resp, err := a.llm.Complete(ctx, llm.Request{
		System:      system,
		User:        user,
		Temperature: outlineTemperature,
		MaxTokens:   outlineMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("outline generation failed: %w", err)
	}
	usage.Add(resp.Usage.Prompt, resp.Usage.Completion)

	outline := strings.TrimSpace(resp.Text)
	if outline == "" {
		return "", fmt.Errorf("outline generation returned empty text")
	}
	a.logger.Info("outline generated", zap.Int("outlineWords", textutil.WordCount(outline)))
	return outline, nil
}

// DraftInput is one convergence attempt's worth of drafting parameters.
type DraftInput struct {
	Outline      string
	Window       models.WordRange
	TokenCeiling int64
	Notes        []string
}

// DraftOutput is the humanized draft plus the stop metadata the convergence
// controller evaluates.
type DraftOutput struct {
	Text      string
	WordCount int
	Finish    llm.FinishReason
}

// Draft runs one draft attempt and humanizes the result.
func (a *Agent) Draft(ctx context.Context, req *models.GenerationRequest, in DraftInput, grounding *models.GroundingResult, persona *models.Persona, usage *models.TokenUsage) (*DraftOutput, error) {
	system, user := BuildDraftPrompt(req, in.Outline, in.Window, persona, grounding, in.Notes)
	resp, err := a.llm.Complete(ctx, llm.Request{
		System:           system,
		User:             user,
		MaxTokens:        in.TokenCeiling,
		Temperature:      draftTemperature,
		TopP:             draftTopP,
		PresencePenalty:  draftPresencePenalty,
		FrequencyPenalty: draftFrequencyPenalty,
	})
	if err != nil {
		return nil, fmt.Errorf("draft generation failed: %w", err)
	}
	usage.Add(resp.Usage.Prompt, resp.Usage.Completion)

	text := strings.TrimSpace(resp.Text)
	if text != "" {
		text = a.humanizer.Apply(text)
	}
	return &DraftOutput{
		Text:      text,
		WordCount: textutil.WordCount(text),
		Finish:    resp.Finish,
	}, nil
}
