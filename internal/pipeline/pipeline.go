// Package pipeline sequences grounding, structure mining, drafting with
// word-count convergence, FAQ synthesis and final assembly. Optional stages
// degrade silently; the core draft is the only guaranteed product.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/budget"
	"github.com/baedyl/proaicontent/internal/draft"
	"github.com/baedyl/proaicontent/internal/faq"
	"github.com/baedyl/proaicontent/internal/sanitize"
	"github.com/baedyl/proaicontent/internal/serp"
	"github.com/baedyl/proaicontent/internal/structure"
	"github.com/baedyl/proaicontent/internal/textutil"
	"github.com/baedyl/proaicontent/models"
)

// Options are the orchestration tunables, normally sourced from
// config.PipelineConfig.
type Options struct {
	MaxAttempts       int
	TolerancePct      float64
	DegradeWidenPct   float64
	Bounds            models.WordRange
	MaxCompetitorURLs int
}

// Orchestrator owns one pipeline wiring. Each Generate call is an
// independent sequential chain; no state is shared across requests.
type Orchestrator struct {
	grounding *serp.GroundingAgent
	structure *structure.Agent
	drafter   *draft.Agent
	faq       *faq.Agent
	videos    VideoFinder
	personas  PersonaCatalog
	opts      Options
	logger    *zap.Logger
}

func NewOrchestrator(
	grounding *serp.GroundingAgent,
	structureAgent *structure.Agent,
	drafter *draft.Agent,
	faqAgent *faq.Agent,
	videos VideoFinder,
	personas PersonaCatalog,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		grounding: grounding,
		structure: structureAgent,
		drafter:   drafter,
		faq:       faqAgent,
		videos:    videos,
		personas:  personas,
		opts:      opts,
		logger:    logger,
	}
}

// Generate runs the full pipeline for one request.
func (o *Orchestrator) Generate(ctx context.Context, req *models.GenerationRequest) (*models.PipelineResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	window, err := ResolveWindow(req, o.opts.TolerancePct, o.opts.Bounds)
	if err != nil {
		return nil, err
	}

	est, err := budget.ForTarget(window.Max, o.drafter.Model())
	if err != nil {
		if errors.Is(err, budget.ErrExceedsCapacity) {
			return nil, models.NewPipelineError(models.ErrInvalidRequest, err.Error()).
				WithSuggestions("lower the word count target", "switch to a model with a larger output window")
		}
		return nil, models.NewPipelineError(models.ErrInvalidRequest, err.Error())
	}

	var usage models.TokenUsage
	persona := o.resolvePersona(req.PersonaID)

	grounding := o.runGrounding(ctx, req)
	structureResult := o.runStructure(ctx, req, grounding)

	outline, err := o.drafter.Outline(ctx, req, grounding, structureResult, persona, &usage)
	if err != nil {
		o.logger.Error("outline stage failed", zap.String("stage", "outline"), zap.Error(err))
		return nil, models.NewPipelineError(models.ErrInternal, "outline generation failed")
	}

	controller := NewController(o.drafter, o.opts.MaxAttempts, o.opts.DegradeWidenPct, o.opts.Bounds, o.logger)
	outcome, err := controller.Run(ctx, req, draft.DraftInput{
		Outline:      outline,
		Window:       window,
		TokenCeiling: est.WorkingCeiling,
	}, grounding, persona, &usage)
	if err != nil {
		return nil, err
	}

	cleaned := sanitize.Clean(outcome.Text)
	if cleaned.SeverelyCorrupted {
		o.logger.Error("sanitizer flagged output as severely corrupted",
			zap.Strings("issues", cleaned.Issues),
			zap.Int("wordCount", outcome.WordCount))
		return nil, models.NewPipelineError(models.ErrInternal,
			"generated content failed safety cleanup").
			WithSuggestions("retry the request", "rephrase the topic").
			WithDetail("attempts", outcome.Attempts).
			WithDetail("issues", cleaned.Issues)
	}
	content := cleaned.Text

	// Credits bill on WordCount; it must reflect the delivered text, not the
	// pre-cleanup draft.
	result := &models.PipelineResult{
		WordCount:      textutil.WordCount(content),
		Attempts:       outcome.Attempts,
		Model:          o.drafter.Model(),
		RequestedRange: window,
		Degraded:       outcome.Degraded,
	}

	if req.IncludeVideo {
		if video := o.runVideoLookup(ctx, req); video != nil {
			content = spliceVideo(content, video)
			result.VideoIncluded = true
		}
	}

	if req.IncludeFAQ && grounding != nil && len(grounding.RelatedQuestions) > 0 {
		faqResult, err := o.faq.Execute(ctx, grounding.RelatedQuestions, req.Topic, leadSnippet(content, 150), &usage)
		if err != nil {
			o.logger.Warn("faq stage failed, continuing without it",
				zap.String("stage", "faq"), zap.Error(err))
		} else if faqResult.Fragment != "" {
			content = appendFAQ(content, faqResult.Fragment)
			result.FAQIncluded = true
			if faqResult.Degraded {
				result.Degraded = true
			}
		}
	}

	result.Content = content
	result.TokensUsed = usage
	if grounding != nil {
		result.Grounding = &models.GroundingSummary{
			Keyword:             grounding.Keyword,
			ResultCount:         len(grounding.Results),
			AvgCompetitorLength: grounding.AvgCompetitorLength,
			TopKeywords:         grounding.TopKeywords,
			ContentGapCount:     len(grounding.ContentGaps),
		}
	}
	return result, nil
}

func (o *Orchestrator) resolvePersona(id string) *models.Persona {
	if id == "" || o.personas == nil {
		return nil
	}
	return o.personas.Get(id)
}

func (o *Orchestrator) runGrounding(ctx context.Context, req *models.GenerationRequest) *models.GroundingResult {
	if !req.UseSerpAnalysis || o.grounding == nil {
		return nil
	}
	grounding, err := o.grounding.Execute(ctx, req.PrimaryKeyword(), req.Location)
	if err != nil {
		o.logger.Warn("grounding unavailable, continuing without it",
			zap.String("stage", "grounding"), zap.Error(err))
		return nil
	}
	return grounding
}

func (o *Orchestrator) runStructure(ctx context.Context, req *models.GenerationRequest, grounding *models.GroundingResult) *models.StructureResult {
	if !req.IncludeCompetitorHeaders || o.structure == nil {
		return nil
	}
	if grounding == nil || len(grounding.Results) == 0 {
		return nil
	}
	result, err := o.structure.Execute(ctx, grounding.TopURLs(o.opts.MaxCompetitorURLs))
	if err != nil {
		o.logger.Warn("structure mining failed, continuing without it",
			zap.String("stage", "structure"), zap.Error(err))
		return nil
	}
	return result
}

func (o *Orchestrator) runVideoLookup(ctx context.Context, req *models.GenerationRequest) *serp.Video {
	if o.videos == nil {
		return nil
	}
	video, err := o.videos.Find(ctx, req.Topic, req.Location)
	if err != nil {
		o.logger.Warn("video lookup failed, continuing without it",
			zap.String("stage", "video"), zap.Error(err))
		return nil
	}
	return video
}
