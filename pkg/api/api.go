// Package api exposes the generation pipeline over HTTP and coordinates the
// transactional edges around it: auth, rate limiting, credit debit/refund
// and artifact persistence.
package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/ledger"
	"github.com/baedyl/proaicontent/internal/store"
	"github.com/baedyl/proaicontent/models"
)

// Generator is the pipeline entry point the API depends on.
type Generator interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.PipelineResult, error)
}

// GenerateAPI wires the orchestrator to its external collaborators.
type GenerateAPI struct {
	orchestrator   Generator
	ledger         ledger.CreditLedger
	artifacts      store.ArtifactStore
	journal        store.UsageJournal
	limiter        RateLimiter
	verifier       TokenVerifier
	creditsPerWord float64
	logger         *zap.Logger
}

func NewGenerateAPI(
	orchestrator Generator,
	creditLedger ledger.CreditLedger,
	artifacts store.ArtifactStore,
	journal store.UsageJournal,
	limiter RateLimiter,
	verifier TokenVerifier,
	creditsPerWord float64,
	logger *zap.Logger,
) *GenerateAPI {
	return &GenerateAPI{
		orchestrator:   orchestrator,
		ledger:         creditLedger,
		artifacts:      artifacts,
		journal:        journal,
		limiter:        limiter,
		verifier:       verifier,
		creditsPerWord: creditsPerWord,
		logger:         logger,
	}
}

func (api *GenerateAPI) RegisterRoutes(app *fiber.App) {
	app.Post("/api/generate", api.generateHandler)
}

type generateResponse struct {
	Content            string           `json:"content"`
	RequestedWordCount int              `json:"requestedWordCount,omitempty"`
	WordCountRange     models.WordRange `json:"wordCountRange"`
	ActualWordCount    int              `json:"actualWordCount"`
	AttemptCount       int              `json:"attemptCount"`
	CreditsDeducted    int64            `json:"creditsDeducted"`
	RemainingCredits   int64            `json:"remainingCredits"`
	Degraded           bool             `json:"degraded,omitempty"`
	Metadata           responseMetadata `json:"metadata"`
}

type responseMetadata struct {
	Model        string                   `json:"model"`
	TokensUsed   models.TokenUsage        `json:"tokensUsed"`
	SerpAnalysis *models.GroundingSummary `json:"serpAnalysis,omitempty"`
	FAQIncluded  bool                     `json:"faqIncluded"`
	VideoAdded   bool                     `json:"videoAdded"`
	RateLimit    rateLimitInfo            `json:"rateLimit"`
}

type rateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

func (api *GenerateAPI) generateHandler(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := api.verifier.Verify(ctx, bearerToken(c.Get("Authorization")))
	if err != nil {
		return writeError(c, models.NewPipelineError(models.ErrUnauthorized, "authentication required"))
	}

	rl, err := api.limiter.Check(ctx, userID)
	if err != nil {
		api.logger.Error("rate limiter unavailable", zap.Error(err))
		return writeError(c, models.NewPipelineError(models.ErrInternal, "rate limiter unavailable"))
	}
	if !rl.Allowed {
		return writeError(c, models.NewPipelineError(models.ErrRateLimited,
			"rate limit exceeded, slow down").
			WithDetail("retryAfterSeconds", int(rl.ResetIn.Seconds())))
	}

	var req models.GenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.NewPipelineError(models.ErrInvalidRequest, "request body is not valid JSON"))
	}

	// Cheapest possible rejection before any model call: the caller must be
	// able to afford at least the minimum of the window.
	balance, err := api.ledger.Balance(ctx, userID)
	if err != nil {
		api.logger.Error("balance check failed", zap.String("user", userID), zap.Error(err))
		return writeError(c, models.NewPipelineError(models.ErrInternal, "credit balance unavailable"))
	}
	minWords := req.MinWords
	if minWords == 0 {
		minWords = req.TargetWordCount
	}
	if balance < int64(float64(minWords)*api.creditsPerWord) {
		return writeError(c, models.NewPipelineError(models.ErrInsufficientCredits,
			"not enough credits for the requested length").
			WithDetail("balance", balance))
	}

	result, err := api.orchestrator.Generate(ctx, &req)
	if err != nil {
		var perr *models.PipelineError
		if errors.As(err, &perr) {
			return writeError(c, perr)
		}
		api.logger.Error("pipeline failed unexpectedly", zap.String("user", userID), zap.Error(err))
		return writeError(c, models.NewPipelineError(models.ErrInternal, "generation failed unexpectedly"))
	}

	// Credits are consumed on words actually produced, not requested.
	credits := int64(float64(result.WordCount) * api.creditsPerWord)
	remaining, err := api.ledger.Debit(ctx, userID, credits)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientCredits) {
			return writeError(c, models.NewPipelineError(models.ErrInsufficientCredits,
				"balance dropped below the produced word count during generation"))
		}
		api.logger.Error("debit failed after generation", zap.String("user", userID), zap.Error(err))
		return writeError(c, models.NewPipelineError(models.ErrInternal, "billing failed"))
	}

	artifactID, err := api.persist(ctx, userID, &req, result)
	if err != nil {
		// Generation succeeded but the artifact is gone: give the credits back
		// and say so explicitly.
		if refundErr := api.ledger.Refund(ctx, userID, credits); refundErr != nil {
			api.logger.Error("refund after failed persistence also failed",
				zap.String("user", userID), zap.Error(refundErr))
		}
		api.logger.Error("artifact persistence failed", zap.String("user", userID), zap.Error(err))
		return writeError(c, models.NewPipelineError(models.ErrNotSaved,
			"generation succeeded but the article could not be saved; credits were refunded"))
	}

	if api.journal != nil {
		if err := api.journal.Record(ctx, store.UsageEntry{
			UserID:          userID,
			Topic:           req.Topic,
			ArtifactID:      artifactID,
			WordCount:       result.WordCount,
			Attempts:        result.Attempts,
			TokensUsed:      result.TokensUsed.Total,
			CreditsDeducted: credits,
		}); err != nil {
			api.logger.Warn("usage journal write failed", zap.String("user", userID), zap.Error(err))
		}
	}

	return c.JSON(generateResponse{
		Content:            result.Content,
		RequestedWordCount: req.TargetWordCount,
		WordCountRange:     result.RequestedRange,
		ActualWordCount:    result.WordCount,
		AttemptCount:       result.Attempts,
		CreditsDeducted:    credits,
		RemainingCredits:   remaining,
		Degraded:           result.Degraded,
		Metadata: responseMetadata{
			Model:        result.Model,
			TokensUsed:   result.TokensUsed,
			SerpAnalysis: result.Grounding,
			FAQIncluded:  result.FAQIncluded,
			VideoAdded:   result.VideoIncluded,
			RateLimit:    rateLimitInfo{Limit: rl.Limit, Remaining: rl.Remaining},
		},
	})
}

func (api *GenerateAPI) persist(ctx context.Context, userID string, req *models.GenerationRequest, result *models.PipelineResult) (string, error) {
	if api.artifacts == nil {
		return "", nil
	}
	return api.artifacts.SaveArtifact(ctx, userID, req, result)
}

type errorBody struct {
	Category    models.ErrorCategory `json:"category"`
	Message     string               `json:"message"`
	Suggestions []string             `json:"suggestions,omitempty"`
	Details     map[string]any       `json:"details,omitempty"`
}

func writeError(c *fiber.Ctx, perr *models.PipelineError) error {
	return c.Status(perr.HTTPStatus()).JSON(fiber.Map{"error": errorBody{
		Category:    perr.Category,
		Message:     perr.Message,
		Suggestions: perr.Suggestions,
		Details:     perr.Details,
	}})
}
