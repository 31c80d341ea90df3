package llm

import (
	"context"

	"github.com/baedyl/proaicontent/models"
)

// FinishReason mirrors the provider's stop reason for a completion.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
	FinishUnknown       FinishReason = "unknown"
)

// Request is one chat completion call. MaxTokens of zero means provider default.
type Request struct {
	System           string
	User             string
	MaxTokens        int64
	Temperature      float64
	TopP             float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

// Response is the completion text plus the metadata the pipeline acts on.
type Response struct {
	Text   string
	Finish FinishReason
	Usage  models.TokenUsage
}

// Client abstracts the generation model so agents can be tested without
// network calls.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Model() string
}

// Settings is the provider configuration handed to concrete clients.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
