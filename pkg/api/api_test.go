package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/ledger"
	"github.com/baedyl/proaicontent/internal/store"
	"github.com/baedyl/proaicontent/models"
)

type stubGenerator struct {
	result *models.PipelineResult
	err    error
}

func (s *stubGenerator) Generate(context.Context, *models.GenerationRequest) (*models.PipelineResult, error) {
	return s.result, s.err
}

type stubLedger struct {
	balance  int64
	debitErr error
	debits   []int64
	refunds  []int64
}

func (s *stubLedger) Balance(context.Context, string) (int64, error) { return s.balance, nil }

func (s *stubLedger) Debit(_ context.Context, _ string, amount int64) (int64, error) {
	if s.debitErr != nil {
		return 0, s.debitErr
	}
	s.debits = append(s.debits, amount)
	s.balance -= amount
	return s.balance, nil
}

func (s *stubLedger) Refund(_ context.Context, _ string, amount int64) error {
	s.refunds = append(s.refunds, amount)
	s.balance += amount
	return nil
}

type stubArtifacts struct {
	saveErr error
	saved   int
}

func (s *stubArtifacts) SaveArtifact(context.Context, string, *models.GenerationRequest, *models.PipelineResult) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved++
	return "artifact-1", nil
}

type stubJournal struct {
	entries []store.UsageEntry
}

func (s *stubJournal) Record(_ context.Context, entry store.UsageEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

type stubLimiter struct {
	rl RateLimit
}

func (s *stubLimiter) Check(context.Context, string) (RateLimit, error) { return s.rl, nil }

func okResult() *models.PipelineResult {
	return &models.PipelineResult{
		Content:        "# Article\n\nbody",
		WordCount:      800,
		Attempts:       2,
		Model:          "test",
		RequestedRange: models.WordRange{Min: 680, Max: 920},
	}
}

type harness struct {
	app       *fiber.App
	ledger    *stubLedger
	artifacts *stubArtifacts
	journal   *stubJournal
}

func newHarness(gen Generator, credits int64) *harness {
	h := &harness{
		app:       fiber.New(),
		ledger:    &stubLedger{balance: credits},
		artifacts: &stubArtifacts{},
		journal:   &stubJournal{},
	}
	api := NewGenerateAPI(gen, h.ledger, h.artifacts, h.journal,
		&stubLimiter{rl: RateLimit{Allowed: true, Limit: 10, Remaining: 9}},
		NewStaticVerifier(map[string]string{"tok": "user-1"}),
		1.0, zap.NewNop())
	api.RegisterRoutes(h.app)
	return h
}

func (h *harness) post(t *testing.T, token string, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

const validBody = `{"topic":"home coffee roasting","targetWordCount":800}`

func TestGenerateEndpointSuccess(t *testing.T) {
	h := newHarness(&stubGenerator{result: okResult()}, 1000)
	resp, body := h.post(t, "tok", validBody)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(800), body["actualWordCount"])
	assert.Equal(t, float64(2), body["attemptCount"])
	assert.Equal(t, float64(800), body["creditsDeducted"])
	assert.Equal(t, float64(200), body["remainingCredits"])

	meta := body["metadata"].(map[string]any)
	assert.Equal(t, "test", meta["model"])
	rl := meta["rateLimit"].(map[string]any)
	assert.Equal(t, float64(10), rl["limit"])

	assert.Equal(t, 1, h.artifacts.saved)
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, "user-1", h.journal.entries[0].UserID)
	assert.Equal(t, "artifact-1", h.journal.entries[0].ArtifactID)
	assert.Equal(t, int64(800), h.journal.entries[0].CreditsDeducted)
}

func TestGenerateEndpointRejectsMissingToken(t *testing.T) {
	h := newHarness(&stubGenerator{result: okResult()}, 1000)
	resp, body := h.post(t, "", validBody)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "unauthorized", errBody["category"])
}

func TestGenerateEndpointRateLimited(t *testing.T) {
	h := &harness{app: fiber.New(), ledger: &stubLedger{balance: 1000}}
	api := NewGenerateAPI(&stubGenerator{result: okResult()}, h.ledger, nil, nil,
		&stubLimiter{rl: RateLimit{Allowed: false, Limit: 10, ResetIn: 42 * time.Second}},
		NewStaticVerifier(map[string]string{"tok": "user-1"}),
		1.0, zap.NewNop())
	api.RegisterRoutes(h.app)

	resp, body := h.post(t, "tok", validBody)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	details := errBody["details"].(map[string]any)
	assert.Equal(t, float64(42), details["retryAfterSeconds"])
}

func TestGenerateEndpointInsufficientCreditsUpfront(t *testing.T) {
	h := newHarness(&stubGenerator{result: okResult()}, 50)
	resp, body := h.post(t, "tok", validBody)

	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "insufficient_credits", errBody["category"])
	// Nothing was debited for a rejected request.
	assert.Empty(t, h.ledger.debits)
}

func TestGenerateEndpointMapsPipelineErrors(t *testing.T) {
	perr := models.NewPipelineError(models.ErrConvergenceFailed, "drafts kept missing the window").
		WithDetail("attempts", 3)
	h := newHarness(&stubGenerator{err: perr}, 1000)

	resp, body := h.post(t, "tok", validBody)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "convergence_failed", errBody["category"])
	assert.Empty(t, h.ledger.debits)
}

func TestGenerateEndpointBadJSON(t *testing.T) {
	h := newHarness(&stubGenerator{result: okResult()}, 1000)
	resp, body := h.post(t, "tok", `{"topic":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "invalid_request", errBody["category"])
}

func TestGenerateEndpointRefundsWhenPersistenceFails(t *testing.T) {
	h := newHarness(&stubGenerator{result: okResult()}, 1000)
	h.artifacts.saveErr = errors.New("mongo down")

	resp, body := h.post(t, "tok", validBody)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "not_saved", errBody["category"])
	assert.Contains(t, errBody["message"], "credits were refunded")

	assert.Equal(t, []int64{800}, h.ledger.debits)
	assert.Equal(t, []int64{800}, h.ledger.refunds)
	assert.Equal(t, int64(1000), h.ledger.balance)
	assert.Empty(t, h.journal.entries)
}

func TestGenerateEndpointDebitRace(t *testing.T) {
	h := newHarness(&stubGenerator{result: okResult()}, 1000)
	h.ledger.debitErr = ledger.ErrInsufficientCredits

	resp, body := h.post(t, "tok", validBody)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "insufficient_credits", errBody["category"])
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "", bearerToken("abc"))
	assert.Equal(t, "", bearerToken(""))
}
