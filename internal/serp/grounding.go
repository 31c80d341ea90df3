package serp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/textutil"
	"github.com/baedyl/proaicontent/models"
)

const (
	maxOrganicResults  = 10
	maxRelatedQs       = 10
	maxRelatedSearches = 8
	maxTopKeywords     = 20
	maxContentGaps     = 5

	// defaultCompetitorLength is assumed when no result carries usable
	// length data.
	defaultCompetitorLength = 1500

	// targetLengthFactor scales the competitor average into a recommended
	// target so generated pieces slightly outweigh what currently ranks.
	targetLengthFactor = 1.2

	// snippetWordsToLength turns the visible snippet word count into a crude
	// full-article length estimate.
	snippetWordsToLength = 55
)

// GroundingAgent turns one provider search into a GroundingResult. Any
// provider failure surfaces as an error the orchestrator downgrades to
// "no grounding available" — it must never abort the request.
type GroundingAgent struct {
	provider Provider
	logger   *zap.Logger
}

func NewGroundingAgent(provider Provider, logger *zap.Logger) *GroundingAgent {
	return &GroundingAgent{provider: provider, logger: logger}
}

func (a *GroundingAgent) Execute(ctx context.Context, keyword, locale string) (*models.GroundingResult, error) {
	resp, err := a.provider.Search(ctx, keyword, locale)
	if err != nil {
		return nil, fmt.Errorf("grounding search for %q failed: %w", keyword, err)
	}

	result := &models.GroundingResult{Keyword: keyword}

	for i, org := range resp.Organic {
		if i == maxOrganicResults {
			break
		}
		pos := org.Position
		if pos == 0 {
			pos = i + 1
		}
		result.Results = append(result.Results, models.SerpResult{
			Position:        pos,
			Title:           org.Title,
			URL:             org.Link,
			Snippet:         org.Snippet,
			EstimatedLength: estimateLength(org.Snippet),
		})
	}
	for i, paa := range resp.PeopleAlsoAsk {
		if i == maxRelatedQs {
			break
		}
		if paa.Question != "" {
			result.RelatedQuestions = append(result.RelatedQuestions, paa.Question)
		}
	}
	for i, rel := range resp.RelatedSearches {
		if i == maxRelatedSearches {
			break
		}
		if rel.Query != "" {
			result.RelatedSearches = append(result.RelatedSearches, rel.Query)
		}
	}

	result.AvgCompetitorLength = averageLength(result.Results)
	result.TopKeywords = topKeywords(result.Results)
	result.ContentGaps = contentGaps(result.RelatedQuestions, result.Results)
	result.Recommendations = recommendations(result)

	a.logger.Info("grounding complete",
		zap.String("keyword", keyword),
		zap.Int("results", len(result.Results)),
		zap.Int("relatedQuestions", len(result.RelatedQuestions)),
		zap.Int("avgCompetitorLength", result.AvgCompetitorLength),
		zap.Int("contentGaps", len(result.ContentGaps)))
	return result, nil
}

func estimateLength(snippet string) int {
	words := textutil.WordCount(snippet)
	if words == 0 {
		return 0
	}
	return words * snippetWordsToLength
}

func averageLength(results []models.SerpResult) int {
	sum, n := 0, 0
	for _, r := range results {
		if r.EstimatedLength > 0 {
			sum += r.EstimatedLength
			n++
		}
	}
	if n == 0 {
		return defaultCompetitorLength
	}
	return sum / n
}

func topKeywords(results []models.SerpResult) []string {
	texts := make([]string, 0, len(results)*2)
	for _, r := range results {
		texts = append(texts, r.Title, r.Snippet)
	}
	return textutil.TopTokens(texts, maxTopKeywords)
}

// contentGaps finds related questions whose stems never show up in any
// result title or snippet — topics competitors leave uncovered.
func contentGaps(questions []string, results []models.SerpResult) []string {
	covered := make(map[string]bool)
	for _, r := range results {
		for stem := range textutil.StemSet(r.Title + " " + r.Snippet) {
			covered[stem] = true
		}
	}

	var gaps []string
	for _, q := range questions {
		overlap := false
		for stem := range textutil.StemSet(q) {
			if covered[stem] {
				overlap = true
				break
			}
		}
		if !overlap {
			gaps = append(gaps, q)
			if len(gaps) == maxContentGaps {
				break
			}
		}
	}
	return gaps
}

func recommendations(g *models.GroundingResult) []string {
	target := int(float64(g.AvgCompetitorLength) * targetLengthFactor)
	recs := []string{
		fmt.Sprintf("Aim for around %d words to outweigh the %d-word competitor average.", target, g.AvgCompetitorLength),
	}
	if len(g.RelatedQuestions) > 0 {
		recs = append(recs, fmt.Sprintf("Answer the %d People-Also-Ask questions, ideally in a dedicated FAQ section.", len(g.RelatedQuestions)))
	}
	if len(g.ContentGaps) > 0 {
		recs = append(recs, fmt.Sprintf("Cover %d topics competitors miss: %s", len(g.ContentGaps), joinShort(g.ContentGaps, 3)))
	}
	if len(g.TopKeywords) > 0 {
		recs = append(recs, fmt.Sprintf("Work these terms into headings and body copy: %s", joinShort(g.TopKeywords, 8)))
	}
	return recs
}

func joinShort(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "; "
		}
		out += item
	}
	return out
}
