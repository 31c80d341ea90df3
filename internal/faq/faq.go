// Package faq turns People-Also-Ask questions into question/answer pairs
// via one batched generation call.
package faq

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/llm"
	"github.com/baedyl/proaicontent/models"
)

const maxQuestions = 7

const fallbackAnswer = "This depends on your specific situation. The sections above cover the key considerations to help you decide."

// Agent synthesizes FAQ items. Structural completeness wins over content
// quality: when the model's output cannot be parsed, every question still
// gets an answer — a generic one — and the result is flagged Degraded.
type Agent struct {
	llm    llm.Client
	logger *zap.Logger
}

func NewAgent(client llm.Client, logger *zap.Logger) *Agent {
	return &Agent{llm: client, logger: logger}
}

func (a *Agent) Execute(ctx context.Context, questions []string, topic, contextSnippet string, usage *models.TokenUsage) (*models.FAQResult, error) {
	if len(questions) == 0 {
		return &models.FAQResult{Fragment: ""}, nil
	}
	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}

	resp, err := a.llm.Complete(ctx, llm.Request{
		System:      "You write concise, factual FAQ answers. Output only the requested Q/A lines, nothing else.",
		User:        buildPrompt(questions, topic, contextSnippet),
		Temperature: 0.7,
		MaxTokens:   200 * int64(len(questions)),
	})
	if err != nil {
		return nil, fmt.Errorf("faq generation failed: %w", err)
	}
	usage.Add(resp.Usage.Prompt, resp.Usage.Completion)

	items := parseQA(resp.Text)
	degraded := false
	if len(items) == 0 {
		a.logger.Warn("faq parse produced no records, using fallback answers",
			zap.Int("questions", len(questions)))
		for _, q := range questions {
			items = append(items, models.FAQItem{Question: q, Answer: fallbackAnswer})
		}
		degraded = true
	} else {
		// Any question the model skipped still gets the fallback answer.
		answered := make(map[string]bool, len(items))
		for _, item := range items {
			answered[strings.ToLower(strings.TrimSpace(item.Question))] = true
		}
		for _, q := range questions {
			if !answered[strings.ToLower(strings.TrimSpace(q))] {
				items = append(items, models.FAQItem{Question: q, Answer: fallbackAnswer})
			}
		}
	}

	return &models.FAQResult{
		Items:    items,
		Fragment: buildFragment(items),
		Degraded: degraded,
	}, nil
}

func buildPrompt(questions []string, topic, contextSnippet string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a 2-3 sentence answer for each question about %q.\n", topic))
	if contextSnippet != "" {
		sb.WriteString("Stay consistent with this article excerpt:\n")
		sb.WriteString(contextSnippet)
		sb.WriteString("\n")
	}
	sb.WriteString("Use exactly this format, one pair per question:\nQ: <question>\nA: <answer>\n\nQuestions:\n")
	for _, q := range questions {
		sb.WriteString("- ")
		sb.WriteString(q)
		sb.WriteString("\n")
	}
	return sb.String()
}

// parseQA scans lines in order: a "Q:" line starts a new record, following
// non-empty lines accumulate into its answer until the next "Q:".
func parseQA(text string) []models.FAQItem {
	var items []models.FAQItem
	var current *models.FAQItem

	flush := func() {
		if current != nil && current.Question != "" && current.Answer != "" {
			current.Answer = strings.TrimSpace(current.Answer)
			items = append(items, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Q:"):
			flush()
			current = &models.FAQItem{Question: strings.TrimSpace(strings.TrimPrefix(line, "Q:"))}
		case strings.HasPrefix(line, "A:"):
			if current != nil {
				current.Answer = strings.TrimSpace(strings.TrimPrefix(line, "A:"))
			}
		case line != "":
			if current != nil && current.Answer != "" {
				current.Answer += " " + line
			}
		}
	}
	flush()
	return items
}

// buildFragment renders schema.org FAQPage microdata, ready to append to
// the final article. Empty when there are no items.
func buildFragment(items []models.FAQItem) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div itemscope itemtype="https://schema.org/FAQPage">` + "\n")
	for _, item := range items {
		sb.WriteString(`  <div itemscope itemprop="mainEntity" itemtype="https://schema.org/Question">` + "\n")
		sb.WriteString(fmt.Sprintf(`    <h3 itemprop="name">%s</h3>`+"\n", html.EscapeString(item.Question)))
		sb.WriteString(`    <div itemscope itemprop="acceptedAnswer" itemtype="https://schema.org/Answer">` + "\n")
		sb.WriteString(fmt.Sprintf(`      <p itemprop="text">%s</p>`+"\n", html.EscapeString(item.Answer)))
		sb.WriteString("    </div>\n  </div>\n")
	}
	sb.WriteString("</div>")
	return sb.String()
}
