package faq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/llm"
	"github.com/baedyl/proaicontent/models"
)

func TestExecuteParsesQAPairs(t *testing.T) {
	client := llm.NewScriptedClient("test", llm.Response{
		Text: "Q: How long do beans stay fresh?\nA: About two weeks after roasting.\nKeep them sealed and away from light.\n\nQ: Should beans go in the freezer?\nA: No, condensation ruins the oils.",
		Finish: llm.FinishStop,
	})
	agent := NewAgent(client, zap.NewNop())

	var usage models.TokenUsage
	res, err := agent.Execute(context.Background(),
		[]string{"How long do beans stay fresh?", "Should beans go in the freezer?"},
		"coffee storage", "", &usage)
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "About two weeks after roasting. Keep them sealed and away from light.", res.Items[0].Answer)
	assert.False(t, res.Degraded)
	assert.Contains(t, res.Fragment, "schema.org/FAQPage")
	assert.Contains(t, res.Fragment, "How long do beans stay fresh?")
}

func TestExecuteFallbackWhenParseFails(t *testing.T) {
	client := llm.NewScriptedClient("test", llm.Response{
		Text:   "Here are some thoughts about coffee, in no particular format.",
		Finish: llm.FinishStop,
	})
	agent := NewAgent(client, zap.NewNop())

	questions := []string{"q one?", "q two?", "q three?"}
	var usage models.TokenUsage
	res, err := agent.Execute(context.Background(), questions, "coffee", "", &usage)
	require.NoError(t, err)

	// Never fewer items than input questions.
	require.Len(t, res.Items, len(questions))
	for i, item := range res.Items {
		assert.Equal(t, questions[i], item.Question)
		assert.NotEmpty(t, item.Answer)
	}
	assert.True(t, res.Degraded)
}

func TestExecuteBackfillsSkippedQuestions(t *testing.T) {
	client := llm.NewScriptedClient("test", llm.Response{
		Text:   "Q: q one?\nA: An answer.",
		Finish: llm.FinishStop,
	})
	agent := NewAgent(client, zap.NewNop())

	var usage models.TokenUsage
	res, err := agent.Execute(context.Background(), []string{"q one?", "q two?"}, "topic", "", &usage)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "An answer.", res.Items[0].Answer)
	assert.Equal(t, fallbackAnswer, res.Items[1].Answer)
	assert.False(t, res.Degraded)
}

func TestExecuteEmptyQuestions(t *testing.T) {
	agent := NewAgent(llm.NewScriptedClient("test"), zap.NewNop())
	var usage models.TokenUsage
	res, err := agent.Execute(context.Background(), nil, "topic", "", &usage)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, "", res.Fragment)
}

func TestExecuteCapsQuestions(t *testing.T) {
	client := llm.NewScriptedClient("test", llm.Response{Text: "nonsense", Finish: llm.FinishStop})
	agent := NewAgent(client, zap.NewNop())

	questions := make([]string, 12)
	for i := range questions {
		questions[i] = "question?"
	}
	var usage models.TokenUsage
	res, err := agent.Execute(context.Background(), questions, "topic", "", &usage)
	require.NoError(t, err)
	assert.Len(t, res.Items, maxQuestions)
}

func TestFragmentEscapesHTML(t *testing.T) {
	fragment := buildFragment([]models.FAQItem{{Question: "Is <b> allowed?", Answer: "No & never."}})
	assert.Contains(t, fragment, "&lt;b&gt;")
	assert.Contains(t, fragment, "&amp; never")
}
