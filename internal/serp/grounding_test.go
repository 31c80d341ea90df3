package serp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	resp *SearchResponse
	err  error
}

func (f *fakeProvider) Search(context.Context, string, string) (*SearchResponse, error) {
	return f.resp, f.err
}

func (f *fakeProvider) SearchVideos(context.Context, string, string) ([]Video, error) {
	return nil, errors.New("not implemented")
}

func TestExecuteDerivesGroundingData(t *testing.T) {
	provider := &fakeProvider{resp: &SearchResponse{
		Organic: []OrganicResult{
			{Position: 1, Title: "Best espresso machines", Link: "https://a.example/one", Snippet: "We tested twenty espresso machines for months to find the best pick."},
			{Position: 2, Title: "Espresso machine reviews", Link: "https://b.example/two", Snippet: "Our espresso machine reviews cover budget and premium models."},
		},
		PeopleAlsoAsk: []PAAItem{
			{Question: "How often should an espresso machine be descaled?"},
			{Question: "What voltage converters work overseas?"},
		},
		RelatedSearches: []RelatedSearch{{Query: "espresso machine under 200"}},
	}}

	agent := NewGroundingAgent(provider, zap.NewNop())
	res, err := agent.Execute(context.Background(), "best espresso machine", "us")
	require.NoError(t, err)

	assert.Len(t, res.Results, 2)
	assert.Greater(t, res.Results[0].EstimatedLength, 0)
	assert.Greater(t, res.AvgCompetitorLength, 0)
	assert.Contains(t, res.TopKeywords, "espresso")
	assert.Equal(t, []string{"espresso machine under 200"}, res.RelatedSearches)

	// The descaling question shares "espresso machine" stems with the
	// results, so only the voltage question is a gap.
	assert.Equal(t, []string{"What voltage converters work overseas?"}, res.ContentGaps)
	assert.NotEmpty(t, res.Recommendations)
}

func TestExecuteDefaultsCompetitorLength(t *testing.T) {
	provider := &fakeProvider{resp: &SearchResponse{
		Organic: []OrganicResult{{Position: 1, Title: "t", Link: "https://a.example"}},
	}}
	agent := NewGroundingAgent(provider, zap.NewNop())
	res, err := agent.Execute(context.Background(), "kw", "")
	require.NoError(t, err)
	assert.Equal(t, defaultCompetitorLength, res.AvgCompetitorLength)
}

func TestExecuteCapsLists(t *testing.T) {
	resp := &SearchResponse{}
	for i := 0; i < 15; i++ {
		resp.Organic = append(resp.Organic, OrganicResult{Title: "t", Link: "https://x.example", Snippet: "s"})
		resp.PeopleAlsoAsk = append(resp.PeopleAlsoAsk, PAAItem{Question: "why though?"})
		resp.RelatedSearches = append(resp.RelatedSearches, RelatedSearch{Query: "q"})
	}
	agent := NewGroundingAgent(&fakeProvider{resp: resp}, zap.NewNop())
	res, err := agent.Execute(context.Background(), "kw", "")
	require.NoError(t, err)
	assert.Len(t, res.Results, maxOrganicResults)
	assert.Len(t, res.RelatedQuestions, maxRelatedQs)
	assert.Len(t, res.RelatedSearches, maxRelatedSearches)
}

func TestExecuteProviderErrorSurfaces(t *testing.T) {
	agent := NewGroundingAgent(&fakeProvider{err: errors.New("boom")}, zap.NewNop())
	_, err := agent.Execute(context.Background(), "kw", "")
	require.Error(t, err)
}

func TestClientWithoutCredentials(t *testing.T) {
	client := NewClient("", "https://google.serper.dev")
	_, err := client.Search(context.Background(), "kw", "us")
	require.ErrorIs(t, err, ErrNoCredentials)
}

func TestTopURLs(t *testing.T) {
	provider := &fakeProvider{resp: &SearchResponse{
		Organic: []OrganicResult{
			{Link: "https://a.example"},
			{Link: ""},
			{Link: "https://b.example"},
			{Link: "https://c.example"},
		},
	}}
	agent := NewGroundingAgent(provider, zap.NewNop())
	res, err := agent.Execute(context.Background(), "kw", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, res.TopURLs(2))
}
