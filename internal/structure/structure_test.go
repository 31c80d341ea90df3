package structure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/models"
)

const competitorPage = `<!DOCTYPE html>
<html><body>
<nav><h2>Site Navigation Menu Links</h2></nav>
<article>
<h1>The Complete Guide to Cold Brew Coffee</h1>
<h2>Choosing the right coffee beans</h2>
<h3>Light roast versus dark roast</h3>
<h2>Grinding for cold brew extraction</h2>
<h3>Why coarse grounds matter here</h3>
<h2>Tiny</h2>
</article>
<footer><h2>Footer links and subscribe box</h2></footer>
</body></html>`

func newAgent(t *testing.T) *Agent {
	t.Helper()
	return NewAgent(NewFetcher(2*time.Second), 5, time.Millisecond, zap.NewNop())
}

func TestExecuteExtractsHeadingsFromContentContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(competitorPage))
	}))
	defer srv.Close()

	res, err := newAgent(t).Execute(context.Background(), []string{srv.URL})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SuccessfulURLs)
	texts := make([]string, 0, len(res.Headings))
	for _, h := range res.Headings {
		texts = append(texts, h.Text)
	}
	assert.Contains(t, texts, "Choosing the right coffee beans")
	assert.Contains(t, texts, "Light roast versus dark roast")
	// Boilerplate outside the article container and short headings are gone.
	assert.NotContains(t, texts, "Site Navigation Menu Links")
	assert.NotContains(t, texts, "Footer links and subscribe box")
	assert.NotContains(t, texts, "Tiny")
}

func TestExecutePartialFailureIsNotAnError(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(competitorPage))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()
	gone := httptest.NewServer(http.HandlerFunc(nil))
	gone.Close() // connection refused

	urls := []string{bad.URL, good.URL, gone.URL, bad.URL + "/x", good.URL + "/y"}
	res, err := newAgent(t).Execute(context.Background(), urls)
	require.NoError(t, err)

	assert.Equal(t, 5, res.RequestedURLs)
	assert.Equal(t, 2, res.SuccessfulURLs)
	for _, h := range res.Headings {
		assert.Contains(t, h.SourceURL, good.URL)
	}
}

func TestExecuteCapsURLList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(competitorPage))
	}))
	defer srv.Close()

	urls := []string{srv.URL, srv.URL, srv.URL, srv.URL, srv.URL, srv.URL, srv.URL}
	res, err := newAgent(t).Execute(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, 5, res.RequestedURLs)
}

func TestAggregatePatterns(t *testing.T) {
	headings := []models.HeadingRecord{
		{Level: 2, Text: "Choosing coffee beans"},
		{Level: 2, Text: "Grinding coffee beans"},
		{Level: 3, Text: "A subtopic"},
		{Level: 2, Text: "Brewing methods"},
	}
	p := aggregatePatterns(headings, 2)
	assert.InDelta(t, 1.5, p.AvgH2PerPage, 0.001)
	assert.InDelta(t, 0.5, p.AvgH3PerPage, 0.001)
	assert.Contains(t, p.CommonTopics, "coffee")

	empty := aggregatePatterns(nil, 0)
	assert.Zero(t, empty.AvgH2PerPage)
}
