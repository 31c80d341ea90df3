// Package serp talks to the ranked-search provider and derives grounding
// data (competitor lengths, salient keywords, content gaps) from it.
package serp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoCredentials is returned when no provider API key is configured. The
// orchestrator treats it like any other provider failure: no grounding.
var ErrNoCredentials = errors.New("search provider api key not configured")

// SearchResponse is the provider's answer for one keyword.
type SearchResponse struct {
	Organic         []OrganicResult `json:"organic"`
	PeopleAlsoAsk   []PAAItem       `json:"peopleAlsoAsk"`
	RelatedSearches []RelatedSearch `json:"relatedSearches"`
}

type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

type PAAItem struct {
	Question string `json:"question"`
	Snippet  string `json:"snippet"`
}

type RelatedSearch struct {
	Query string `json:"query"`
}

// Video is one result from the provider's video vertical.
type Video struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type videoResponse struct {
	Videos []Video `json:"videos"`
}

// Provider abstracts the search-results API so the grounding agent can be
// tested without network access.
type Provider interface {
	Search(ctx context.Context, keyword, locale string) (*SearchResponse, error)
	SearchVideos(ctx context.Context, query, locale string) ([]Video, error)
}

// Client calls a serper-style JSON API (POST with X-API-KEY header).
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

func (c *Client) Search(ctx context.Context, keyword, locale string) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.post(ctx, "/search", searchBody(keyword, locale, 10), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchVideos(ctx context.Context, query, locale string) ([]Video, error) {
	var out videoResponse
	if err := c.post(ctx, "/videos", searchBody(query, locale, 5), &out); err != nil {
		return nil, err
	}
	return out.Videos, nil
}

func searchBody(q, locale string, num int) map[string]any {
	body := map[string]any{"q": q, "num": num}
	if locale != "" {
		body["gl"] = locale
	}
	return body
}

func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	if c.apiKey == "" {
		return ErrNoCredentials
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// Body is drained but never surfaced to callers.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode search response: %w", err)
	}
	return nil
}
