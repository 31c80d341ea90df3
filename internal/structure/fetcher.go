package structure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves competitor pages with a desktop user agent and a hard
// per-URL timeout so one slow host cannot stall the whole stage.
type Fetcher struct {
	client  *http.Client
	headers http.Header
}

func NewFetcher(timeout time.Duration) *Fetcher {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	headers := http.Header{
		"User-Agent":      []string{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"},
		"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language": []string{"en-US,en;q=0.5"},
		"Connection":      []string{"keep-alive"},
	}
	return &Fetcher{
		client:  client,
		headers: headers,
	}
}

func (f *Fetcher) Visit(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, vals := range f.headers {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad response status: %s", resp.Status)
	}
	return resp.Body, nil
}
