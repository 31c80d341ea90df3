package pipeline

import (
	"context"
	"fmt"

	"github.com/baedyl/proaicontent/internal/serp"
)

// VideoFinder looks up one embeddable video for a topic. A nil result with
// nil error means nothing suitable was found.
type VideoFinder interface {
	Find(ctx context.Context, topic, locale string) (*serp.Video, error)
}

// SerpVideoFinder uses the search provider's video vertical.
type SerpVideoFinder struct {
	provider serp.Provider
}

func NewSerpVideoFinder(provider serp.Provider) *SerpVideoFinder {
	return &SerpVideoFinder{provider: provider}
}

func (f *SerpVideoFinder) Find(ctx context.Context, topic, locale string) (*serp.Video, error) {
	videos, err := f.provider.SearchVideos(ctx, topic, locale)
	if err != nil {
		return nil, fmt.Errorf("video lookup failed: %w", err)
	}
	for _, v := range videos {
		if v.Link != "" {
			return &v, nil
		}
	}
	return nil, nil
}
