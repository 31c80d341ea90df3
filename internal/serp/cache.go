package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedProvider wraps a Provider with a redis read-through cache so repeat
// requests for the same keyword within the TTL skip the provider entirely.
// Cache failures degrade to a direct provider call.
type CachedProvider struct {
	inner  Provider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProvider(inner Provider, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(keyword, locale string) string {
	return fmt.Sprintf("serp:%s:%s", locale, keyword)
}

func (p *CachedProvider) Search(ctx context.Context, keyword, locale string) (*SearchResponse, error) {
	key := cacheKey(keyword, locale)
	if raw, err := p.client.Get(ctx, key).Bytes(); err == nil {
		var cached SearchResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		p.logger.Warn("discarding undecodable serp cache entry", zap.String("key", key))
	}

	resp, err := p.inner.Search(ctx, keyword, locale)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(resp); err == nil {
		if err := p.client.Set(ctx, key, raw, p.ttl).Err(); err != nil {
			p.logger.Warn("failed to cache serp response", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

func (p *CachedProvider) SearchVideos(ctx context.Context, query, locale string) ([]Video, error) {
	return p.inner.SearchVideos(ctx, query, locale)
}
