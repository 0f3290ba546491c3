// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache for public article responses.
// Entries are keyed by brand and slug so a publish can drop exactly the
// pages it changed.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"brandnet/internal/models"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages public page caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Key returns the cache key of an article page.
func Key(brand models.Brand, slug string) string {
	return string(brand) + ":" + slug
}

// Get retrieves a cached page. Returns false on a miss or a Valkey error.
func (pc *PageCache) Get(ctx context.Context, brand models.Brand, slug string) ([]byte, bool) {
	key := Key(brand, slug)
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores a rendered page with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, brand models.Brand, slug string, body []byte) {
	key := Key(brand, slug)
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateItem removes one article page from the cache.
func (pc *PageCache) InvalidateItem(ctx context.Context, brand models.Brand, slug string) {
	key := Key(brand, slug)
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "key", key)
}
