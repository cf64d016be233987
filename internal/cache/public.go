// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sitecms/internal/models"
)

const (
	// publicKeyPrefix is the Valkey key prefix for cached public responses.
	publicKeyPrefix = "public:"

	// DefaultPublicTTL is how long a public response stays cached.
	DefaultPublicTTL = 5 * time.Minute
)

// PublicCache stores encoded public API responses in Valkey. Errors are
// logged and treated as misses, so the API keeps working when Valkey is
// down. A nil *PublicCache is valid and caches nothing.
type PublicCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPublicCache creates a public cache backed by client.
func NewPublicCache(client *redis.Client, ttl time.Duration) *PublicCache {
	if ttl <= 0 {
		ttl = DefaultPublicTTL
	}
	return &PublicCache{client: client, ttl: ttl}
}

// Get returns the cached body for key.
func (pc *PublicCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, publicKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("public cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("public cache hit", "key", key)
	return val, true
}

// Set stores body under key with the configured TTL.
func (pc *PublicCache) Set(ctx context.Context, key string, body []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, publicKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("public cache set error", "key", key, "error", err)
	}
}

// Invalidate drops every cached response that can include the item: its
// own entry and the list of its type.
func (pc *PublicCache) Invalidate(ctx context.Context, key models.ContentKey) {
	if pc == nil {
		return
	}
	keys := []string{
		publicKeyPrefix + ItemKey(key.SiteID, key.ContentType, key.ContentID),
		publicKeyPrefix + ListKey(key.SiteID, key.ContentType),
	}
	if err := pc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("public cache invalidate error", "site", key.SiteID, "type", key.ContentType, "id", key.ContentID, "error", err)
		return
	}
	slog.Debug("public cache invalidated", "site", key.SiteID, "type", key.ContentType, "id", key.ContentID)
}

// InvalidateSite removes every cached response for a site by scanning for
// its prefix.
func (pc *PublicCache) InvalidateSite(ctx context.Context, siteID string) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	pattern := publicKeyPrefix + siteID + ":*"
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("public cache scan error", "site", siteID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("public cache bulk delete error", "site", siteID, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("public cache cleared", "site", siteID, "deleted", deleted)
	}
}

// ListKey returns the cache key for the published list of a content type.
func ListKey(siteID string, ct models.ContentTypeID) string {
	return fmt.Sprintf("%s:%s:list", siteID, ct)
}

// ItemKey returns the cache key for one published item.
func ItemKey(siteID string, ct models.ContentTypeID, contentID string) string {
	return fmt.Sprintf("%s:%s:item:%s", siteID, ct, contentID)
}

// SiteContentKey returns the cache key for the public site content.
func SiteContentKey(siteID string) string {
	return ItemKey(siteID, models.ContentTypeSiteContent, models.SiteContentID)
}
