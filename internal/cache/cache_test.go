// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"sitecms/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, publicKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"), 15)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPublicCacheSetAndGet(t *testing.T) {
	pc := NewPublicCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()
	key := ListKey("cache-test", models.ContentTypeProjects)

	data, ok := pc.Get(ctx, key)
	if ok || data != nil {
		t.Error("expected cache miss")
	}

	body := []byte(`[{"id":"a"}]`)
	pc.Set(ctx, key, body)

	data, ok = pc.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestPublicCacheInvalidate(t *testing.T) {
	pc := NewPublicCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	ck := models.ContentKey{SiteID: "cache-test", ContentType: models.ContentTypeTeam, ContentID: "ana"}
	other := ItemKey("cache-test", models.ContentTypeTeam, "bob")

	pc.Set(ctx, ListKey(ck.SiteID, ck.ContentType), []byte("list"))
	pc.Set(ctx, ItemKey(ck.SiteID, ck.ContentType, ck.ContentID), []byte("item"))
	pc.Set(ctx, other, []byte("other"))

	pc.Invalidate(ctx, ck)

	if _, ok := pc.Get(ctx, ListKey(ck.SiteID, ck.ContentType)); ok {
		t.Error("list survived invalidation")
	}
	if _, ok := pc.Get(ctx, ItemKey(ck.SiteID, ck.ContentType, ck.ContentID)); ok {
		t.Error("item survived invalidation")
	}
	if _, ok := pc.Get(ctx, other); !ok {
		t.Error("unrelated item was invalidated")
	}
}

func TestPublicCacheInvalidateSite(t *testing.T) {
	pc := NewPublicCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	pc.Set(ctx, ListKey("site-a", models.ContentTypeProjects), []byte("a"))
	pc.Set(ctx, SiteContentKey("site-a"), []byte("b"))
	pc.Set(ctx, ListKey("site-b", models.ContentTypeProjects), []byte("c"))

	pc.InvalidateSite(ctx, "site-a")

	for _, key := range []string{ListKey("site-a", models.ContentTypeProjects), SiteContentKey("site-a")} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateSite", key)
		}
	}
	if _, ok := pc.Get(ctx, ListKey("site-b", models.ContentTypeProjects)); !ok {
		t.Error("other site was cleared")
	}
}

func TestNilPublicCache(t *testing.T) {
	var pc *PublicCache
	ctx := context.Background()

	pc.Set(ctx, "k", []byte("v"))
	if _, ok := pc.Get(ctx, "k"); ok {
		t.Error("nil cache reported a hit")
	}
	pc.Invalidate(ctx, models.ContentKey{SiteID: "s"})
	pc.InvalidateSite(ctx, "s")
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ListKey("main", models.ContentTypeProjects), "main:projects:list"},
		{ItemKey("main", models.ContentTypeTeam, "ana"), "main:team:item:ana"},
		{SiteContentKey("main"), "main:site-content:item:site-content"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestNewPublicCacheDefaultTTL(t *testing.T) {
	pc := NewPublicCache(nil, 0)
	if pc.ttl != DefaultPublicTTL {
		t.Errorf("expected DefaultPublicTTL (%v), got %v", DefaultPublicTTL, pc.ttl)
	}
}
