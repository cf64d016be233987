// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitecms/internal/cache"
	"sitecms/internal/resolve"
)

// Public serves the read-only API the marketing site consumes. It only
// ever exposes published data.
type Public struct {
	policy *resolve.Policy
	cache  *cache.PublicCache
}

// NewPublic creates the public handler group. publicCache may be nil.
func NewPublic(policy *resolve.Policy, publicCache *cache.PublicCache) *Public {
	return &Public{policy: policy, cache: publicCache}
}

// List handles GET /api/sites/{site}/content/{type}.
func (p *Public) List(w http.ResponseWriter, r *http.Request) {
	ct, ok := knownType(w, r)
	if !ok {
		return
	}
	site := chi.URLParam(r, "site")

	p.serveCached(w, r, cache.ListKey(site, ct), func(ctx context.Context) (any, error) {
		items, err := p.policy.PublicList(ctx, site, ct)
		if err != nil {
			return nil, err
		}
		return map[string]any{"items": items}, nil
	})
}

// Get handles GET /api/sites/{site}/content/{type}/{id}.
func (p *Public) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := knownType(w, r); !ok {
		return
	}
	key := contentKey(r)

	p.serveCached(w, r, cache.ItemKey(key.SiteID, key.ContentType, key.ContentID), func(ctx context.Context) (any, error) {
		return p.policy.PublicGet(ctx, key)
	})
}

// SiteContent handles GET /api/sites/{site}/site-content.
func (p *Public) SiteContent(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")

	p.serveCached(w, r, cache.SiteContentKey(site), func(ctx context.Context) (any, error) {
		data, err := p.policy.PublicSingleton(ctx, site)
		if err != nil {
			return nil, err
		}
		return map[string]any{"data": data}, nil
	})
}

// serveCached answers from the public cache when possible and fills it
// from load otherwise. Only successful responses are cached.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string, load func(context.Context) (any, error)) {
	ctx := r.Context()
	if body, ok := p.cache.Get(ctx, key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeRaw(w, http.StatusOK, body)
		return
	}

	v, err := load(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p.cache.Set(ctx, key, body)
	w.Header().Set("X-Cache", "MISS")
	writeRaw(w, http.StatusOK, body)
}
