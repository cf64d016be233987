// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sitecms/internal/activity"
	"sitecms/internal/cache"
	"sitecms/internal/models"
	"sitecms/internal/resolve"
	"sitecms/internal/store"
	"sitecms/internal/versioning"
)

// Cache log actions, one per transition that changes public reads.
const (
	actionCreate  = "create"
	actionPublish = "publish"
	actionArchive = "archive"
	actionDelete  = "delete"
)

// CacheLog records public cache invalidations.
type CacheLog interface {
	Log(ctx context.Context, key models.ContentKey, action string)
	RecentEntries(ctx context.Context, siteID string, limit int) ([]store.CacheLogEntry, error)
}

// Admin groups the authenticated content management endpoints.
type Admin struct {
	svc    *versioning.Service
	policy *resolve.Policy
	cache  *cache.PublicCache
	log    CacheLog
}

// NewAdmin creates the admin handler group. publicCache and cacheLog may
// be nil.
func NewAdmin(svc *versioning.Service, policy *resolve.Policy, publicCache *cache.PublicCache, cacheLog CacheLog) *Admin {
	return &Admin{svc: svc, policy: policy, cache: publicCache, log: cacheLog}
}

// List handles GET /admin/api/sites/{site}/content/{type}?status=.
func (a *Admin) List(w http.ResponseWriter, r *http.Request) {
	ct, ok := knownType(w, r)
	if !ok {
		return
	}
	items, err := a.policy.AdminList(r.Context(), chi.URLParam(r, "site"), ct, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create handles POST /admin/api/sites/{site}/content/{type}.
func (a *Admin) Create(w http.ResponseWriter, r *http.Request) {
	ct, ok := knownType(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	item, err := a.svc.Create(r.Context(), versioning.CreateParams{
		SiteID:      chi.URLParam(r, "site"),
		ContentType: ct,
		ContentID:   req.ContentID,
		Fields:      req.Data,
		Status:      req.Status,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if item.IsPublished() {
		a.invalidate(r.Context(), item.Key(), actionCreate)
	}
	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /admin/api/sites/{site}/content/{type}/{id}. It returns
// the stored item, the snapshot to edit, and the activity log.
func (a *Admin) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := knownType(w, r); !ok {
		return
	}
	view, err := a.policy.EditLoad(r.Context(), contentKey(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update handles PUT /admin/api/sites/{site}/content/{type}/{id}. Status
// draft saves a draft; status published publishes the payload.
func (a *Admin) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := knownType(w, r); !ok {
		return
	}
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	key := contentKey(r)
	item, err := a.svc.Update(r.Context(), key, req.Data, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Status == models.ContentStatusPublished {
		a.invalidate(r.Context(), key, actionPublish)
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /admin/api/sites/{site}/content/{type}/{id}.
func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := knownType(w, r); !ok {
		return
	}
	key := contentKey(r)
	if err := a.svc.Delete(r.Context(), key); err != nil {
		writeServiceError(w, r, err)
		return
	}
	a.invalidate(r.Context(), key, actionDelete)
	w.WriteHeader(http.StatusNoContent)
}

// Discard handles POST /admin/api/sites/{site}/content/{type}/{id}/discard.
func (a *Admin) Discard(w http.ResponseWriter, r *http.Request) {
	if _, ok := knownType(w, r); !ok {
		return
	}
	item, err := a.svc.DiscardDraft(r.Context(), contentKey(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Archive handles POST /admin/api/sites/{site}/content/{type}/{id}/archive.
func (a *Admin) Archive(w http.ResponseWriter, r *http.Request) {
	if _, ok := knownType(w, r); !ok {
		return
	}
	key := contentKey(r)
	item, err := a.svc.Archive(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	a.invalidate(r.Context(), key, actionArchive)
	writeJSON(w, http.StatusOK, item)
}

// Activity handles GET /admin/api/sites/{site}/content/{type}/{id}/activity.
func (a *Admin) Activity(w http.ResponseWriter, r *http.Request) {
	if _, ok := knownType(w, r); !ok {
		return
	}
	entries, err := a.policy.Activity(r.Context(), contentKey(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := map[string]any{"entries": entries}
	if len(entries) == 0 {
		resp["message"] = activity.EmptyMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// SiteContent handles GET /admin/api/sites/{site}/site-content. A site
// without saved content gets the defaults, unsaved.
func (a *Admin) SiteContent(w http.ResponseWriter, r *http.Request) {
	view, err := a.policy.SingletonEdit(r.Context(), chi.URLParam(r, "site"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SiteContentUpdate handles PUT /admin/api/sites/{site}/site-content.
func (a *Admin) SiteContentUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	site := chi.URLParam(r, "site")
	var (
		item *models.ContentItem
		err  error
	)
	if req.Status == models.ContentStatusPublished {
		item, err = a.policy.PublishSingleton(r.Context(), site, req.Data)
	} else {
		item, err = a.policy.SaveSingletonDraft(r.Context(), site, req.Data)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Status == models.ContentStatusPublished {
		a.invalidate(r.Context(), item.Key(), actionPublish)
	}
	writeJSON(w, http.StatusOK, item)
}

// CacheLog handles GET /admin/api/sites/{site}/cache-log?limit=.
func (a *Admin) CacheLog(w http.ResponseWriter, r *http.Request) {
	if a.log == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entries": []store.CacheLogEntry{}})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusUnprocessableEntity, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	entries, err := a.log.RecentEntries(r.Context(), chi.URLParam(r, "site"), limit)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: cache log: %w", versioning.ErrStorage, err))
		return
	}
	if entries == nil {
		entries = []store.CacheLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// invalidate drops the public cache entries for key and records why.
func (a *Admin) invalidate(ctx context.Context, key models.ContentKey, action string) {
	a.cache.Invalidate(ctx, key)
	if a.log != nil {
		a.log.Log(ctx, key, action)
	}
}
