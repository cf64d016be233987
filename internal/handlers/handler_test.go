// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory repository, so no database is needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"sitecms/internal/models"
	"sitecms/internal/resolve"
	"sitecms/internal/store"
	"sitecms/internal/versioning"
)

// recordingLog is a CacheLog that keeps entries in memory.
type recordingLog struct {
	mu      sync.Mutex
	entries []store.CacheLogEntry
}

func (l *recordingLog) Log(_ context.Context, key models.ContentKey, action string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, store.CacheLogEntry{
		SiteID:      key.SiteID,
		ContentType: key.ContentType,
		ContentID:   key.ContentID,
		Action:      action,
	})
}

func (l *recordingLog) RecentEntries(_ context.Context, siteID string, limit int) ([]store.CacheLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []store.CacheLogEntry
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if l.entries[i].SiteID == siteID {
			out = append(out, l.entries[i])
		}
	}
	return out, nil
}

func (l *recordingLog) actions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Action
	}
	return out
}

type testEnv struct {
	svc *versioning.Service
	log *recordingLog
	mux http.Handler
}

// newTestEnv wires the handlers onto a bare chi router with the same paths
// the production router uses, minus authentication.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := versioning.NewService(store.NewMemoryContentStore())
	policy := resolve.NewPolicy(svc)
	log := &recordingLog{}

	public := NewPublic(policy, nil)
	admin := NewAdmin(svc, policy, nil, log)

	r := chi.NewRouter()
	r.Route("/api/sites/{site}", func(r chi.Router) {
		r.Get("/content/{type}", public.List)
		r.Get("/content/{type}/{id}", public.Get)
		r.Get("/site-content", public.SiteContent)
	})
	r.Route("/admin/api/sites/{site}", func(r chi.Router) {
		r.Get("/content/{type}", admin.List)
		r.Post("/content/{type}", admin.Create)
		r.Get("/content/{type}/{id}", admin.Get)
		r.Put("/content/{type}/{id}", admin.Update)
		r.Delete("/content/{type}/{id}", admin.Delete)
		r.Post("/content/{type}/{id}/discard", admin.Discard)
		r.Post("/content/{type}/{id}/archive", admin.Archive)
		r.Get("/content/{type}/{id}/activity", admin.Activity)
		r.Get("/site-content", admin.SiteContent)
		r.Put("/site-content", admin.SiteContentUpdate)
		r.Get("/cache-log", admin.CacheLog)
	})

	return &testEnv{svc: svc, log: log, mux: r}
}

// do sends a request with an optional JSON body.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals the response body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

// itemResponse mirrors the JSON shape of models.ContentItem.
type itemResponse struct {
	ContentID string        `json:"content_id"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	Data      models.Fields `json:"data"`
	DraftData models.Fields `json:"draft_data"`
	HasDraft  bool          `json:"has_draft"`
}
