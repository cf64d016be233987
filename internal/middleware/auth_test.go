package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"sitecms/internal/session"
)

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession("admin")
		got := SessionFromCtx(ctxWithSession(context.Background(), sess))
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Email != sess.Email || got.Role != sess.Role {
			t.Errorf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	store := session.NewMemoryStore(false)

	rec := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), rec, &session.Data{UserID: uuid.New(), Email: "a@b.c", Role: "admin"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cookie := rec.Result().Cookies()[0]

	var got *session.Data
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromCtx(r.Context())
	}))

	t.Run("with cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got == nil || got.Email != "a@b.c" {
			t.Errorf("session not loaded: %+v", got)
		}
	})

	t.Run("without cookie", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if got != nil {
			t.Errorf("expected no session, got %+v", got)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("rejects without session", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/api/sites/main/content/projects", nil))

		if *called {
			t.Error("next handler should not run")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if msg := errorBody(t, rr); msg != "authentication required" {
			t.Errorf("error: got %q", msg)
		}
	})

	t.Run("passes with session", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession("editor")))
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, req)

		if !*called || rr.Code != http.StatusOK {
			t.Errorf("called=%v status=%d", *called, rr.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		sess   *session.Data
		status int
	}{
		{"admin", newTestSession("admin"), http.StatusOK},
		{"editor", newTestSession("editor"), http.StatusForbidden},
		{"no session", nil, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, _ := okHandler()
			req := httptest.NewRequest(http.MethodDelete, "/", nil)
			if tc.sess != nil {
				req = req.WithContext(ctxWithSession(req.Context(), tc.sess))
			}
			rr := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Errorf("status: got %d, want %d", rr.Code, tc.status)
			}
		})
	}
}
