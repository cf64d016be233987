// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// sitecms API. Routes are organized into a public read-only group and an
// authenticated admin group.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sitecms/internal/handlers"
	"sitecms/internal/middleware"
	"sitecms/internal/session"
)

// Options carries the cross-cutting pieces the route tree needs.
type Options struct {
	Sessions *session.Store
	// LoginLimiter throttles POST /admin/api/login. Nil disables it.
	LoginLimiter *middleware.RateLimiter
	// SecureCookies marks session and CSRF cookies Secure.
	SecureCookies bool
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that sets those headers itself.
	TrustProxy bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api/sites/{site}", func(r chi.Router) {
		r.Get("/content/{type}", public.List)
		r.Get("/content/{type}/{id}", public.Get)
		r.Get("/site-content", public.SiteContent)
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.LoadSession(opts.Sessions))

		r.Group(func(r chi.Router) {
			if opts.LoginLimiter != nil {
				r.Use(opts.LoginLimiter.Middleware)
			}
			r.Post("/login", auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.NewCSRF(opts.SecureCookies))

			r.Get("/me", auth.Me)
			r.Post("/logout", auth.Logout)

			r.Route("/sites/{site}", func(r chi.Router) {
				r.Route("/content/{type}", func(r chi.Router) {
					r.Get("/", admin.List)
					r.Post("/", admin.Create)
					r.Get("/{id}", admin.Get)
					r.Put("/{id}", admin.Update)
					r.Delete("/{id}", admin.Delete)
					r.Post("/{id}/discard", admin.Discard)
					r.Post("/{id}/archive", admin.Archive)
					r.Get("/{id}/activity", admin.Activity)
				})

				r.Get("/site-content", admin.SiteContent)
				r.Put("/site-content", admin.SiteContentUpdate)

				r.With(middleware.RequireAdmin).Get("/cache-log", admin.CacheLog)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
