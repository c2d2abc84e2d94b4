// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for BlogDesk.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogdesk/internal/handlers"
	"blogdesk/internal/middleware"
	"blogdesk/web"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up. Form posts are throttled by limiter.
func New(posts *handlers.Posts, limiter *middleware.RateLimiter, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check and static assets: no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))
		r.Use(limiter.Middleware)

		r.Get("/", posts.List)
		r.Get("/post/{id}", posts.Detail)
		r.Get("/post/{id}/delete", posts.DeleteConfirm)
		r.Post("/post/{id}/delete", posts.Delete)

		r.Get("/create", posts.New)
		r.Post("/create", posts.Submit)
		r.Get("/edit/{id}", posts.Edit)
		r.Post("/edit/{id}", posts.Submit)
	})

	return r
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
