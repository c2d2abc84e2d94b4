// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the BlogDesk server.
// It loads configuration, connects to services, primes the post cache from
// the blog API, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogdesk/internal/apiclient"
	"blogdesk/internal/cache"
	"blogdesk/internal/config"
	"blogdesk/internal/handlers"
	"blogdesk/internal/middleware"
	"blogdesk/internal/render"
	"blogdesk/internal/router"
	"blogdesk/internal/session"
	"blogdesk/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"api", cfg.APIURL+cfg.APIRoot,
	)

	// Connect to Valkey (session store for flash messages).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	api := apiclient.New(cfg.APIURL,
		apiclient.WithRoot(cfg.APIRoot),
		apiclient.WithTimeout(cfg.APITimeout),
	)
	postStore := store.New(api)

	// Prime the cache once. A failure is logged and the app starts with
	// empty collections; it is not retried. Only BLOG_API_TIMEOUT bounds it.
	if err := postStore.Load(context.Background()); err != nil {
		slog.Error("initial load failed", "error", err)
	} else {
		slog.Info("initial load complete",
			"posts", len(postStore.Posts()),
			"categories", len(postStore.Categories()),
		)
	}

	limiter := middleware.NewRateLimiter(cfg.MutationRate, cfg.MutationBurst, cfg.TrustProxy)
	defer limiter.Stop()

	posts := handlers.NewPosts(renderer, sessionStore, api, postStore)
	r := router.New(posts, limiter, secureCookies)

	// WriteTimeout must cover a blog API round trip inside a form post.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
