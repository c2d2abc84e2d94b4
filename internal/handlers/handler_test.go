// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests: a fake blog API, an in-process Valkey and a browser-like client.
package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"blogdesk/internal/apiclient"
	"blogdesk/internal/apitest"
	"blogdesk/internal/models"
	"blogdesk/internal/render"
	"blogdesk/internal/session"
	"blogdesk/internal/store"
)

// testEnv bundles the running front end and its fake backend.
type testEnv struct {
	api    *apitest.Server
	store  *store.Store
	server *httptest.Server
	client *http.Client
}

var seedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestEnv starts the fake API seeded with two posts and two categories,
// loads the store, and serves the post handlers.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := apitest.New(t)
	api.SeedCategories(
		models.Category{ID: "c1", Name: "Tech"},
		models.Category{ID: "c2", Name: "Life"},
	)
	api.SeedPosts(
		models.Post{ID: "p1", Title: "First post", Content: "Line one\nLine two", Category: models.CategoryRef{ID: "c1"}, CreatedAt: seedTime},
		models.Post{ID: "p2", Title: "Second post", Content: "Hello", Category: models.CategoryRef{ID: "c2"}, CreatedAt: seedTime},
	)

	apiClient := apiclient.New(api.URL)
	st := store.New(apiClient)
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("store load: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	h := NewPosts(renderer, session.NewStore(rdb, false), apiClient, st)

	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/post/{id}", h.Detail)
	r.Get("/create", h.New)
	r.Post("/create", h.Submit)
	r.Get("/edit/{id}", h.Edit)
	r.Post("/edit/{id}", h.Submit)
	r.Get("/post/{id}/delete", h.DeleteConfirm)
	r.Post("/post/{id}/delete", h.Delete)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &testEnv{
		api:    api,
		store:  st,
		server: srv,
		client: &http.Client{Jar: jar},
	}
}

// get fetches path and returns the final response status, path and body.
func (e *testEnv) get(t *testing.T, path string) (int, string, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return readResponse(t, resp)
}

// post submits a form to path, following redirects like a browser.
func (e *testEnv) post(t *testing.T, path string, form url.Values) (int, string, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return readResponse(t, resp)
}

func readResponse(t *testing.T, resp *http.Response) (int, string, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, resp.Request.URL.Path, string(body)
}

// countRequests returns how many backend requests match "METHOD /path".
func (e *testEnv) countRequests(match string) int {
	n := 0
	for _, r := range e.api.Requests() {
		if r == match {
			n++
		}
	}
	return n
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func assertNotContains(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(body, u) {
			t.Errorf("body should not contain %q", u)
		}
	}
}
