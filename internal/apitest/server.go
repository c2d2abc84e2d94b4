// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apitest provides an in-memory fake of the blog REST API for tests.
// It implements the /posts and /categories resources under the same root the
// real backend uses, assigns uuid identifiers, and can be told to fail the
// next request with a given status.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogdesk/internal/models"
)

// Server is a running fake API. Use URL as the client's base URL.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	posts      []models.Post
	categories []models.Category
	failNext   []int
	requests   []string

	expand bool
	now    func() time.Time
	newID  func() string
}

// New starts a fake API and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{now: time.Now, newID: uuid.NewString}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.injectFailure)

	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", s.listPosts)
		r.Post("/posts", s.createPost)
		r.Put("/posts/{id}", s.updatePost)
		r.Delete("/posts/{id}", s.deletePost)

		r.Get("/categories", s.listCategories)
		r.Post("/categories", s.createCategory)
	})
	return r
}

// SeedPosts replaces the backend's posts. Posts without an id get one.
func (s *Server) SeedPosts(posts ...models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = s.posts[:0]
	for _, p := range posts {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.posts = append(s.posts, p)
	}
}

// SeedCategories replaces the backend's categories.
func (s *Server) SeedCategories(categories ...models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = s.categories[:0]
	for _, c := range categories {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.categories = append(s.categories, c)
	}
}

// ExpandCategories makes GET /posts return each post's category as an
// expanded {"_id", "name"} object instead of a bare id.
func (s *Server) ExpandCategories(expand bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expand = expand
}

// SetClock replaces the source of createdAt timestamps.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetIDs replaces the generator for created entity ids.
func (s *Server) SetIDs(newID func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = newID
}

// FailNext makes the next len(statuses) requests fail, in order, with the
// given HTTP statuses.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = append(s.failNext, statuses...)
}

// Requests returns "METHOD /path" for every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Posts returns the backend's current posts.
func (s *Server) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var status int
		if len(s.failNext) > 0 {
			status = s.failNext[0]
			s.failNext = s.failNext[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// wirePost is the JSON shape of a post on the wire. Category is either an
// id string, an expanded object, or null.
type wirePost struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  any       `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) toWire(p models.Post, expand bool) wirePost {
	w := wirePost{ID: p.ID, Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt}
	if p.Category.IsZero() {
		return w
	}
	w.Category = p.Category.ID
	if expand {
		for _, c := range s.categories {
			if c.ID == p.Category.ID {
				w.Category = c
				break
			}
		}
	}
	return w
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]wirePost, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, s.toWire(p, s.expand))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" || in.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and content are required"})
		return
	}

	s.mu.Lock()
	p := models.Post{
		ID:        s.newID(),
		Title:     in.Title,
		Content:   in.Content,
		Category:  models.CategoryRef{ID: in.Category},
		CreatedAt: s.now().UTC(),
	}
	s.posts = append([]models.Post{p}, s.posts...)
	out := s.toWire(p, false)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID != id {
			continue
		}
		p.Title = in.Title
		p.Content = in.Content
		p.Category = models.CategoryRef{ID: in.Category}
		s.posts[i] = p
		writeJSON(w, http.StatusOK, s.toWire(p, false))
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Category{}, s.categories...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	s.mu.Lock()
	c := models.Category{ID: s.newID(), Name: in.Name}
	s.categories = append(s.categories, c)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
