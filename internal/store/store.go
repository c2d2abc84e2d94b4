// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the application's in-memory copy of the blog's posts
// and categories. The copies are caches of the REST API: every mutation first
// waits for the API's authoritative answer and only then patches local state.
// A failed call leaves local state untouched and is returned to the caller.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"blogdesk/internal/apiclient"
	"blogdesk/internal/models"
)

// Caller is the HTTP gateway the store talks to. *apiclient.Client
// implements it.
type Caller interface {
	Call(ctx context.Context, path string, opts *apiclient.CallOptions) (json.RawMessage, error)
	CallInto(ctx context.Context, path string, opts *apiclient.CallOptions, out any) error
}

// Store is the shared application state. There is no conflict detection:
// concurrent mutations each patch local state when their call returns, and
// the last patch wins. All methods are safe for concurrent use.
type Store struct {
	api Caller

	mu         sync.RWMutex
	posts      []models.Post // newest-created first after any create
	categories []models.Category

	loadOnce sync.Once
	loadErr  error
}

// New creates an empty Store backed by api.
func New(api Caller) *Store {
	return &Store{api: api}
}

// Load performs the initial fetch of posts and categories. It runs at most
// once per Store; later calls return the first result. Failures are not
// retried.
func (s *Store) Load(ctx context.Context) error {
	s.loadOnce.Do(func() {
		var g errgroup.Group
		g.Go(func() error { return s.FetchPosts(ctx) })
		g.Go(func() error { return s.FetchCategories(ctx) })
		s.loadErr = g.Wait()
	})
	return s.loadErr
}

// Posts returns a snapshot of the cached posts in store order.
func (s *Store) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Post(nil), s.posts...)
}

// Categories returns a snapshot of the cached categories in insertion order.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// FindPost looks a post up in the cache only. It never calls the API, so a
// post that exists on the backend but is not cached reports false.
func (s *Store) FindPost(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// FetchPosts replaces the cached posts with the API's current list.
func (s *Store) FetchPosts(ctx context.Context) error {
	posts, err := call[[]models.Post](ctx, s.api, "/posts", nil)
	if err != nil {
		slog.Error("fetch posts failed", "error", err)
		return fmt.Errorf("fetch posts: %w", err)
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

// FetchCategories replaces the cached categories with the API's current list.
func (s *Store) FetchCategories(ctx context.Context) error {
	categories, err := call[[]models.Category](ctx, s.api, "/categories", nil)
	if err != nil {
		slog.Error("fetch categories failed", "error", err)
		return fmt.Errorf("fetch categories: %w", err)
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// CreatePost creates a post and puts the API's copy at the front of the cache.
func (s *Store) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	post, err := call[models.Post](ctx, s.api, "/posts", &apiclient.CallOptions{
		Method: http.MethodPost,
		Body:   in,
	})
	if err != nil {
		slog.Error("create post failed", "error", err)
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.mu.Lock()
	s.posts = append([]models.Post{post}, s.posts...)
	s.mu.Unlock()

	slog.Info("post created", "id", post.ID)
	return &post, nil
}

// UpdatePost updates a post and replaces the cached entry with the same id in
// place. If no cached entry matches, the cache is left as is.
func (s *Store) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	post, err := call[models.Post](ctx, s.api, "/posts/"+url.PathEscape(id), &apiclient.CallOptions{
		Method: http.MethodPut,
		Body:   in,
	})
	if err != nil {
		slog.Error("update post failed", "id", id, "error", err)
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}

	s.mu.Lock()
	next := make([]models.Post, len(s.posts))
	for i, p := range s.posts {
		if p.ID == id {
			p = post
		}
		next[i] = p
	}
	s.posts = next
	s.mu.Unlock()

	slog.Info("post updated", "id", id)
	return &post, nil
}

// DeletePost deletes a post and drops it from the cache.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	_, err := s.api.Call(ctx, "/posts/"+url.PathEscape(id), &apiclient.CallOptions{
		Method: http.MethodDelete,
	})
	if err != nil {
		slog.Error("delete post failed", "id", id, "error", err)
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	s.mu.Lock()
	next := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.ID != id {
			next = append(next, p)
		}
	}
	s.posts = next
	s.mu.Unlock()

	slog.Info("post deleted", "id", id)
	return nil
}

// CreateCategory creates a category and appends the API's copy to the cache.
func (s *Store) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	category, err := call[models.Category](ctx, s.api, "/categories", &apiclient.CallOptions{
		Method: http.MethodPost,
		Body:   in,
	})
	if err != nil {
		slog.Error("create category failed", "error", err)
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.mu.Lock()
	next := make([]models.Category, len(s.categories), len(s.categories)+1)
	copy(next, s.categories)
	s.categories = append(next, category)
	s.mu.Unlock()

	slog.Info("category created", "id", category.ID, "name", category.Name)
	return &category, nil
}

// call issues one API request and decodes the result into T. Decoding
// happens inside the client so a bad body counts as a failed call.
func call[T any](ctx context.Context, api Caller, path string, opts *apiclient.CallOptions) (T, error) {
	var v T
	if err := api.CallInto(ctx, path, opts, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
