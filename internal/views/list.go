// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package views

import (
	"context"

	"blogdesk/internal/models"
)

// ListItem is one post as the list view shows it.
type ListItem struct {
	Post         models.Post
	CategoryName string
	Excerpt      string
	Date         string
}

// ListPage is the derived state of the post list.
type ListPage struct {
	Selected   string // selected category id, "" for all
	Categories []models.Category
	Items      []ListItem
}

// PostList derives the filtered post list from the store and handles the
// list's delete action.
type PostList struct {
	store Store
}

// NewPostList creates the list view over s.
func NewPostList(s Store) *PostList {
	return &PostList{store: s}
}

// Build returns the list filtered by categoryID in store order.
func (v *PostList) Build(categoryID string) ListPage {
	categories := v.store.Categories()
	posts := FilterPosts(v.store.Posts(), categoryID)

	items := make([]ListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, ListItem{
			Post:         p,
			CategoryName: CategoryName(categories, p.CategoryID()),
			Excerpt:      Excerpt(p.Content, excerptLen),
			Date:         formatDate(p.CreatedAt, shortDate),
		})
	}

	return ListPage{
		Selected:   categoryID,
		Categories: categories,
		Items:      items,
	}
}

// Delete removes a post once the user has confirmed. Without confirmation it
// returns ErrNotConfirmed and the store is never called. Store errors are
// returned unchanged for the caller to show.
func (v *PostList) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return v.store.DeletePost(ctx, id)
}

// FilterPosts returns the posts whose category id equals categoryID. An empty
// categoryID returns every post.
func FilterPosts(posts []models.Post, categoryID string) []models.Post {
	if categoryID == "" {
		return posts
	}
	var out []models.Post
	for _, p := range posts {
		if p.CategoryID() == categoryID {
			out = append(out, p)
		}
	}
	return out
}
