// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the blog entities exchanged with the REST API.
package models

import (
	"encoding/json"
	"time"
)

// Post is a blog post as returned by the API. Every field is owned by the
// backend: the client replaces whole posts and never edits one in place.
type Post struct {
	ID        string      `json:"_id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Category  CategoryRef `json:"category"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CategoryID returns the id of the post's category, or "" when uncategorized.
func (p *Post) CategoryID() string {
	return p.Category.ID
}

// PostInput is the payload for creating or updating a post.
// An empty Category is sent as null so an edit can clear it.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// MarshalJSON encodes the input, turning an empty category into null.
func (in PostInput) MarshalJSON() ([]byte, error) {
	var category *string
	if in.Category != "" {
		category = &in.Category
	}
	return json.Marshal(struct {
		Title    string  `json:"title"`
		Content  string  `json:"content"`
		Category *string `json:"category"`
	}{in.Title, in.Content, category})
}
