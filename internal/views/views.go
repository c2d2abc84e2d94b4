// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package views derives what the post list, post detail and post form show
// from the shared store. Views hold no shared state of their own; anything
// they keep (selected filter, form fields, transient errors) lives in the
// page values they return.
package views

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"blogdesk/internal/models"
)

// Uncategorized is shown for posts without a resolvable category.
const Uncategorized = "Uncategorized"

// Date layouts used by the list and detail views.
const (
	shortDate = "Jan 2, 2006"
	longDate  = "January 2, 2006"
)

// excerptLen is the number of characters of content shown in the list.
const excerptLen = 150

// Sentinel errors returned by view actions.
var (
	// ErrNotConfirmed is returned when a destructive action was requested
	// without the user's confirmation. The store is not called.
	ErrNotConfirmed = errors.New("action not confirmed")

	// ErrSaveFailed is returned when the store rejected a form submission.
	ErrSaveFailed = errors.New("save failed")

	// ErrInvalid is returned when form input fails validation.
	ErrInvalid = errors.New("invalid input")
)

// Reader is the read side of the store used by every view.
type Reader interface {
	Posts() []models.Post
	Categories() []models.Category
	FindPost(id string) (models.Post, bool)
}

// PostWriter is the post mutation side of the store.
type PostWriter interface {
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// CategoryWriter is the category mutation side of the store.
type CategoryWriter interface {
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
}

// Store is everything the views need from the application state store.
// *store.Store implements it.
type Store interface {
	Reader
	PostWriter
	CategoryWriter
}

// CategoryName resolves a category id to its display name by scanning
// categories. Empty or unknown ids resolve to Uncategorized.
func CategoryName(categories []models.Category, id string) string {
	if id == "" {
		return Uncategorized
	}
	for _, c := range categories {
		if c.ID == id {
			if c.Name == "" {
				return Uncategorized
			}
			return c.Name
		}
	}
	return Uncategorized
}

// Paragraphs splits post content on line breaks. Every segment becomes one
// paragraph, including empty ones, so blank lines are preserved.
func Paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

// Excerpt returns the first n characters of s, with "..." appended when
// s was cut.
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
