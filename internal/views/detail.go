// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package views

import "blogdesk/internal/models"

// DetailPage is the derived state of the single post view.
type DetailPage struct {
	Found        bool
	Post         models.Post
	CategoryName string
	Date         string
	Paragraphs   []string
}

// PostDetail shows one cached post.
type PostDetail struct {
	store Reader
}

// NewPostDetail creates the detail view over s.
func NewPostDetail(s Reader) *PostDetail {
	return &PostDetail{store: s}
}

// Build looks id up in the store's cache. A post that is not cached reports
// Found=false even if the backend has it.
func (v *PostDetail) Build(id string) DetailPage {
	p, ok := v.store.FindPost(id)
	if !ok {
		return DetailPage{}
	}
	return DetailPage{
		Found:        true,
		Post:         p,
		CategoryName: CategoryName(v.store.Categories(), p.CategoryID()),
		Date:         formatDate(p.CreatedAt, longDate),
		Paragraphs:   Paragraphs(p.Content),
	}
}
