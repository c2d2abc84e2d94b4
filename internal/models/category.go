// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category is a flat post category as served by the blog API.
// Names are unique by convention only; the backend does not enforce it.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// CategoryInput is the payload sent when creating a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// CategoryRef is a post's reference to its category. The API sends it either
// as a bare id string or as an expanded category object; both decode to the
// same value. A zero CategoryRef means the post is uncategorized.
type CategoryRef struct {
	ID   string
	Name string // only set when the API expanded the reference
}

// IsZero reports whether the reference points at no category.
func (r CategoryRef) IsZero() bool {
	return r.ID == ""
}

// UnmarshalJSON accepts null, an id string, or a {"_id", "name"} object.
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = CategoryRef{}
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("category ref: %w", err)
		}
		*r = CategoryRef{ID: id}
		return nil
	case '{':
		var c Category
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("category ref: %w", err)
		}
		*r = CategoryRef{ID: c.ID, Name: c.Name}
		return nil
	}
	return fmt.Errorf("category ref: unexpected JSON %s", data)
}

// MarshalJSON writes the reference back as a bare id, or null when empty.
func (r CategoryRef) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}
