// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"blogdesk/internal/models"
)

// User-facing form messages. Store errors are logged, never shown.
const (
	msgSaveFailed     = "Error saving post. Please try again."
	msgCategoryFailed = "Error creating category. Please try again."
)

// FormFields are the editable fields of the post form.
type FormFields struct {
	Title    string `validate:"required"`
	Content  string `validate:"required"`
	Category string // optional category id
}

// FormPage is the derived state of the create/edit form.
type FormPage struct {
	Editing         bool
	ID              string
	Fields          FormFields
	Categories      []models.Category
	ShowNewCategory bool
	NewCategory     string
	Error           string
}

// PostForm drives the create/edit form. Edit mode is selected by a
// non-empty post id.
type PostForm struct {
	store    Store
	validate *validator.Validate
}

// NewPostForm creates the form view over s.
func NewPostForm(s Store) *PostForm {
	return &PostForm{
		store:    s,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load returns the initial form. In edit mode the fields are pre-filled from
// the cached post; if the post is not cached the fields stay blank and no
// error is reported.
func (f *PostForm) Load(id string) FormPage {
	page := f.page(id, FormFields{})
	if id == "" {
		return page
	}
	if p, ok := f.store.FindPost(id); ok {
		page.Fields = FormFields{
			Title:    p.Title,
			Content:  p.Content,
			Category: p.CategoryID(),
		}
	}
	return page
}

// Submit validates fields and creates or updates the post. On success it
// returns a nil error and the caller navigates back to the list. On failure
// the returned page carries a message for the user and the error is
// ErrInvalid or ErrSaveFailed.
func (f *PostForm) Submit(ctx context.Context, id string, fields FormFields) (FormPage, error) {
	page := f.page(id, fields)

	if msg := f.check(fields); msg != "" {
		page.Error = msg
		return page, fmt.Errorf("%w: %s", ErrInvalid, msg)
	}

	in := models.PostInput{
		Title:    strings.TrimSpace(fields.Title),
		Content:  fields.Content,
		Category: fields.Category,
	}

	var err error
	if page.Editing {
		_, err = f.store.UpdatePost(ctx, id, in)
	} else {
		_, err = f.store.CreatePost(ctx, in)
	}
	if err != nil {
		slog.Warn("post form submit failed", "id", id, "error", err)
		page.Error = msgSaveFailed
		return page, errors.Join(ErrSaveFailed, err)
	}
	return page, nil
}

// AddCategory creates a category from name and selects it in the form,
// keeping every other field as typed. A blank name is a no-op.
func (f *PostForm) AddCategory(ctx context.Context, id string, fields FormFields, name string) (FormPage, error) {
	page := f.page(id, fields)
	page.ShowNewCategory = true

	in := models.CategoryInput{Name: strings.TrimSpace(name)}
	if err := f.validate.Struct(in); err != nil {
		return page, nil
	}

	c, err := f.store.CreateCategory(ctx, in)
	if err != nil {
		slog.Warn("inline category create failed", "name", in.Name, "error", err)
		page.NewCategory = in.Name
		page.Error = msgCategoryFailed
		return page, err
	}

	page.Categories = f.store.Categories()
	page.Fields.Category = c.ID
	page.ShowNewCategory = false
	return page, nil
}

// ToggleCategory shows or hides the inline new-category field without
// touching the typed fields.
func (f *PostForm) ToggleCategory(id string, fields FormFields, show bool) FormPage {
	page := f.page(id, fields)
	page.ShowNewCategory = show
	return page
}

func (f *PostForm) page(id string, fields FormFields) FormPage {
	return FormPage{
		Editing:    id != "",
		ID:         id,
		Fields:     fields,
		Categories: f.store.Categories(),
	}
}

// check validates fields and returns the first problem as a user message,
// or "" when the fields are valid.
func (f *PostForm) check(fields FormFields) string {
	fields.Title = strings.TrimSpace(fields.Title)
	fields.Content = strings.TrimSpace(fields.Content)

	err := f.validate.Struct(fields)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form input."
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	}
	return fe.Field() + " is invalid."
}
