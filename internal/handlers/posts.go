// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for BlogDesk. They receive
// their dependencies through the handler struct and translate view state into
// rendered pages, redirects and flash messages.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"blogdesk/internal/apiclient"
	"blogdesk/internal/render"
	"blogdesk/internal/session"
	"blogdesk/internal/views"
)

// Form intents carried by the submit buttons of the post form.
const (
	intentAddCategory  = "category"
	intentShowCategory = "show-category"
	intentHideCategory = "hide-category"
)

// APIStatus exposes the HTTP client's busy flag and last error to the layout.
type APIStatus interface {
	Loading() bool
	LastError() string
}

// Posts groups the post list, detail, form and delete handlers.
type Posts struct {
	renderer *render.Renderer
	sessions *session.Store
	api      APIStatus
	list     *views.PostList
	detail   *views.PostDetail
	form     *views.PostForm
}

// NewPosts creates the post handlers over the shared store.
func NewPosts(renderer *render.Renderer, sessions *session.Store, api APIStatus, store views.Store) *Posts {
	return &Posts{
		renderer: renderer,
		sessions: sessions,
		api:      api,
		list:     views.NewPostList(store),
		detail:   views.NewPostDetail(store),
		form:     views.NewPostForm(store),
	}
}

// List renders the post list, optionally filtered by ?category=<id>.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	page := h.list.Build(r.URL.Query().Get("category"))
	h.page(w, r, http.StatusOK, "list", "Posts", page)
}

// Detail renders one cached post, or a 404 page when it is not cached.
func (h *Posts) Detail(w http.ResponseWriter, r *http.Request) {
	page := h.detail.Build(chi.URLParam(r, "id"))
	if !page.Found {
		h.page(w, r, http.StatusNotFound, "not_found", "Post not found", nil)
		return
	}
	h.page(w, r, http.StatusOK, "detail", page.Post.Title, page)
}

// New renders the empty create form.
func (h *Posts) New(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, "form", "New Post", h.form.Load(""))
}

// Edit renders the edit form pre-filled from the cache.
func (h *Posts) Edit(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, "form", "Edit Post", h.form.Load(chi.URLParam(r, "id")))
}

// Submit handles every POST of the create and edit forms. The intent value
// selects between saving the post and working the inline category field.
func (h *Posts) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	fields := views.FormFields{
		Title:    r.PostForm.Get("title"),
		Content:  r.PostForm.Get("content"),
		Category: r.PostForm.Get("category"),
	}
	title := "New Post"
	if id != "" {
		title = "Edit Post"
	}

	switch r.FormValue("intent") {
	case intentShowCategory:
		h.page(w, r, http.StatusOK, "form", title, h.form.ToggleCategory(id, fields, true))
		return
	case intentHideCategory:
		h.page(w, r, http.StatusOK, "form", title, h.form.ToggleCategory(id, fields, false))
		return
	case intentAddCategory:
		page, err := h.form.AddCategory(r.Context(), id, fields, r.PostForm.Get("new_category"))
		status := http.StatusOK
		if err != nil {
			status = http.StatusBadGateway
		}
		h.page(w, r, status, "form", title, page)
		return
	}

	page, err := h.form.Submit(r.Context(), id, fields)
	switch {
	case errors.Is(err, views.ErrInvalid):
		h.page(w, r, http.StatusUnprocessableEntity, "form", title, page)
		return
	case err != nil:
		h.page(w, r, http.StatusBadGateway, "form", title, page)
		return
	}

	msg := "Post created."
	if id != "" {
		msg = "Post updated."
	}
	h.flash(w, r, session.FlashSuccess, msg)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteConfirm renders the confirmation page for deleting a cached post.
func (h *Posts) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	page := h.detail.Build(chi.URLParam(r, "id"))
	if !page.Found {
		h.page(w, r, http.StatusNotFound, "not_found", "Post not found", nil)
		return
	}
	h.page(w, r, http.StatusOK, "confirm_delete", "Delete Post", page)
}

// Delete removes a post once the confirmation form was submitted. A failure
// is reported as a flash on the list.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed := r.FormValue("confirm") == "yes"

	err := h.list.Delete(r.Context(), id, confirmed)
	switch {
	case errors.Is(err, views.ErrNotConfirmed):
		http.Redirect(w, r, "/post/"+url.PathEscape(id)+"/delete", http.StatusSeeOther)
		return
	case err != nil:
		slog.Warn("delete post failed", "id", id, "error", err)
		h.flash(w, r, session.FlashError, "Error deleting post: "+apiMessage(err))
	default:
		h.flash(w, r, session.FlashSuccess, "Post deleted.")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// page renders a template inside the layout with the pending flashes and the
// API status.
func (h *Posts) page(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	flashes, err := h.sessions.PopFlashes(r.Context(), r)
	if err != nil {
		slog.Warn("pop flashes failed", "error", err)
	}

	h.renderer.Page(w, r, status, name, &render.PageData{
		Title:      title,
		Flashes:    flashes,
		APILoading: h.api.Loading(),
		APIError:   h.api.LastError(),
		Data:       data,
	})
}

// flash queues a one-time message for the next page. Failures only lose the
// message, so they are logged and otherwise ignored.
func (h *Posts) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	if err := h.sessions.AddFlash(r.Context(), w, r, session.Flash{Type: kind, Message: msg}); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}

// apiMessage returns the user-facing text of a store error: the message of the
// underlying HTTP client error when there is one.
func apiMessage(err error) string {
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Error()
	}
	var netErr *apiclient.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	var parseErr *apiclient.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error()
	}
	return err.Error()
}
