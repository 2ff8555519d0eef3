// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/auth"
	"blogapi/internal/middleware"
	"blogapi/internal/model"
	"blogapi/internal/store"
	"blogapi/internal/util"
)

// PostDetail is a post with its content rendered to sanitized HTML.
type PostDetail struct {
	model.Post
	ContentHTML string `json:"content_html"`
}

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Title       string `json:"title"`
	Tagline     string `json:"tagline"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	ImgFile     string `json:"img_file"`
	IsPublished bool   `json:"is_published"`
}

func postToDetail(p model.Post) PostDetail {
	return PostDetail{
		Post:        p,
		ContentHTML: renderMarkdown(p.Content),
	}
}

// ListPosts handles GET /api/v1/posts
//
// Public: returns only published posts, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, h.cfg.PostsPerPage)

	posts, total, err := h.queries.ListPosts(r.Context(), store.ListPostsParams{
		PublishedOnly: true,
		Limit:         int64(perPage),
		Offset:        int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("post listing failed", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	WriteSuccess(w, posts, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// GetPostBySlug handles GET /api/v1/posts/slug/{slug}
//
// Only published posts are reachable by slug; drafts stay invisible on
// this route even to their author.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.queries.GetPostBySlug(r.Context(), slug)
	if err != nil {
		writeStoreError(w, err, "Post not found", "")
		return
	}
	WriteSuccess(w, postToDetail(post), nil)
}

// GetPost handles GET /api/v1/posts/{id}
//
// Published posts are public. An unpublished post is served only to its
// author or an admin.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Post not found", "")
		return
	}

	if !post.IsPublished {
		user := middleware.GetUser(r)
		if user == nil {
			WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
			return
		}
		if !post.CanBeEditedBy(user) {
			WriteForbidden(w, "Not authorized to view this post")
			return
		}
	}

	WriteSuccess(w, postToDetail(post), nil)
}

// CreatePost handles POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return
	}

	var req CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		WriteValidationError(w, map[string]string{"title": "Title is required"})
		return
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		WriteValidationError(w, map[string]string{"slug": "Slug may contain lowercase letters, digits and hyphens"})
		return
	}

	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:       req.Title,
		Tagline:     req.Tagline,
		Slug:        req.Slug,
		Content:     req.Content,
		ImgFile:     req.ImgFile,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		writeStoreError(w, err, "Post not found", "Slug already exists")
		return
	}

	slog.Info("post created", "post_id", post.ID, "author_id", user.ID, "slug", post.Slug)
	WriteCreated(w, post)
}

// UpdatePost handles PUT /api/v1/posts/{id}
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, user, ok := h.requireEditablePost(w, r)
	if !ok {
		return
	}

	var upd model.PostUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	if upd.IsEmpty() {
		WriteSuccess(w, post, nil)
		return
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		WriteValidationError(w, map[string]string{"title": "Title cannot be empty"})
		return
	}
	if upd.Slug != nil && !util.IsValidSlug(*upd.Slug) {
		WriteValidationError(w, map[string]string{"slug": "Slug may contain lowercase letters, digits and hyphens"})
		return
	}

	updated, err := h.queries.UpdatePost(r.Context(), post.ID, upd)
	if err != nil {
		writeStoreError(w, err, "Post not found", "Slug already exists")
		return
	}

	slog.Info("post updated", "post_id", updated.ID, "editor_id", user.ID)
	WriteSuccess(w, updated, nil)
}

// DeletePost handles DELETE /api/v1/posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	post, user, ok := h.requireEditablePost(w, r)
	if !ok {
		return
	}

	deleted, err := h.queries.DeletePost(r.Context(), post.ID)
	if err != nil {
		slog.Error("post delete failed", "error", err, "post_id", post.ID)
		WriteInternalError(w, "Internal server error")
		return
	}
	if !deleted {
		// Raced with another delete between fetch and removal.
		WriteNotFound(w, "Post not found")
		return
	}

	slog.Info("post deleted", "post_id", post.ID, "editor_id", user.ID)
	WriteSuccess(w, MessageResponse{Message: "Post deleted"}, nil)
}

// TogglePostVisibility handles PUT /api/v1/posts/{id}/toggle-visibility
func (h *Handler) TogglePostVisibility(w http.ResponseWriter, r *http.Request) {
	post, user, ok := h.requireEditablePost(w, r)
	if !ok {
		return
	}

	updated, err := h.queries.TogglePostVisibility(r.Context(), post.ID)
	if err != nil {
		writeStoreError(w, err, "Post not found", "")
		return
	}

	slog.Info("post visibility toggled",
		"post_id", updated.ID, "editor_id", user.ID, "is_published", updated.IsPublished)
	WriteSuccess(w, updated, nil)
}

// MyPosts handles GET /api/v1/posts/user/all-posts
//
// Returns the caller's own posts. By default only published ones;
// ?show_unpublished=true switches to drafts.
func (h *Handler) MyPosts(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return
	}

	showUnpublished := r.URL.Query().Get("show_unpublished") == "true"
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, h.cfg.PostsPerPage)

	posts, total, err := h.queries.ListPostsByAuthor(r.Context(), store.ListPostsByAuthorParams{
		AuthorID:    user.ID,
		IsPublished: !showUnpublished,
		Limit:       int64(perPage),
		Offset:      int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("author post listing failed", "error", err, "author_id", user.ID)
		WriteInternalError(w, "Internal server error")
		return
	}

	WriteSuccess(w, posts, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// requireEditablePost parses the post ID, loads the post and checks that
// the authenticated caller may modify it. A missing post reports 404
// before authorization is considered.
func (h *Handler) requireEditablePost(w http.ResponseWriter, r *http.Request) (model.Post, *model.User, bool) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return model.Post{}, nil, false
	}

	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return model.Post{}, nil, false
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Post not found", "")
		return model.Post{}, nil, false
	}
	if !post.CanBeEditedBy(user) {
		WriteForbidden(w, "Not authorized to modify this post")
		return model.Post{}, nil, false
	}

	return post, user, true
}
