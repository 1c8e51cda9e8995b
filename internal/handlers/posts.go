// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/middleware"
	"inkpress/internal/service"
)

// Posts groups the post HTTP handlers.
type Posts struct {
	posts *service.Posts
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *service.Posts) *Posts {
	return &Posts{posts: posts}
}

// List handles GET /api/posts.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.posts.List(middleware.ActorFromCtx(r.Context()), service.ListInput{
		Search:       q.Get("search"),
		CategorySlug: q.Get("category"),
		Status:       q.Get("status"),
		SortBy:       q.Get("sort_by"),
		SortOrder:    q.Get("sort_order"),
		Page:         queryInt(r, "page"),
		Limit:        queryInt(r, "limit"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetBySlug handles GET /api/posts/{slug}.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(middleware.ActorFromCtx(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// ListByCategory handles GET /api/categories/{slug}/posts.
func (h *Posts) ListByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := h.posts.ListByCategory(chi.URLParam(r, "slug"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// postPayload is the JSON body for post create requests.
type postPayload struct {
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	CategoryID    uuid.UUID `json:"category_id"`
	Tags          string    `json:"tags"`
	Status        string    `json:"status"`
	FeaturedImage string    `json:"featured_image"`
}

// Create handles POST /api/posts. Admin only.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var body postPayload
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(middleware.ActorFromCtx(r.Context()), service.CreatePostInput{
		Title:         body.Title,
		Content:       body.Content,
		Excerpt:       body.Excerpt,
		CategoryID:    body.CategoryID,
		Tags:          body.Tags,
		Status:        body.Status,
		FeaturedImage: body.FeaturedImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// updatePostPayload uses pointers so absent fields stay untouched and an
// explicit empty featured_image clears the image.
type updatePostPayload struct {
	Title         *string    `json:"title"`
	Content       *string    `json:"content"`
	Excerpt       *string    `json:"excerpt"`
	CategoryID    *uuid.UUID `json:"category_id"`
	Tags          *string    `json:"tags"`
	Status        *string    `json:"status"`
	FeaturedImage *string    `json:"featured_image"`
}

// Update handles PUT /api/posts/{id}. Admin only.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body updatePostPayload
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(middleware.ActorFromCtx(r.Context()), id, service.UpdatePostInput{
		Title:         body.Title,
		Content:       body.Content,
		Excerpt:       body.Excerpt,
		CategoryID:    body.CategoryID,
		Tags:          body.Tags,
		Status:        body.Status,
		FeaturedImage: body.FeaturedImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/{id}. Admin only.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.posts.Delete(middleware.ActorFromCtx(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed so the service applies its defaults.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
