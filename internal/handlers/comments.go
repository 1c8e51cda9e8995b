// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"inkpress/internal/middleware"
	"inkpress/internal/service"
)

// Comments groups the comment HTTP handlers.
type Comments struct {
	comments *service.Comments
}

// NewComments creates a new Comments handler group.
func NewComments(comments *service.Comments) *Comments {
	return &Comments{comments: comments}
}

// ListForPost handles GET /api/comments/post/{postID}: the approved
// discussion thread for one post.
func (h *Comments) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.comments.ListForPost(postID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// commentPayload is the JSON body for comment create requests.
type commentPayload struct {
	Content  string     `json:"content"`
	PostID   uuid.UUID  `json:"post_id"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// Create handles POST /api/comments. Requires authentication.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var body commentPayload
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Create(middleware.ActorFromCtx(r.Context()), service.CreateCommentInput{
		Content:  body.Content,
		PostID:   body.PostID,
		ParentID: body.ParentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Update handles PUT /api/comments/{id}. Author or admin.
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Update(middleware.ActorFromCtx(r.Context()), id, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/{id}. Author or admin; replies go
// with the comment.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.comments.Delete(middleware.ActorFromCtx(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

// ListAdmin handles GET /api/comments/admin: the moderation queue across
// all posts, optionally filtered by status. Admin only.
func (h *Comments) ListAdmin(w http.ResponseWriter, r *http.Request) {
	list, err := h.comments.ListAdmin(
		middleware.ActorFromCtx(r.Context()),
		r.URL.Query().Get("status"),
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// SetStatus handles PATCH /api/comments/{id}/status. Admin only.
func (h *Comments) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.SetStatus(middleware.ActorFromCtx(r.Context()), id, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
