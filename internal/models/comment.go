// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation state of a comment. Any status may move
// to any other; transitions are admin-triggered.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s CommentStatus) Valid() bool {
	return s == CommentStatusPending || s == CommentStatusApproved || s == CommentStatusRejected
}

// Comment is a discussion entry on a post. ParentID is nil for root
// comments and points at a root comment for replies; only one level of
// nesting is ever materialized. The (author, post, content) triple is
// unique.
type Comment struct {
	ID        uuid.UUID     `json:"id"`
	Content   string        `json:"content"`
	AuthorID  uuid.UUID     `json:"author_id"`
	PostID    uuid.UUID     `json:"post_id"`
	ParentID  *uuid.UUID    `json:"parent_id,omitempty"`
	Status    CommentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`

	// Virtual fields populated by store methods.
	AuthorUsername string    `json:"author_username,omitempty"`
	PostTitle      string    `json:"post_title,omitempty"`
	PostSlug       string    `json:"post_slug,omitempty"`
	Replies        []Comment `json:"replies,omitempty"`
}

// IsRoot returns true if the comment has no parent.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
