// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether the status is one of the known values.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a blog article. Title and slug are independently unique across
// all posts regardless of status. The author reference is immutable after
// creation.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	Slug          string     `json:"slug"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	Tags          []string   `json:"tags"`
	Status        PostStatus `json:"status"`
	FeaturedImage string     `json:"featured_image"`
	Views         int        `json:"views"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	AuthorUsername string `json:"author_username,omitempty"`
	CategoryName   string `json:"category_name,omitempty"`
	CategorySlug   string `json:"category_slug,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
