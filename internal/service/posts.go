// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
	"inkpress/internal/policy"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// Field limits from the data model.
const (
	maxTitleLen    = 200
	maxExcerptLen  = 300
	excerptSource  = 150
	maxCategoryLen = 50
	maxDescLen     = 200
)

// maxSlugAttempts bounds the suffix retry loop when concurrent creations
// race on the same base slug. Each attempt re-reads the current suffix
// space, so losing the race a few times in a row is the practical ceiling.
const maxSlugAttempts = 5

// PostStore is the persistence surface the post service needs.
type PostStore interface {
	List(f store.ListFilter) ([]models.Post, int, error)
	FindByID(id uuid.UUID) (*models.Post, error)
	FindBySlug(postSlug string) (*models.Post, error)
	SlugExists(postSlug string, exclude uuid.UUID) (bool, error)
	TitleExists(title string, exclude uuid.UUID) (bool, error)
	Create(p *models.Post) (*models.Post, error)
	Update(p *models.Post) error
	Delete(id uuid.UUID) error
	IncrementViews(id uuid.UUID) (int, error)
}

// CategoryFinder resolves category references during post writes and
// category-scoped listings.
type CategoryFinder interface {
	FindByID(id uuid.UUID) (*models.Category, error)
	FindBySlug(categorySlug string) (*models.Category, error)
}

// Posts implements the post lifecycle: creation, partial update, slug and
// excerpt derivation, view accounting, and the query/filter layer.
type Posts struct {
	posts      PostStore
	categories CategoryFinder
}

// NewPosts creates the post service.
func NewPosts(posts PostStore, categories CategoryFinder) *Posts {
	return &Posts{posts: posts, categories: categories}
}

// ListInput carries the listing query parameters.
type ListInput struct {
	Search       string
	CategorySlug string
	Status       string // "published" (default), "draft", or "all"
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// PostList is a paginated listing result.
type PostList struct {
	Posts       []models.Post `json:"posts"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// CategoryPostList is the category-scoped listing result, carrying the
// resolved category alongside its posts.
type CategoryPostList struct {
	Posts       []models.Post    `json:"posts"`
	Category    *models.Category `json:"category"`
	Total       int              `json:"total"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
}

// List returns posts matching the query. Non-admin actors always see
// published posts only; "all" disables the status filter for admins.
func (s *Posts) List(actor *policy.Actor, in ListInput) (*PostList, error) {
	page, limit, offset := normalizePage(in.Page, in.Limit, defaultLimit)

	status := in.Status
	if status == "" {
		status = string(models.PostStatusPublished)
	}
	if !policy.CanListAllStatuses(actor) {
		status = string(models.PostStatusPublished)
	} else if status == "all" {
		status = ""
	}

	filter := store.ListFilter{
		Search:    in.Search,
		Status:    status,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
		Offset:    offset,
		Limit:     limit,
	}

	if in.CategorySlug != "" {
		category, err := s.categories.FindBySlug(in.CategorySlug)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		// An unknown category slug matches nothing rather than failing.
		if category == nil {
			return &PostList{Posts: []models.Post{}, CurrentPage: page}, nil
		}
		filter.CategoryID = &category.ID
	}

	posts, total, err := s.posts.List(filter)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return &PostList{
		Posts:       posts,
		Total:       total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// ListByCategory returns published posts in the category identified by
// slug, newest first, with the resolved category object.
func (s *Posts) ListByCategory(categorySlug string, page, limit int) (*CategoryPostList, error) {
	page, limit, offset := normalizePage(page, limit, defaultLimit)

	category, err := s.categories.FindBySlug(categorySlug)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}

	posts, total, err := s.posts.List(store.ListFilter{
		CategoryID: &category.ID,
		Status:     string(models.PostStatusPublished),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return &CategoryPostList{
		Posts:       posts,
		Category:    category,
		Total:       total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// GetBySlug returns a single post by slug and increments its view counter.
// Drafts are visible to admins only; a hidden or missing post is NotFound.
// The increment is the one read-triggered mutation in the system.
func (s *Posts) GetBySlug(actor *policy.Actor, postSlug string) (*models.Post, error) {
	post, err := s.posts.FindBySlug(postSlug)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if post == nil || !policy.CanViewPost(actor, post) {
		return nil, apperr.NotFound("post not found")
	}

	views, err := s.posts.IncrementViews(post.ID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	post.Views = views

	return post, nil
}

// CreatePostInput carries the fields for a new post. Tags is the raw
// comma-delimited form, split and trimmed on write.
type CreatePostInput struct {
	Title         string
	Content       string
	Excerpt       string
	CategoryID    uuid.UUID
	Tags          string
	Status        string
	FeaturedImage string
}

// Create validates and stores a new post. Admin only. The slug is derived
// from the title with numeric suffixes resolving collisions; the excerpt
// is derived from the content when absent.
func (s *Posts) Create(actor *policy.Actor, in CreatePostInput) (*models.Post, error) {
	if err := policy.CanManagePosts(actor); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	fields := map[string]string{}
	if in.Title == "" {
		fields["title"] = "Title is required."
	} else if utf8.RuneCountInString(in.Title) > maxTitleLen {
		fields["title"] = "Title is too long (max 200 characters)."
	}
	if strings.TrimSpace(in.Content) == "" {
		fields["content"] = "Content is required."
	}
	if utf8.RuneCountInString(in.Excerpt) > maxExcerptLen {
		fields["excerpt"] = "Excerpt is too long (max 300 characters)."
	}
	if in.CategoryID == uuid.Nil {
		fields["category"] = "Category is required."
	}
	status := models.PostStatus(in.Status)
	if in.Status == "" {
		status = models.PostStatusDraft
	} else if !status.Valid() {
		fields["status"] = "Status must be draft or published."
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid post", fields)
	}

	category, err := s.categories.FindByID(in.CategoryID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.Validation("invalid post", map[string]string{
			"category": "Invalid category.",
		})
	}

	// Title uniqueness spans all posts regardless of status. The unique
	// index backs this check under concurrency.
	taken, err := s.posts.TitleExists(in.Title, uuid.Nil)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if taken {
		return nil, apperr.Conflict("a post with this title already exists")
	}

	post := &models.Post{
		Title:         in.Title,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		AuthorID:      actor.ID,
		CategoryID:    in.CategoryID,
		Tags:          splitTagInput(in.Tags),
		Status:        status,
		FeaturedImage: in.FeaturedImage,
	}
	if post.Excerpt == "" {
		post.Excerpt = deriveExcerpt(post.Content)
	}

	return s.createWithSlug(post)
}

// createWithSlug resolves the slug suffix and inserts, retrying when a
// concurrent creation wins the same slug. The posts.slug unique index is
// the safety mechanism; the loop is only an optimization around it.
func (s *Posts) createWithSlug(post *models.Post) (*models.Post, error) {
	base := slug.Generate(post.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		resolved, err := s.resolveSlug(base, uuid.Nil)
		if err != nil {
			return nil, err
		}
		post.Slug = resolved

		created, err := s.posts.Create(post)
		if errors.Is(err, store.ErrSlugTaken) {
			continue // lost the race; re-read the suffix space
		}
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, apperr.Storage(err)
		}
		return created, nil
	}
	return nil, apperr.Conflict("could not allocate a unique slug")
}

// resolveSlug finds the first free slug in base, base-1, base-2, …
// excluding the post being updated.
func (s *Posts) resolveSlug(base string, exclude uuid.UUID) (string, error) {
	for n := 0; ; n++ {
		candidate := slug.WithSuffix(base, n)
		exists, err := s.posts.SlugExists(candidate, exclude)
		if err != nil {
			return "", apperr.Storage(err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// UpdatePostInput is a partial-field merge: nil leaves a field unchanged.
// FeaturedImage distinguishes "clear" (present, empty) from "leave alone"
// (absent). Tags, when present, is re-split and trimmed.
type UpdatePostInput struct {
	Title         *string
	Content       *string
	Excerpt       *string
	CategoryID    *uuid.UUID
	Tags          *string
	Status        *string
	FeaturedImage *string
}

// Update applies a partial update to a post. Admin only. The slug is
// recomputed only when the title changes; unrelated field updates leave
// it untouched.
func (s *Posts) Update(actor *policy.Actor, id uuid.UUID, in UpdatePostInput) (*models.Post, error) {
	if err := policy.CanManagePosts(actor); err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if post == nil {
		return nil, apperr.NotFound("post not found")
	}

	fields := map[string]string{}
	titleChanged := false

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			fields["title"] = "Title cannot be empty."
		} else if utf8.RuneCountInString(title) > maxTitleLen {
			fields["title"] = "Title is too long (max 200 characters)."
		} else if title != post.Title {
			titleChanged = true
			post.Title = title
		}
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			fields["content"] = "Content cannot be empty."
		} else {
			post.Content = *in.Content
		}
	}
	if in.Excerpt != nil {
		if utf8.RuneCountInString(*in.Excerpt) > maxExcerptLen {
			fields["excerpt"] = "Excerpt is too long (max 300 characters)."
		} else {
			post.Excerpt = *in.Excerpt
		}
	}
	if in.Status != nil {
		status := models.PostStatus(*in.Status)
		if !status.Valid() {
			fields["status"] = "Status must be draft or published."
		} else {
			post.Status = status
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid post", fields)
	}

	if in.CategoryID != nil && *in.CategoryID != post.CategoryID {
		category, err := s.categories.FindByID(*in.CategoryID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if category == nil {
			return nil, apperr.Validation("invalid post", map[string]string{
				"category": "Invalid category.",
			})
		}
		post.CategoryID = *in.CategoryID
	}

	if titleChanged {
		taken, err := s.posts.TitleExists(post.Title, post.ID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if taken {
			return nil, apperr.Conflict("a post with this title already exists")
		}
		resolved, err := s.resolveSlug(slug.Generate(post.Title), post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = resolved
	}

	if in.Tags != nil {
		post.Tags = splitTagInput(*in.Tags)
	}
	if in.FeaturedImage != nil {
		// Explicit empty string clears the image.
		post.FeaturedImage = *in.FeaturedImage
	}
	if post.Excerpt == "" {
		post.Excerpt = deriveExcerpt(post.Content)
	}

	if err := s.posts.Update(post); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		if errors.Is(err, store.ErrSlugTaken) {
			return nil, apperr.Conflict("could not allocate a unique slug")
		}
		return nil, apperr.Storage(err)
	}

	return s.posts.FindByID(post.ID)
}

// Delete removes a post. Admin only. Comments cascade at the storage
// level.
func (s *Posts) Delete(actor *policy.Actor, id uuid.UUID) error {
	if err := policy.CanManagePosts(actor); err != nil {
		return err
	}

	post, err := s.posts.FindByID(id)
	if err != nil {
		return apperr.Storage(err)
	}
	if post == nil {
		return apperr.NotFound("post not found")
	}

	if err := s.posts.Delete(id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// deriveExcerpt produces the auto excerpt: the first 150 runes of the
// content followed by an ellipsis.
func deriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptSource {
		runes = runes[:excerptSource]
	}
	return string(runes) + "..."
}

// splitTagInput splits the raw comma-delimited tag string, trimming each
// entry and dropping empties while preserving order.
func splitTagInput(raw string) []string {
	return store.SplitTags(raw)
}
