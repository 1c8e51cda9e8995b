// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// PostStore handles all post-related database operations. Reads join the
// author and category so results carry the populated virtual fields.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns is the joined select list shared by every post read.
const postColumns = `
	p.id, p.title, p.content, p.excerpt, p.slug, p.author_id, p.category_id,
	p.tags, p.status, p.featured_image, p.views, p.created_at, p.updated_at,
	u.username, c.name, c.slug`

const postFrom = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id`

// scanPost scans a joined row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var tags string
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Slug, &p.AuthorID, &p.CategoryID,
		&tags, &p.Status, &p.FeaturedImage, &p.Views, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorUsername, &p.CategoryName, &p.CategorySlug,
	)
	if err != nil {
		return nil, err
	}
	p.Tags = SplitTags(tags)
	return &p, nil
}

// SplitTags turns the stored comma-joined form back into the tag slice.
func SplitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags normalizes a tag slice into the stored comma-joined form.
func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

// ListFilter describes the post listing query: free-text search, category
// and status filters, sort, and offset/limit pagination.
type ListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Status     string // empty disables the status filter
	SortBy     string // API field name; mapped to a column via a whitelist
	SortOrder  string // "asc" or "desc"
	Offset     int
	Limit      int
}

// sortColumns whitelists sortable fields, keyed by their API names.
var sortColumns = map[string]string{
	"createdAt": "p.created_at",
	"updatedAt": "p.updated_at",
	"title":     "p.title",
	"views":     "p.views",
}

// List returns posts matching the filter plus the total match count.
func (s *PostStore) List(f ListFilter) ([]models.Post, int, error) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "p.status = "+arg(f.Status))
	}
	if f.CategoryID != nil {
		where = append(where, "p.category_id = "+arg(*f.CategoryID))
	}
	if f.Search != "" {
		pattern := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf(
			"(p.title ILIKE %s OR p.content ILIKE %s OR p.tags ILIKE %s)",
			pattern, pattern, pattern,
		))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := s.db.QueryRow("SELECT COUNT(*)"+postFrom+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "p.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}

	query := "SELECT " + postColumns + postFrom + whereClause +
		fmt.Sprintf(" ORDER BY %s %s", column, direction) +
		" OFFSET " + arg(f.Offset) + " LIMIT " + arg(f.Limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow("SELECT "+postColumns+postFrom+" WHERE p.id = $1", id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of status; the service
// decides draft visibility. Returns nil if not found.
func (s *PostStore) FindBySlug(postSlug string) (*models.Post, error) {
	row := s.db.QueryRow("SELECT "+postColumns+postFrom+" WHERE p.slug = $1", postSlug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether another post (excluding the given id) already
// uses the slug. The unique index remains the source of truth under
// concurrency; this check only guides the suffix loop.
func (s *PostStore) SlugExists(postSlug string, exclude uuid.UUID) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM posts WHERE slug = $1 AND id <> $2`,
		postSlug, exclude,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count > 0, nil
}

// TitleExists reports whether another post (excluding the given id)
// already uses the title, in any status.
func (s *PostStore) TitleExists(title string, exclude uuid.UUID) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM posts WHERE title = $1 AND id <> $2`,
		title, exclude,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new post. A duplicate title yields Conflict; a lost
// slug race yields ErrSlugTaken so the caller can retry with the next
// suffix.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO posts (title, content, excerpt, slug, author_id, category_id,
		                   tags, status, featured_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, p.Title, p.Content, p.Excerpt, p.Slug, p.AuthorID, p.CategoryID,
		JoinTags(p.Tags), p.Status, p.FeaturedImage,
	).Scan(&id)
	if err != nil {
		if translated := translateUnique(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(id)
}

// Update rewrites a post's mutable fields. The author reference is
// immutable after creation and is deliberately absent from the SET list.
func (s *PostStore) Update(p *models.Post) error {
	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, content = $2, excerpt = $3, slug = $4, category_id = $5,
			tags = $6, status = $7, featured_image = $8, updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Content, p.Excerpt, p.Slug, p.CategoryID,
		JoinTags(p.Tags), p.Status, p.FeaturedImage, p.ID,
	)
	if err != nil {
		if translated := translateUnique(err); translated != err {
			return translated
		}
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Comments cascade at the storage level.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter by one and returns the new value.
// The increment is atomic at the row; lost updates across replicas are an
// accepted approximation.
func (s *PostStore) IncrementViews(id uuid.UUID) (int, error) {
	var views int
	err := s.db.QueryRow(`
		UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING views
	`, id).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}
