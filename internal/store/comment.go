// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// CommentStore handles all comment-related database operations. Reads join
// the author (and post, for moderation views) to populate virtual fields.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `
	cm.id, cm.content, cm.author_id, cm.post_id, cm.parent_id, cm.status,
	cm.created_at, u.username, p.title, p.slug`

const commentFrom = `
	FROM comments cm
	JOIN users u ON u.id = cm.author_id
	JOIN posts p ON p.id = cm.post_id`

// scanComment scans a joined row into a Comment struct.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.ParentID, &c.Status,
		&c.CreatedAt, &c.AuthorUsername, &c.PostTitle, &c.PostSlug,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow("SELECT "+commentColumns+commentFrom+" WHERE cm.id = $1", id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a new comment. A duplicate (author, post, content) triple
// yields a Conflict error from the unique index — the constraint, not this
// method, is what wins the race.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO comments (content, author_id, post_id, parent_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.Content, c.AuthorID, c.PostID, c.ParentID, c.Status).Scan(&id)
	if err != nil {
		if translated := translateUnique(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.FindByID(id)
}

// ExistsDuplicate reports whether the author already posted identical
// content on the post. Used as a pre-insert guard; the unique index stays
// the source of truth.
func (s *CommentStore) ExistsDuplicate(authorID, postID uuid.UUID, content string) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM comments
		WHERE author_id = $1 AND post_id = $2 AND content = $3
	`, authorID, postID, content).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check duplicate comment: %w", err)
	}
	return count > 0, nil
}

// ListApprovedRoots returns approved root comments for a post, newest
// first, paginated, plus the total root count.
func (s *CommentStore) ListApprovedRoots(postID uuid.UUID, offset, limit int) ([]models.Comment, int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM comments
		WHERE post_id = $1 AND status = 'approved' AND parent_id IS NULL
	`, postID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count root comments: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+commentColumns+commentFrom+`
		WHERE cm.post_id = $1 AND cm.status = 'approved' AND cm.parent_id IS NULL
		ORDER BY cm.created_at DESC
		OFFSET $2 LIMIT $3
	`, postID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list root comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// ListApprovedReplies returns approved replies to the given root comment,
// oldest first.
func (s *CommentStore) ListApprovedReplies(parentID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+commentFrom+`
		WHERE cm.parent_id = $1 AND cm.status = 'approved'
		ORDER BY cm.created_at ASC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListAll returns comments across all posts and statuses for the
// moderation view, newest first, optionally filtered by status, paginated
// with the total match count.
func (s *CommentStore) ListAll(status models.CommentStatus, offset, limit int) ([]models.Comment, int, error) {
	where := ""
	countArgs := []any{}
	listArgs := []any{offset, limit}
	if status != "" {
		where = " WHERE cm.status = $1"
		countArgs = append(countArgs, status)
		listArgs = []any{status, offset, limit}
	}

	var total int
	err := s.db.QueryRow("SELECT COUNT(*)"+commentFrom+where, countArgs...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	offsetArg, limitArg := "$1", "$2"
	if status != "" {
		offsetArg, limitArg = "$2", "$3"
	}
	rows, err := s.db.Query(
		"SELECT "+commentColumns+commentFrom+where+
			" ORDER BY cm.created_at DESC OFFSET "+offsetArg+" LIMIT "+limitArg,
		listArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// UpdateContent replaces a comment's content. Editing into a byte-identical
// duplicate of another comment by the same author on the same post trips
// the unique index and yields Conflict.
func (s *CommentStore) UpdateContent(id uuid.UUID, content string) error {
	_, err := s.db.Exec(`UPDATE comments SET content = $1 WHERE id = $2`, content, id)
	if err != nil {
		if translated := translateUnique(err); translated != err {
			return translated
		}
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// UpdateStatus moves a comment to the given moderation status. All
// transitions are legal.
func (s *CommentStore) UpdateStatus(id uuid.UUID, status models.CommentStatus) error {
	_, err := s.db.Exec(`UPDATE comments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update comment status: %w", err)
	}
	return nil
}

// DeleteWithReplies removes a comment and every direct reply to it in one
// atomic statement.
func (s *CommentStore) DeleteWithReplies(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1 OR parent_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
