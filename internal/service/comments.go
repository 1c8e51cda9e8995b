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
)

const maxCommentLen = 1000

// defaultCommentStatus is the moderation state assigned on creation.
// Approved means comments are visible immediately; a moderated deployment
// can switch this to pending without touching the state machine.
const defaultCommentStatus = models.CommentStatusApproved

// CommentStore is the persistence surface the comment service needs.
type CommentStore interface {
	FindByID(id uuid.UUID) (*models.Comment, error)
	Create(c *models.Comment) (*models.Comment, error)
	ExistsDuplicate(authorID, postID uuid.UUID, content string) (bool, error)
	ListApprovedRoots(postID uuid.UUID, offset, limit int) ([]models.Comment, int, error)
	ListApprovedReplies(parentID uuid.UUID) ([]models.Comment, error)
	ListAll(status models.CommentStatus, offset, limit int) ([]models.Comment, int, error)
	UpdateContent(id uuid.UUID, content string) error
	UpdateStatus(id uuid.UUID, status models.CommentStatus) error
	DeleteWithReplies(id uuid.UUID) error
}

// PostFinder resolves the post a comment belongs to.
type PostFinder interface {
	FindByID(id uuid.UUID) (*models.Post, error)
}

// Comments implements the threading engine: two-level root/reply
// structure, duplicate suppression, moderation transitions, and cascade
// deletion.
type Comments struct {
	comments CommentStore
	posts    PostFinder
}

// NewComments creates the comment service.
func NewComments(comments CommentStore, posts PostFinder) *Comments {
	return &Comments{comments: comments, posts: posts}
}

// CommentList is a paginated comment listing.
type CommentList struct {
	Comments    []models.Comment `json:"comments"`
	Total       int              `json:"total"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
}

// ListForPost returns the approved discussion for a post: root comments
// newest first, each carrying its approved replies oldest first.
func (s *Comments) ListForPost(postID uuid.UUID, page, limit int) (*CommentList, error) {
	page, limit, offset := normalizePage(page, limit, defaultLimit)

	roots, total, err := s.comments.ListApprovedRoots(postID, offset, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	for i := range roots {
		replies, err := s.comments.ListApprovedReplies(roots[i].ID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		roots[i].Replies = replies
	}
	if roots == nil {
		roots = []models.Comment{}
	}

	return &CommentList{
		Comments:    roots,
		Total:       total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// CreateCommentInput carries the fields for a new comment.
type CreateCommentInput struct {
	Content  string
	PostID   uuid.UUID
	ParentID *uuid.UUID
}

// Create validates and stores a new comment. Any authenticated actor may
// comment on any post. A reply to a reply is flattened to the ultimate
// root so only one nesting level ever materializes.
func (s *Comments) Create(actor *policy.Actor, in CreateCommentInput) (*models.Comment, error) {
	if err := policy.CanCreateComment(actor); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	fields := map[string]string{}
	if content == "" {
		fields["content"] = "Comment content is required."
	} else if utf8.RuneCountInString(content) > maxCommentLen {
		fields["content"] = "Comment is too long (max 1000 characters)."
	}
	if in.PostID == uuid.Nil {
		fields["post_id"] = "Post ID is required."
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid comment", fields)
	}

	post, err := s.posts.FindByID(in.PostID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if post == nil {
		return nil, apperr.NotFound("post not found")
	}

	parentID := in.ParentID
	if parentID != nil {
		parent, err := s.comments.FindByID(*parentID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if parent == nil {
			return nil, apperr.NotFound("parent comment not found")
		}
		// Flatten: replying to a reply threads under its root.
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	// Pre-insert guard; the unique index settles concurrent duplicates.
	dup, err := s.comments.ExistsDuplicate(actor.ID, in.PostID, content)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if dup {
		return nil, apperr.Conflict("you have already posted this comment")
	}

	created, err := s.comments.Create(&models.Comment{
		Content:  content,
		AuthorID: actor.ID,
		PostID:   in.PostID,
		ParentID: parentID,
		Status:   defaultCommentStatus,
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Storage(err)
	}
	return created, nil
}

// Update replaces a comment's content. Allowed for the comment author and
// admins.
func (s *Comments) Update(actor *policy.Actor, id uuid.UUID, content string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if comment == nil {
		return nil, apperr.NotFound("comment not found")
	}

	if err := policy.CanModifyComment(actor, comment.AuthorID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("invalid comment", map[string]string{
			"content": "Comment content is required.",
		})
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, apperr.Validation("invalid comment", map[string]string{
			"content": "Comment is too long (max 1000 characters).",
		})
	}

	if err := s.comments.UpdateContent(id, content); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Storage(err)
	}
	return s.comments.FindByID(id)
}

// Delete removes a comment and every reply under it in one atomic batch.
// Allowed for the comment author and admins.
func (s *Comments) Delete(actor *policy.Actor, id uuid.UUID) error {
	comment, err := s.comments.FindByID(id)
	if err != nil {
		return apperr.Storage(err)
	}
	if comment == nil {
		return apperr.NotFound("comment not found")
	}

	if err := policy.CanModifyComment(actor, comment.AuthorID); err != nil {
		return err
	}

	if err := s.comments.DeleteWithReplies(id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListAdmin returns comments across all posts and statuses for the
// moderation view, optionally filtered by status. Admin only.
func (s *Comments) ListAdmin(actor *policy.Actor, status string, page, limit int) (*CommentList, error) {
	if err := policy.CanModerateComments(actor); err != nil {
		return nil, err
	}

	filter := models.CommentStatus(status)
	if status != "" && !filter.Valid() {
		return nil, apperr.Validation("invalid filter", map[string]string{
			"status": "Status must be pending, approved, or rejected.",
		})
	}

	page, limit, offset := normalizePage(page, limit, adminPageLimit)

	comments, total, err := s.comments.ListAll(filter, offset, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return &CommentList{
		Comments:    comments,
		Total:       total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// SetStatus moves a comment to the given moderation status. Admin only;
// every transition between the three states is legal.
func (s *Comments) SetStatus(actor *policy.Actor, id uuid.UUID, status string) (*models.Comment, error) {
	if err := policy.CanModerateComments(actor); err != nil {
		return nil, err
	}

	target := models.CommentStatus(status)
	if !target.Valid() {
		return nil, apperr.Validation("invalid status", map[string]string{
			"status": "Status must be pending, approved, or rejected.",
		})
	}

	comment, err := s.comments.FindByID(id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if comment == nil {
		return nil, apperr.NotFound("comment not found")
	}

	if err := s.comments.UpdateStatus(id, target); err != nil {
		return nil, apperr.Storage(err)
	}
	return s.comments.FindByID(id)
}
