// Package store provides database access methods for all inkpress
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Unique-constraint violations are translated into the Conflict
// error kind here so storage-specific error shapes never leak upward.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"inkpress/internal/apperr"
)

// ErrSlugTaken signals a write that lost a slug uniqueness race. The post
// service retries with the next numeric suffix; every other caller treats
// it as a Conflict.
var ErrSlugTaken = errors.New("slug already taken")

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// uniqueConstraint returns the violated unique constraint name, or "" when
// err is not a unique violation.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// conflictMessages maps unique constraint names to caller-facing messages.
var conflictMessages = map[string]string{
	"users_username_key":               "username already taken",
	"users_email_key":                  "email already registered",
	"categories_name_key":              "a category with this name already exists",
	"categories_slug_key":              "a category with this slug already exists",
	"posts_title_key":                  "a post with this title already exists",
	"comments_author_post_content_key": "you have already posted this comment",
}

// translateUnique converts a unique violation into the matching typed
// error. Slug races on posts get the retryable sentinel; everything else
// becomes Conflict. Non-unique errors pass through unchanged.
func translateUnique(err error) error {
	constraint := uniqueConstraint(err)
	if constraint == "" {
		return err
	}
	if constraint == "posts_slug_key" {
		return ErrSlugTaken
	}
	if msg, ok := conflictMessages[constraint]; ok {
		return apperr.Conflict(msg)
	}
	return apperr.Conflict("duplicate value")
}
