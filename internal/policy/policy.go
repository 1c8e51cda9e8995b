// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package policy is the authorization matrix: pure decision functions over
// (actor, target, action). It performs no I/O; services call it as the
// first gate before touching the store.
package policy

import (
	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
)

// Actor is the identity performing an operation. A nil *Actor means the
// request is anonymous.
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     models.Role
}

// IsAdmin reports whether the actor carries the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// CanManagePosts allows post create/update/delete. Admin only, regardless
// of actor identity.
func CanManagePosts(a *Actor) error {
	if !a.IsAdmin() {
		return apperr.Forbidden("managing posts requires the admin role")
	}
	return nil
}

// CanManageCategories allows category create/update/delete. Admin only.
func CanManageCategories(a *Actor) error {
	if !a.IsAdmin() {
		return apperr.Forbidden("managing categories requires the admin role")
	}
	return nil
}

// CanCreateComment allows comment creation on any post for any
// authenticated actor.
func CanCreateComment(a *Actor) error {
	if a == nil {
		return apperr.Unauthenticated("authentication required to comment")
	}
	return nil
}

// CanModifyComment allows update/delete of a comment by its author or an
// admin.
func CanModifyComment(a *Actor, authorID uuid.UUID) error {
	if a == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if a.ID != authorID && !a.IsAdmin() {
		return apperr.Forbidden("only the comment author or an admin may modify a comment")
	}
	return nil
}

// CanModerateComments allows moderation status transitions and the
// unfiltered admin listing. Admin only.
func CanModerateComments(a *Actor) error {
	if !a.IsAdmin() {
		return apperr.Forbidden("moderating comments requires the admin role")
	}
	return nil
}

// CanManageUsers allows listing users and changing roles. Admin only.
func CanManageUsers(a *Actor) error {
	if !a.IsAdmin() {
		return apperr.Forbidden("managing users requires the admin role")
	}
	return nil
}

// CanViewPost reports whether the actor may read the given post. Drafts
// are visible to admins only.
func CanViewPost(a *Actor, p *models.Post) bool {
	return p.IsPublished() || a.IsAdmin()
}

// CanListAllStatuses reports whether the actor may disable the published
// status filter on listings.
func CanListAllStatuses(a *Actor) bool {
	return a.IsAdmin()
}
