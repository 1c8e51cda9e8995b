// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service implements the application core: post lifecycle,
// category management, comment threading and moderation, and account
// operations. Every mutating operation runs the authorization policy as
// its first gate, then validates its input, and only then touches the
// store — so a denied or invalid request produces no partial writes.
//
// Services accept small store interfaces (satisfied by internal/store)
// and return model structs, keeping the core testable without a database.
package service

// Pagination defaults shared by the listing operations.
const (
	defaultPage    = 1
	defaultLimit   = 10
	maxLimit       = 100
	adminPageLimit = 20
)

// normalizePage clamps page/limit to sane values and returns the offset.
func normalizePage(page, limit, fallbackLimit int) (int, int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = fallbackLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

// totalPages computes the page count for a total and limit.
func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
