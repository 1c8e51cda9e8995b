// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"inkpress/internal/models"
	"inkpress/internal/policy"
	"inkpress/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ActorKey is the context key for the authenticated actor.
	ActorKey contextKey = "actor"
	// TokenKey is the context key for the raw bearer token.
	TokenKey contextKey = "token"
)

// LoadActor resolves the bearer token from the Authorization header against
// Valkey and stores the resulting actor in the request context. It does NOT
// enforce authentication: an absent or unknown token simply leaves the
// request anonymous.
func LoadActor(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			data, err := store.Get(r.Context(), token)
			if err != nil || data == nil {
				// Unknown or expired token; treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			actor := &policy.Actor{
				ID:       data.UserID,
				Username: data.Username,
				Role:     models.Role(data.Role),
			}
			ctx := context.WithValue(r.Context(), ActorKey, actor)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Must be applied after
// LoadActor in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFromCtx(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActorFromCtx(r.Context()).IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"admin role required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ActorFromCtx extracts the actor from the request context. Returns nil for
// anonymous requests.
func ActorFromCtx(ctx context.Context) *policy.Actor {
	actor, _ := ctx.Value(ActorKey).(*policy.Actor)
	return actor
}

// TokenFromCtx extracts the raw bearer token from the request context.
func TokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

// bearerToken pulls the token out of an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
