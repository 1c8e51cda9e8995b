// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkpress/internal/middleware"
	"inkpress/internal/service"
)

// Auth groups the authentication and user management HTTP handlers.
type Auth struct {
	auth *service.Auth
}

// NewAuth creates a new Auth handler group.
func NewAuth(auth *service.Auth) *Auth {
	return &Auth{auth: auth}
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TOTPCode string `json:"totp_code"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    body.Email,
		Password: body.Password,
		TOTPCode: body.TOTPCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/auth/logout. Requires authentication.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.TokenFromCtx(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me. Requires authentication.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(middleware.ActorFromCtx(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// TwoFASetup handles POST /api/auth/2fa/setup. Admin only.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	setup, err := h.auth.Setup2FA(middleware.ActorFromCtx(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setup)
}

// TwoFAVerify handles POST /api/auth/2fa/verify. Admin only.
func (h *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Verify2FA(middleware.ActorFromCtx(r.Context()), body.Code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "two-factor enabled"})
}

// ListUsers handles GET /api/users. Admin only.
func (h *Auth) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(middleware.ActorFromCtx(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SetRole handles PATCH /api/users/{id}/role. Admin only.
func (h *Auth) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.SetRole(middleware.ActorFromCtx(r.Context()), id, body.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetPassword handles PATCH /api/users/{id}/password. Admin only.
func (h *Auth) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.SetPassword(middleware.ActorFromCtx(r.Context()), id, body.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
