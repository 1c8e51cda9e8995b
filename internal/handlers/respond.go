// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API on top of the service
// layer. Handlers decode and parse the request, call one service
// operation, and translate the result (or error) to a response; no
// business rules live here.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/apperr"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError maps an application error to its HTTP status. Storage errors
// are logged and reported generically so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: appErr.Msg, Fields: appErr.Fields})
	case apperr.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Error: appErr.Msg})
	case apperr.KindForbidden:
		writeJSON(w, http.StatusForbidden, errorBody{Error: appErr.Msg})
	case apperr.KindConflict:
		writeJSON(w, http.StatusConflict, errorBody{Error: appErr.Msg})
	case apperr.KindUnauthenticated:
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: appErr.Msg})
	default:
		slog.Error("storage error", "error", appErr)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeJSON parses the request body into dst, treating malformed input as
// a validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body", map[string]string{
			"body": "Request body must be valid JSON.",
		})
	}
	return nil
}

// pathID parses the named URL parameter as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid identifier", map[string]string{
			name: "Must be a valid UUID.",
		})
	}
	return id, nil
}
