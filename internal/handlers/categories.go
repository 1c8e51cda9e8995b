// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/middleware"
	"inkpress/internal/service"
)

// Categories groups the category HTTP handlers.
type Categories struct {
	categories *service.Categories
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *service.Categories) *Categories {
	return &Categories{categories: categories}
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetBySlug handles GET /api/categories/{slug}.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// categoryPayload is the JSON body for category create requests.
type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/categories. Admin only.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var body categoryPayload
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.Create(middleware.ActorFromCtx(r.Context()), service.CategoryInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// updateCategoryPayload uses pointers so absent fields stay untouched.
type updateCategoryPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update handles PUT /api/categories/{id}. Admin only.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body updateCategoryPayload
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.Update(middleware.ActorFromCtx(r.Context()), id, service.UpdateCategoryInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}. Admin only.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.categories.Delete(middleware.ActorFromCtx(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
