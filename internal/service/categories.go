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
	"inkpress/internal/slug"
)

// CategoryStore is the persistence surface the category service needs.
type CategoryStore interface {
	List() ([]models.Category, error)
	FindByID(id uuid.UUID) (*models.Category, error)
	FindBySlug(categorySlug string) (*models.Category, error)
	Create(c *models.Category) (*models.Category, error)
	Update(c *models.Category) error
	Delete(id uuid.UUID) error
	HasPosts(id uuid.UUID) (bool, error)
}

// Categories manages the category entity. Category slugs are a pure
// projection of the name: a collision with another category is a
// Conflict, never auto-resolved with a suffix.
type Categories struct {
	categories CategoryStore
}

// NewCategories creates the category service.
func NewCategories(categories CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// List returns all categories with published post counts.
func (s *Categories) List() ([]models.Category, error) {
	items, err := s.categories.List()
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if items == nil {
		items = []models.Category{}
	}
	return items, nil
}

// GetBySlug returns a single category by slug.
func (s *Categories) GetBySlug(categorySlug string) (*models.Category, error) {
	category, err := s.categories.FindBySlug(categorySlug)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

// CategoryInput carries category create fields.
type CategoryInput struct {
	Name        string
	Description string
}

// validateCategory checks the name and description limits.
func validateCategory(name, description string) map[string]string {
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "Name is required."
	} else if utf8.RuneCountInString(name) > maxCategoryLen {
		fields["name"] = "Name is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescLen {
		fields["description"] = "Description is too long (max 200 characters)."
	}
	return fields
}

// Create validates and stores a new category. Admin only.
func (s *Categories) Create(actor *policy.Actor, in CategoryInput) (*models.Category, error) {
	if err := policy.CanManageCategories(actor); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if fields := validateCategory(in.Name, in.Description); len(fields) > 0 {
		return nil, apperr.Validation("invalid category", fields)
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slug.Generate(in.Name),
		Description: in.Description,
	}

	created, err := s.categories.Create(category)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Storage(err)
	}
	return created, nil
}

// UpdateCategoryInput is a partial-field merge: nil leaves a field
// unchanged.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// Update applies a partial update. The slug is recomputed only when the
// name changes.
func (s *Categories) Update(actor *policy.Actor, id uuid.UUID, in UpdateCategoryInput) (*models.Category, error) {
	if err := policy.CanManageCategories(actor); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != category.Name {
			category.Name = name
			category.Slug = slug.Generate(name)
		}
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	if fields := validateCategory(category.Name, category.Description); len(fields) > 0 {
		return nil, apperr.Validation("invalid category", fields)
	}

	if err := s.categories.Update(category); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Storage(err)
	}
	return s.categories.FindByID(id)
}

// Delete removes a category. Admin only. A category that still has posts
// cannot be removed.
func (s *Categories) Delete(actor *policy.Actor, id uuid.UUID) error {
	if err := policy.CanManageCategories(actor); err != nil {
		return err
	}

	category, err := s.categories.FindByID(id)
	if err != nil {
		return apperr.Storage(err)
	}
	if category == nil {
		return apperr.NotFound("category not found")
	}

	inUse, err := s.categories.HasPosts(id)
	if err != nil {
		return apperr.Storage(err)
	}
	if inUse {
		return apperr.Conflict("category still has posts")
	}

	if err := s.categories.Delete(id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}
