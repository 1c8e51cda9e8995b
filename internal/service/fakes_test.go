// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
	"inkpress/internal/policy"
	"inkpress/internal/session"
	"inkpress/internal/store"
)

// The fakes below satisfy the store interfaces with plain maps so the
// services can be exercised without Postgres or Valkey.

type fakeClock struct {
	seq  int
	base time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{base: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) next() time.Time {
	c.seq++
	return c.base.Add(time.Duration(c.seq) * time.Minute)
}

func adminActor() *policy.Actor {
	return &policy.Actor{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin}
}

func userActor() *policy.Actor {
	return &policy.Actor{ID: uuid.New(), Username: "reader", Role: models.RoleUser}
}

// --- categories ---

type fakeCategoryStore struct {
	items map[uuid.UUID]*models.Category
	posts map[uuid.UUID]int
	clock *fakeClock
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		items: map[uuid.UUID]*models.Category{},
		posts: map[uuid.UUID]int{},
		clock: newFakeClock(),
	}
}

func (f *fakeCategoryStore) add(name, categorySlug string) *models.Category {
	c := &models.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      categorySlug,
		CreatedAt: f.clock.next(),
	}
	f.items[c.ID] = c
	return c
}

func (f *fakeCategoryStore) List() ([]models.Category, error) {
	out := make([]models.Category, 0, len(f.items))
	for _, c := range f.items {
		cc := *c
		cc.PostCount = f.posts[c.ID]
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cc := *c
	return &cc, nil
}

func (f *fakeCategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	for _, c := range f.items {
		if c.Slug == categorySlug {
			cc := *c
			return &cc, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryStore) Create(c *models.Category) (*models.Category, error) {
	for _, existing := range f.items {
		if existing.Slug == c.Slug {
			return nil, apperr.Conflict("a category with this name already exists")
		}
	}
	cc := *c
	cc.ID = uuid.New()
	cc.CreatedAt = f.clock.next()
	f.items[cc.ID] = &cc
	out := cc
	return &out, nil
}

func (f *fakeCategoryStore) Update(c *models.Category) error {
	for id, existing := range f.items {
		if id != c.ID && existing.Slug == c.Slug {
			return apperr.Conflict("a category with this name already exists")
		}
	}
	if _, ok := f.items[c.ID]; !ok {
		return fmt.Errorf("update category: not found")
	}
	cc := *c
	cc.UpdatedAt = f.clock.next()
	f.items[c.ID] = &cc
	return nil
}

func (f *fakeCategoryStore) Delete(id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeCategoryStore) HasPosts(id uuid.UUID) (bool, error) {
	return f.posts[id] > 0, nil
}

// --- posts ---

type fakePostStore struct {
	items map[uuid.UUID]*models.Post
	clock *fakeClock

	// raceSlugs fails Create with ErrSlugTaken n times per slug, simulating
	// a concurrent writer claiming the slug between the pre-check and the
	// insert.
	raceSlugs map[string]int
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		items:     map[uuid.UUID]*models.Post{},
		clock:     newFakeClock(),
		raceSlugs: map[string]int{},
	}
}

func (f *fakePostStore) add(title, postSlug string, categoryID uuid.UUID, status models.PostStatus) *models.Post {
	p := &models.Post{
		ID:         uuid.New(),
		Title:      title,
		Content:    "content of " + title,
		Excerpt:    "excerpt",
		Slug:       postSlug,
		AuthorID:   uuid.New(),
		CategoryID: categoryID,
		Status:     status,
		CreatedAt:  f.clock.next(),
	}
	f.items[p.ID] = p
	return p
}

func (f *fakePostStore) List(filter store.ListFilter) ([]models.Post, int, error) {
	var matched []models.Post
	for _, p := range f.items {
		if filter.Status != "" && string(p.Status) != filter.Status {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			hay := strings.ToLower(p.Title + " " + p.Content + " " + strings.Join(p.Tags, ","))
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		matched = append(matched, *p)
	}

	asc := filter.SortOrder == "asc"
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "title":
			less = matched[i].Title < matched[j].Title
		case "views":
			less = matched[i].Views < matched[j].Views
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})

	total := len(matched)
	if filter.Offset >= total {
		return []models.Post{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (f *fakePostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	pp := *p
	return &pp, nil
}

func (f *fakePostStore) FindBySlug(postSlug string) (*models.Post, error) {
	for _, p := range f.items {
		if p.Slug == postSlug {
			pp := *p
			return &pp, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) SlugExists(postSlug string, exclude uuid.UUID) (bool, error) {
	for id, p := range f.items {
		if id != exclude && p.Slug == postSlug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostStore) TitleExists(title string, exclude uuid.UUID) (bool, error) {
	for id, p := range f.items {
		if id != exclude && p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostStore) Create(p *models.Post) (*models.Post, error) {
	if n := f.raceSlugs[p.Slug]; n > 0 {
		f.raceSlugs[p.Slug] = n - 1
		return nil, fmt.Errorf("insert post: %w", store.ErrSlugTaken)
	}
	for _, existing := range f.items {
		if existing.Slug == p.Slug {
			return nil, fmt.Errorf("insert post: %w", store.ErrSlugTaken)
		}
		if existing.Title == p.Title {
			return nil, apperr.Conflict("a post with this title already exists")
		}
	}
	pp := *p
	pp.ID = uuid.New()
	pp.CreatedAt = f.clock.next()
	pp.UpdatedAt = pp.CreatedAt
	f.items[pp.ID] = &pp
	out := pp
	return &out, nil
}

func (f *fakePostStore) Update(p *models.Post) error {
	if _, ok := f.items[p.ID]; !ok {
		return fmt.Errorf("update post: not found")
	}
	for id, existing := range f.items {
		if id != p.ID && existing.Slug == p.Slug {
			return fmt.Errorf("update post: %w", store.ErrSlugTaken)
		}
	}
	pp := *p
	pp.UpdatedAt = f.clock.next()
	f.items[p.ID] = &pp
	return nil
}

func (f *fakePostStore) Delete(id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakePostStore) IncrementViews(id uuid.UUID) (int, error) {
	p, ok := f.items[id]
	if !ok {
		return 0, fmt.Errorf("increment views: not found")
	}
	p.Views++
	return p.Views, nil
}

// --- comments ---

type fakeCommentStore struct {
	items map[uuid.UUID]*models.Comment
	clock *fakeClock
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{
		items: map[uuid.UUID]*models.Comment{},
		clock: newFakeClock(),
	}
}

func (f *fakeCommentStore) add(postID, authorID uuid.UUID, parentID *uuid.UUID, content string, status models.CommentStatus) *models.Comment {
	c := &models.Comment{
		ID:        uuid.New(),
		Content:   content,
		AuthorID:  authorID,
		PostID:    postID,
		ParentID:  parentID,
		Status:    status,
		CreatedAt: f.clock.next(),
	}
	f.items[c.ID] = c
	return c
}

func (f *fakeCommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cc := *c
	return &cc, nil
}

func (f *fakeCommentStore) Create(c *models.Comment) (*models.Comment, error) {
	for _, existing := range f.items {
		if existing.AuthorID == c.AuthorID && existing.PostID == c.PostID && existing.Content == c.Content {
			return nil, apperr.Conflict("you have already posted this comment")
		}
	}
	cc := *c
	cc.ID = uuid.New()
	cc.CreatedAt = f.clock.next()
	f.items[cc.ID] = &cc
	out := cc
	return &out, nil
}

func (f *fakeCommentStore) ExistsDuplicate(authorID, postID uuid.UUID, content string) (bool, error) {
	for _, c := range f.items {
		if c.AuthorID == authorID && c.PostID == postID && c.Content == content {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCommentStore) ListApprovedRoots(postID uuid.UUID, offset, limit int) ([]models.Comment, int, error) {
	var roots []models.Comment
	for _, c := range f.items {
		if c.PostID == postID && c.ParentID == nil && c.Status == models.CommentStatusApproved {
			roots = append(roots, *c)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].CreatedAt.After(roots[j].CreatedAt) })
	total := len(roots)
	if offset >= total {
		return []models.Comment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return roots[offset:end], total, nil
}

func (f *fakeCommentStore) ListApprovedReplies(parentID uuid.UUID) ([]models.Comment, error) {
	var replies []models.Comment
	for _, c := range f.items {
		if c.ParentID != nil && *c.ParentID == parentID && c.Status == models.CommentStatusApproved {
			replies = append(replies, *c)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].CreatedAt.Before(replies[j].CreatedAt) })
	return replies, nil
}

func (f *fakeCommentStore) ListAll(status models.CommentStatus, offset, limit int) ([]models.Comment, int, error) {
	var matched []models.Comment
	for _, c := range f.items {
		if status != "" && c.Status != status {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if offset >= total {
		return []models.Comment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeCommentStore) UpdateContent(id uuid.UUID, content string) error {
	c, ok := f.items[id]
	if !ok {
		return fmt.Errorf("update comment: not found")
	}
	for _, existing := range f.items {
		if existing.ID != id && existing.AuthorID == c.AuthorID && existing.PostID == c.PostID && existing.Content == content {
			return apperr.Conflict("you have already posted this comment")
		}
	}
	c.Content = content
	return nil
}

func (f *fakeCommentStore) UpdateStatus(id uuid.UUID, status models.CommentStatus) error {
	c, ok := f.items[id]
	if !ok {
		return fmt.Errorf("update comment status: not found")
	}
	c.Status = status
	return nil
}

func (f *fakeCommentStore) DeleteWithReplies(id uuid.UUID) error {
	for cid, c := range f.items {
		if cid == id || (c.ParentID != nil && *c.ParentID == id) {
			delete(f.items, cid)
		}
	}
	return nil
}

// --- users ---

type fakeUserStore struct {
	items     map[uuid.UUID]*models.User
	passwords map[uuid.UUID]string
	clock     *fakeClock
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		items:     map[uuid.UUID]*models.User{},
		passwords: map[uuid.UUID]string{},
		clock:     newFakeClock(),
	}
}

func (f *fakeUserStore) add(username, email, password string, role models.Role) *models.User {
	u := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: f.clock.next(),
	}
	f.items[u.ID] = u
	f.passwords[u.ID] = password
	return u
}

func (f *fakeUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	uu := *u
	return &uu, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			uu := *u
			return &uu, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByUsername(username string) (*models.User, error) {
	for _, u := range f.items {
		if u.Username == username {
			uu := *u
			return &uu, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) List() ([]models.User, error) {
	out := make([]models.User, 0, len(f.items))
	for _, u := range f.items {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUserStore) Create(username, email, password string, role models.Role) (*models.User, error) {
	for _, u := range f.items {
		if u.Username == username {
			return nil, apperr.Conflict("this username is already taken")
		}
		if u.Email == email {
			return nil, apperr.Conflict("an account with this email already exists")
		}
	}
	u := f.add(username, email, password, role)
	uu := *u
	return &uu, nil
}

func (f *fakeUserStore) UpdateRole(id uuid.UUID, role models.Role) error {
	u, ok := f.items[id]
	if !ok {
		return fmt.Errorf("update role: not found")
	}
	u.Role = role
	return nil
}

func (f *fakeUserStore) UpdatePassword(id uuid.UUID, password string) error {
	if _, ok := f.items[id]; !ok {
		return fmt.Errorf("update password: not found")
	}
	f.passwords[id] = password
	return nil
}

func (f *fakeUserStore) SetTOTPSecret(id uuid.UUID, secret string) error {
	u, ok := f.items[id]
	if !ok {
		return fmt.Errorf("set totp secret: not found")
	}
	u.TOTPSecret = &secret
	return nil
}

func (f *fakeUserStore) EnableTOTP(id uuid.UUID) error {
	u, ok := f.items[id]
	if !ok {
		return fmt.Errorf("enable totp: not found")
	}
	u.TOTPEnabled = true
	return nil
}

func (f *fakeUserStore) CheckPassword(user *models.User, password string) bool {
	return f.passwords[user.ID] == password
}

// --- tokens ---

type fakeTokenStore struct {
	tokens map[string]*session.Data
	seq    int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*session.Data{}}
}

func (f *fakeTokenStore) Create(_ context.Context, data *session.Data) (string, error) {
	f.seq++
	token := fmt.Sprintf("token-%d", f.seq)
	d := *data
	f.tokens[token] = &d
	return token, nil
}

func (f *fakeTokenStore) Destroy(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}
