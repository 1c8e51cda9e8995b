// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	author := fixtureUser(t, db, "test-post-author")
	category := fixtureCategory(t, db, "Test Post Cat", "test-post-cat")
	t.Cleanup(func() { cleanPosts(t, db, "test-post-create") })

	created, err := s.Create(&models.Post{
		Title:      "Test Post Create",
		Content:    "hello world",
		Excerpt:    "hello",
		Slug:       "test-post-create",
		AuthorID:   author.ID,
		CategoryID: category.ID,
		Tags:       []string{"go", "testing"},
		Status:     models.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}

	found, err := s.FindBySlug("test-post-create")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("post not found by slug")
	}
	if found.AuthorUsername != author.Username {
		t.Errorf("author username = %q, want %q", found.AuthorUsername, author.Username)
	}
	if found.CategorySlug != category.Slug {
		t.Errorf("category slug = %q, want %q", found.CategorySlug, category.Slug)
	}
	if len(found.Tags) != 2 || found.Tags[0] != "go" {
		t.Errorf("tags = %v, want [go testing]", found.Tags)
	}
}

func TestPostStoreSlugConflict(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	author := fixtureUser(t, db, "test-slugconf-author")
	category := fixtureCategory(t, db, "Test SlugConf Cat", "test-slugconf-cat")
	fixturePost(t, db, "Test SlugConf A", "test-slugconf", author.ID, category.ID, models.PostStatusDraft)

	_, err := s.Create(&models.Post{
		Title:      "Test SlugConf B",
		Content:    "x",
		Excerpt:    "x",
		Slug:       "test-slugconf",
		AuthorID:   author.ID,
		CategoryID: category.ID,
		Status:     models.PostStatusDraft,
	})
	if !errors.Is(err, ErrSlugTaken) {
		t.Errorf("duplicate slug: err = %v, want ErrSlugTaken", err)
	}
}

func TestPostStoreListFilters(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	author := fixtureUser(t, db, "test-list-author")
	category := fixtureCategory(t, db, "Test List Cat", "test-list-cat")
	fixturePost(t, db, "Test List Published Zq", "test-list-pub", author.ID, category.ID, models.PostStatusPublished)
	fixturePost(t, db, "Test List Draft Zq", "test-list-draft", author.ID, category.ID, models.PostStatusDraft)

	// Status + category filter.
	posts, total, err := s.List(ListFilter{
		CategoryID: &category.ID,
		Status:     string(models.PostStatusPublished),
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Slug != "test-list-pub" {
		t.Errorf("published in category: total=%d posts=%v", total, posts)
	}

	// Search matches the title.
	posts, total, err = s.List(ListFilter{
		Search:     "Zq",
		CategoryID: &category.ID,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if total != 2 {
		t.Errorf("search total = %d, want 2", total)
	}
	_ = posts
}

func TestPostStoreIncrementViews(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	author := fixtureUser(t, db, "test-views-author")
	category := fixtureCategory(t, db, "Test Views Cat", "test-views-cat")
	post := fixturePost(t, db, "Test Views Post", "test-views-post", author.ID, category.ID, models.PostStatusPublished)

	views, err := s.IncrementViews(post.ID)
	if err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if views != 1 {
		t.Errorf("views = %d, want 1", views)
	}

	// The counter bump must not touch updated_at.
	found, err := s.FindByID(post.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !found.UpdatedAt.Equal(post.UpdatedAt) {
		t.Errorf("updated_at changed by view increment: %v -> %v", post.UpdatedAt, found.UpdatedAt)
	}
}

func TestPostStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	author := fixtureUser(t, db, "test-update-author")
	category := fixtureCategory(t, db, "Test Update Cat", "test-update-cat")
	post := fixturePost(t, db, "Test Update Post", "test-update-post", author.ID, category.ID, models.PostStatusDraft)

	post.Content = "revised content"
	post.Status = models.PostStatusPublished
	post.Tags = []string{"revised"}
	if err := s.Update(post); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := s.FindByID(post.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Content != "revised content" || found.Status != models.PostStatusPublished {
		t.Errorf("update not persisted: %+v", found)
	}
	if len(found.Tags) != 1 || found.Tags[0] != "revised" {
		t.Errorf("tags = %v, want [revised]", found.Tags)
	}
}

func TestSplitJoinTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"go", []string{"go"}},
		{"go, web ,  api", []string{"go", "web", "api"}},
		{" , ,", nil},
	}
	for _, tt := range tests {
		got := SplitTags(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitTags(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}

	if got := JoinTags([]string{"go", "web"}); got != "go,web" {
		t.Errorf("JoinTags = %q, want %q", got, "go,web")
	}
	if got := JoinTags(nil); got != "" {
		t.Errorf("JoinTags(nil) = %q, want empty", got)
	}
}
