// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanPosts removes test posts by slug. Comments cascade.
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, postSlug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", postSlug)
	}
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, categorySlug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", categorySlug)
	}
}

// fixtureUser creates a throwaway user for tests that need an author.
func fixtureUser(t *testing.T, db *sql.DB, name string) *models.User {
	t.Helper()
	s := NewUserStore(db)
	email := name + "@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(name, email, "testpass123", models.RoleUser)
	if err != nil {
		t.Fatalf("fixture user: %v", err)
	}
	return user
}

// fixtureCategory creates a throwaway category for post tests.
func fixtureCategory(t *testing.T, db *sql.DB, name, categorySlug string) *models.Category {
	t.Helper()
	s := NewCategoryStore(db)
	t.Cleanup(func() { cleanCategories(t, db, categorySlug) })

	category, err := s.Create(&models.Category{Name: name, Slug: categorySlug})
	if err != nil {
		t.Fatalf("fixture category: %v", err)
	}
	return category
}

// fixturePost creates a throwaway post owned by author in category.
func fixturePost(t *testing.T, db *sql.DB, title, postSlug string, authorID, categoryID uuid.UUID, status models.PostStatus) *models.Post {
	t.Helper()
	s := NewPostStore(db)
	t.Cleanup(func() { cleanPosts(t, db, postSlug) })

	post, err := s.Create(&models.Post{
		Title:      title,
		Content:    "content for " + title,
		Excerpt:    "excerpt",
		Slug:       postSlug,
		AuthorID:   authorID,
		CategoryID: categoryID,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("fixture post: %v", err)
	}
	return post
}
