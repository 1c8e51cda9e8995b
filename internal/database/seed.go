package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin account and a starter category so posts can be created right away.
// It is a no-op when users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, "admin", "admin@inkpress.local", string(hash), "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
	`, "General", "general", "Uncategorized posts")
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"username", "admin",
		"password", "admin",
	)

	return nil
}
