package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the SQLite database at dbPath and makes
// sure the schema exists.
func Open(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("Database initialized at: %s", dbPath)
	return database, nil
}

// createTables creates all necessary tables
func createTables(database *sql.DB) error {
	statements := []struct {
		name  string
		query string
	}{
		{"presentations table", `
		CREATE TABLE IF NOT EXISTS presentations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			user_id TEXT NOT NULL DEFAULT '',
			lesson_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`},
		{"slides table", `
		CREATE TABLE IF NOT EXISTS slides (
			presentation_id TEXT NOT NULL REFERENCES presentations(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			page_number INTEGER NOT NULL,
			PRIMARY KEY (presentation_id, id)
		);`},
		{"components table", `
		CREATE TABLE IF NOT EXISTS components (
			presentation_id TEXT NOT NULL,
			slide_id TEXT NOT NULL,
			id TEXT NOT NULL,
			component_type TEXT NOT NULL,
			z_index INTEGER NOT NULL DEFAULT 0,
			properties TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (presentation_id, slide_id, id),
			FOREIGN KEY (presentation_id, slide_id) REFERENCES slides(presentation_id, id) ON DELETE CASCADE
		);`},
		// Slide and component ids are only unique inside their presentation;
		// the primary keys already index lookups from the parent.
		{"lesson index", `CREATE INDEX IF NOT EXISTS idx_presentations_lesson ON presentations(lesson_id);`},
	}

	for _, stmt := range statements {
		if _, err := database.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}

	log.Println("Database tables created successfully")
	return nil
}
