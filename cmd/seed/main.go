package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/virenradadiya3/todo/config"
	"github.com/virenradadiya3/todo/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "password123"
	name := "demoUser"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", id, email, name, password)

	titles := []struct {
		title  string
		status string
	}{
		{"Buy groceries", "notStarted"},
		{"Write project report", "ongoing"},
		{"Pay electricity bill", "finished"},
	}
	for _, t := range titles {
		if _, err := db.Exec(`
			INSERT INTO tasks (owner_id, title, status)
			VALUES ($1, $2, $3)
		`, id, t.title, t.status); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.title, err)
		}
	}
	fmt.Printf("seeded %d tasks for %s\n", len(titles), email)
}
