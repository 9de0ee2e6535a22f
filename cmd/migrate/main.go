// Command migrate manages the firewall's Postgres schema via goose.
//
// Usage:
//
//	migrate up                 # apply all pending migrations
//	migrate down               # roll back the last migration
//	migrate status             # show applied/pending migrations
//	migrate version            # print the current schema version
//	migrate up-to <version>    # migrate up to a specific version
//	migrate down-to <version>  # roll back to a specific version
//
// DATABASE_URL selects the target database. MIGRATIONS_DIR overrides the
// default ./migrations directory.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status|version|redo|up-to N|down-to N>")
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	// Local convenience only; production sets DATABASE_URL directly.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "migrations"
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("connect to database: %v", err)
	}

	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}
