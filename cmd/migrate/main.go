package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/joho/godotenv"
)

const migrationsDir = "cmd/migrate/migrations"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cmd := flag.String("cmd", "up", "goose command: up|down|status|version")
	dir := flag.String("dir", migrationsDir, "migrations directory")
	flag.Parse()

	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		log.Fatal("DB_ADDR is required")
	}

	db, err := sql.Open("postgres", addr)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("set goose dialect: %v", err)
	}

	ctx := context.Background()
	if err := goose.RunContext(ctx, *cmd, db, *dir); err != nil {
		log.Fatalf("goose %s: %v", *cmd, err)
	}
}
