package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestProductsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_products.sql")

	checks := []string{
		"CREATE TYPE product_type AS ENUM ('ring', 'necklace', 'earring', 'bracelet', 'bangle')",
		"CREATE TYPE product_material AS ENUM ('gold', 'silver', 'platinum', 'rose-gold')",
		"CREATE TYPE product_occasion AS ENUM ('bridal', 'festive', 'daily', 'gifting')",
		"CREATE TABLE IF NOT EXISTS products",
		"CHECK (stock >= 0)",
		// bulk-imported rows carry no prices, so zero must satisfy the checks
		"min_price_cents bigint NOT NULL DEFAULT 0 CHECK (min_price_cents >= 0)",
		"CHECK (max_price_cents >= min_price_cents)",
		"slug varchar(200) UNIQUE NOT NULL",
		"is_deleted boolean NOT NULL DEFAULT FALSE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestWishlistsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_wishlists.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS wishlists",
		"PRIMARY KEY (user_id, product_id)",
		"CREATE TABLE IF NOT EXISTS user_push_tokens",
		"UNIQUE (user_id, expo_push_token)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEveryMigrationHasDown(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no migrations found")
	}

	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			t.Fatalf("read %s: %v", m, err)
		}
		content := string(data)
		if !strings.Contains(content, "-- +goose Up") {
			t.Errorf("%s missing goose Up marker", m)
		}
		if !strings.Contains(content, "-- +goose Down") {
			t.Errorf("%s missing goose Down marker", m)
		}
	}
}
