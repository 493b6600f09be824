package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	dir := repoMigrationsDir(t)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", e.Name(), err)
		}
		s := string(b)
		up := strings.Index(s, "-- +goose Up")
		down := strings.Index(s, "-- +goose Down")
		if up < 0 {
			t.Fatalf("%s missing '-- +goose Up'", e.Name())
		}
		if down < 0 {
			t.Fatalf("%s missing '-- +goose Down'", e.Name())
		}
		if down < up {
			t.Fatalf("%s has Down before Up", e.Name())
		}
	}
}

func TestSQLMigrations_BooksSchema(t *testing.T) {
	b, err := os.ReadFile(filepath.Join(repoMigrationsDir(t), "00001_init.sql"))
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		"CONSTRAINT books_isbn_unique UNIQUE (isbn)",
		"price               numeric(10,2) NOT NULL DEFAULT 0",
		"themes              text[] NOT NULL DEFAULT '{}'",
		"CREATE TABLE IF NOT EXISTS revoked_sessions",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("init migration missing %q", want)
		}
	}
}
