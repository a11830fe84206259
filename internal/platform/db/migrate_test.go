package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMigrationsSortsAndSkips(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"002_inventory.sql": "CREATE TABLE blood_inventory (id UUID PRIMARY KEY);",
		"001_core.sql":      "CREATE TABLE donor (id UUID PRIMARY KEY);",
		"notes.txt":         "not a migration",
		"README.sql":        "-- no numeric prefix",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}

	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("migrations out of order: %v, %v", migrations[0].Version, migrations[1].Version)
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("first migration = %q, want 001_core.sql", migrations[0].Name)
	}
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/path")
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
