package database

import (
	"context"
	"embed"
	"io/fs"
	"testing"
	"time"
)

//go:embed testdata/*.sql
var testdataFS embed.FS

func testMigrations(t *testing.T) fs.FS {
	t.Helper()
	sub, err := fs.Sub(testdataFS, "testdata")
	if err != nil {
		t.Fatalf("fs.Sub() error = %v", err)
	}
	return sub
}

func TestMigrate(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, testMigrations(t)); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	if _, err := db.ExecContext(ctx,
		"INSERT INTO widgets (name, colour) VALUES (?, ?)", "relay", "red",
	); err != nil {
		t.Fatalf("insert after migrate: %v", err)
	}

	applied, err := db.AppliedVersions(ctx)
	if err != nil {
		t.Fatalf("AppliedVersions() error = %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("expected 2 applied migrations, got %d", len(applied))
	}
	if !applied["20260101_000000"] || !applied["20260102_000000"] {
		t.Errorf("unexpected applied set %v", applied)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := db.Migrate(ctx, testMigrations(t)); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i+1, err)
		}
	}
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations(testMigrations(t))
	if err != nil {
		t.Fatalf("LoadMigrations() error = %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 up migrations, got %d", len(migrations))
	}
	if migrations[0].Version != "20260101_000000" {
		t.Errorf("first version = %q", migrations[0].Version)
	}
	if migrations[1].Name != "20260102_000000_widgets_colour.up.sql" {
		t.Errorf("second name = %q", migrations[1].Name)
	}

	none, err := LoadMigrations(nil)
	if err != nil || none != nil {
		t.Errorf("LoadMigrations(nil) = %v, %v", none, err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name    string
		version string
		ok      bool
	}{
		{"20260101_120000_journal.up.sql", "20260101_120000", true},
		{"20260101_120000.up.sql", "20260101_120000", true},
		{"20260101_120000_journal.down.sql", "", false},
		{"20260101_120000_journal.sql", "", false},
		{"2026_01_journal.up.sql", "", false},
		{"notes.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, ok := parseMigrationFilename(tt.name)
			if ok != tt.ok || version != tt.version {
				t.Errorf("parseMigrationFilename(%q) = %q, %v; want %q, %v",
					tt.name, version, ok, tt.version, tt.ok)
			}
		})
	}
}
