package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestMigrateUp(t *testing.T) {
	t.Run("fresh database", func(t *testing.T) {
		db := newTestDB(t)

		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}

		for _, table := range []string{"pets", "medicines", "stores", "pet_medicines"} {
			var name string
			err := db.QueryRow(
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
				table).Scan(&name)
			if err != nil {
				t.Errorf("table %q not found: %v", table, err)
			}
		}
	})

	t.Run("already migrated", func(t *testing.T) {
		db := newTestDB(t)

		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}
		if err := MigrateUp(db); err != nil {
			t.Errorf("second MigrateUp() error = %v", err)
		}
	})
}

func TestCheckDBMigrationStatus(t *testing.T) {
	t.Run("unmigrated database", func(t *testing.T) {
		db := newTestDB(t)

		if err := CheckDBMigrationStatus(db); err == nil {
			t.Error("CheckDBMigrationStatus() expected error on unmigrated database")
		}
	})

	t.Run("fully migrated database", func(t *testing.T) {
		db := newTestDB(t)

		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}
		if err := CheckDBMigrationStatus(db); err != nil {
			t.Errorf("CheckDBMigrationStatus() error = %v", err)
		}
	})
}

func TestStepName(t *testing.T) {
	tests := []struct {
		version uint
		want    string
	}{
		{1, "pets table"},
		{2, "medicines table"},
		{3, "stores table"},
		{4, "pet_medicines table"},
		{99, "migration 99"},
	}
	for _, tt := range tests {
		if got := StepName(tt.version); got != tt.want {
			t.Errorf("StepName(%d) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestFailedStep(t *testing.T) {
	t.Run("unmigrated database points at the first step", func(t *testing.T) {
		db := newTestDB(t)

		if got := FailedStep(db); got != "pets table" {
			t.Errorf("FailedStep() = %q, want %q", got, "pets table")
		}
	})
}
