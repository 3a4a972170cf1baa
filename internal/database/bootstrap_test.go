package database

import (
	"testing"
)

func TestInitializeAll(t *testing.T) {
	t.Run("creates all tables", func(t *testing.T) {
		store := newTestStore(t)

		db, err := store.Handle()
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
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

	t.Run("is idempotent", func(t *testing.T) {
		store := newTestStore(t)

		if err := InitializeAll(store); err != nil {
			t.Fatalf("second InitializeAll() error = %v", err)
		}
	})

	t.Run("preserves existing rows across reruns", func(t *testing.T) {
		store := newTestStore(t)

		repo := NewPetRepository(store, nil)
		if _, err := repo.InsertPet(testPet("Rex")); err != nil {
			t.Fatalf("InsertPet() error = %v", err)
		}

		if err := InitializeAll(store); err != nil {
			t.Fatalf("second InitializeAll() error = %v", err)
		}

		pets, err := repo.ListPets()
		if err != nil {
			t.Fatalf("ListPets() error = %v", err)
		}
		if len(pets) != 1 {
			t.Errorf("got %d pets after rerun, want 1", len(pets))
		}
	})
}

func TestCheckSchema(t *testing.T) {
	t.Run("passes after initialization", func(t *testing.T) {
		store := newTestStore(t)

		if err := CheckSchema(store); err != nil {
			t.Errorf("CheckSchema() error = %v", err)
		}
	})

	t.Run("fails before open", func(t *testing.T) {
		store := NewRecordStore(":memory:")

		if err := CheckSchema(store); err == nil {
			t.Error("CheckSchema() expected error on unopened store")
		}
	})
}
