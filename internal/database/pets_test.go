package database

import (
	"errors"
	"testing"
	"time"

	"petmed-go/internal/petmed"
)

// stubClock returns a fixed instant, advancing by step on every call.
type stubClock struct {
	now  time.Time
	step time.Duration
}

func newStubClock() *stubClock {
	return &stubClock{
		now:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		step: time.Second,
	}
}

func (c *stubClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func testPet(name string) petmed.Pet {
	return petmed.Pet{
		Name:        name,
		Breed:       "SRD",
		Age:         3,
		HasPedigree: false,
		AnimalType:  petmed.AnimalDog,
	}
}

func TestPetRepository_InsertPet(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, newStubClock())

		pet := testPet("Rex")
		pet.Photo = "file:///photos/rex.jpg"
		created, err := repo.InsertPet(pet)
		if err != nil {
			t.Fatalf("InsertPet() error = %v", err)
		}
		if created.ID == 0 {
			t.Error("InsertPet() did not assign an id")
		}
		if created.CreatedAt.IsZero() {
			t.Error("InsertPet() did not set createdAt")
		}

		found, err := repo.FindPetByID(created.ID)
		if err != nil {
			t.Fatalf("FindPetByID() error = %v", err)
		}
		if found == nil {
			t.Fatal("FindPetByID() returned nil for inserted pet")
		}
		if found.Name != "Rex" || found.Breed != "SRD" || found.Age != 3 {
			t.Errorf("unexpected pet: %+v", found)
		}
		if found.AnimalType != petmed.AnimalDog {
			t.Errorf("animal type = %q, want %q", found.AnimalType, petmed.AnimalDog)
		}
		if found.Photo != "file:///photos/rex.jpg" {
			t.Errorf("photo = %q", found.Photo)
		}
	})

	t.Run("empty photo stored as null", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, nil)

		created, err := repo.InsertPet(testPet("Mimi"))
		if err != nil {
			t.Fatalf("InsertPet() error = %v", err)
		}

		found, err := repo.FindPetByID(created.ID)
		if err != nil {
			t.Fatalf("FindPetByID() error = %v", err)
		}
		if found.Photo != "" {
			t.Errorf("photo = %q, want empty", found.Photo)
		}
	})
}

func TestPetRepository_ListPets(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, newStubClock())

		for _, name := range []string{"Rex", "Mimi", "Thor"} {
			if _, err := repo.InsertPet(testPet(name)); err != nil {
				t.Fatalf("InsertPet(%q) error = %v", name, err)
			}
		}

		pets, err := repo.ListPets()
		if err != nil {
			t.Fatalf("ListPets() error = %v", err)
		}
		if len(pets) != 3 {
			t.Fatalf("got %d pets, want 3", len(pets))
		}
		want := []string{"Thor", "Mimi", "Rex"}
		for i, name := range want {
			if pets[i].Name != name {
				t.Errorf("pets[%d].Name = %q, want %q", i, pets[i].Name, name)
			}
		}
	})

	t.Run("empty store", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, nil)

		pets, err := repo.ListPets()
		if err != nil {
			t.Fatalf("ListPets() error = %v", err)
		}
		if len(pets) != 0 {
			t.Errorf("got %d pets, want 0", len(pets))
		}
	})
}

func TestPetRepository_FindPetByID(t *testing.T) {
	t.Run("unknown id returns nil", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, nil)

		pet, err := repo.FindPetByID(9999)
		if err != nil {
			t.Fatalf("FindPetByID() error = %v", err)
		}
		if pet != nil {
			t.Errorf("FindPetByID() = %+v, want nil", pet)
		}
	})
}

func TestPetRepository_UpdatePet(t *testing.T) {
	t.Run("partial update leaves other fields intact", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, nil)

		created, err := repo.InsertPet(testPet("Rex"))
		if err != nil {
			t.Fatalf("InsertPet() error = %v", err)
		}

		age := 5
		err = repo.UpdatePet(created.ID, petmed.PetUpdate{Age: &age})
		if err != nil {
			t.Fatalf("UpdatePet() error = %v", err)
		}

		found, err := repo.FindPetByID(created.ID)
		if err != nil {
			t.Fatalf("FindPetByID() error = %v", err)
		}
		if found.Age != 5 {
			t.Errorf("age = %d, want 5", found.Age)
		}
		if found.Name != "Rex" || found.Breed != "SRD" {
			t.Errorf("untouched fields changed: %+v", found)
		}
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, nil)

		err := repo.UpdatePet(1, petmed.PetUpdate{})
		var verr *petmed.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("UpdatePet() error = %v, want *ValidationError", err)
		}
	})
}

func TestPetRepository_DeletePet(t *testing.T) {
	t.Run("removes the row", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, nil)

		created, err := repo.InsertPet(testPet("Rex"))
		if err != nil {
			t.Fatalf("InsertPet() error = %v", err)
		}

		if err := repo.DeletePet(created.ID); err != nil {
			t.Fatalf("DeletePet() error = %v", err)
		}

		found, err := repo.FindPetByID(created.ID)
		if err != nil {
			t.Fatalf("FindPetByID() error = %v", err)
		}
		if found != nil {
			t.Error("pet still present after delete")
		}
	})

	t.Run("deleting an absent pet is a no-op", func(t *testing.T) {
		store := newTestStore(t)
		repo := NewPetRepository(store, nil)

		if err := repo.DeletePet(42); err != nil {
			t.Errorf("DeletePet() error = %v", err)
		}
	})
}
