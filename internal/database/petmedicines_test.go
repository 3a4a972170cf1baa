package database

import (
	"testing"

	"petmed-go/internal/petmed"
)

func testAssociation(petID int64, medID petmed.MedicineID, name string) petmed.PetMedicine {
	return petmed.PetMedicine{
		PetID:           petID,
		MedicineID:      medID,
		MedicineName:    name,
		MedicineDetails: `{"laboratorio":"EMS"}`,
	}
}

func TestAssociationRepository_UpsertPetMedicine(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		id, err := repo.UpsertPetMedicine(testAssociation(1, "10", "Dipirona 500mg"))
		if err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}
		if id == 0 {
			t.Error("UpsertPetMedicine() did not assign an id")
		}

		pms, err := repo.ListPetMedicines(1)
		if err != nil {
			t.Fatalf("ListPetMedicines() error = %v", err)
		}
		if len(pms) != 1 {
			t.Fatalf("got %d associations, want 1", len(pms))
		}
		pm := pms[0]
		if pm.MedicineID != "10" || pm.MedicineName != "Dipirona 500mg" {
			t.Errorf("unexpected association: %+v", pm)
		}
		if pm.MedicineDetails != `{"laboratorio":"EMS"}` {
			t.Errorf("details = %q", pm.MedicineDetails)
		}
	})

	t.Run("same pair does not duplicate", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		if _, err := repo.UpsertPetMedicine(testAssociation(1, "10", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}
		if _, err := repo.UpsertPetMedicine(testAssociation(1, "10", "Dipirona 500mg (rev)")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}

		pms, err := repo.ListPetMedicines(1)
		if err != nil {
			t.Fatalf("ListPetMedicines() error = %v", err)
		}
		if len(pms) != 1 {
			t.Fatalf("got %d associations, want 1", len(pms))
		}
		if pms[0].MedicineName != "Dipirona 500mg (rev)" {
			t.Errorf("name = %q, want the latest snapshot", pms[0].MedicineName)
		}
	})

	t.Run("different pets keep separate rows", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		if _, err := repo.UpsertPetMedicine(testAssociation(1, "10", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}
		if _, err := repo.UpsertPetMedicine(testAssociation(2, "10", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}

		for _, petID := range []int64{1, 2} {
			pms, err := repo.ListPetMedicines(petID)
			if err != nil {
				t.Fatalf("ListPetMedicines(%d) error = %v", petID, err)
			}
			if len(pms) != 1 {
				t.Errorf("pet %d: got %d associations, want 1", petID, len(pms))
			}
		}
	})
}

func TestAssociationRepository_ListPetMedicines(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		names := []string{"Dipirona 500mg", "Paracetamol 750mg", "Ibuprofeno 600mg"}
		for i, name := range names {
			pm := testAssociation(1, petmed.NewMedicineID(int64(i+1)), name)
			if _, err := repo.UpsertPetMedicine(pm); err != nil {
				t.Fatalf("UpsertPetMedicine(%q) error = %v", name, err)
			}
		}

		pms, err := repo.ListPetMedicines(1)
		if err != nil {
			t.Fatalf("ListPetMedicines() error = %v", err)
		}
		want := []string{"Ibuprofeno 600mg", "Paracetamol 750mg", "Dipirona 500mg"}
		if len(pms) != len(want) {
			t.Fatalf("got %d associations, want %d", len(pms), len(want))
		}
		for i, name := range want {
			if pms[i].MedicineName != name {
				t.Errorf("pms[%d].MedicineName = %q, want %q", i, pms[i].MedicineName, name)
			}
		}
	})
}

func TestAssociationRepository_SearchPetMedicines(t *testing.T) {
	t.Run("matches substring, ordered by name", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		entries := []struct {
			id   petmed.MedicineID
			name string
		}{
			{"1", "Dipirona 500mg"},
			{"2", "Dipirona Gotas"},
			{"3", "Paracetamol 750mg"},
		}
		for _, e := range entries {
			if _, err := repo.UpsertPetMedicine(testAssociation(1, e.id, e.name)); err != nil {
				t.Fatalf("UpsertPetMedicine(%q) error = %v", e.name, err)
			}
		}

		pms, err := repo.SearchPetMedicines(1, "Dipirona")
		if err != nil {
			t.Fatalf("SearchPetMedicines() error = %v", err)
		}
		want := []string{"Dipirona 500mg", "Dipirona Gotas"}
		if len(pms) != len(want) {
			t.Fatalf("got %d matches, want %d", len(pms), len(want))
		}
		for i, name := range want {
			if pms[i].MedicineName != name {
				t.Errorf("pms[%d].MedicineName = %q, want %q", i, pms[i].MedicineName, name)
			}
		}
	})

	t.Run("scoped to the pet", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		if _, err := repo.UpsertPetMedicine(testAssociation(1, "1", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}
		if _, err := repo.UpsertPetMedicine(testAssociation(2, "1", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}

		pms, err := repo.SearchPetMedicines(1, "Dipirona")
		if err != nil {
			t.Fatalf("SearchPetMedicines() error = %v", err)
		}
		if len(pms) != 1 {
			t.Fatalf("got %d matches, want 1", len(pms))
		}
		if pms[0].PetID != 1 {
			t.Errorf("petId = %d, want 1", pms[0].PetID)
		}
	})
}

func TestAssociationRepository_DeletePetMedicine(t *testing.T) {
	t.Run("removes only the named pair", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		if _, err := repo.UpsertPetMedicine(testAssociation(1, "1", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}
		if _, err := repo.UpsertPetMedicine(testAssociation(1, "2", "Paracetamol 750mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}

		if err := repo.DeletePetMedicine(1, "1"); err != nil {
			t.Fatalf("DeletePetMedicine() error = %v", err)
		}

		pms, err := repo.ListPetMedicines(1)
		if err != nil {
			t.Fatalf("ListPetMedicines() error = %v", err)
		}
		if len(pms) != 1 {
			t.Fatalf("got %d associations, want 1", len(pms))
		}
		if pms[0].MedicineID != "2" {
			t.Errorf("surviving medicineId = %q, want %q", pms[0].MedicineID, "2")
		}
	})

	t.Run("absent pair is a no-op", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, nil)

		if err := repo.DeletePetMedicine(1, "999"); err != nil {
			t.Errorf("DeletePetMedicine() error = %v", err)
		}
	})
}

func TestAssociationRepository_DeleteAllPetMedicines(t *testing.T) {
	t.Run("clears one pet without touching others", func(t *testing.T) {
		db := newTestStore(t)
		repo := NewAssociationRepository(db, newStubClock())

		if _, err := repo.UpsertPetMedicine(testAssociation(1, "1", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}
		if _, err := repo.UpsertPetMedicine(testAssociation(1, "2", "Paracetamol 750mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}
		if _, err := repo.UpsertPetMedicine(testAssociation(2, "1", "Dipirona 500mg")); err != nil {
			t.Fatalf("UpsertPetMedicine() error = %v", err)
		}

		if err := repo.DeleteAllPetMedicines(1); err != nil {
			t.Fatalf("DeleteAllPetMedicines() error = %v", err)
		}

		pms, err := repo.ListPetMedicines(1)
		if err != nil {
			t.Fatalf("ListPetMedicines() error = %v", err)
		}
		if len(pms) != 0 {
			t.Errorf("pet 1 still has %d associations", len(pms))
		}

		other, err := repo.ListPetMedicines(2)
		if err != nil {
			t.Fatalf("ListPetMedicines() error = %v", err)
		}
		if len(other) != 1 {
			t.Errorf("pet 2 has %d associations, want 1", len(other))
		}
	})
}
