package database

import (
	"database/sql"

	"petmed-go/internal/petmed"
)

// AssociationRepository implements petmed.AssociationRepository. One row
// exists per (petId, medicineId) pair; INSERT OR REPLACE on the composite
// unique constraint gives upsert semantics where the last write wins.
type AssociationRepository struct {
	store *RecordStore
	clock petmed.Clock
}

// NewAssociationRepository creates an association repository bound to the
// given store. A nil clock defaults to the real clock.
func NewAssociationRepository(store *RecordStore, clock petmed.Clock) *AssociationRepository {
	if clock == nil {
		clock = petmed.RealClock{}
	}
	return &AssociationRepository{store: store, clock: clock}
}

func (r *AssociationRepository) UpsertPetMedicine(pm petmed.PetMedicine) (int64, error) {
	db, err := r.store.Handle()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(
		`INSERT OR REPLACE INTO pet_medicines (petId, medicineId, medicineName, medicineDetails, createdAt)
		 VALUES (?, ?, ?, ?, ?)`,
		pm.PetID, string(pm.MedicineID), pm.MedicineName, nullString(pm.MedicineDetails),
		r.clock.Now(),
	)
	if err != nil {
		return 0, persistErr("upserting", "pet medicine", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, persistErr("upserting", "pet medicine", err)
	}
	return id, nil
}

func (r *AssociationRepository) ListPetMedicines(petID int64) ([]*petmed.PetMedicine, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT id, petId, medicineId, medicineName, medicineDetails, createdAt
		 FROM pet_medicines
		 WHERE petId = ?
		 ORDER BY createdAt DESC, id DESC`, petID)
	if err != nil {
		return nil, persistErr("listing", "pet medicines", err)
	}
	defer rows.Close()

	return collectPetMedicines(rows, "listing")
}

func (r *AssociationRepository) SearchPetMedicines(petID int64, term string) ([]*petmed.PetMedicine, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT id, petId, medicineId, medicineName, medicineDetails, createdAt
		 FROM pet_medicines
		 WHERE petId = ? AND medicineName LIKE ?
		 ORDER BY medicineName ASC`, petID, "%"+term+"%")
	if err != nil {
		return nil, persistErr("searching", "pet medicines", err)
	}
	defer rows.Close()

	return collectPetMedicines(rows, "searching")
}

// DeletePetMedicine removes one association; deleting an absent pair is a
// no-op, not an error.
func (r *AssociationRepository) DeletePetMedicine(petID int64, medicineID petmed.MedicineID) error {
	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	_, err = db.Exec("DELETE FROM pet_medicines WHERE petId = ? AND medicineId = ?",
		petID, string(medicineID))
	if err != nil {
		return persistErr("deleting", "pet medicine", err)
	}
	return nil
}

func (r *AssociationRepository) DeleteAllPetMedicines(petID int64) error {
	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM pet_medicines WHERE petId = ?", petID); err != nil {
		return persistErr("deleting", "pet medicines", err)
	}
	return nil
}

func collectPetMedicines(rows *sql.Rows, op string) ([]*petmed.PetMedicine, error) {
	var pms []*petmed.PetMedicine
	for rows.Next() {
		var pm petmed.PetMedicine
		var medicineID string
		var details sql.NullString
		err := rows.Scan(&pm.ID, &pm.PetID, &medicineID, &pm.MedicineName, &details, &pm.CreatedAt)
		if err != nil {
			return nil, persistErr(op, "pet medicines", err)
		}
		pm.MedicineID = petmed.MedicineID(medicineID)
		pm.MedicineDetails = details.String
		pms = append(pms, &pm)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(op, "pet medicines", err)
	}
	return pms, nil
}

var _ petmed.AssociationRepository = (*AssociationRepository)(nil)
