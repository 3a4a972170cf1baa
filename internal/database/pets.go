package database

import (
	"database/sql"
	"errors"
	"strings"

	"petmed-go/internal/petmed"
)

// PetRepository implements petmed.PetRepository against the shared record store.
type PetRepository struct {
	store *RecordStore
	clock petmed.Clock
}

// NewPetRepository creates a pet repository bound to the given store.
// A nil clock defaults to the real clock.
func NewPetRepository(store *RecordStore, clock petmed.Clock) *PetRepository {
	if clock == nil {
		clock = petmed.RealClock{}
	}
	return &PetRepository{store: store, clock: clock}
}

func (r *PetRepository) InsertPet(pet petmed.Pet) (*petmed.Pet, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	res, err := db.Exec(
		`INSERT INTO pets (name, breed, age, hasPedigree, animalType, photo, createdAt)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pet.Name, pet.Breed, pet.Age, pet.HasPedigree, string(pet.AnimalType),
		nullString(pet.Photo), now,
	)
	if err != nil {
		return nil, persistErr("inserting", "pet", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, persistErr("inserting", "pet", err)
	}

	created := pet
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

func (r *PetRepository) ListPets() ([]*petmed.Pet, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT id, name, breed, age, hasPedigree, animalType, photo, createdAt
		 FROM pets
		 ORDER BY createdAt DESC, id DESC`)
	if err != nil {
		return nil, persistErr("listing", "pets", err)
	}
	defer rows.Close()

	var pets []*petmed.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, persistErr("listing", "pets", err)
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("listing", "pets", err)
	}
	return pets, nil
}

func (r *PetRepository) FindPetByID(id int64) (*petmed.Pet, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow(
		`SELECT id, name, breed, age, hasPedigree, animalType, photo, createdAt
		 FROM pets
		 WHERE id = ?`, id)

	pet, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, persistErr("finding", "pet", err)
	}
	return pet, nil
}

func (r *PetRepository) UpdatePet(id int64, patch petmed.PetUpdate) error {
	if patch.IsZero() {
		return &petmed.ValidationError{Msg: "no fields to update"}
	}

	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Breed != nil {
		sets = append(sets, "breed = ?")
		args = append(args, *patch.Breed)
	}
	if patch.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *patch.Age)
	}
	if patch.HasPedigree != nil {
		sets = append(sets, "hasPedigree = ?")
		args = append(args, *patch.HasPedigree)
	}
	if patch.AnimalType != nil {
		sets = append(sets, "animalType = ?")
		args = append(args, string(*patch.AnimalType))
	}
	if patch.Photo != nil {
		sets = append(sets, "photo = ?")
		args = append(args, nullString(*patch.Photo))
	}
	args = append(args, id)

	_, err = db.Exec("UPDATE pets SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return persistErr("updating", "pet", err)
	}
	return nil
}

func (r *PetRepository) DeletePet(id int64) error {
	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM pets WHERE id = ?", id); err != nil {
		return persistErr("deleting", "pet", err)
	}
	return nil
}

// scanPet reads one pet row from a row scanner.
func scanPet(row interface{ Scan(...any) error }) (*petmed.Pet, error) {
	var pet petmed.Pet
	var animalType string
	var photo sql.NullString
	err := row.Scan(&pet.ID, &pet.Name, &pet.Breed, &pet.Age, &pet.HasPedigree,
		&animalType, &photo, &pet.CreatedAt)
	if err != nil {
		return nil, err
	}
	pet.AnimalType = petmed.AnimalType(animalType)
	pet.Photo = photo.String
	return &pet, nil
}

// Compile-time check that PetRepository implements the repository contract.
var _ petmed.PetRepository = (*PetRepository)(nil)
