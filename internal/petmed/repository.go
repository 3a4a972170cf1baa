package petmed

import "context"

// PetRepository provides CRUD over registered pets. The single-pet business
// rule is enforced by the UI layer, not here.
type PetRepository interface {
	// InsertPet stores a new pet and returns it with id and createdAt assigned.
	InsertPet(pet Pet) (*Pet, error)

	// ListPets returns all pets, newest first.
	ListPets() ([]*Pet, error)

	// FindPetByID returns the pet with the given id, or nil when absent.
	FindPetByID(id int64) (*Pet, error)

	// UpdatePet applies a partial-field patch. A patch with zero fields set
	// is rejected with *ValidationError.
	UpdatePet(id int64, patch PetUpdate) error

	// DeletePet removes the pet row (hard delete).
	DeletePet(id int64) error
}

// MedicineRepository is the local catalog cache. The remote catalog is
// authoritative whenever reachable; this cache holds the last successfully
// fetched catalog and serves as the fallback dataset when offline.
type MedicineRepository interface {
	InsertMedicine(med Medicine) (*Medicine, error)
	ListMedicines() ([]*Medicine, error)
	UpdateMedicine(id MedicineID, patch MedicineUpdate) error
	DeleteMedicine(id MedicineID) error

	// ReplaceCatalog swaps the entire cache for the given records in a
	// single transaction.
	ReplaceCatalog(meds []Medicine) error
}

// StoreRepository provides CRUD over partner stores with soft-delete
// semantics: deactivated stores disappear from ListActiveStores but stay
// retrievable by id.
type StoreRepository interface {
	InsertStore(store Store) (*Store, error)
	ListActiveStores() ([]*Store, error)
	FindStoreByID(id int64) (*Store, error)
	UpdateStore(id int64, patch StoreUpdate) error

	// DeactivateStore marks the store inactive, retaining its row.
	DeactivateStore(id int64) error
}

// AssociationRepository manages pet-medicine links.
type AssociationRepository interface {
	// UpsertPetMedicine inserts or replaces the row for (petID, medicineID)
	// and returns the row id. Re-associating an existing pair overwrites the
	// snapshot; last write wins.
	UpsertPetMedicine(pm PetMedicine) (int64, error)

	// ListPetMedicines returns a pet's associations, newest first.
	ListPetMedicines(petID int64) ([]*PetMedicine, error)

	// SearchPetMedicines returns a pet's associations whose medicine name
	// contains the term, ordered by medicine name ascending.
	SearchPetMedicines(petID int64, term string) ([]*PetMedicine, error)

	// DeletePetMedicine removes one association; no-op when absent.
	DeletePetMedicine(petID int64, medicineID MedicineID) error

	// DeleteAllPetMedicines removes every association for a pet.
	DeleteAllPetMedicines(petID int64) error
}

// CatalogSource fetches the remote medicine catalog and store price listings,
// probing candidate endpoints in order. A nil error with an empty source never
// happens at this boundary: exhausting all candidates returns
// *NetworkUnavailableError, which the service resolves to fallback data.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) (meds []Medicine, source string, err error)
	FetchStoreListings(ctx context.Context) (listings []StoreListing, source string, err error)
}
