package petmed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Service is the orchestration layer that coordinates repositories, the
// remote catalog source and the price aggregator on behalf of the UI layer.
type Service struct {
	pets      PetRepository
	medicines MedicineRepository
	stores    StoreRepository
	assocs    AssociationRepository
	catalog   CatalogSource
	logger    Logger
	clock     Clock
}

// NewService creates a Service with the provided dependencies.
func NewService(pets PetRepository, medicines MedicineRepository, stores StoreRepository, assocs AssociationRepository, catalog CatalogSource, logger Logger, clock Clock) *Service {
	return &Service{
		pets:      pets,
		medicines: medicines,
		stores:    stores,
		assocs:    assocs,
		catalog:   catalog,
		logger:    logger,
		clock:     clock,
	}
}

// Pet operations

// RegisterPet validates and stores a new pet.
func (s *Service) RegisterPet(pet Pet) (*Pet, error) {
	if strings.TrimSpace(pet.Name) == "" {
		return nil, &ValidationError{Msg: "pet name is required"}
	}
	if pet.Age < 0 {
		return nil, &ValidationError{Msg: "pet age must be non-negative"}
	}
	if pet.AnimalType != AnimalDog && pet.AnimalType != AnimalCat {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown animal type %q", pet.AnimalType)}
	}

	created, err := s.pets.InsertPet(pet)
	if err != nil {
		return nil, fmt.Errorf("registering pet: %w", err)
	}

	s.logger.Info("pet registered", "id", created.ID, "name", created.Name)
	return created, nil
}

// ListPets returns all registered pets, newest first.
func (s *Service) ListPets() ([]*Pet, error) {
	pets, err := s.pets.ListPets()
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	return pets, nil
}

// GetPet returns a pet by id, or ErrNotFound.
func (s *Service) GetPet(id int64) (*Pet, error) {
	pet, err := s.pets.FindPetByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding pet: %w", err)
	}
	if pet == nil {
		return nil, fmt.Errorf("pet %d: %w", id, ErrNotFound)
	}
	return pet, nil
}

// UpdatePet applies a partial update to a pet.
func (s *Service) UpdatePet(id int64, patch PetUpdate) error {
	if err := s.pets.UpdatePet(id, patch); err != nil {
		return fmt.Errorf("updating pet: %w", err)
	}
	s.logger.Info("pet updated", "id", id)
	return nil
}

// DeletePet removes a pet and all of its medicine associations. The schema
// has no foreign key between the two tables; the composite delete lives here.
func (s *Service) DeletePet(id int64) error {
	if err := s.assocs.DeleteAllPetMedicines(id); err != nil {
		return fmt.Errorf("clearing pet medicines: %w", err)
	}
	if err := s.pets.DeletePet(id); err != nil {
		return fmt.Errorf("deleting pet: %w", err)
	}
	s.logger.Info("pet deleted", "id", id)
	return nil
}

// Store operations

// AddStore validates and stores a new partner store.
func (s *Service) AddStore(store Store) (*Store, error) {
	if strings.TrimSpace(store.Nome) == "" {
		return nil, &ValidationError{Msg: "store name is required"}
	}

	created, err := s.stores.InsertStore(store)
	if err != nil {
		return nil, fmt.Errorf("adding store: %w", err)
	}

	s.logger.Info("store added", "id", created.ID, "name", created.Nome)
	return created, nil
}

// ListStores returns active stores only.
func (s *Service) ListStores() ([]*Store, error) {
	stores, err := s.stores.ListActiveStores()
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	return stores, nil
}

// GetStore returns a store by id regardless of its active flag.
func (s *Service) GetStore(id int64) (*Store, error) {
	store, err := s.stores.FindStoreByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding store: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("store %d: %w", id, ErrNotFound)
	}
	return store, nil
}

// UpdateStore applies a partial update to a store.
func (s *Service) UpdateStore(id int64, patch StoreUpdate) error {
	if err := s.stores.UpdateStore(id, patch); err != nil {
		return fmt.Errorf("updating store: %w", err)
	}
	s.logger.Info("store updated", "id", id)
	return nil
}

// DeactivateStore soft-deletes a store.
func (s *Service) DeactivateStore(id int64) error {
	if err := s.stores.DeactivateStore(id); err != nil {
		return fmt.Errorf("deactivating store: %w", err)
	}
	s.logger.Info("store deactivated", "id", id)
	return nil
}

// Catalog operations

// CatalogResult is the outcome of a catalog search. Offline means every
// candidate endpoint failed and the medicines come from the local cache or
// the built-in samples; Source is then empty.
type CatalogResult struct {
	Medicines []Medicine
	Source    string
	Offline   bool
}

// SearchCatalog fetches the remote catalog and filters it by term. On a
// successful fetch the local cache is refreshed with the full (unfiltered)
// catalog; when every endpoint fails the cache is the fallback, and the
// embedded samples back the cache when it is empty.
func (s *Service) SearchCatalog(ctx context.Context, term string) (*CatalogResult, error) {
	meds, source, err := s.catalog.FetchCatalog(ctx)
	result := &CatalogResult{Source: source}

	if err != nil {
		var netErr *NetworkUnavailableError
		if !errors.As(err, &netErr) {
			return nil, fmt.Errorf("fetching catalog: %w", err)
		}

		s.logger.Warn("catalog unreachable, using fallback", "reason", netErr.Error())
		meds, err = s.fallbackCatalog()
		if err != nil {
			return nil, err
		}
		result.Offline = true
	} else {
		s.logger.Info("catalog fetched", "source", source, "medicines", len(meds))
		if err := s.medicines.ReplaceCatalog(meds); err != nil {
			// The fetched data is still usable; a stale cache only degrades
			// the next offline fallback.
			s.logger.Warn("refreshing catalog cache failed", "error", err)
		}
	}

	result.Medicines = filterMedicines(meds, term)
	return result, nil
}

// fallbackCatalog returns the cached catalog, or the embedded samples when
// the cache is empty.
func (s *Service) fallbackCatalog() ([]Medicine, error) {
	cached, err := s.medicines.ListMedicines()
	if err != nil {
		return nil, fmt.Errorf("reading catalog cache: %w", err)
	}
	if len(cached) == 0 {
		return SampleMedicines(), nil
	}
	meds := make([]Medicine, len(cached))
	for i, m := range cached {
		meds[i] = *m
	}
	return meds, nil
}

// filterMedicines matches the term case-insensitively against name,
// laboratory, type and indications.
func filterMedicines(meds []Medicine, term string) []Medicine {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return meds
	}
	var out []Medicine
	for _, m := range meds {
		if strings.Contains(strings.ToLower(m.Nome), term) ||
			strings.Contains(strings.ToLower(m.Laboratorio), term) ||
			strings.Contains(strings.ToLower(m.Tipo), term) ||
			strings.Contains(strings.ToLower(m.Indicacoes), term) {
			out = append(out, m)
		}
	}
	return out
}

// Association operations

// AttachMedicine associates a catalog medicine with a pet, snapshotting the
// catalog attributes into the details blob. Re-attaching an already
// associated medicine overwrites the snapshot.
func (s *Service) AttachMedicine(petID int64, med Medicine) (int64, error) {
	pet, err := s.pets.FindPetByID(petID)
	if err != nil {
		return 0, fmt.Errorf("finding pet: %w", err)
	}
	if pet == nil {
		return 0, fmt.Errorf("pet %d: %w", petID, ErrNotFound)
	}

	details, err := json.Marshal(med)
	if err != nil {
		return 0, fmt.Errorf("encoding medicine details: %w", err)
	}

	rowID, err := s.assocs.UpsertPetMedicine(PetMedicine{
		PetID:           petID,
		MedicineID:      med.ID,
		MedicineName:    med.Nome,
		MedicineDetails: string(details),
	})
	if err != nil {
		return 0, fmt.Errorf("attaching medicine: %w", err)
	}

	s.logger.Info("medicine attached", "pet", petID, "medicine", med.ID, "name", med.Nome)
	return rowID, nil
}

// PetMedicines returns a pet's associations, newest first.
func (s *Service) PetMedicines(petID int64) ([]*PetMedicine, error) {
	pms, err := s.assocs.ListPetMedicines(petID)
	if err != nil {
		return nil, fmt.Errorf("listing pet medicines: %w", err)
	}
	return pms, nil
}

// SearchPetMedicines filters a pet's associations by medicine name.
func (s *Service) SearchPetMedicines(petID int64, term string) ([]*PetMedicine, error) {
	pms, err := s.assocs.SearchPetMedicines(petID, term)
	if err != nil {
		return nil, fmt.Errorf("searching pet medicines: %w", err)
	}
	return pms, nil
}

// DetachMedicine removes one association; absent pairs are a no-op.
func (s *Service) DetachMedicine(petID int64, medicineID MedicineID) error {
	if err := s.assocs.DeletePetMedicine(petID, medicineID); err != nil {
		return fmt.Errorf("detaching medicine: %w", err)
	}
	s.logger.Info("medicine detached", "pet", petID, "medicine", medicineID)
	return nil
}

// ClearMedicines removes all of a pet's associations.
func (s *Service) ClearMedicines(petID int64) error {
	if err := s.assocs.DeleteAllPetMedicines(petID); err != nil {
		return fmt.Errorf("clearing pet medicines: %w", err)
	}
	s.logger.Info("medicines cleared", "pet", petID)
	return nil
}

// DecodeDetails recovers the catalog snapshot from an association's details
// blob. Malformed or empty blobs degrade to a name-only record; the price
// views must never fail on a bad snapshot.
func DecodeDetails(pm *PetMedicine) Medicine {
	med := Medicine{ID: pm.MedicineID, Nome: pm.MedicineName}
	if pm.MedicineDetails == "" {
		return med
	}
	var decoded Medicine
	if err := json.Unmarshal([]byte(pm.MedicineDetails), &decoded); err != nil {
		return med
	}
	decoded.ID = pm.MedicineID
	if decoded.Nome == "" {
		decoded.Nome = pm.MedicineName
	}
	return decoded
}

// Price comparison

// PriceComparison is the aggregated price/availability answer for one pet.
type PriceComparison struct {
	Associations []*PetMedicine
	Availability []MedicineAvailability
	Inventory    []StoreInventory
	Source       string
	Offline      bool
}

// ComparePrices fetches store listings, merges them with local partner-store
// records and aggregates prices over the pet's medicine list. Listings from
// locally deactivated stores are excluded; listings matching an active local
// record inherit its name and address where the remote payload is sparse.
func (s *Service) ComparePrices(ctx context.Context, petID int64) (*PriceComparison, error) {
	assocs, err := s.assocs.ListPetMedicines(petID)
	if err != nil {
		return nil, fmt.Errorf("listing pet medicines: %w", err)
	}

	listings, source, err := s.catalog.FetchStoreListings(ctx)
	offline := false
	if err != nil {
		var netErr *NetworkUnavailableError
		if !errors.As(err, &netErr) {
			return nil, fmt.Errorf("fetching store listings: %w", err)
		}
		s.logger.Warn("price service unreachable, using sample listings", "reason", netErr.Error())
		listings = SampleStoreListings()
		source = ""
		offline = true
	} else {
		s.logger.Info("store listings fetched", "source", source, "stores", len(listings))
	}

	listings, err = s.mergeLocalStores(listings)
	if err != nil {
		return nil, err
	}

	book := NewPriceBook(listings)
	return &PriceComparison{
		Associations: assocs,
		Availability: book.AvailabilityView(assocs),
		Inventory:    book.InventoryView(assocs),
		Source:       source,
		Offline:      offline,
	}, nil
}

// mergeLocalStores applies local partner-store knowledge to remote listings:
// deactivated stores are dropped, known stores fill in missing name/address.
func (s *Service) mergeLocalStores(listings []StoreListing) ([]StoreListing, error) {
	out := make([]StoreListing, 0, len(listings))
	for _, l := range listings {
		local, err := s.stores.FindStoreByID(l.ID)
		if err != nil {
			return nil, fmt.Errorf("finding store %d: %w", l.ID, err)
		}
		if local != nil {
			if !local.Ativa {
				continue
			}
			if l.Nome == "" {
				l.Nome = local.Nome
			}
			if l.Endereco == "" {
				l.Endereco = local.Endereco
			}
		}
		out = append(out, l)
	}
	return out, nil
}
