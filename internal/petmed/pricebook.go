package petmed

import "sort"

// BestPrice is the lowest known price for a medicine and the store offering it.
type BestPrice struct {
	Price     float64
	StoreID   int64
	StoreName string
}

// MedicineAvailability pairs one of a pet's medicines with its best price and
// the stores carrying it (per-medicine view).
type MedicineAvailability struct {
	Association *PetMedicine
	Best        *BestPrice // nil when no store carries the medicine
	Stores      []StoreListing
}

// InventoryItem is one of a pet's medicines as carried by a specific store.
type InventoryItem struct {
	Association *PetMedicine
	Price       float64
	IsBestPrice bool
}

// StoreInventory is the subset of a pet's medicines a store carries
// (per-store view).
type StoreInventory struct {
	Store StoreListing
	Items []InventoryItem
}

// PriceBook answers price and availability questions over a fixed set of
// store listings. Stores are ordered by ascending id at construction so that
// identical minimum prices always resolve to the same store.
//
// Prices are compared with strict less-than and never computed, so no epsilon
// tolerance is needed.
type PriceBook struct {
	stores []StoreListing
}

// NewPriceBook builds a PriceBook from remote store listings.
func NewPriceBook(listings []StoreListing) *PriceBook {
	stores := make([]StoreListing, len(listings))
	copy(stores, listings)
	sort.SliceStable(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })
	return &PriceBook{stores: stores}
}

// BestPriceFor returns the minimum price for the medicine across all stores,
// or nil when no store carries it. Ties go to the store with the lowest id.
func (b *PriceBook) BestPriceFor(id MedicineID) *BestPrice {
	var best *BestPrice
	for _, store := range b.stores {
		price, ok := listingPrice(store, id)
		if !ok {
			continue
		}
		if best == nil || price < best.Price {
			best = &BestPrice{Price: price, StoreID: store.ID, StoreName: store.Nome}
		}
	}
	return best
}

// StoresCarrying returns the stores with a listing entry for the medicine,
// in ascending store-id order.
func (b *PriceBook) StoresCarrying(id MedicineID) []StoreListing {
	var out []StoreListing
	for _, store := range b.stores {
		if _, ok := listingPrice(store, id); ok {
			out = append(out, store)
		}
	}
	return out
}

// PriceAt returns the price of the medicine at a specific store.
func (b *PriceBook) PriceAt(storeID int64, id MedicineID) (float64, bool) {
	for _, store := range b.stores {
		if store.ID == storeID {
			return listingPrice(store, id)
		}
	}
	return 0, false
}

// AvailabilityView pairs each of the pet's medicines with its best price and
// carrying stores, preserving the order of the association list.
func (b *PriceBook) AvailabilityView(assocs []*PetMedicine) []MedicineAvailability {
	out := make([]MedicineAvailability, 0, len(assocs))
	for _, a := range assocs {
		out = append(out, MedicineAvailability{
			Association: a,
			Best:        b.BestPriceFor(a.MedicineID),
			Stores:      b.StoresCarrying(a.MedicineID),
		})
	}
	return out
}

// InventoryView lists, for each store carrying at least one of the pet's
// medicines, the carried subset annotated with whether each entry is that
// medicine's best price. Stores appear in ascending id order.
func (b *PriceBook) InventoryView(assocs []*PetMedicine) []StoreInventory {
	var out []StoreInventory
	for _, store := range b.stores {
		var items []InventoryItem
		for _, a := range assocs {
			price, ok := listingPrice(store, a.MedicineID)
			if !ok {
				continue
			}
			best := b.BestPriceFor(a.MedicineID)
			items = append(items, InventoryItem{
				Association: a,
				Price:       price,
				IsBestPrice: best != nil && best.StoreID == store.ID,
			})
		}
		if len(items) > 0 {
			out = append(out, StoreInventory{Store: store, Items: items})
		}
	}
	return out
}

// listingPrice scans one store's products for the medicine. Ids are compared
// in canonical string form regardless of their wire type.
func listingPrice(store StoreListing, id MedicineID) (float64, bool) {
	for _, p := range store.Produtos {
		if p.MedicineID == id {
			return p.Preco, true
		}
	}
	return 0, false
}
