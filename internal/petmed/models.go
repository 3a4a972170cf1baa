package petmed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// AnimalType enumerates the supported pet species.
type AnimalType string

const (
	AnimalDog AnimalType = "dog"
	AnimalCat AnimalType = "cat"
)

// Pet represents a registered pet.
type Pet struct {
	ID          int64
	Name        string
	Breed       string
	Age         int // years, non-negative
	HasPedigree bool
	AnimalType  AnimalType
	Photo       string // optional URI
	CreatedAt   time.Time
}

// PetUpdate is a partial-field patch for a pet. Nil fields are left unchanged.
type PetUpdate struct {
	Name        *string
	Breed       *string
	Age         *int
	HasPedigree *bool
	AnimalType  *AnimalType
	Photo       *string
}

// IsZero reports whether the patch changes nothing.
func (u PetUpdate) IsZero() bool {
	return u.Name == nil && u.Breed == nil && u.Age == nil &&
		u.HasPedigree == nil && u.AnimalType == nil && u.Photo == nil
}

// Medicine is a catalog record. It comes either from the remote catalog
// service or from the local cache; field names mirror the remote protocol.
type Medicine struct {
	ID          MedicineID `json:"id"`
	Nome        string     `json:"nome"`
	EAN         string     `json:"ean,omitempty"`
	Tipo        string     `json:"tipo,omitempty"`
	Laboratorio string     `json:"laboratorio,omitempty"`
	FormaAdm    string     `json:"forma_administracao,omitempty"`
	Indicacoes  string     `json:"indicacoes,omitempty"`
}

// MedicineUpdate is a partial-field patch for a cached medicine.
type MedicineUpdate struct {
	Nome        *string
	EAN         *string
	Tipo        *string
	Laboratorio *string
	FormaAdm    *string
	Indicacoes  *string
}

// IsZero reports whether the patch changes nothing.
func (u MedicineUpdate) IsZero() bool {
	return u.Nome == nil && u.EAN == nil && u.Tipo == nil &&
		u.Laboratorio == nil && u.FormaAdm == nil && u.Indicacoes == nil
}

// Store represents a partner store. Deactivated stores keep their row and id
// but are excluded from active listings (soft delete).
type Store struct {
	ID         int64
	Nome       string
	Endereco   string
	Telefone   string
	Email      string
	CNPJ       string
	Horario    string
	Latitude   *float64
	Longitude  *float64
	Ativa      bool
	CreatedAt  time.Time
}

// StoreUpdate is a partial-field patch for a store.
type StoreUpdate struct {
	Nome      *string
	Endereco  *string
	Telefone  *string
	Email     *string
	CNPJ      *string
	Horario   *string
	Latitude  *float64
	Longitude *float64
	Ativa     *bool
}

// IsZero reports whether the patch changes nothing.
func (u StoreUpdate) IsZero() bool {
	return u.Nome == nil && u.Endereco == nil && u.Telefone == nil &&
		u.Email == nil && u.CNPJ == nil && u.Horario == nil &&
		u.Latitude == nil && u.Longitude == nil && u.Ativa == nil
}

// PetMedicine links a pet to a medicine it takes. MedicineName and
// MedicineDetails are a denormalized snapshot captured at association time;
// they are not live-synced with later catalog updates. At most one row exists
// per (PetID, MedicineID) pair.
type PetMedicine struct {
	ID              int64
	PetID           int64
	MedicineID      MedicineID
	MedicineName    string
	MedicineDetails string // opaque JSON bag, may be empty
	CreatedAt       time.Time
}

// ProductEntry is one (medicine, price) line of a store's remote listing.
type ProductEntry struct {
	MedicineID MedicineID `json:"medicamentoId"`
	Preco      float64    `json:"preco"`
}

// StoreListing is a store as reported by the remote price service, carrying
// its product listing. Listings are not persisted locally. The remote id is
// decoded flexibly (number or string) and matched against local store ids.
type StoreListing struct {
	ID       int64
	Nome     string
	Endereco string
	Produtos []ProductEntry
}

// UnmarshalJSON tolerates store ids sent as either numbers or strings.
func (s *StoreListing) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Nome     string          `json:"nome"`
		Endereco string          `json:"endereco"`
		Produtos []ProductEntry  `json:"produtos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	idStr, err := flexString(raw.ID)
	if err != nil {
		return fmt.Errorf("decoding store id: %w", err)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return fmt.Errorf("store id %q is not numeric: %w", idStr, err)
	}
	s.ID = id
	s.Nome = raw.Nome
	s.Endereco = raw.Endereco
	s.Produtos = raw.Produtos
	return nil
}
