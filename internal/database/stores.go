package database

import (
	"database/sql"
	"errors"
	"strings"

	"petmed-go/internal/petmed"
)

// StoreRepository implements petmed.StoreRepository with soft-delete
// semantics: DeactivateStore flips the ativa flag and ListActiveStores
// filters on it, but the row stays retrievable by id.
type StoreRepository struct {
	store *RecordStore
	clock petmed.Clock
}

// NewStoreRepository creates a store repository bound to the given store.
// A nil clock defaults to the real clock.
func NewStoreRepository(store *RecordStore, clock petmed.Clock) *StoreRepository {
	if clock == nil {
		clock = petmed.RealClock{}
	}
	return &StoreRepository{store: store, clock: clock}
}

func (r *StoreRepository) InsertStore(s petmed.Store) (*petmed.Store, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	res, err := db.Exec(
		`INSERT INTO stores (nome, endereco, telefone, email, cnpj, horario_funcionamento,
		                     latitude, longitude, ativa, createdAt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Nome, nullString(s.Endereco), nullString(s.Telefone), nullString(s.Email),
		nullString(s.CNPJ), nullString(s.Horario), nullFloat(s.Latitude), nullFloat(s.Longitude),
		true, now,
	)
	if err != nil {
		return nil, persistErr("inserting", "store", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, persistErr("inserting", "store", err)
	}

	created := s
	created.ID = id
	created.Ativa = true
	created.CreatedAt = now
	return &created, nil
}

func (r *StoreRepository) ListActiveStores() ([]*petmed.Store, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(selectStoreColumns + `
		 WHERE ativa = 1
		 ORDER BY nome ASC`)
	if err != nil {
		return nil, persistErr("listing", "stores", err)
	}
	defer rows.Close()

	var stores []*petmed.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, persistErr("listing", "stores", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("listing", "stores", err)
	}
	return stores, nil
}

// FindStoreByID returns the store regardless of its active flag, preserving
// access to deactivated history.
func (r *StoreRepository) FindStoreByID(id int64) (*petmed.Store, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow(selectStoreColumns+` WHERE id = ?`, id)
	s, err := scanStore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, persistErr("finding", "store", err)
	}
	return s, nil
}

func (r *StoreRepository) UpdateStore(id int64, patch petmed.StoreUpdate) error {
	if patch.IsZero() {
		return &petmed.ValidationError{Msg: "no fields to update"}
	}

	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	var sets []string
	var args []any
	if patch.Nome != nil {
		sets = append(sets, "nome = ?")
		args = append(args, *patch.Nome)
	}
	if patch.Endereco != nil {
		sets = append(sets, "endereco = ?")
		args = append(args, nullString(*patch.Endereco))
	}
	if patch.Telefone != nil {
		sets = append(sets, "telefone = ?")
		args = append(args, nullString(*patch.Telefone))
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, nullString(*patch.Email))
	}
	if patch.CNPJ != nil {
		sets = append(sets, "cnpj = ?")
		args = append(args, nullString(*patch.CNPJ))
	}
	if patch.Horario != nil {
		sets = append(sets, "horario_funcionamento = ?")
		args = append(args, nullString(*patch.Horario))
	}
	if patch.Latitude != nil {
		sets = append(sets, "latitude = ?")
		args = append(args, *patch.Latitude)
	}
	if patch.Longitude != nil {
		sets = append(sets, "longitude = ?")
		args = append(args, *patch.Longitude)
	}
	if patch.Ativa != nil {
		sets = append(sets, "ativa = ?")
		args = append(args, *patch.Ativa)
	}
	args = append(args, id)

	_, err = db.Exec("UPDATE stores SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return persistErr("updating", "store", err)
	}
	return nil
}

// DeactivateStore soft-deletes the store: the row and its id are retained.
func (r *StoreRepository) DeactivateStore(id int64) error {
	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	if _, err := db.Exec("UPDATE stores SET ativa = 0 WHERE id = ?", id); err != nil {
		return persistErr("deactivating", "store", err)
	}
	return nil
}

const selectStoreColumns = `SELECT id, nome, endereco, telefone, email, cnpj,
	horario_funcionamento, latitude, longitude, ativa, createdAt FROM stores`

func scanStore(row interface{ Scan(...any) error }) (*petmed.Store, error) {
	var s petmed.Store
	var endereco, telefone, email, cnpj, horario sql.NullString
	var lat, lon sql.NullFloat64
	err := row.Scan(&s.ID, &s.Nome, &endereco, &telefone, &email, &cnpj, &horario,
		&lat, &lon, &s.Ativa, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Endereco = endereco.String
	s.Telefone = telefone.String
	s.Email = email.String
	s.CNPJ = cnpj.String
	s.Horario = horario.String
	if lat.Valid {
		s.Latitude = &lat.Float64
	}
	if lon.Valid {
		s.Longitude = &lon.Float64
	}
	return &s, nil
}

// nullFloat maps a nil pointer to SQL NULL.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

var _ petmed.StoreRepository = (*StoreRepository)(nil)
