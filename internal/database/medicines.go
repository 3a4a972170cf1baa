package database

import (
	"database/sql"
	"strconv"
	"strings"

	"petmed-go/internal/petmed"
)

// MedicineRepository implements the local catalog cache. The remote catalog
// is authoritative; ReplaceCatalog refreshes this table after every
// successful fetch so it can serve as the offline fallback dataset.
type MedicineRepository struct {
	store *RecordStore
	clock petmed.Clock
}

// NewMedicineRepository creates a medicine cache repository bound to the
// given store. A nil clock defaults to the real clock.
func NewMedicineRepository(store *RecordStore, clock petmed.Clock) *MedicineRepository {
	if clock == nil {
		clock = petmed.RealClock{}
	}
	return &MedicineRepository{store: store, clock: clock}
}

func (r *MedicineRepository) InsertMedicine(med petmed.Medicine) (*petmed.Medicine, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	res, err := db.Exec(
		`INSERT INTO medicines (nome, ean, tipo, laboratorio, forma_administracao, indicacoes, createdAt)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		med.Nome, nullString(med.EAN), nullString(med.Tipo), nullString(med.Laboratorio),
		nullString(med.FormaAdm), nullString(med.Indicacoes), r.clock.Now(),
	)
	if err != nil {
		return nil, persistErr("inserting", "medicine", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, persistErr("inserting", "medicine", err)
	}

	created := med
	created.ID = petmed.NewMedicineID(id)
	return &created, nil
}

func (r *MedicineRepository) ListMedicines() ([]*petmed.Medicine, error) {
	db, err := r.store.Handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT id, nome, ean, tipo, laboratorio, forma_administracao, indicacoes
		 FROM medicines
		 ORDER BY nome ASC`)
	if err != nil {
		return nil, persistErr("listing", "medicines", err)
	}
	defer rows.Close()

	var meds []*petmed.Medicine
	for rows.Next() {
		var med petmed.Medicine
		var id int64
		var ean, tipo, lab, forma, ind sql.NullString
		if err := rows.Scan(&id, &med.Nome, &ean, &tipo, &lab, &forma, &ind); err != nil {
			return nil, persistErr("listing", "medicines", err)
		}
		med.ID = petmed.NewMedicineID(id)
		med.EAN = ean.String
		med.Tipo = tipo.String
		med.Laboratorio = lab.String
		med.FormaAdm = forma.String
		med.Indicacoes = ind.String
		meds = append(meds, &med)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("listing", "medicines", err)
	}
	return meds, nil
}

func (r *MedicineRepository) UpdateMedicine(id petmed.MedicineID, patch petmed.MedicineUpdate) error {
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
	if patch.EAN != nil {
		sets = append(sets, "ean = ?")
		args = append(args, nullString(*patch.EAN))
	}
	if patch.Tipo != nil {
		sets = append(sets, "tipo = ?")
		args = append(args, nullString(*patch.Tipo))
	}
	if patch.Laboratorio != nil {
		sets = append(sets, "laboratorio = ?")
		args = append(args, nullString(*patch.Laboratorio))
	}
	if patch.FormaAdm != nil {
		sets = append(sets, "forma_administracao = ?")
		args = append(args, nullString(*patch.FormaAdm))
	}
	if patch.Indicacoes != nil {
		sets = append(sets, "indicacoes = ?")
		args = append(args, nullString(*patch.Indicacoes))
	}
	args = append(args, string(id))

	_, err = db.Exec("UPDATE medicines SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return persistErr("updating", "medicine", err)
	}
	return nil
}

func (r *MedicineRepository) DeleteMedicine(id petmed.MedicineID) error {
	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM medicines WHERE id = ?", string(id)); err != nil {
		return persistErr("deleting", "medicine", err)
	}
	return nil
}

// ReplaceCatalog swaps the entire cache for the given records atomically.
// Remote ids are preserved when numeric so cached and fetched catalogs agree
// on identifiers.
func (r *MedicineRepository) ReplaceCatalog(meds []petmed.Medicine) error {
	db, err := r.store.Handle()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return persistErr("replacing", "medicines", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM medicines"); err != nil {
		return persistErr("replacing", "medicines", err)
	}

	now := r.clock.Now()
	for _, med := range meds {
		if id, err := strconv.ParseInt(string(med.ID), 10, 64); err == nil {
			_, err = tx.Exec(
				`INSERT INTO medicines (id, nome, ean, tipo, laboratorio, forma_administracao, indicacoes, createdAt)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id, med.Nome, nullString(med.EAN), nullString(med.Tipo), nullString(med.Laboratorio),
				nullString(med.FormaAdm), nullString(med.Indicacoes), now,
			)
			if err != nil {
				return persistErr("replacing", "medicines", err)
			}
			continue
		}
		// Non-numeric remote id: let the cache assign one.
		_, err := tx.Exec(
			`INSERT INTO medicines (nome, ean, tipo, laboratorio, forma_administracao, indicacoes, createdAt)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			med.Nome, nullString(med.EAN), nullString(med.Tipo), nullString(med.Laboratorio),
			nullString(med.FormaAdm), nullString(med.Indicacoes), now,
		)
		if err != nil {
			return persistErr("replacing", "medicines", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistErr("replacing", "medicines", err)
	}
	return nil
}

var _ petmed.MedicineRepository = (*MedicineRepository)(nil)
