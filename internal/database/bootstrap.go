package database

import (
	"petmed-go/internal/petmed"

	"petmed-go/internal/database/migrations"
)

// InitializeAll brings the record store to a usable state: it opens the
// shared handle and creates the four tables in fixed order (pets → medicines
// → stores → pet_medicines). A failed step aborts the sequence and is
// reported as *petmed.InitError naming the step; tables created by earlier
// steps remain, and retrying is safe because creation is idempotent.
//
// Callers must not touch any repository until InitializeAll has returned nil.
func InitializeAll(store *RecordStore) error {
	if err := store.Open(); err != nil {
		return &petmed.InitError{Step: "record store", Err: err}
	}

	db, err := store.Handle()
	if err != nil {
		return &petmed.InitError{Step: "record store", Err: err}
	}

	if err := migrations.MigrateUp(db); err != nil {
		return &petmed.InitError{Step: migrations.FailedStep(db), Err: err}
	}

	return nil
}

// CheckSchema reports whether the store's schema matches the binary's latest
// migration version. The store must already be open.
func CheckSchema(store *RecordStore) error {
	db, err := store.Handle()
	if err != nil {
		return err
	}
	return migrations.CheckDBMigrationStatus(db)
}
