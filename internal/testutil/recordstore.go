package testutil

import (
	"testing"

	"petmed-go/internal/database"
)

// NewTestStore creates an in-memory record store with the full schema
// applied. The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) *database.RecordStore {
	t.Helper()

	store := database.NewRecordStore(":memory:")
	if err := database.InitializeAll(store); err != nil {
		t.Fatalf("failed to initialize record store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
