package testutil

import (
	"context"

	"petmed-go/internal/petmed"
)

// StubCatalog is a CatalogSource serving fixed payloads, or failing with Err
// to simulate an unreachable service.
type StubCatalog struct {
	Medicines []petmed.Medicine
	Listings  []petmed.StoreListing
	Source    string
	Err       error

	CatalogCalls  int
	ListingsCalls int
}

func (s *StubCatalog) FetchCatalog(_ context.Context) ([]petmed.Medicine, string, error) {
	s.CatalogCalls++
	if s.Err != nil {
		return nil, "", s.Err
	}
	return s.Medicines, s.Source, nil
}

func (s *StubCatalog) FetchStoreListings(_ context.Context) ([]petmed.StoreListing, string, error) {
	s.ListingsCalls++
	if s.Err != nil {
		return nil, "", s.Err
	}
	return s.Listings, s.Source, nil
}

var _ petmed.CatalogSource = (*StubCatalog)(nil)
