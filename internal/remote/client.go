package remote

import (
	"context"
	"time"

	"petmed-go/internal/config"
	"petmed-go/internal/petmed"
)

// Client implements petmed.CatalogSource over a Prober, holding the
// candidate lists and per-attempt timeouts from config.
type Client struct {
	prober           *Prober
	catalogEndpoints []string
	catalogTimeout   time.Duration
	priceEndpoints   []string
	priceTimeout     time.Duration
}

// NewClientFromConfig wires a remote client from the catalog and price
// config sections. A configured custom endpoint is probed before the
// built-in candidates.
func NewClientFromConfig(catalog config.CatalogConfig, prices config.PricesConfig, logger petmed.Logger) *Client {
	return &Client{
		prober:           NewProber(nil, logger),
		catalogEndpoints: catalog.CandidateList(),
		catalogTimeout:   catalog.Timeout(),
		priceEndpoints:   prices.CandidateList(),
		priceTimeout:     prices.Timeout(),
	}
}

// FetchCatalog probes the catalog candidates and returns the remote medicine
// list plus the winning endpoint.
func (c *Client) FetchCatalog(ctx context.Context) ([]petmed.Medicine, string, error) {
	var meds []petmed.Medicine
	source, err := c.prober.FetchFirst(ctx, c.catalogEndpoints, c.catalogTimeout, &meds)
	if err != nil {
		return nil, "", err
	}
	return meds, source, nil
}

// FetchStoreListings probes the price candidates and returns store listings
// plus the winning endpoint.
func (c *Client) FetchStoreListings(ctx context.Context) ([]petmed.StoreListing, string, error) {
	var listings []petmed.StoreListing
	source, err := c.prober.FetchFirst(ctx, c.priceEndpoints, c.priceTimeout, &listings)
	if err != nil {
		return nil, "", err
	}
	return listings, source, nil
}

// Compile-time check that Client implements the catalog source contract.
var _ petmed.CatalogSource = (*Client)(nil)
