package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"petmed-go/internal/config"
	"petmed-go/internal/petmed"
)

func TestClient_FetchCatalog(t *testing.T) {
	t.Run("decodes the winning endpoint's payload", func(t *testing.T) {
		srv := jsonServer(t, `[
			{"id": 1, "nome": "Dipirona 500mg", "laboratorio": "EMS"},
			{"id": "2", "nome": "Paracetamol 750mg"}
		]`)

		client := NewClientFromConfig(
			config.CatalogConfig{Endpoints: []string{srv.URL}},
			config.PricesConfig{},
			nil,
		)

		meds, source, err := client.FetchCatalog(context.Background())
		if err != nil {
			t.Fatalf("FetchCatalog() error = %v", err)
		}
		if source != srv.URL {
			t.Errorf("source = %q, want %q", source, srv.URL)
		}
		if len(meds) != 2 {
			t.Fatalf("got %d medicines, want 2", len(meds))
		}
		// Ids normalize regardless of wire type.
		if meds[0].ID != "1" || meds[1].ID != "2" {
			t.Errorf("ids = %q, %q", meds[0].ID, meds[1].ID)
		}
	})

	t.Run("custom endpoint probes first", func(t *testing.T) {
		custom := jsonServer(t, `[{"id": 1, "nome": "Dipirona 500mg"}]`)
		fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("fallback endpoint probed despite a healthy custom endpoint")
		}))
		t.Cleanup(fallback.Close)

		client := NewClientFromConfig(
			config.CatalogConfig{
				CustomEndpoint: custom.URL,
				Endpoints:      []string{fallback.URL},
			},
			config.PricesConfig{},
			nil,
		)

		_, source, err := client.FetchCatalog(context.Background())
		if err != nil {
			t.Fatalf("FetchCatalog() error = %v", err)
		}
		if source != custom.URL {
			t.Errorf("source = %q, want the custom endpoint", source)
		}
	})

	t.Run("exhaustion surfaces as network unavailable", func(t *testing.T) {
		broken := statusServer(t, http.StatusServiceUnavailable)

		client := NewClientFromConfig(
			config.CatalogConfig{Endpoints: []string{broken.URL}},
			config.PricesConfig{},
			nil,
		)

		_, _, err := client.FetchCatalog(context.Background())
		var netErr *petmed.NetworkUnavailableError
		if !errors.As(err, &netErr) {
			t.Fatalf("error = %v, want *NetworkUnavailableError", err)
		}
	})
}

func TestClient_FetchStoreListings(t *testing.T) {
	t.Run("decodes listings", func(t *testing.T) {
		srv := jsonServer(t, `[
			{"id": "2", "nome": "Farmácia Animal", "produtos": [
				{"medicamentoId": 1, "preco": 39.0}
			]}
		]`)

		client := NewClientFromConfig(
			config.CatalogConfig{},
			config.PricesConfig{Endpoints: []string{srv.URL}},
			nil,
		)

		listings, source, err := client.FetchStoreListings(context.Background())
		if err != nil {
			t.Fatalf("FetchStoreListings() error = %v", err)
		}
		if source != srv.URL {
			t.Errorf("source = %q, want %q", source, srv.URL)
		}
		if len(listings) != 1 {
			t.Fatalf("got %d listings, want 1", len(listings))
		}
		l := listings[0]
		if l.ID != 2 || l.Nome != "Farmácia Animal" {
			t.Errorf("listing = %+v", l)
		}
		if len(l.Produtos) != 1 || l.Produtos[0].MedicineID != "1" || l.Produtos[0].Preco != 39.0 {
			t.Errorf("produtos = %+v", l.Produtos)
		}
	})
}
