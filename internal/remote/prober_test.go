package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"petmed-go/internal/petmed"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func statusServer(t *testing.T, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// slowServer blocks until the client goes away, forcing a per-attempt timeout.
func slowServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProber_FetchFirst(t *testing.T) {
	t.Run("returns the first success", func(t *testing.T) {
		good := jsonServer(t, `{"value":"first"}`)

		var hits int32
		later := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(`{"value":"second"}`))
		}))
		t.Cleanup(later.Close)

		var out struct {
			Value string `json:"value"`
		}
		p := NewProber(nil, nil)
		url, err := p.FetchFirst(context.Background(), []string{good.URL, later.URL}, time.Second, &out)
		if err != nil {
			t.Fatalf("FetchFirst() error = %v", err)
		}
		if url != good.URL {
			t.Errorf("winning url = %q, want %q", url, good.URL)
		}
		if out.Value != "first" {
			t.Errorf("decoded value = %q, want %q", out.Value, "first")
		}
		if n := atomic.LoadInt32(&hits); n != 0 {
			t.Errorf("later candidate was probed %d times after a success", n)
		}
	})

	t.Run("skips failing candidates", func(t *testing.T) {
		slow := slowServer(t)
		broken := statusServer(t, http.StatusInternalServerError)
		good := jsonServer(t, `{"value":"ok"}`)

		var out struct {
			Value string `json:"value"`
		}
		p := NewProber(nil, nil)
		start := time.Now()
		url, err := p.FetchFirst(context.Background(),
			[]string{slow.URL, broken.URL, good.URL}, 100*time.Millisecond, &out)
		elapsed := time.Since(start)

		if err != nil {
			t.Fatalf("FetchFirst() error = %v", err)
		}
		if url != good.URL {
			t.Errorf("winning url = %q, want %q", url, good.URL)
		}
		if out.Value != "ok" {
			t.Errorf("decoded value = %q", out.Value)
		}
		if elapsed < 100*time.Millisecond {
			t.Errorf("elapsed %v, want at least the first candidate's timeout", elapsed)
		}
	})

	t.Run("exhaustion reports every failure", func(t *testing.T) {
		broken := statusServer(t, http.StatusInternalServerError)
		missing := statusServer(t, http.StatusNotFound)

		var out any
		p := NewProber(nil, nil)
		_, err := p.FetchFirst(context.Background(), []string{broken.URL, missing.URL}, time.Second, &out)
		if err == nil {
			t.Fatal("FetchFirst() expected error when every candidate fails")
		}

		var netErr *petmed.NetworkUnavailableError
		if !errors.As(err, &netErr) {
			t.Fatalf("error = %v, want *NetworkUnavailableError", err)
		}
		if len(netErr.Failures) != 2 {
			t.Fatalf("got %d failures, want 2", len(netErr.Failures))
		}
		if netErr.Failures[0].URL != broken.URL {
			t.Errorf("failures[0].URL = %q, want %q", netErr.Failures[0].URL, broken.URL)
		}
		for i, f := range netErr.Failures {
			if f.Reason == "" {
				t.Errorf("failures[%d] has no reason", i)
			}
		}
	})

	t.Run("non-2xx is a failure", func(t *testing.T) {
		broken := statusServer(t, http.StatusBadGateway)

		var out any
		p := NewProber(nil, nil)
		_, err := p.FetchFirst(context.Background(), []string{broken.URL}, time.Second, &out)

		var netErr *petmed.NetworkUnavailableError
		if !errors.As(err, &netErr) {
			t.Fatalf("error = %v, want *NetworkUnavailableError", err)
		}
	})

	t.Run("malformed body is a failure", func(t *testing.T) {
		garbage := jsonServer(t, `{not json`)

		var out struct{}
		p := NewProber(nil, nil)
		_, err := p.FetchFirst(context.Background(), []string{garbage.URL}, time.Second, &out)

		var netErr *petmed.NetworkUnavailableError
		if !errors.As(err, &netErr) {
			t.Fatalf("error = %v, want *NetworkUnavailableError", err)
		}
	})

	t.Run("cancelled context stops probing", func(t *testing.T) {
		slow := slowServer(t)

		var hits int32
		never := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(`{}`))
		}))
		t.Cleanup(never.Close)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		var out any
		p := NewProber(nil, nil)
		_, err := p.FetchFirst(ctx, []string{slow.URL, never.URL}, 10*time.Second, &out)
		if err == nil {
			t.Fatal("FetchFirst() expected error after cancellation")
		}
		if n := atomic.LoadInt32(&hits); n != 0 {
			t.Errorf("candidate after cancellation was probed %d times", n)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		var out any
		p := NewProber(nil, nil)
		_, err := p.FetchFirst(context.Background(), nil, time.Second, &out)

		var netErr *petmed.NetworkUnavailableError
		if !errors.As(err, &netErr) {
			t.Fatalf("error = %v, want *NetworkUnavailableError", err)
		}
		if len(netErr.Failures) != 0 {
			t.Errorf("got %d failures, want 0", len(netErr.Failures))
		}
	})
}
