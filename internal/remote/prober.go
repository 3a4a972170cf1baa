// Package remote reaches the catalog/price service by probing an ordered
// list of candidate endpoints. Probing is linear and first-success: worst
// case latency is the sum of the failed attempts' timeouts, an accepted
// trade-off for a short candidate list.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"petmed-go/internal/petmed"
)

// HTTPError represents a non-2xx response from a candidate endpoint.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Prober issues first-success linear probes over candidate URLs. Each
// attempt runs under its own deadline; a timed-out or failed attempt is
// cancelled (request aborted, body closed) before the next candidate is
// tried, so repeated searches do not leak connections.
type Prober struct {
	client *http.Client
	logger petmed.Logger
}

// NewProber creates a Prober. A nil client defaults to one without a global
// timeout; per-attempt deadlines come from the probe context. A nil logger
// defaults to the nop logger.
func NewProber(client *http.Client, logger petmed.Logger) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = petmed.NewNopLogger()
	}
	return &Prober{client: client, logger: logger}
}

// FetchFirst tries each candidate in order and decodes the first 2xx JSON
// body into out, returning the winning URL. No later candidate is tried once
// one succeeds. When every candidate fails the error is
// *petmed.NetworkUnavailableError carrying the per-candidate reasons.
func (p *Prober) FetchFirst(ctx context.Context, candidates []string, timeout time.Duration, out any) (string, error) {
	failures := make([]petmed.AttemptFailure, 0, len(candidates))

	for _, url := range candidates {
		err := p.attempt(ctx, url, timeout, out)
		if err == nil {
			p.logger.Info("endpoint responded", "url", url)
			return url, nil
		}

		p.logger.Debug("endpoint failed", "url", url, "reason", err.Error())
		failures = append(failures, petmed.AttemptFailure{URL: url, Reason: err.Error()})

		// A cancelled parent context dooms the remaining candidates too.
		if ctx.Err() != nil {
			break
		}
	}

	return "", &petmed.NetworkUnavailableError{Failures: failures}
}

// attempt issues one GET under its own deadline.
func (p *Prober) attempt(ctx context.Context, url string, timeout time.Duration, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
