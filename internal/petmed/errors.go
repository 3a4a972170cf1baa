// Error taxonomy shared across layers. Typed errors carry enough context for
// the calling layer to decide between retrying and surfacing a message; the
// core itself never retries.
package petmed

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotInitialized indicates the record store was used before Open.
var ErrNotInitialized = errors.New("record store not initialized")

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// InitError reports a failed schema bootstrap step. Tables created by earlier
// steps remain; creation is idempotent, so retrying InitializeAll is safe.
type InitError struct {
	Step string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Step, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// PersistenceError reports a failed read or write against an initialized
// store, naming the attempted operation and the entity involved.
type PersistenceError struct {
	Op     string
	Entity string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError reports caller input the repository refuses to act on,
// such as a partial update with zero fields to change.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AttemptFailure records why one candidate endpoint was rejected.
type AttemptFailure struct {
	URL    string
	Reason string
}

// NetworkUnavailableError means every candidate endpoint failed. The prober's
// callers resolve it to the fallback dataset rather than raising it further;
// degraded mode is reported as data (empty source), not as an exception.
type NetworkUnavailableError struct {
	Failures []AttemptFailure
}

func (e *NetworkUnavailableError) Error() string {
	if len(e.Failures) == 0 {
		return "no candidate endpoints configured"
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s (%s)", f.URL, f.Reason)
	}
	return "all candidate endpoints failed: " + strings.Join(parts, ", ")
}
