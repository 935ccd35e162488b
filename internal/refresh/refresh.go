// Package refresh keeps an in-memory menu snapshot fresh against the gateway.
// Two interchangeable strategies exist: Poller (fixed-interval refetch) and
// Subscriber (change-notification driven refetch). Both replace the snapshot
// wholesale on every successful fetch; there is no delta merge.
package refresh

import (
	"context"
	"errors"
	"sync"

	"menuboard/internal/model"
)

// Status is the refresh lifecycle state. Both ready and failed transition
// back to loading on the next refresh trigger.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// ErrNotFound is returned by fetchers when no restaurant matches the slug.
var ErrNotFound = errors.New("menu not found")

// Fetcher performs the composite menu read.
type Fetcher interface {
	FetchMenu(ctx context.Context) (*model.Menu, error)
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context) (*model.Menu, error)

func (f FetchFunc) FetchMenu(ctx context.Context) (*model.Menu, error) {
	return f(ctx)
}

// Watcher is the shared contract of both refresh strategies.
type Watcher interface {
	// Start begins refreshing. It returns after the initial fetch completes.
	Start(ctx context.Context) error
	// Stop tears the strategy down deterministically. Idempotent.
	Stop()
	// Snapshot returns the current menu (nil before the first successful
	// fetch) and the version counter of the applied fetch.
	Snapshot() (*model.Menu, uint64)
	Status() Status
	LastError() error
	// Refresh triggers one out-of-band refetch.
	Refresh()
}

// snapshot is the strategy-shared state holder. It owns the sequence guard:
// every fetch is tagged with an increasing sequence number and a response is
// discarded if a later response already applied, so a slow fetch can never
// overwrite a fresher snapshot.
type snapshot struct {
	mu       sync.RWMutex
	menu     *model.Menu
	applied  uint64
	seq      uint64
	status   Status
	lastErr  error
	onChange func(*model.Menu)
}

func newSnapshot(onChange func(*model.Menu)) *snapshot {
	return &snapshot{status: StatusIdle, onChange: onChange}
}

// next issues a sequence number for a fetch about to start.
func (s *snapshot) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.status = StatusLoading
	return s.seq
}

// apply installs a fetched menu if no newer fetch has applied yet. It returns
// whether the response was accepted.
func (s *snapshot) apply(seq uint64, menu *model.Menu) bool {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		return false
	}
	s.applied = seq
	s.menu = menu
	s.status = StatusReady
	s.lastErr = nil
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(menu)
	}
	return true
}

// fail records a fetch error. The previous snapshot is left in place.
func (s *snapshot) fail(err error) {
	s.mu.Lock()
	s.status = StatusFailed
	s.lastErr = err
	s.mu.Unlock()
}

func (s *snapshot) get() (*model.Menu, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menu, s.applied
}

func (s *snapshot) currentStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *snapshot) err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// fetchInto runs one fetch under the sequence guard.
func fetchInto(ctx context.Context, f Fetcher, s *snapshot) error {
	seq := s.next()
	menu, err := f.FetchMenu(ctx)
	if err == nil && menu == nil {
		err = ErrNotFound
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.apply(seq, menu)
	return nil
}
