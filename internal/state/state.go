package state

import (
	"sync"

	"github.com/flyboysam/SRG.Dashboard/internal/model"
)

// Store owns the current telemetry aggregate. One writer (the poll loop)
// mutates it; any number of readers take snapshots. Telemetry contains no
// reference types, so a value copy is a full clone and readers never hold a
// live reference into the store.
type Store struct {
	mu  sync.RWMutex
	cur model.Telemetry
}

// New creates a Store with zeroed telemetry. The first poll cycle populates
// status and system info within one interval.
func New() *Store {
	return &Store{}
}

// Snapshot returns a consistent copy of the current telemetry.
func (s *Store) Snapshot() model.Telemetry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// SetSystemInfo replaces the host metrics. Called unconditionally every
// cycle, before any sensor merge.
func (s *Store) SetSystemInfo(si model.SystemInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.System = si
}

// Update runs fn with exclusive access to the aggregate. The poll loop merges
// one cycle's status and sensor readings in a single call, so readers never
// observe a half-applied cycle. Fields fn leaves untouched keep their
// previous values.
func (s *Store) Update(fn func(*model.Telemetry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cur)
}
