package state

import "sync"

// Store owns the aggregate record for the daemon's lifetime. Periodic tasks
// write through TryUpdate, IPC handlers read through Snapshot; neither side
// ever holds a reference into the record itself.
type Store struct {
	mu      sync.RWMutex
	current Aggregate
	version uint64
}

// NewStore creates a store pre-populated with the sentinel defaults so reads
// before the first tick return a fully formed record.
func NewStore() *Store {
	return &Store{current: Defaults()}
}

// Snapshot returns a deep copy of the aggregate, suitable for serialization.
// Concurrent snapshots proceed in parallel; an in-progress write blocks them
// only for the duration of the mutation.
func (s *Store) Snapshot() Aggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// TryUpdate attempts an exclusive write without waiting. If the lock is held
// it returns false and the caller skips this tick; the next tick tries again.
// On success the mutation is applied and the version counter advances.
func (s *Store) TryUpdate(apply func(*Aggregate)) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	apply(&s.current)
	s.version++
	return true
}

// Seed performs a blocking write. Used once at scheduler startup to copy the
// configured launcher shortcuts in before any periodic task runs.
func (s *Store) Seed(apply func(*Aggregate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.current)
	s.version++
}

// Version reports how many writes have been committed. Useful for metrics
// and tests; it is not part of the wire protocol.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
