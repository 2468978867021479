package stats

import (
	"context"
	"sync"
)

// memory is an in-memory map-based Store implementation.
// State is lost when the process restarts.
type memory struct {
	mu      sync.RWMutex     // guards records
	records map[string]Stats // keyed by player ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{records: make(map[string]Stats)}
}

func (m *memory) Load(_ context.Context, playerID string) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.records[playerID]), nil
}

func (m *memory) Record(_ context.Context, playerID string, r Result) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.records[playerID].Apply(r)
	m.records[playerID] = s
	return clone(s), nil
}

// clone detaches the BestTimeSeconds pointer from the stored record.
func clone(s Stats) Stats {
	if s.BestTimeSeconds != nil {
		v := *s.BestTimeSeconds
		s.BestTimeSeconds = &v
	}
	return s
}
