// internal/store/memory.go
//
// In-memory registry of live game controllers.
// The HTTP layer creates a session.Game per "new game" request and looks it
// up by ID for every key event.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads, exclusive writes).
//   - State is lost when the process restarts; finished games are persisted
//     only through their statistics.
//   - Delete closes the controller so its message timer stops.
//   - Sweep evicts games idle since a cutoff; the HTTP server runs it on a
//     ticker so abandoned games do not pile up.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordleclone/internal/session"
)

// ErrNotFound is returned by Get for an unknown game ID.
var ErrNotFound = errors.New("game not found")

// Store holds live games keyed by ID.
type Store interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, g *session.Game) error

	// Get retrieves a game by ID or returns ErrNotFound.
	Get(ctx context.Context, id string) (*session.Game, error)

	// Delete drops a game; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep deletes every game whose last activity is before cutoff and
	// returns how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type memory struct {
	mu    sync.RWMutex
	games map[string]*session.Game
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*session.Game)}
}

func (m *memory) Save(_ context.Context, g *session.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.games[g.ID]; ok && old != g {
		old.Close()
	}
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*session.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	g, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()
	if ok {
		g.Close()
	}
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.RLock()
	var stale []string
	for id, g := range m.games {
		if g.LastActive().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		if err := m.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}
