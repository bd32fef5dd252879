// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live evil hangman games between HTTP requests.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - The map is guarded by an RWMutex; each game additionally carries its own
//     mutex so guesses against one game are applied one at a time while
//     different games proceed in parallel.
//   - Idle games are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/evilhangman/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live games.
type Store interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get returns a snapshot of the game with the given ID.
	Get(ctx context.Context, id string) (game.Snapshot, error)

	// Update runs fn with exclusive access to the game.
	// fn's error is returned unchanged.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) error

	// Sweep removes games untouched since before and returns how many went.
	Sweep(ctx context.Context, before time.Time) int
}

type entry struct {
	mu      sync.Mutex // serialises mutations of g
	g       *game.Game
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex      // guards games map
	games map[string]*entry // keyed by Game.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{games: make(map[string]*entry), now: now}
}

// Save adds or replaces the game in the map.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &entry{g: g, touched: m.now()}
	return nil
}

// Get looks up a game by ID.
func (m *memory) Get(ctx context.Context, id string) (game.Snapshot, error) {
	e, err := m.entry(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.Snapshot(), nil
}

// Update locks the game for the duration of fn.
func (m *memory) Update(ctx context.Context, id string, fn func(g *game.Game) error) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	e.touched = m.now()
	return fn(e.g)
}

// Sweep drops games whose last access is older than before.
func (m *memory) Sweep(ctx context.Context, before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		e.mu.Lock()
		stale := e.touched.Before(before)
		e.mu.Unlock()
		if stale {
			delete(m.games, id)
			n++
		}
	}
	return n
}

func (m *memory) entry(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.games[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}
