// In-memory user store, used by tests and as the zero-configuration
// default for a single-process deployment.

package users

import (
	"context"
	"sync"
)

// Memory is a map-backed Store.
type Memory struct {
	mu    sync.Mutex
	byKey map[string]*Record
	nextID int64
}

// NewMemory returns an empty in-memory user store.
func NewMemory() *Memory {
	return &Memory{byKey: make(map[string]*Record)}
}

func (m *Memory) GetUser(_ context.Context, username string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byKey[username]
	if !ok {
		m.nextID++
		r = &Record{ID: m.nextID, Username: username, Elo: DefaultElo}
		m.byKey[username] = r
	}
	return *r, nil
}

func (m *Memory) UpdateStats(_ context.Context, username string, result Result, newElo int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byKey[username]
	if !ok {
		m.nextID++
		r = &Record{ID: m.nextID, Username: username, Elo: DefaultElo}
		m.byKey[username] = r
	}

	r.Elo = newElo
	r.GamesPlayed++
	switch result {
	case Win:
		r.Wins++
	case Loss:
		r.Losses++
	case Draw:
		r.Draws++
	}
	return nil
}
