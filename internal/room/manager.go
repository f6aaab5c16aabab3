// Room Manager: registry of active sessions keyed by 6-character
// codes, plus FIFO matchmaking. The registry and the matchmaking
// queue are global state guarded by a single mutex, separate from any
// per-Room lock.

package room

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"
)

var (
	ErrRoomNotFound     = errors.New("room-not-found")
	ErrRoomFull         = errors.New("room-full")
	ErrCannotJoinOwnRoom = errors.New("cannot-join-own-room")
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MatchmakingEntry is one waiting player in the FIFO queue.
type MatchmakingEntry struct {
	PlayerInfo
	Transport Transport
	Timestamp time.Time
}

// Manager owns the room registry and the matchmaking queue. All
// access is serialized by a single mutex, separate from any
// per-Room lock.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*Room
	queue []MatchmakingEntry

	now func() time.Time
}

// NewManager returns an empty Room Manager.
func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		now:   time.Now,
	}
}

// generateRoomCode returns six uniformly random characters from
// A-Z0-9. Callers must hold m.mu.
func (m *Manager) generateRoomCode() string {
	// Bytes at or above this bound are redrawn so that every alphabet
	// character is equally likely.
	limit := 256 - 256%len(codeAlphabet)
	buf := make([]byte, 6)
	var b [1]byte
	for {
		for i := 0; i < len(buf); {
			if _, err := rand.Read(b[:]); err != nil {
				panic(err) // crypto/rand failing is unrecoverable
			}
			if int(b[0]) >= limit {
				continue
			}
			buf[i] = codeAlphabet[int(b[0])%len(codeAlphabet)]
			i++
		}
		code := string(buf)
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

// CreateRoom seats playerInfo as white in a freshly coded room with
// no board yet.
func (m *Manager) CreateRoom(info PlayerInfo, transport Transport) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	r := &Room{
		Code:         m.generateRoomCode(),
		White:        Seat{PlayerInfo: info, Transport: transport},
		CreatedAt:    now,
		LastActivity: now,
	}
	m.rooms[r.Code] = r
	return r
}

// JoinRoom seats info as black in the room identified by code.
func (m *Manager) JoinRoom(code string, info PlayerInfo, transport Transport) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.Playable() {
		return nil, ErrRoomFull
	}
	if r.White.ID == info.ID {
		return nil, ErrCannotJoinOwnRoom
	}

	r.Black = &Seat{PlayerInfo: info, Transport: transport}
	r.Touch(m.now())
	return r, nil
}

// Get looks up a room by code without mutating anything.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	return r, ok
}

// Delete removes a room from the registry, e.g. at game end.
func (m *Manager) Delete(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
}

// AddToMatchmaking enqueues playerID, overwriting any existing entry
// in place.
func (m *Manager) AddToMatchmaking(info PlayerInfo, transport Transport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := MatchmakingEntry{PlayerInfo: info, Transport: transport, Timestamp: m.now()}
	for i := range m.queue {
		if m.queue[i].ID == info.ID {
			m.queue[i] = entry
			return
		}
	}
	m.queue = append(m.queue, entry)
}

// RemoveFromMatchmaking removes any entry for playerID; silent on
// absence.
func (m *Manager) RemoveFromMatchmaking(playerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeFromMatchmakingLocked(playerID)
}

func (m *Manager) removeFromMatchmakingLocked(playerID int64) {
	for i := range m.queue {
		if m.queue[i].ID == playerID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// FindMatch dequeues the two oldest entries (strict FIFO) and creates
// a room seating them as white and black respectively. It returns nil
// if fewer than two players are waiting.
func (m *Manager) FindMatch() *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) < 2 {
		return nil
	}

	white, black := m.queue[0], m.queue[1]
	m.queue = m.queue[2:]

	now := m.now()
	r := &Room{
		Code:         m.generateRoomCode(),
		White:        Seat{PlayerInfo: white.PlayerInfo, Transport: white.Transport},
		Black:        &Seat{PlayerInfo: black.PlayerInfo, Transport: black.Transport},
		CreatedAt:    now,
		LastActivity: now,
	}
	m.rooms[r.Code] = r
	return r
}

// QueueLen reports the number of players currently waiting; exposed
// for tests and diagnostics.
func (m *Manager) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
