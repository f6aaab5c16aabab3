// Connection Manager: transport<->player association and the
// bounded disconnect-to-forfeit window.

package conn

import (
	"errors"
	"sync"
	"time"

	"chessd/internal/chess"
	"chessd/internal/room"
)

// DefaultForfeitWindow is the default reconnection grace period,
// exposed as a tuning knob.
const DefaultForfeitWindow = 60 * time.Second

// ErrNoSession is returned by Reconnect when no DisconnectionRecord
// matches the given player.
var ErrNoSession = errors.New("no-active-session")

// SeatRef identifies which room and color a player currently
// occupies.
type SeatRef struct {
	RoomCode string
	Color    chess.Color
}

// ForfeitFunc is invoked when the forfeit timer fires for a seated,
// still-disconnected player.
type ForfeitFunc func(ref SeatRef, playerID int64)

// disconnectionRecord is the live bookkeeping for one disconnected
// seated player.
type disconnectionRecord struct {
	ref            SeatRef
	disconnectedAt time.Time
	timer          *time.Timer
}

// Manager maintains the player<->transport, seat, and disconnect
// tables, and owns the forfeit timers. All access is serialized by mu;
// the timer-fire handler re-checks presence under the same lock to
// tolerate a race with a concurrent Reconnect.
type Manager struct {
	mu sync.Mutex

	socketToPlayer map[room.Transport]int64
	playerToSocket map[int64]room.Transport
	seated         map[int64]SeatRef
	disconnected   map[int64]*disconnectionRecord

	window      time.Duration
	onForfeit   ForfeitFunc
	onQueueDrop func(playerID int64)

	now func() time.Time
}

// NewManager constructs a Connection Manager. onForfeit is called
// (outside the manager's lock) when a seated player's forfeit timer
// fires without a reconnection; onQueueDrop is called when an
// unseated (matchmaking-queued) player disconnects.
func NewManager(window time.Duration, onForfeit ForfeitFunc, onQueueDrop func(int64)) *Manager {
	return &Manager{
		socketToPlayer: make(map[room.Transport]int64),
		playerToSocket: make(map[int64]room.Transport),
		seated:         make(map[int64]SeatRef),
		disconnected:   make(map[int64]*disconnectionRecord),
		window:         window,
		onForfeit:      onForfeit,
		onQueueDrop:    onQueueDrop,
		now:            time.Now,
	}
}

// Associate binds a live transport to a player identity. A new
// association evicts any previous transport recorded for that player,
// keeping exactly one live handle per player.
func (m *Manager) Associate(transport room.Transport, playerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.playerToSocket[playerID]; ok {
		delete(m.socketToPlayer, old)
	}
	m.socketToPlayer[transport] = playerID
	m.playerToSocket[playerID] = transport

	// A fresh association always supersedes a pending forfeit clock.
	m.cancelDisconnectLocked(playerID)
}

// SetSeat records that playerID currently occupies ref, so a future
// disconnection starts the forfeit timer instead of just dropping the
// matchmaking entry.
func (m *Manager) SetSeat(playerID int64, ref SeatRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seated[playerID] = ref
}

// ClearSeat forgets playerID's seat, e.g. once a game has ended and
// the room has been torn down.
func (m *Manager) ClearSeat(playerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seated, playerID)
	m.cancelDisconnectLocked(playerID)
}

// Disconnect handles the loss of transport. If the associated player
// is seated in a room, a single-shot forfeit timer is started;
// otherwise the player is forgotten and onQueueDrop is called so they
// can be removed from any matchmaking queue.
func (m *Manager) Disconnect(transport room.Transport) {
	m.mu.Lock()

	playerID, ok := m.socketToPlayer[transport]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.socketToPlayer, transport)
	delete(m.playerToSocket, playerID)

	ref, seated := m.seated[playerID]
	if !seated {
		m.mu.Unlock()
		if m.onQueueDrop != nil {
			m.onQueueDrop(playerID)
		}
		return
	}

	window := m.window
	if window <= 0 {
		window = DefaultForfeitWindow
	}

	rec := &disconnectionRecord{ref: ref, disconnectedAt: m.now()}
	rec.timer = time.AfterFunc(window, func() { m.fire(playerID) })
	m.disconnected[playerID] = rec
	m.mu.Unlock()
}

// fire is the forfeit timer callback. It re-checks presence under the
// lock before acting, tolerating a race with a concurrent Reconnect
// that already cancelled (but could not stop) this timer.
func (m *Manager) fire(playerID int64) {
	m.mu.Lock()
	rec, ok := m.disconnected[playerID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.disconnected, playerID)
	delete(m.seated, playerID)
	m.mu.Unlock()

	if m.onForfeit != nil {
		m.onForfeit(rec.ref, playerID)
	}
}

// Reconnect re-attaches transport to playerID's prior seat, cancelling
// the forfeit timer. It returns ErrNoSession if no disconnection
// record exists for playerID.
func (m *Manager) Reconnect(transport room.Transport, playerID int64) (SeatRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.disconnected[playerID]
	if !ok {
		return SeatRef{}, ErrNoSession
	}

	m.cancelDisconnectLocked(playerID)

	if old, ok := m.playerToSocket[playerID]; ok {
		delete(m.socketToPlayer, old)
	}
	m.socketToPlayer[transport] = playerID
	m.playerToSocket[playerID] = transport
	m.seated[playerID] = rec.ref

	return rec.ref, nil
}

// cancelDisconnectLocked stops and forgets any pending forfeit timer
// for playerID. Callers must hold m.mu.
func (m *Manager) cancelDisconnectLocked(playerID int64) {
	rec, ok := m.disconnected[playerID]
	if !ok {
		return
	}
	rec.timer.Stop()
	delete(m.disconnected, playerID)
}

// TransportFor returns the live transport associated with playerID,
// if any.
func (m *Manager) TransportFor(playerID int64) (room.Transport, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.playerToSocket[playerID]
	return t, ok
}

// IsDisconnected reports whether playerID currently has a pending
// forfeit timer, exposed for tests and diagnostics.
func (m *Manager) IsDisconnected(playerID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.disconnected[playerID]
	return ok
}
