// Room and player data types.

package room

import (
	"sync"
	"time"

	"chessd/internal/chess"
)

// PlayerInfo is what a client supplies when creating, joining or
// queueing for a room: everything the Session Orchestrator needs to
// seat them, independent of the live transport.
type PlayerInfo struct {
	ID       int64
	Username string
	Elo      int
}

// Seat is a seated player: identity plus the transport handle the
// player was seated or reconnected with. The handle is not cleared
// when the player disconnects; a reconnection replaces it.
type Seat struct {
	PlayerInfo
	Transport Transport
}

// Transport is the minimal surface the room package needs from a live
// connection; concrete transports (WebSocket, in-memory for tests)
// implement it without this package depending on net/http or any
// particular wire codec.
type Transport interface {
	Send(event string, data interface{}) error
	Close() error
}

// Room is a two-player game session, keyed by its 6-character code.
type Room struct {
	Code  string
	White Seat
	Black *Seat // nil until the room is fully seated

	Board *chess.Board // nil until both seats are filled

	CreatedAt    time.Time
	LastActivity time.Time

	// DisconnectDeadline is a diagnostic field. Nothing in the server
	// writes it, so it stays nil; disconnection deadlines live only in
	// the connection manager's records. It is not read by any invariant.
	DisconnectDeadline map[chess.Color]time.Time

	// PendingDrawOffer tracks an outstanding draw offer; nil means
	// none is outstanding.
	PendingDrawOffer *chess.Color

	// Ended marks that the end-of-game procedure has already run for
	// this room, making both it and the forfeit callback idempotent
	// against a concurrent timer fire or reconnection.
	Ended bool

	mu sync.Mutex
}

// Lock acquires the room's single per-room lock, under which its
// Board, seats and Ended flag are mutated.
func (r *Room) Lock() { r.mu.Lock() }

// Unlock releases the room's lock.
func (r *Room) Unlock() { r.mu.Unlock() }

// Playable reports whether both seats are filled.
func (r *Room) Playable() bool { return r.Black != nil }

// SeatColor returns the color of playerID's seat in the room, or
// false if playerID is not seated here.
func (r *Room) SeatColor(playerID int64) (chess.Color, bool) {
	if r.White.ID == playerID {
		return chess.White, true
	}
	if r.Black != nil && r.Black.ID == playerID {
		return chess.Black, true
	}
	return chess.White, false
}

// SeatOf returns a pointer to the Seat of the given color.
func (r *Room) SeatOf(c chess.Color) *Seat {
	if c == chess.White {
		return &r.White
	}
	return r.Black
}

// Touch refreshes the room's last-activity timestamp.
func (r *Room) Touch(now time.Time) { r.LastActivity = now }
