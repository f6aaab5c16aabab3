// End-of-game procedure: the single idempotent path by which a room
// transitions to Ended, whether triggered by checkmate, resignation,
// an agreed draw, a rule-based draw, or a forfeit timer firing.

package session

import (
	"context"

	"chessd/internal/chess"
	"chessd/internal/conn"
	"chessd/internal/elo"
	"chessd/internal/proto"
	"chessd/internal/room"
)

// endGameLocked runs the end-of-game procedure for r and marks it
// Ended; it does nothing if r has already ended. The caller must
// hold r's lock; it returns with
// the lock still held, undisturbed, relying on defer r.Unlock() in
// the caller.
func (o *Orchestrator) endGameLocked(r *room.Room, reason string, winner *chess.Color) {
	if r.Ended {
		return
	}
	r.Ended = true

	white, black := r.White.PlayerInfo, r.Black.PlayerInfo

	whiteDelta, _ := elo.Change(white.Elo, black.Elo, actualScore(chess.White, winner))
	blackDelta, _ := elo.Change(black.Elo, white.Elo, actualScore(chess.Black, winner))
	whiteNew := white.Elo + whiteDelta
	blackNew := black.Elo + blackDelta

	ctx := context.Background()
	_ = o.Users.UpdateStats(ctx, white.Username, resultFor(chess.White, winner), whiteNew)
	_ = o.Users.UpdateStats(ctx, black.Username, resultFor(chess.Black, winner), blackNew)

	ended := proto.GameEnded{
		Reason:     reason,
		EloChanges: proto.EloChanges{White: whiteDelta, Black: blackDelta},
		NewElos:    proto.NewElos{White: whiteNew, Black: blackNew},
	}
	if winner != nil {
		ended.Winner = winner.String()
	}

	if r.White.Transport != nil {
		r.White.Transport.Send(proto.EventGameEnded, ended)
	}
	if r.Black.Transport != nil {
		r.Black.Transport.Send(proto.EventGameEnded, ended)
	}

	o.Rooms.Delete(r.Code)
	o.Conns.ClearSeat(white.ID)
	o.Conns.ClearSeat(black.ID)
}

// handleForfeit is the Connection Manager's ForfeitFunc: a seated
// player's reconnection grace period expired. The opposing color
// wins by timeout.
func (o *Orchestrator) handleForfeit(ref conn.SeatRef, playerID int64) {
	r, ok := o.Rooms.Get(ref.RoomCode)
	if !ok {
		return
	}

	r.Lock()
	defer r.Unlock()

	if r.Ended {
		return
	}
	winner := ref.Color.Opposite()
	o.endGameLocked(r, "timeout", &winner)
}

// handleQueueDrop is the Connection Manager's callback for a player
// who disconnects while still waiting in the matchmaking queue rather
// than seated in a room.
func (o *Orchestrator) handleQueueDrop(playerID int64) {
	o.Rooms.RemoveFromMatchmaking(playerID)
}

// notifyDisconnect tells a seated player's opponent that they have
// dropped, immediately on socket loss, ahead of whatever the forfeit
// timer eventually decides.
func (o *Orchestrator) notifyDisconnect(c *client) {
	if !c.seated || c.roomCode == "" {
		return
	}
	r, ok := o.Rooms.Get(c.roomCode)
	if !ok {
		return
	}

	r.Lock()
	defer r.Unlock()

	if r.Ended {
		return
	}
	color, seated := r.SeatColor(c.playerID)
	if !seated {
		return
	}
	opponent := r.SeatOf(color.Opposite())
	if opponent != nil && opponent.Transport != nil {
		opponent.Transport.Send(proto.EventOpponentDisconnected, proto.OpponentDisconnected{Username: c.username})
	}
}
