// Per-event handlers. Each handler decodes its payload, validates
// identity/ownership, mutates room/board state under the room's lock,
// and emits the resulting events to both participants.

package session

import (
	"encoding/json"
	"time"

	"chessd/internal/chess"
	"chessd/internal/conn"
	"chessd/internal/proto"
	"chessd/internal/room"
	"chessd/internal/validator"
)

func decode[T any](data json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

func (o *Orchestrator) handleCreateRoom(c *client, data json.RawMessage) {
	req, ok := decode[proto.CreateRoomRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed create-room request"})
		return
	}
	rec, err := o.identify(c, req.PlayerInfo)
	if err != nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: "unknown player"})
		return
	}

	r := o.Rooms.CreateRoom(toRoomInfo(rec), c.transport)
	c.roomCode = r.Code
	c.seated = true

	o.Conns.Associate(c.transport, rec.ID)
	o.Conns.SetSeat(rec.ID, conn.SeatRef{RoomCode: r.Code, Color: chess.White})

	c.send(proto.EventRoomCreated, proto.RoomCreated{Code: r.Code})
}

func (o *Orchestrator) handleJoinRoom(c *client, data json.RawMessage) {
	req, ok := decode[proto.JoinRoomRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed join-room request"})
		return
	}
	rec, err := o.identify(c, req.PlayerInfo)
	if err != nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: "unknown player"})
		return
	}

	r, err := o.Rooms.JoinRoom(req.Code, toRoomInfo(rec), c.transport)
	if err != nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: err.Error()})
		return
	}

	r.Lock()
	r.Board = chess.NewBoard()
	r.Touch(time.Now())
	state := proto.BoardToWire(r.Board, chess.Playing)
	r.Unlock()

	c.roomCode = req.Code
	c.seated = true

	o.Conns.Associate(c.transport, rec.ID)
	o.Conns.SetSeat(rec.ID, conn.SeatRef{RoomCode: r.Code, Color: chess.Black})

	white := toWireInfo(r.White.PlayerInfo)
	black := toWireInfo(r.Black.PlayerInfo)

	r.White.Transport.Send(proto.EventGameStarted, proto.GameStarted{
		Code: r.Code, PlayerColor: chess.White.String(),
		WhitePlayer: white, BlackPlayer: black, GameState: state,
	})
	c.send(proto.EventGameStarted, proto.GameStarted{
		Code: r.Code, PlayerColor: chess.Black.String(),
		WhitePlayer: white, BlackPlayer: black, GameState: state,
	})
}

func (o *Orchestrator) handleFindMatch(c *client, data json.RawMessage) {
	req, ok := decode[proto.FindMatchRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed find-match request"})
		return
	}
	rec, err := o.identify(c, req.PlayerInfo)
	if err != nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: "unknown player"})
		return
	}

	o.Conns.Associate(c.transport, rec.ID)
	o.Rooms.AddToMatchmaking(toRoomInfo(rec), c.transport)

	r := o.Rooms.FindMatch()
	if r == nil {
		return
	}
	o.startMatchedRoom(r)
}

// startMatchedRoom finalizes a room produced by FindMatch: seats both
// players in the connection manager and sends game-started to each.
func (o *Orchestrator) startMatchedRoom(r *room.Room) {
	r.Lock()
	r.Board = chess.NewBoard()
	state := proto.BoardToWire(r.Board, chess.Playing)
	r.Unlock()

	o.Conns.SetSeat(r.White.ID, conn.SeatRef{RoomCode: r.Code, Color: chess.White})
	o.Conns.SetSeat(r.Black.ID, conn.SeatRef{RoomCode: r.Code, Color: chess.Black})

	white := toWireInfo(r.White.PlayerInfo)
	black := toWireInfo(r.Black.PlayerInfo)

	r.White.Transport.Send(proto.EventMatchFound, proto.GameStarted{
		Code: r.Code, PlayerColor: chess.White.String(),
		WhitePlayer: white, BlackPlayer: black, GameState: state,
	})
	r.Black.Transport.Send(proto.EventMatchFound, proto.GameStarted{
		Code: r.Code, PlayerColor: chess.Black.String(),
		WhitePlayer: white, BlackPlayer: black, GameState: state,
	})
}

func (o *Orchestrator) handleMakeMove(c *client, data json.RawMessage) {
	req, ok := decode[proto.MakeMoveRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed make-move request"})
		return
	}

	r, ok := o.Rooms.Get(req.Code)
	if !ok || !r.Playable() {
		c.send(proto.EventError, proto.ErrorMessage{Message: "room-not-found"})
		return
	}

	r.Lock()
	defer r.Unlock()

	if r.Ended {
		c.send(proto.EventMoveInvalid, proto.MoveInvalid{Reason: "game-already-ended"})
		return
	}

	color, seated := r.SeatColor(c.playerID)
	if !seated {
		reason := "not-seated-in-room"
		if c.playerID == 0 {
			reason = "player-not-identified"
		}
		c.send(proto.EventError, proto.ErrorMessage{Message: reason})
		return
	}

	from := proto.SquareFromWire(req.From)
	to := proto.SquareFromWire(req.To)

	result := validator.Validate(r.Board, from, to, req.Promotion, color)
	if !result.Valid() {
		c.send(proto.EventMoveInvalid, proto.MoveInvalid{Reason: string(result.Reason)})
		return
	}

	rec, err := chess.Apply(r.Board, chess.Move{From: from, To: to, Kind: result.Kind, Promotion: result.Promotion})
	if err != nil {
		c.send(proto.EventMoveInvalid, proto.MoveInvalid{Reason: err.Error()})
		return
	}
	r.PendingDrawOffer = nil
	r.Touch(time.Now())

	status := chess.CurrentStatus(r.Board)
	moveMade := proto.MoveMade{
		Move:      proto.MoveRecordToWire(rec),
		GameState: proto.BoardToWire(r.Board, status),
	}
	r.White.Transport.Send(proto.EventMoveMade, moveMade)
	if r.Black != nil {
		r.Black.Transport.Send(proto.EventMoveMade, moveMade)
	}

	switch status {
	case chess.Checkmate:
		winner := color
		o.endGameLocked(r, "checkmate", &winner)
	case chess.Stalemate:
		o.endGameLocked(r, "stalemate", nil)
	case chess.Draw:
		if r.Board.HalfmoveClock >= 100 {
			o.endGameLocked(r, "fifty-move-rule", nil)
		} else {
			o.endGameLocked(r, "insufficient-material", nil)
		}
	}
}

func (o *Orchestrator) handleChatMessage(c *client, data json.RawMessage) {
	req, ok := decode[proto.ChatMessageRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed chat-message request"})
		return
	}
	if len(req.Message) < 1 {
		c.send(proto.EventError, proto.ErrorMessage{Message: "message-empty"})
		return
	}
	if o.MaxChatMessageLength > 0 && len(req.Message) > o.MaxChatMessageLength {
		c.send(proto.EventError, proto.ErrorMessage{Message: "message-too-long"})
		return
	}

	r, ok := o.Rooms.Get(req.Code)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "room-not-found"})
		return
	}

	r.Lock()
	defer r.Unlock()

	if _, seated := r.SeatColor(c.playerID); !seated {
		c.send(proto.EventError, proto.ErrorMessage{Message: "not-seated-in-room"})
		return
	}

	broadcast := proto.ChatMessageBroadcast{
		Sender:    c.username,
		Message:   req.Message,
		Timestamp: time.Now(),
	}
	r.White.Transport.Send(proto.EventChatMessageBroadcast, broadcast)
	if r.Black != nil {
		r.Black.Transport.Send(proto.EventChatMessageBroadcast, broadcast)
	}
}

func (o *Orchestrator) handleOfferDraw(c *client, data json.RawMessage) {
	req, ok := decode[proto.OfferDrawRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed offer-draw request"})
		return
	}

	r, ok := o.Rooms.Get(req.Code)
	if !ok || !r.Playable() {
		c.send(proto.EventError, proto.ErrorMessage{Message: "room-not-found"})
		return
	}

	r.Lock()
	defer r.Unlock()

	color, seated := r.SeatColor(c.playerID)
	if !seated || r.Ended {
		return
	}
	r.PendingDrawOffer = &color

	opponent := r.SeatOf(color.Opposite())
	opponent.Transport.Send(proto.EventDrawOffered, proto.DrawOffered{OfferedBy: c.username})
}

func (o *Orchestrator) handleRespondDraw(c *client, data json.RawMessage) {
	req, ok := decode[proto.RespondDrawRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed respond-draw request"})
		return
	}

	r, ok := o.Rooms.Get(req.Code)
	if !ok || !r.Playable() {
		c.send(proto.EventError, proto.ErrorMessage{Message: "room-not-found"})
		return
	}

	r.Lock()
	color, seated := r.SeatColor(c.playerID)
	if !seated || r.Ended {
		r.Unlock()
		return
	}
	if r.PendingDrawOffer == nil || *r.PendingDrawOffer == color {
		r.Unlock()
		c.send(proto.EventError, proto.ErrorMessage{Message: "no-pending-draw-offer"})
		return
	}
	r.PendingDrawOffer = nil

	if req.Accept {
		o.endGameLocked(r, "draw-agreed", nil)
		r.Unlock()
		return
	}

	opponentColor := color.Opposite()
	opponent := r.SeatOf(opponentColor)
	r.Unlock()
	opponent.Transport.Send(proto.EventDrawDeclined, proto.DrawDeclined{DeclinedBy: c.username})
}

func (o *Orchestrator) handleResign(c *client, data json.RawMessage) {
	req, ok := decode[proto.ResignRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed resign request"})
		return
	}

	r, ok := o.Rooms.Get(req.Code)
	if !ok || !r.Playable() {
		c.send(proto.EventError, proto.ErrorMessage{Message: "room-not-found"})
		return
	}

	r.Lock()
	defer r.Unlock()

	color, seated := r.SeatColor(c.playerID)
	if !seated || r.Ended {
		return
	}

	winner := color.Opposite()
	o.endGameLocked(r, "resignation", &winner)
}

func (o *Orchestrator) handleReconnect(c *client, data json.RawMessage) {
	req, ok := decode[proto.ReconnectRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed reconnect-player request"})
		return
	}

	ref, err := o.Conns.Reconnect(c.transport, req.PlayerID)
	if err != nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: "no-active-session"})
		return
	}

	r, ok := o.Rooms.Get(ref.RoomCode)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "room-not-found"})
		return
	}

	c.playerID = req.PlayerID
	c.roomCode = ref.RoomCode
	c.seated = true

	r.Lock()
	seat := r.SeatOf(ref.Color)
	seat.Transport = c.transport
	c.username = seat.Username
	status := chess.Playing
	if r.Board != nil {
		status = chess.CurrentStatus(r.Board)
	}
	state := proto.BoardToWire(r.Board, status)
	opponent := r.SeatOf(ref.Color.Opposite())
	r.Unlock()

	c.send(proto.EventGameRestored, proto.GameRestored{
		Code: r.Code, PlayerColor: ref.Color.String(), GameState: state,
	})
	if opponent != nil && opponent.Transport != nil {
		opponent.Transport.Send(proto.EventOpponentReconnected, proto.OpponentReconnected{Username: c.username})
	}
}
