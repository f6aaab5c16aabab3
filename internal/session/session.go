// Session Orchestrator: the central per-connection event dispatcher.
// Routes incoming wire events to the Room Manager, Move Validator and
// Rule Engine, emits outbound events to both participants, and runs
// the end-of-game ELO update.

package session

import (
	"context"
	"io"
	"log"
	"time"

	"chessd/internal/chess"
	"chessd/internal/conn"
	"chessd/internal/friends"
	"chessd/internal/proto"
	"chessd/internal/room"
	"chessd/internal/transport"
	"chessd/internal/users"
)

// Orchestrator wires together the Room Manager, Connection Manager,
// user store and friends store behind a single event-handling entry
// point per connection.
type Orchestrator struct {
	Rooms   *room.Manager
	Conns   *conn.Manager
	Users   users.Store
	Friends friends.Store

	MaxChatMessageLength int

	Log   *log.Logger
	Debug *log.Logger
}

// New constructs an Orchestrator with the given forfeit window. If
// friendStore is nil, friend events are rejected with an error frame.
func New(userStore users.Store, friendStore friends.Store, forfeitWindow time.Duration, maxChatLen int, logger, debugLogger *log.Logger) *Orchestrator {
	o := &Orchestrator{
		Rooms:                room.NewManager(),
		Users:                userStore,
		Friends:              friendStore,
		MaxChatMessageLength: maxChatLen,
		Log:                  logger,
		Debug:                debugLogger,
	}
	o.Conns = conn.NewManager(forfeitWindow, o.handleForfeit, o.handleQueueDrop)
	return o
}

// HandleConnection owns one transport for its whole lifetime: it
// reads frames until the transport errors or closes, dispatching each
// to the matching handler, and finally runs disconnection bookkeeping.
func (o *Orchestrator) HandleConnection(t transport.Conn) {
	wt := newWireTransport(t, o.Log)
	c := &client{transport: wt}

	for {
		raw, err := t.ReadMessage()
		if err != nil {
			if err != io.EOF && o.Debug != nil {
				o.Debug.Printf("connection closed: %v", err)
			}
			break
		}
		o.dispatch(c, raw)
	}

	o.Conns.Disconnect(wt)
	o.notifyDisconnect(c)
}

func (o *Orchestrator) dispatch(c *client, raw []byte) {
	event, data, err := proto.Decode(raw)
	if err != nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed message"})
		return
	}

	switch event {
	case proto.EventCreateRoom:
		o.handleCreateRoom(c, data)
	case proto.EventJoinRoom:
		o.handleJoinRoom(c, data)
	case proto.EventFindMatch:
		o.handleFindMatch(c, data)
	case proto.EventMakeMove:
		o.handleMakeMove(c, data)
	case proto.EventChatMessage:
		o.handleChatMessage(c, data)
	case proto.EventOfferDraw:
		o.handleOfferDraw(c, data)
	case proto.EventRespondDraw:
		o.handleRespondDraw(c, data)
	case proto.EventResign:
		o.handleResign(c, data)
	case proto.EventReconnectPlayer:
		o.handleReconnect(c, data)
	case proto.EventFriendSend, proto.EventFriendAccept, proto.EventFriendDecline, proto.EventFriendRemove, proto.EventFriendsGet:
		o.handleFriendEvent(c, event, data)
	default:
		c.send(proto.EventError, proto.ErrorMessage{Message: "unknown event"})
	}
}

// identify resolves a wire PlayerInfoWire into an authoritative
// user.Record, seating the client's identity for the rest of the
// connection's lifetime.
func (o *Orchestrator) identify(c *client, info proto.PlayerInfoWire) (users.Record, error) {
	rec, err := o.Users.GetUser(context.Background(), info.Username)
	if err != nil {
		return users.Record{}, err
	}
	c.playerID = rec.ID
	c.username = rec.Username
	return rec, nil
}

func toRoomInfo(rec users.Record) room.PlayerInfo {
	return room.PlayerInfo{ID: rec.ID, Username: rec.Username, Elo: rec.Elo}
}

func toWireInfo(p room.PlayerInfo) proto.PlayerInfoWire {
	return proto.PlayerInfoWire{Username: p.Username, Elo: p.Elo}
}

// actualScore converts a terminal outcome into the actual score for c,
// the (0, 0.5, 1) convention elo.Change expects.
func actualScore(c chess.Color, winner *chess.Color) float64 {
	if winner == nil {
		return 0.5
	}
	if *winner == c {
		return 1
	}
	return 0
}

func resultFor(c chess.Color, winner *chess.Color) users.Result {
	if winner == nil {
		return users.Draw
	}
	if *winner == c {
		return users.Win
	}
	return users.Loss
}
