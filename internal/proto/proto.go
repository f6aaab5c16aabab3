// Wire Protocol Codec: the {event, data} envelope and payload types
// for every client<->server event.

package proto

import (
	"encoding/json"
	"errors"
	"time"
)

// Envelope is the tagged frame exchanged over the transport.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrUnknownEvent is returned by Decode when the envelope cannot even
// be parsed as {event, data}.
var ErrUnknownEvent = errors.New("proto: malformed envelope")

// Encode marshals an event name and payload into a wire-ready frame.
func Encode(event string, payload interface{}) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// Decode splits a wire frame into its event name and raw payload, for
// the caller to unmarshal into the concrete type matching Event.
func Decode(raw []byte) (event string, data json.RawMessage, err error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", nil, ErrUnknownEvent
	}
	if env.Event == "" {
		return "", nil, ErrUnknownEvent
	}
	return env.Event, env.Data, nil
}

// Event name constants, client -> server.
const (
	EventCreateRoom      = "create-room"
	EventJoinRoom        = "join-room"
	EventFindMatch       = "find-match"
	EventMakeMove        = "make-move"
	EventChatMessage     = "chat-message"
	EventOfferDraw       = "offer-draw"
	EventRespondDraw     = "respond-draw"
	EventResign          = "resign"
	EventReconnectPlayer = "reconnect-player"
	EventFriendSend      = "friend-send"
	EventFriendAccept    = "friend-accept"
	EventFriendDecline   = "friend-decline"
	EventFriendRemove    = "friend-remove"
	EventFriendsGet      = "friends-get"
)

// Event name constants, server -> client.
const (
	EventRoomCreated          = "room-created"
	EventGameStarted          = "game-started"
	EventMatchFound           = "match-found"
	EventMoveMade             = "move-made"
	EventMoveInvalid          = "move-invalid"
	EventChatMessageBroadcast = "chat-message"
	EventDrawOffered          = "draw-offered"
	EventDrawDeclined         = "draw-declined"
	EventGameEnded            = "game-ended"
	EventOpponentDisconnected = "opponent-disconnected"
	EventOpponentReconnected  = "opponent-reconnected"
	EventGameRestored         = "game-restored"
	EventFriendsList          = "friends-list"
	EventError                = "error"
)

// SquareWire is the {row, col} coordinate shape used on the wire.
type SquareWire struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PlayerInfoWire is what a client supplies about itself when creating,
// joining or queueing for a room.
type PlayerInfoWire struct {
	Username string `json:"username"`
	Elo      int    `json:"elo"`
}

// --- client -> server payloads ---

type CreateRoomRequest struct {
	PlayerInfo PlayerInfoWire `json:"playerInfo"`
}

type JoinRoomRequest struct {
	Code       string         `json:"code"`
	PlayerInfo PlayerInfoWire `json:"playerInfo"`
}

type FindMatchRequest struct {
	PlayerInfo PlayerInfoWire `json:"playerInfo"`
}

type MakeMoveRequest struct {
	Code      string     `json:"code"`
	From      SquareWire `json:"from"`
	To        SquareWire `json:"to"`
	Promotion string     `json:"promotion,omitempty"`
}

type ChatMessageRequest struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OfferDrawRequest struct {
	Code string `json:"code"`
}

type RespondDrawRequest struct {
	Code   string `json:"code"`
	Accept bool   `json:"accept"`
}

type ResignRequest struct {
	Code string `json:"code"`
}

type ReconnectRequest struct {
	PlayerID int64 `json:"playerId"`
}

// FriendActionRequest is the shared shape for every friends operation,
// sent over the same message channel as the game protocol: the
// caller's own username plus the other party's.
type FriendActionRequest struct {
	Username string `json:"username"`
	Other    string `json:"other"`
}

type FriendsGetRequest struct {
	Username string `json:"username"`
}

// --- server -> client payloads ---

type RoomCreated struct {
	Code string `json:"code"`
}

type GameStateWire struct {
	Squares        [8][8]string `json:"squares"`
	SideToMove     string       `json:"sideToMove"`
	Castling       CastlingWire `json:"castlingRights"`
	EnPassant      *SquareWire  `json:"enPassantTarget"`
	HalfmoveClock  int          `json:"halfmoveClock"`
	FullmoveNumber int          `json:"fullmoveNumber"`
	CapturedWhite  []string     `json:"capturedByWhite"`
	CapturedBlack  []string     `json:"capturedByBlack"`
	Status         string       `json:"status"`
}

type CastlingWire struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

type GameStarted struct {
	Code        string         `json:"code"`
	PlayerColor string         `json:"playerColor"`
	WhitePlayer PlayerInfoWire `json:"whitePlayer"`
	BlackPlayer PlayerInfoWire `json:"blackPlayer"`
	GameState   GameStateWire  `json:"gameState"`
}

type MoveWire struct {
	From      SquareWire `json:"from"`
	To        SquareWire `json:"to"`
	Piece     string     `json:"piece"`
	Kind      string     `json:"kind"`
	Promotion string     `json:"promotion,omitempty"`
}

type MoveMade struct {
	Move      MoveWire      `json:"move"`
	GameState GameStateWire `json:"gameState"`
}

type MoveInvalid struct {
	Reason string `json:"reason"`
}

type ChatMessageBroadcast struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type DrawOffered struct {
	OfferedBy string `json:"offeredBy"`
}

type DrawDeclined struct {
	DeclinedBy string `json:"declinedBy"`
}

type OpponentDisconnected struct {
	Username string `json:"username"`
}

type OpponentReconnected struct {
	Username string `json:"username"`
}

type EloChanges struct {
	White int `json:"white"`
	Black int `json:"black"`
}

type NewElos struct {
	White int `json:"white"`
	Black int `json:"black"`
}

type GameEnded struct {
	Reason     string     `json:"reason"`
	Winner     string     `json:"winner,omitempty"`
	EloChanges EloChanges `json:"eloChanges"`
	NewElos    NewElos    `json:"newElos"`
}

type GameRestored struct {
	Code        string        `json:"code"`
	PlayerColor string        `json:"playerColor"`
	GameState   GameStateWire `json:"gameState"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

type FriendsList struct {
	Usernames []string `json:"usernames"`
}
