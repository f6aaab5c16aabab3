package session

import (
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"chessd/internal/friends"
	"chessd/internal/proto"
	"chessd/internal/users"
)

// fakeConn is an in-memory transport.Conn: frames pushed onto in are
// delivered to ReadMessage, and every WriteMessage is pushed onto out.
type fakeConn struct {
	in  chan []byte
	out chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 16), out: make(chan []byte, 16)}
}

func (f *fakeConn) ReadMessage() ([]byte, error) {
	b, ok := <-f.in
	if !ok {
		return nil, io.EOF
	}
	return b, nil
}

func (f *fakeConn) WriteMessage(data []byte) error {
	f.out <- data
	return nil
}

func (f *fakeConn) Close() error          { return nil }
func (f *fakeConn) RemoteAddr() string    { return "fake" }
func (f *fakeConn) send(event string, payload interface{}) {
	frame, err := proto.Encode(event, payload)
	if err != nil {
		panic(err)
	}
	f.in <- frame
}

// await reads frames off out until one with the wanted event name
// shows up, decoding its payload into dst. It fails the test if
// nothing matches within the timeout.
func await(t *testing.T, out chan []byte, event string, dst interface{}) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case frame := <-out:
			gotEvent, data, err := proto.Decode(frame)
			if err != nil {
				t.Fatalf("decode frame: %v", err)
			}
			if gotEvent != event {
				continue
			}
			if dst != nil {
				if err := json.Unmarshal(data, dst); err != nil {
					t.Fatalf("unmarshal %s payload: %v", event, err)
				}
			}
			return
		case <-deadline:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

func newTestOrchestrator() *Orchestrator {
	logger := log.New(io.Discard, "", 0)
	return New(users.NewMemory(), friends.NewMemoryStore(), 30*time.Millisecond, 500, logger, logger)
}

func setUpRoom(t *testing.T, o *Orchestrator, white, black *fakeConn) string {
	t.Helper()

	go o.HandleConnection(white)
	go o.HandleConnection(black)

	white.send(proto.EventCreateRoom, proto.CreateRoomRequest{
		PlayerInfo: proto.PlayerInfoWire{Username: "alice", Elo: 1000},
	})
	var created proto.RoomCreated
	await(t, white.out, proto.EventRoomCreated, &created)

	black.send(proto.EventJoinRoom, proto.JoinRoomRequest{
		Code:       created.Code,
		PlayerInfo: proto.PlayerInfoWire{Username: "bob", Elo: 1000},
	})
	await(t, white.out, proto.EventGameStarted, &proto.GameStarted{})
	await(t, black.out, proto.EventGameStarted, &proto.GameStarted{})

	return created.Code
}

func move(conn *fakeConn, code string, fromRow, fromCol, toRow, toCol int) {
	conn.send(proto.EventMakeMove, proto.MakeMoveRequest{
		Code: code,
		From: proto.SquareWire{Row: fromRow, Col: fromCol},
		To:   proto.SquareWire{Row: toRow, Col: toCol},
	})
}

// TestFoolsMateEndsGameByCheckmate plays 1. f3 e5 2. g4 Qh4# and
// expects a game-ended event naming checkmate and black as winner.
func TestFoolsMateEndsGameByCheckmate(t *testing.T) {
	o := newTestOrchestrator()
	white, black := newFakeConn(), newFakeConn()
	code := setUpRoom(t, o, white, black)

	move(white, code, 6, 5, 5, 5) // f2-f3
	await(t, white.out, proto.EventMoveMade, &proto.MoveMade{})
	await(t, black.out, proto.EventMoveMade, &proto.MoveMade{})

	move(black, code, 1, 4, 3, 4) // e7-e5
	await(t, white.out, proto.EventMoveMade, &proto.MoveMade{})
	await(t, black.out, proto.EventMoveMade, &proto.MoveMade{})

	move(white, code, 6, 6, 4, 6) // g2-g4
	await(t, white.out, proto.EventMoveMade, &proto.MoveMade{})
	await(t, black.out, proto.EventMoveMade, &proto.MoveMade{})

	move(black, code, 0, 3, 4, 7) // Qd8-h4#

	var ended proto.GameEnded
	await(t, white.out, proto.EventGameEnded, &ended)
	if ended.Reason != "checkmate" {
		t.Fatalf("reason = %q, want checkmate", ended.Reason)
	}
	if ended.Winner != "black" {
		t.Fatalf("winner = %q, want black", ended.Winner)
	}

	if _, ok := o.Rooms.Get(code); ok {
		t.Fatalf("room %s should be removed from the registry once the game ends", code)
	}
}

// TestDisconnectForfeitsAfterWindow drops white's socket mid-game and
// expects exactly one game-ended{reason:"timeout"} naming black as
// winner, with the room torn down afterward.
func TestDisconnectForfeitsAfterWindow(t *testing.T) {
	o := newTestOrchestrator()
	white, black := newFakeConn(), newFakeConn()
	code := setUpRoom(t, o, white, black)

	close(white.in)
	await(t, black.out, proto.EventOpponentDisconnected, &proto.OpponentDisconnected{})

	var ended proto.GameEnded
	await(t, black.out, proto.EventGameEnded, &ended)
	if ended.Reason != "timeout" {
		t.Fatalf("reason = %q, want timeout", ended.Reason)
	}
	if ended.Winner != "black" {
		t.Fatalf("winner = %q, want black", ended.Winner)
	}

	select {
	case frame := <-black.out:
		if event, _, _ := proto.Decode(frame); event == proto.EventGameEnded {
			t.Fatalf("a second game-ended was sent after the forfeit")
		}
	case <-time.After(100 * time.Millisecond):
	}

	if _, ok := o.Rooms.Get(code); ok {
		t.Fatalf("room %s should be removed from the registry once the forfeit resolves", code)
	}
}
