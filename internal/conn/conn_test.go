package conn

import (
	"testing"
	"time"

	"chessd/internal/chess"
	"chessd/internal/room"
)

type fakeTransport struct{ id int }

func (fakeTransport) Send(string, interface{}) error { return nil }
func (fakeTransport) Close() error                    { return nil }

func TestDisconnectFiresForfeitAfterWindow(t *testing.T) {
	fired := make(chan SeatRef, 1)
	m := NewManager(20*time.Millisecond, func(ref SeatRef, playerID int64) {
		fired <- ref
	}, nil)

	tr := fakeTransport{id: 1}
	m.Associate(tr, 42)
	m.SetSeat(42, SeatRef{RoomCode: "ABCDEF", Color: chess.White})

	m.Disconnect(tr)
	if !m.IsDisconnected(42) {
		t.Fatalf("player should be tracked as disconnected immediately")
	}

	select {
	case ref := <-fired:
		if ref.RoomCode != "ABCDEF" || ref.Color != chess.White {
			t.Fatalf("forfeit ref = %+v, want room ABCDEF/white", ref)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("forfeit callback did not fire within the window")
	}

	if m.IsDisconnected(42) {
		t.Fatalf("player should no longer be tracked as disconnected once the timer fires")
	}
}

func TestReconnectCancelsForfeitTimer(t *testing.T) {
	fired := make(chan struct{}, 1)
	m := NewManager(20*time.Millisecond, func(SeatRef, int64) {
		fired <- struct{}{}
	}, nil)

	tr := fakeTransport{id: 1}
	m.Associate(tr, 42)
	m.SetSeat(42, SeatRef{RoomCode: "ABCDEF", Color: chess.Black})
	m.Disconnect(tr)

	tr2 := fakeTransport{id: 2}
	ref, err := m.Reconnect(tr2, 42)
	if err != nil {
		t.Fatalf("Reconnect: %v", err)
	}
	if ref.RoomCode != "ABCDEF" || ref.Color != chess.Black {
		t.Fatalf("ref = %+v, want the original seat", ref)
	}
	if m.IsDisconnected(42) {
		t.Fatalf("reconnecting should cancel the pending forfeit")
	}

	select {
	case <-fired:
		t.Fatal("forfeit callback fired despite reconnection")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestReconnectWithNoSessionFails(t *testing.T) {
	m := NewManager(time.Second, nil, nil)
	if _, err := m.Reconnect(fakeTransport{}, 99); err != ErrNoSession {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestDisconnectUnseatedPlayerDropsFromQueue(t *testing.T) {
	dropped := make(chan int64, 1)
	m := NewManager(time.Second, nil, func(playerID int64) {
		dropped <- playerID
	})

	tr := fakeTransport{}
	m.Associate(tr, 7)
	m.Disconnect(tr)

	select {
	case id := <-dropped:
		if id != 7 {
			t.Fatalf("dropped id = %d, want 7", id)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("onQueueDrop was not called for an unseated disconnect")
	}
}

var _ room.Transport = fakeTransport{}
