package room

import "testing"

type nullTransport struct{}

func (nullTransport) Send(string, interface{}) error { return nil }
func (nullTransport) Close() error                    { return nil }

func TestCreateAndJoinRoom(t *testing.T) {
	m := NewManager()

	r := m.CreateRoom(PlayerInfo{ID: 1, Username: "alice"}, nullTransport{})
	if r.Playable() {
		t.Fatalf("a freshly created room should not be playable yet")
	}
	if len(r.Code) != 6 {
		t.Fatalf("room code = %q, want 6 characters", r.Code)
	}

	joined, err := m.JoinRoom(r.Code, PlayerInfo{ID: 2, Username: "bob"}, nullTransport{})
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if !joined.Playable() {
		t.Fatalf("room should be playable once both seats are filled")
	}
}

func TestJoinRoomRejectsOwnCreator(t *testing.T) {
	m := NewManager()
	r := m.CreateRoom(PlayerInfo{ID: 1, Username: "alice"}, nullTransport{})

	if _, err := m.JoinRoom(r.Code, PlayerInfo{ID: 1, Username: "alice"}, nullTransport{}); err != ErrCannotJoinOwnRoom {
		t.Fatalf("err = %v, want ErrCannotJoinOwnRoom", err)
	}
}

func TestJoinRoomRejectsFullRoom(t *testing.T) {
	m := NewManager()
	r := m.CreateRoom(PlayerInfo{ID: 1, Username: "alice"}, nullTransport{})
	if _, err := m.JoinRoom(r.Code, PlayerInfo{ID: 2, Username: "bob"}, nullTransport{}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.JoinRoom(r.Code, PlayerInfo{ID: 3, Username: "carol"}, nullTransport{}); err != ErrRoomFull {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	m := NewManager()
	if _, err := m.JoinRoom("ZZZZZZ", PlayerInfo{ID: 1}, nullTransport{}); err != ErrRoomNotFound {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestMatchmakingIsStrictFIFO(t *testing.T) {
	m := NewManager()

	m.AddToMatchmaking(PlayerInfo{ID: 1, Username: "alice"}, nullTransport{})
	m.AddToMatchmaking(PlayerInfo{ID: 2, Username: "bob"}, nullTransport{})
	m.AddToMatchmaking(PlayerInfo{ID: 3, Username: "carol"}, nullTransport{})

	r := m.FindMatch()
	if r == nil {
		t.Fatal("expected a match")
	}
	if r.White.ID != 1 || r.Black.ID != 2 {
		t.Fatalf("seats = %d, %d; want the two oldest entries in arrival order", r.White.ID, r.Black.ID)
	}
	if m.QueueLen() != 1 {
		t.Fatalf("queue length = %d, want 1 remaining", m.QueueLen())
	}
}

func TestMatchmakingDedupesByPlayerID(t *testing.T) {
	m := NewManager()

	m.AddToMatchmaking(PlayerInfo{ID: 1, Username: "alice", Elo: 1000}, nullTransport{})
	m.AddToMatchmaking(PlayerInfo{ID: 1, Username: "alice", Elo: 1200}, nullTransport{})

	if m.QueueLen() != 1 {
		t.Fatalf("queue length = %d, want 1 (re-queueing overwrites in place)", m.QueueLen())
	}
}

func TestRemoveFromMatchmaking(t *testing.T) {
	m := NewManager()
	m.AddToMatchmaking(PlayerInfo{ID: 1}, nullTransport{})
	m.RemoveFromMatchmaking(1)
	if m.QueueLen() != 0 {
		t.Fatalf("queue length = %d, want 0 after removal", m.QueueLen())
	}
}

func TestGenerateRoomCodeUniqueness(t *testing.T) {
	m := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		r := m.CreateRoom(PlayerInfo{ID: int64(i)}, nullTransport{})
		if seen[r.Code] {
			t.Fatalf("duplicate room code %q", r.Code)
		}
		seen[r.Code] = true
	}
}
