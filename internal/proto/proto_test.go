package proto

import (
	"encoding/json"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	frame, err := Encode(EventMakeMove, MakeMoveRequest{
		Code: "ABCDEF",
		From: SquareWire{Row: 6, Col: 4},
		To:   SquareWire{Row: 4, Col: 4},
	})
	if err != nil {
		t.Fatal(err)
	}

	event, data, err := Decode(frame)
	if err != nil {
		t.Fatal(err)
	}
	if event != EventMakeMove {
		t.Fatalf("event = %q, want %q", event, EventMakeMove)
	}

	var req MakeMoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatal(err)
	}
	if req.Code != "ABCDEF" || req.From.Row != 6 || req.To.Col != 4 {
		t.Fatalf("req = %+v, not round-tripped correctly", req)
	}
}

func TestDecodeRejectsMalformedFrame(t *testing.T) {
	if _, _, err := Decode([]byte("not json")); err != ErrUnknownEvent {
		t.Fatalf("err = %v, want ErrUnknownEvent", err)
	}
	if _, _, err := Decode([]byte(`{"data":{}}`)); err != ErrUnknownEvent {
		t.Fatalf("err = %v, want ErrUnknownEvent for a missing event name", err)
	}
}
