// Per-connection client state.

package session

import (
	"log"
	"sync"

	"chessd/internal/proto"
	"chessd/internal/transport"
)

// wireTransport adapts a transport.Conn into the room.Transport
// interface the Room/Connection managers deal in, applying the wire
// codec at the boundary.
type wireTransport struct {
	mu   sync.Mutex
	conn transport.Conn
	log  *log.Logger
}

func newWireTransport(conn transport.Conn, logger *log.Logger) *wireTransport {
	return &wireTransport{conn: conn, log: logger}
}

func (t *wireTransport) Send(event string, data interface{}) error {
	frame, err := proto.Encode(event, data)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.conn.WriteMessage(frame); err != nil {
		if t.log != nil {
			t.log.Printf("transport write failed: %v", err)
		}
		return err
	}
	return nil
}

func (t *wireTransport) Close() error { return t.conn.Close() }

// client is the orchestrator's per-connection handle: the identity
// once known, and the room it is currently seated in, if any.
type client struct {
	transport *wireTransport

	playerID int64
	username string

	roomCode string
	seated   bool
}

// send is a convenience wrapper ignoring the identity-not-yet-known
// case, used for pre-seating error responses.
func (c *client) send(event string, data interface{}) {
	_ = c.transport.Send(event, data)
}
