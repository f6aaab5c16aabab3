// WebSocket transport implementation, built on nhooyr.io/websocket.

package transport

import (
	"context"
	"fmt"
	"net/http"

	ws "nhooyr.io/websocket"
)

// WebSocket adapts a nhooyr.io/websocket connection to Conn.
type WebSocket struct {
	conn   *ws.Conn
	remote string
}

// Upgrade accepts an HTTP connection as a WebSocket. opts is passed
// through to websocket.Accept unchanged, so options such as
// InsecureSkipVerify are set explicitly by the caller rather than
// silently defaulted (e.g. when served behind a reverse proxy).
func Upgrade(w http.ResponseWriter, r *http.Request, opts *ws.AcceptOptions) (*WebSocket, error) {
	conn, err := ws.Accept(w, r, opts)
	if err != nil {
		return nil, err
	}
	return &WebSocket{conn: conn, remote: r.RemoteAddr}, nil
}

func (c *WebSocket) ReadMessage() ([]byte, error) {
	typ, data, err := c.conn.Read(context.Background())
	if err != nil {
		return nil, err
	}
	if typ != ws.MessageText {
		return nil, fmt.Errorf("transport: unexpected message type %v", typ)
	}
	return data, nil
}

func (c *WebSocket) WriteMessage(data []byte) error {
	return c.conn.Write(context.Background(), ws.MessageText, data)
}

func (c *WebSocket) Close() error {
	return c.conn.Close(ws.StatusNormalClosure, "connection closed")
}

func (c *WebSocket) RemoteAddr() string { return c.remote }
