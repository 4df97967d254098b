package ws

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// Conn is one client session. The out channel decouples broadcast
// fan-out from the socket write; sends never block (drop-on-full).
type Conn struct {
	ws     *websocket.Conn
	out    chan []byte
	userID string

	// rooms this connection joined, keyed by kind so disconnect can
	// reverse the side effects. Touched only by the connection's own
	// reader goroutine; events for one connection run serially.
	areas map[string]struct{}
	clubs map[string]struct{}
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

func newConn(ws *websocket.Conn, userID string) *Conn {
	return &Conn{
		ws:     ws,
		userID: userID,
		out:    make(chan []byte, 256),
		areas:  map[string]struct{}{},
		clubs:  map[string]struct{}{},
	}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop sends outbound messages + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// send queues an outbound frame without blocking; drops if the
// client cannot keep up.
func (c *Conn) send(b []byte) {
	select {
	case c.out <- b:
	default:
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
