package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	// writeWait bounds a single write, including close control frames.
	writeWait = 10 * time.Second

	// pingInterval is the heartbeat period; pongWait allows two missed
	// pongs before the read deadline closes the connection.
	pingInterval = 30 * time.Second
	pongWait     = 2*pingInterval + 5*time.Second

	maxMessageSize = 4096
	sendBufferSize = 64
)

// ErrSendBufferFull indicates the client's outbound queue is saturated,
// typically a stalled or half-open connection. The heartbeat will reap it.
var ErrSendBufferFull = errors.New("connection send buffer is full")

// Client is one live websocket connection bound to an authenticated
// identity. Writes go through a buffered channel drained by a single
// writer goroutine, since gorilla connections allow only one concurrent
// writer.
type Client struct {
	id       string
	identity kernel.Identity
	tokenID  kernel.UUID
	joinedAt time.Time

	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, identity kernel.Identity, tokenID kernel.UUID) *Client {
	return &Client{
		id:       kernel.NewUUID().String(),
		identity: identity,
		tokenID:  tokenID,
		joinedAt: time.Now(),
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// ID returns the connection id. It identifies this connection in session
// rows and forced-logout signals.
func (c *Client) ID() string {
	return c.id
}

// Identity returns the authenticated identity holding the connection.
func (c *Client) Identity() kernel.Identity {
	return c.identity
}

// JoinedAt returns when the connection was established.
func (c *Client) JoinedAt() time.Time {
	return c.joinedAt
}

// SendEvent queues an enveloped event for delivery. Returns
// ErrSendBufferFull when the outbound queue is saturated.
func (c *Client) SendEvent(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		return ErrSendBufferFull
	}
}

// Close terminates the connection once. The reason travels in the close
// control frame so clients can distinguish eviction from network failure.
func (c *Client) Close(reason string) {
	c.closeOnce.Do(func() {
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump drains the send queue and emits heartbeat pings. It owns all
// writes to the underlying connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.Close("write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close("heartbeat write failed")
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump reads envelopes and hands them to dispatch until the connection
// drops or the heartbeat deadline expires.
func (c *Client) readPump(dispatch func(c *Client, envelope Envelope)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var envelope Envelope
		if err := json.Unmarshal(frame, &envelope); err != nil {
			// Malformed frames are dropped, not fatal.
			continue
		}
		dispatch(c, envelope)
	}
}
