package network

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

const (
	sendBuffer = 256
	writeWait  = 2 * time.Second
)

var log = logrus.WithField("logger", "network")

// Connection wraps the WebSocket connection with additional fields
type Connection struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// ID identifies the connection in logs and registries
func (c *Connection) ID() string { return c.id }

// RemoteAddr returns the peer address
func (c *Connection) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// Done is closed once the connection is closed
func (c *Connection) Done() <-chan struct{} { return c.done }

// Closed reports whether the connection was closed by either side
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close shuts the connection down; pending messages are flushed first.
// Calling it more than once is safe.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	close(c.done)
}

// ReadPump reads messages from the WebSocket connection until it fails
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).WithField("conn", c.id).Warn("Error reading message")
			}
			return
		}

		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages to the WebSocket connection
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for message := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			log.WithError(err).WithField("conn", c.id).Debug("Write failed")
			c.Close()
			// drain so Close can never block a sender
			for range c.send {
			}
			return
		}
	}

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// SendMessage queues a message for the client. A client that cannot keep up
// is disconnected.
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		log.WithField("conn", c.id).Warn("Send buffer full, dropping client")
		c.closed = true
		close(c.send)
		close(c.done)
		return ErrConnectionClosed
	}
}

// MessageHandler interface for handling messages
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
