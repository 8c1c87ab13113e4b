package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 64
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Connection is a websocket subscriber. Events are queued on SendCh and
// written by WritePump, the only goroutine writing to the socket.
type Connection struct {
	id        string
	Conn      *websocket.Conn
	SendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once
	LastSeen  time.Time
	mu        sync.Mutex
}

func NewConnection(conn *websocket.Conn) *Connection {
	return &Connection{
		id:       uuid.New().String(),
		Conn:     conn,
		SendCh:   make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		LastSeen: time.Now(),
	}
}

func (c *Connection) ID() string {
	return c.id
}

// Send encodes ev and queues it without blocking.
func (c *Connection) Send(ev models.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.SendCh <- data:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		return ErrSendBufferFull
	}
}

func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.Conn.Close()
	})
}

// Done is closed once the connection is closed.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) touch() {
	c.mu.Lock()
	c.LastSeen = time.Now()
	c.mu.Unlock()
}
