package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

// ReadPump reads client frames and hands each text payload to handle. It
// returns when the peer disconnects or the connection is closed; the caller
// unregisters the connection.
func (c *Connection) ReadPump(handle func(raw []byte)) error {
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.handlePong()
	for {
		msgType, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return err
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.touch()
		if msgType != websocket.TextMessage {
			continue
		}
		handle(raw)
	}
}

// WritePump drains SendCh to the socket and keeps the peer alive with pings.
// A write failure closes the connection, which also ends ReadPump.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()
	for {
		select {
		case data := <-c.SendCh:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.sendPing(); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// IsUnexpectedClose reports read errors worth logging.
func IsUnexpectedClose(err error) bool {
	return websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure)
}
