package feed

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 1024
	sendBufSize       = 64
	maxMessagesPerSec = 60
)

type outbound struct {
	binary bool
	data   []byte
}

// Client is one WebSocket connection to the feed
type Client struct {
	hub        *Hub
	handler    Handler
	conn       *websocket.Conn
	send       chan outbound
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

func newClient(hub *Hub, handler Handler, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		handler:    handler,
		conn:       conn,
		send:       make(chan outbound, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads inbound messages until the connection fails
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warnf("read from %s failed: %v", c.remoteAddr, err)
			}
			return
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.hub.log.Warnf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			return
		}

		c.handleMessage(message)
	}
}

// WritePump writes queued messages and keepalive pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			kind := websocket.TextMessage
			if msg.binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, msg.data); err != nil {
				return
			}

		case <-c.hub.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed shutting down"))
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queue drops the message when the client is too slow. Only the hub
// closes send, and only after the client's read pump has left.
func (c *Client) queue(msg outbound) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.hub.log.Errorf("marshal error: %v", err)
		return
	}
	c.queue(outbound{data: data})
}

func (c *Client) handleMessage(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.log.Warnf("dropping malformed message from %s: %v", c.remoteAddr, err)
		return
	}

	switch env.T {
	case MsgInput:
		var in InputMessage
		if err := json.Unmarshal(env.D, &in); err != nil {
			c.hub.log.Warnf("dropping malformed input from %s: %v", c.remoteAddr, err)
			return
		}
		if err := c.handler.HandleInput(in); err != nil {
			c.hub.log.Warnf("rejected input from %s: %v", c.remoteAddr, err)
			c.sendJSON(Reply{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		}
	case MsgStatus:
		c.sendJSON(Reply{T: MsgStatusReply, Data: c.handler.Status()})
	default:
		c.hub.log.Warnf("dropping unknown message type %q from %s", env.T, c.remoteAddr)
	}
}
