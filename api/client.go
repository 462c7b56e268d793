package api

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/OhASys/sstracker-backend/domain"
	"github.com/OhASys/sstracker-backend/hub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024

	sendBufferSize = 256
)

// Client bridges one websocket onto the hub: the read pump feeds inbound
// events into Dispatch, the write pump drains the send buffer.
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	hub    *hub.Hub
	send   chan []byte
	log    *log.Logger
}

func newClient(h *hub.Hub, conn *websocket.Conn, userID string, logger *log.Logger) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		hub:    h,
		send:   make(chan []byte, sendBufferSize),
		log:    logger,
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) AuthUserID() string { return c.userID }

// Send marshals the event into the write buffer. A saturated buffer drops
// the event rather than stalling the hub's dispatch loop.
func (c *Client) Send(ev domain.ServerEvent) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		c.log.Errorf("marshal %s event: %v", ev.Event, err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warnf("send buffer full, dropping %s event, conn: %s", ev.Event, c.id)
	}
}

// readPump pumps messages from the websocket into the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Errorf("socket read, err: %v, conn: %s", err, c.id)
			}
			break
		}

		var ev domain.ClientEvent
		if err := sonic.Unmarshal(message, &ev); err != nil {
			c.log.Warnf("unparseable event, err: %v, conn: %s", err, c.id)
			continue
		}

		m := newDispatchMetrics(c.log, ev.Event, c.id)
		err = c.hub.Dispatch(c, ev)
		m.Log(err)
		// A rejected event degrades to "nothing happened"; the
		// connection stays up.
	}
}

// writePump pumps buffered events out to the websocket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
