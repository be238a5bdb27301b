package realtime

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"fieldops/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// MemberCheck подтверждает, что пользователь состоит в комнате,
// прежде чем подписывать его соединение на рассылку.
type MemberCheck func(roomID, userID int) error

// Client is one websocket connection of an authenticated user. A user may
// hold several connections (tabs); each joins rooms independently.
type Client struct {
	UserID int
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan models.SocketEvent

	canJoin MemberCheck
	joined  map[int]struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int, canJoin MemberCheck) *Client {
	return &Client{
		UserID:  userID,
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan models.SocketEvent, 32),
		canJoin: canJoin,
		joined:  make(map[int]struct{}),
	}
}

// Run запускает насосы чтения и записи и блокируется до разрыва соединения.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Drop(c)
		close(c.Send)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event models.SocketEvent
		if err := c.Conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[realtime] read error (user %d): %v", c.UserID, err)
			}
			return
		}

		switch event.Event {
		case models.EventJoinRoom:
			if err := c.canJoin(event.RoomID, c.UserID); err != nil {
				c.trySend(models.SocketEvent{Event: models.EventJoinRoom, RoomID: event.RoomID, Error: err.Error()})
				continue
			}
			c.joined[event.RoomID] = struct{}{}
			c.Hub.Join(event.RoomID, c)
		case models.EventLeaveRoom:
			delete(c.joined, event.RoomID)
			c.Hub.Leave(event.RoomID, c)
		default:
			// входящие сообщения идут через REST, сокет только слушает
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) trySend(event models.SocketEvent) {
	select {
	case c.Send <- event:
	default:
	}
}
