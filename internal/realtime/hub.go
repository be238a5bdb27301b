package realtime

import (
	"sync"

	"fieldops/internal/models"
)

// Hub keeps the room -> connections registry. Join/Leave are driven by
// joinRoom/leaveRoom frames from the client; Broadcast fans a newMessage
// event out to everyone currently joined to the room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int]map[*Client]struct{}),
	}
}

func (h *Hub) Join(roomID int, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
}

func (h *Hub) Leave(roomID int, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Drop убирает соединение из всех комнат (вызывается при разрыве).
func (h *Hub) Drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID, conns := range h.rooms {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) Broadcast(roomID int, event models.SocketEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		select {
		case c.Send <- event:
		default:
			// медленный клиент: не блокируем рассылку
		}
	}
}

// RoomSize reports how many connections are joined to a room.
func (h *Hub) RoomSize(roomID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
