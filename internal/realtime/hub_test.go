package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/models"
)

func testClient(userID int) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan models.SocketEvent, 4),
		joined: make(map[int]struct{}),
	}
}

func TestBroadcastReachesJoinedClientsOnly(t *testing.T) {
	hub := NewHub()
	inRoom := testClient(1)
	other := testClient(2)
	hub.Join(5, inRoom)
	hub.Join(6, other)

	event := models.SocketEvent{Event: models.EventNewMessage, RoomID: 5,
		Message: &models.Message{ID: 42, RoomID: 5, Body: "hi"}}
	hub.Broadcast(5, event)

	select {
	case got := <-inRoom.Send:
		assert.Equal(t, int64(42), got.Message.ID)
	default:
		t.Fatal("joined client did not receive the event")
	}
	assert.Empty(t, other.Send)
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := testClient(1)
	hub.Join(5, c)
	hub.Leave(5, c)

	hub.Broadcast(5, models.SocketEvent{Event: models.EventNewMessage, RoomID: 5})
	assert.Empty(t, c.Send)
	assert.Equal(t, 0, hub.RoomSize(5))
}

func TestDropRemovesFromAllRooms(t *testing.T) {
	hub := NewHub()
	c := testClient(1)
	hub.Join(5, c)
	hub.Join(6, c)
	require.Equal(t, 1, hub.RoomSize(5))

	hub.Drop(c)
	assert.Equal(t, 0, hub.RoomSize(5))
	assert.Equal(t, 0, hub.RoomSize(6))
}

func TestBroadcastSkipsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{UserID: 1, Send: make(chan models.SocketEvent), joined: map[int]struct{}{}}
	hub.Join(5, slow)

	// канал без буфера и без читателя: рассылка не должна зависнуть
	hub.Broadcast(5, models.SocketEvent{Event: models.EventNewMessage, RoomID: 5})
}
