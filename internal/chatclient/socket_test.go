package chatclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/models"
)

// echo server: on joinRoom pushes one newMessage back into the room
func newWSServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var event models.SocketEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			if event.Event == models.EventJoinRoom {
				now := time.Now()
				conn.WriteJSON(models.SocketEvent{
					Event:  models.EventNewMessage,
					RoomID: event.RoomID,
					Message: &models.Message{
						ID: 42, RoomID: event.RoomID, SenderID: 3, Body: "welcome", SentAt: &now,
					},
				})
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSocketJoinAndDispatch(t *testing.T) {
	srv := newWSServer(t)
	socket := NewSocket(wsURL(srv), "test-token")

	received := make(chan models.Message, 1)
	socket.OnMessage = func(roomID int, msg models.Message) {
		received <- msg
	}

	require.NoError(t, socket.Open(context.Background()))
	defer socket.Close()

	require.NoError(t, socket.JoinRoom(5))

	select {
	case msg := <-received:
		assert.Equal(t, int64(42), msg.ID)
		assert.Equal(t, 5, msg.RoomID)
	case <-time.After(3 * time.Second):
		t.Fatal("no push received")
	}
}

func TestSocketCloseStopsLoop(t *testing.T) {
	srv := newWSServer(t)
	socket := NewSocket(wsURL(srv), "test-token")

	disconnected := make(chan struct{}, 1)
	socket.OnDisconnect = func(err error) {
		select {
		case disconnected <- struct{}{}:
		default:
		}
	}

	require.NoError(t, socket.Open(context.Background()))
	socket.Close()

	select {
	case <-disconnected:
	case <-time.After(3 * time.Second):
		t.Fatal("read loop did not shut down")
	}
}
