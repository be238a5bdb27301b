package chatclient

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fieldops/internal/models"
)

const (
	reconnectDelay = 3 * time.Second
	maxReconnects  = 5
)

// Socket maintains the push channel. Reconnects use a fixed delay and a
// bounded attempt count; there is no replay on reconnect, missed messages
// come back with the next full refetch.
type Socket struct {
	url   string
	token string

	OnMessage    func(roomID int, msg models.Message)
	OnConnect    func()
	OnDisconnect func(err error)
	OnError      func(err error)

	mu     sync.Mutex
	conn   *websocket.Conn
	joined map[int]struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSocket(wsURL, accessToken string) *Socket {
	return &Socket{
		url:    wsURL,
		token:  accessToken,
		joined: make(map[int]struct{}),
	}
}

// Open dials and starts the read loop. It returns after the first
// successful dial; reconnects happen in the background until the attempt
// budget is spent or ctx is cancelled.
func (s *Socket) Open(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	if err := s.dial(ctx); err != nil {
		cancel()
		close(s.done)
		return err
	}
	go s.readLoop(ctx)
	return nil
}

// Close tears the connection down and stops reconnecting. Blocks until
// the read loop has exited.
func (s *Socket) Close() {
	s.mu.Lock()
	cancel, done, conn := s.cancel, s.done, s.conn
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	if conn != nil {
		conn.Close()
	}
	<-done
}

// JoinRoom emits a joinRoom frame and remembers the room so a reconnect
// re-joins it.
func (s *Socket) JoinRoom(roomID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joined[roomID] = struct{}{}
	if s.conn == nil {
		return nil
	}
	return s.conn.WriteJSON(models.SocketEvent{Event: models.EventJoinRoom, RoomID: roomID})
}

func (s *Socket) LeaveRoom(roomID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.joined, roomID)
	if s.conn == nil {
		return nil
	}
	return s.conn.WriteJSON(models.SocketEvent{Event: models.EventLeaveRoom, RoomID: roomID})
}

func (s *Socket) dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url+"?token="+s.token, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	rooms := make([]int, 0, len(s.joined))
	for id := range s.joined {
		rooms = append(rooms, id)
	}
	s.mu.Unlock()

	// после переподключения комнаты нужно занять заново
	for _, roomID := range rooms {
		if err := conn.WriteJSON(models.SocketEvent{Event: models.EventJoinRoom, RoomID: roomID}); err != nil {
			log.Printf("[chatclient] rejoin room %d failed: %v", roomID, err)
		}
	}

	if s.OnConnect != nil {
		s.OnConnect()
	}
	return nil
}

func (s *Socket) readLoop(ctx context.Context) {
	defer close(s.done)

	for {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()

		var readErr error
		for {
			var event models.SocketEvent
			if err := conn.ReadJSON(&event); err != nil {
				readErr = err
				break
			}
			s.dispatch(event)
		}

		conn.Close()
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()

		if s.OnDisconnect != nil {
			s.OnDisconnect(readErr)
		}
		if ctx.Err() != nil {
			return
		}
		if !s.reconnect(ctx) {
			return
		}
	}
}

// reconnect retries with a fixed delay, maxReconnects attempts, no
// backoff and no replay.
func (s *Socket) reconnect(ctx context.Context) bool {
	for attempt := 1; attempt <= maxReconnects; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(reconnectDelay):
		}
		if err := s.dial(ctx); err != nil {
			log.Printf("[chatclient] reconnect %d/%d failed: %v", attempt, maxReconnects, err)
			if s.OnError != nil {
				s.OnError(err)
			}
			continue
		}
		return true
	}
	return false
}

func (s *Socket) dispatch(event models.SocketEvent) {
	switch event.Event {
	case models.EventNewMessage:
		if event.Message != nil && s.OnMessage != nil {
			s.OnMessage(event.RoomID, *event.Message)
		}
	default:
		if event.Error != "" && s.OnError != nil {
			s.OnError(&APIError{Status: 0, Message: event.Error})
		}
	}
}
