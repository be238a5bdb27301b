package models

// Socket event names. The hub emits newMessage frames and accepts
// joinRoom/leaveRoom frames; connect/disconnect are implied by the
// underlying connection lifecycle.
const (
	EventNewMessage = "newMessage"
	EventJoinRoom   = "joinRoom"
	EventLeaveRoom  = "leaveRoom"
)

// SocketEvent is the wire envelope for every websocket frame.
type SocketEvent struct {
	Event   string   `json:"event"`
	RoomID  int      `json:"room_id,omitempty"`
	Message *Message `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}
