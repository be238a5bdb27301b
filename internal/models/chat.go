package models

import "time"

type ChatRoom struct {
	ID        int       `json:"id"`
	Name      *string   `json:"name"`
	IsGroup   bool      `json:"is_group"`
	CreatedBy int       `json:"created_by"`
	Members   []int     `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is shared by the HTTP API, the realtime hub and the client-side
// cache. On the client an unconfirmed message carries a temporary ID
// (current unix millis) until the server-confirmed copy replaces it.
type Message struct {
	ID          int64      `json:"id"`
	RoomID      int        `json:"room_id"`
	SenderID    int        `json:"sender_id"`
	SenderName  string     `json:"sender_name,omitempty"`
	Body        string     `json:"message"`
	ClientToken string     `json:"client_token,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	IsRead      *bool      `json:"is_read,omitempty"`
}

// DedupWindow is how close two timestamps must be for the content-based
// duplicate heuristic to treat two messages as the same logical send.
const DedupWindow = time.Second

// SameMessage reports whether b is the authoritative copy of a (or vice
// versa). Identity is, in order: equal ID; equal client token when both
// carry one; equal body and sender with timestamps within DedupWindow.
// The last rule is a heuristic kept for peers that do not send tokens.
func SameMessage(a, b Message) bool {
	if a.ID != 0 && a.ID == b.ID {
		return true
	}
	if a.ClientToken != "" && a.ClientToken == b.ClientToken {
		return true
	}
	if a.Body != b.Body || a.SenderID != b.SenderID {
		return false
	}
	if a.SentAt == nil || b.SentAt == nil {
		return false
	}
	d := a.SentAt.Sub(*b.SentAt)
	if d < 0 {
		d = -d
	}
	return d < DedupWindow
}
