package chatstate

import (
	"time"

	"github.com/google/uuid"

	"fieldops/internal/models"
)

// AppendOptimistic inserts a provisional message at the end of the room's
// list and returns it. The temporary ID is the current unix-millis clock;
// the client token travels with the REST send so the server can echo it
// back and reconciliation does not have to rely on the timestamp
// heuristic. A snapshot of the pre-insert list is kept for rollback.
func (s *Store) AppendOptimistic(roomID int, body string) models.Message {
	now := time.Now()
	msg := models.Message{
		ID:          now.UnixMilli(),
		RoomID:      roomID,
		SenderID:    s.self,
		Body:        body,
		ClientToken: uuid.NewString(),
		SentAt:      &now,
	}

	s.mu.Lock()
	s.snapshots[msg.ID] = cloneList(s.rooms[roomID])
	s.rooms[roomID] = append(s.rooms[roomID], msg)
	s.mu.Unlock()

	return msg
}

// Reconcile merges an incoming authoritative message into the room's
// list: replace in place when an entry matches the identity rule
// (position is preserved), append otherwise. It runs for every push,
// including the sender's own echo, which is how an optimistic entry is
// promoted to the server-confirmed copy.
func (s *Store) Reconcile(roomID int, incoming models.Message) {
	s.mu.Lock()
	list := s.rooms[roomID]
	replaced := false
	for i := range list {
		if models.SameMessage(list[i], incoming) {
			// the provisional entry is done with its snapshot
			delete(s.snapshots, list[i].ID)
			list[i] = incoming
			replaced = true
			break
		}
	}
	if !replaced {
		s.rooms[roomID] = append(list, incoming)
	}
	s.mu.Unlock()
	s.notifyBadge()
}

// RollbackSend restores the room's list to the snapshot taken before the
// optimistic insert with the given temporary id. A no-op when the
// snapshot is gone (already reconciled or already rolled back).
func (s *Store) RollbackSend(roomID int, tempID int64) {
	s.mu.Lock()
	snap, ok := s.snapshots[tempID]
	if ok {
		delete(s.snapshots, tempID)
		s.rooms[roomID] = snap
	}
	s.mu.Unlock()
	if ok {
		s.notifyBadge()
	}
}

// ApplyEdit patches the cached entry by id after a successful edit call.
// Edit failures leave the cache untouched, so there is no rollback path.
func (s *Store) ApplyEdit(roomID int, msgID int64, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.rooms[roomID]
	for i := range list {
		if list[i].ID == msgID {
			list[i].Body = body
			return
		}
	}
}

// ApplyDelete removes the cached entry by id after a successful delete.
func (s *Store) ApplyDelete(roomID int, msgID int64) {
	s.mu.Lock()
	list := s.rooms[roomID]
	for i := range list {
		if list[i].ID == msgID {
			s.rooms[roomID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notifyBadge()
}

// CanModify reports whether the current user may edit or delete the
// message: they must be the sender, and no message from a different
// sender may appear later in the room's list. Only a trailing run of
// one's own messages is modifiable.
func (s *Store) CanModify(roomID int, msgID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.rooms[roomID]
	idx := -1
	for i := range list {
		if list[i].ID == msgID {
			idx = i
			break
		}
	}
	if idx < 0 || list[idx].SenderID != s.self {
		return false
	}
	for _, later := range list[idx+1:] {
		if later.SenderID != s.self {
			return false
		}
	}
	return true
}
