// Package chatstate keeps the client-side chat cache: per-room message
// lists written by three paths (optimistic insert, REST response, socket
// push) plus the read-state bookkeeping derived from them.
package chatstate

import (
	"sync"
	"time"

	"fieldops/internal/models"
)

// Store is the shared message cache. It is safe for concurrent use and
// deliberately injectable: every consumer gets the instance handed to it
// instead of reaching for a package-level singleton, so tests can build
// isolated stores.
type Store struct {
	mu   sync.RWMutex
	self int // current user id

	rooms    map[int][]models.Message
	read     map[int64]bool
	lastRead map[int]time.Time

	// pre-optimistic snapshots keyed by temporary message id
	snapshots map[int64][]models.Message

	badgeSubs map[int]func(total int)
	nextSub   int
}

func NewStore(currentUserID int) *Store {
	return &Store{
		self:      currentUserID,
		rooms:     make(map[int][]models.Message),
		read:      make(map[int64]bool),
		lastRead:  make(map[int]time.Time),
		snapshots: make(map[int64][]models.Message),
		badgeSubs: make(map[int]func(int)),
	}
}

func (s *Store) CurrentUserID() int {
	return s.self
}

// Messages returns a copy of the room's cached list, in cache order.
func (s *Store) Messages(roomID int) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneList(s.rooms[roomID])
}

// SetMessages replaces a room's list wholesale (full refetch path).
func (s *Store) SetMessages(roomID int, list []models.Message) {
	s.mu.Lock()
	s.rooms[roomID] = cloneList(list)
	s.mu.Unlock()
	s.notifyBadge()
}

// DropRoom discards a room's cached state (room deleted or left).
func (s *Store) DropRoom(roomID int) {
	s.mu.Lock()
	delete(s.rooms, roomID)
	delete(s.lastRead, roomID)
	s.mu.Unlock()
	s.notifyBadge()
}

// RoomIDs lists the rooms currently held in the cache.
func (s *Store) RoomIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

func cloneList(in []models.Message) []models.Message {
	if in == nil {
		return nil
	}
	out := make([]models.Message, len(in))
	copy(out, in)
	return out
}
