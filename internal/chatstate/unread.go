package chatstate

// UnreadCount counts the messages in a room's cached list the current
// user has not seen. Never negative: it is a filter count.
func (s *Store) UnreadCount(roomID int) int {
	s.mu.RLock()
	list := s.rooms[roomID]
	self := s.self
	n := 0
	for _, m := range list {
		if m.SenderID == self {
			continue
		}
		if s.read[m.ID] {
			continue
		}
		if m.IsRead != nil && *m.IsRead {
			continue
		}
		n++
	}
	s.mu.RUnlock()
	return n
}

// UnreadCounts recomputes every cached room. O(rooms x messages), fine at
// internal-tool scale; the server's aggregate endpoint is the cheap path
// and this is the local fallback between refetches.
func (s *Store) UnreadCounts() map[int]int {
	counts := make(map[int]int)
	for _, roomID := range s.RoomIDs() {
		counts[roomID] = s.UnreadCount(roomID)
	}
	return counts
}

// TotalUnread sums the per-room counts for the nav badge.
func (s *Store) TotalUnread() int {
	total := 0
	for _, n := range s.UnreadCounts() {
		total += n
	}
	return total
}

// SubscribeBadge registers a callback invoked with the new total after
// every write that can change unread counts. This replaces reading the
// badge out of an ambient side channel: consumers declare the dependency
// by subscribing. The returned func unsubscribes.
func (s *Store) SubscribeBadge(fn func(total int)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.badgeSubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.badgeSubs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notifyBadge() {
	s.mu.RLock()
	subs := make([]func(int), 0, len(s.badgeSubs))
	for _, fn := range s.badgeSubs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()
	if len(subs) == 0 {
		return
	}
	total := s.TotalUnread()
	for _, fn := range subs {
		fn(total)
	}
}
