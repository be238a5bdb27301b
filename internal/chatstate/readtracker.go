package chatstate

import (
	"context"
	"log"
	"time"

	"fieldops/internal/models"
)

// ReceiptSender is the backend half of read tracking. Calls are
// best-effort: a failing receipt endpoint must not disturb local state.
type ReceiptSender interface {
	SendReadReceipt(ctx context.Context, roomID int, messageID int64) error
	SendRoomRead(ctx context.Context, roomID int, messageIDs []int64) error
}

// IsRead reports whether the current user has seen the message. Own
// messages are always read; otherwise the local map wins, then the
// server-provided flag, then false.
func (s *Store) IsRead(m models.Message) bool {
	if m.SenderID == s.self {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.read[m.ID] {
		return true
	}
	return m.IsRead != nil && *m.IsRead
}

// MarkMessageRead records the message as seen and fires the read receipt.
// Marking is once-only: a message already known read is a no-op and sends
// nothing, so repeated viewport hits cost no network calls.
func (s *Store) MarkMessageRead(ctx context.Context, receipts ReceiptSender, roomID int, msgID int64) {
	s.mu.Lock()
	if s.read[msgID] {
		s.mu.Unlock()
		return
	}
	s.read[msgID] = true
	s.mu.Unlock()
	s.notifyBadge()

	if receipts == nil {
		return
	}
	if err := receipts.SendReadReceipt(ctx, roomID, msgID); err != nil {
		// receipt endpoint is allowed to be missing
		log.Printf("[chatstate] read receipt for message %d failed: %v", msgID, err)
	}
}

// MarkRoomRead is the bulk variant: marks every id, advances the room's
// last-read timestamp and sends one receipt call for the ids that were
// not already read locally.
func (s *Store) MarkRoomRead(ctx context.Context, receipts ReceiptSender, roomID int, msgIDs []int64) {
	s.mu.Lock()
	fresh := msgIDs[:0:0]
	for _, id := range msgIDs {
		if !s.read[id] {
			s.read[id] = true
			fresh = append(fresh, id)
		}
	}
	s.lastRead[roomID] = time.Now()
	s.mu.Unlock()

	if len(fresh) == 0 {
		return
	}
	s.notifyBadge()

	if receipts == nil {
		return
	}
	if err := receipts.SendRoomRead(ctx, roomID, fresh); err != nil {
		log.Printf("[chatstate] room read receipt for room %d failed: %v", roomID, err)
	}
}

// LastRead returns the room's last-read timestamp, zero when never read.
func (s *Store) LastRead(roomID int) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRead[roomID]
}
