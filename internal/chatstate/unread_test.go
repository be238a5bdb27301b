package chatstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldops/internal/models"
)

func TestUnreadCountsAndTotal(t *testing.T) {
	store := NewStore(9)
	store.SetMessages(1, []models.Message{
		{ID: 1, RoomID: 1, SenderID: 3},
		{ID: 2, RoomID: 1, SenderID: 9}, // own, never unread
		{ID: 3, RoomID: 1, SenderID: 3, IsRead: boolPtr(true)},
	})
	store.SetMessages(2, []models.Message{
		{ID: 4, RoomID: 2, SenderID: 4},
		{ID: 5, RoomID: 2, SenderID: 4},
	})
	store.SetMessages(3, nil)

	counts := store.UnreadCounts()
	assert.Equal(t, 1, counts[1])
	assert.Equal(t, 2, counts[2])
	assert.Equal(t, 0, counts[3])

	sum := 0
	for _, n := range counts {
		assert.GreaterOrEqual(t, n, 0)
		sum += n
	}
	assert.Equal(t, sum, store.TotalUnread())
}

func TestUnreadDropsAfterMarking(t *testing.T) {
	store := NewStore(9)
	store.SetMessages(1, []models.Message{
		{ID: 1, RoomID: 1, SenderID: 3},
		{ID: 2, RoomID: 1, SenderID: 3},
	})

	assert.Equal(t, 2, store.UnreadCount(1))
	store.MarkMessageRead(context.Background(), nil, 1, 1)
	assert.Equal(t, 1, store.UnreadCount(1))
	store.MarkRoomRead(context.Background(), nil, 1, []int64{2})
	assert.Equal(t, 0, store.UnreadCount(1))
}

func TestBadgeSubscription(t *testing.T) {
	store := NewStore(9)
	var totals []int
	unsubscribe := store.SubscribeBadge(func(total int) {
		totals = append(totals, total)
	})

	store.Reconcile(1, models.Message{ID: 1, RoomID: 1, SenderID: 3})
	store.Reconcile(1, models.Message{ID: 2, RoomID: 1, SenderID: 3})
	store.MarkMessageRead(context.Background(), nil, 1, 1)

	assert.Equal(t, []int{1, 2, 1}, totals)

	unsubscribe()
	store.Reconcile(1, models.Message{ID: 3, RoomID: 1, SenderID: 3})
	assert.Len(t, totals, 3, "no notifications after unsubscribe")
}
