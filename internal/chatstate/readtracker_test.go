package chatstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldops/internal/models"
)

type recordingReceipts struct {
	single int
	bulk   int
	lastIDs []int64
	err    error
}

func (r *recordingReceipts) SendReadReceipt(ctx context.Context, roomID int, messageID int64) error {
	r.single++
	return r.err
}

func (r *recordingReceipts) SendRoomRead(ctx context.Context, roomID int, messageIDs []int64) error {
	r.bulk++
	r.lastIDs = messageIDs
	return r.err
}

func boolPtr(b bool) *bool { return &b }

func TestOwnMessagesAlwaysRead(t *testing.T) {
	store := NewStore(9)
	own := models.Message{ID: 1, SenderID: 9, IsRead: boolPtr(false)}
	assert.True(t, store.IsRead(own), "own messages are read regardless of any flag")
}

func TestIsReadPrecedence(t *testing.T) {
	store := NewStore(9)
	other := models.Message{ID: 2, SenderID: 3}

	assert.False(t, store.IsRead(other))

	flagged := other
	flagged.IsRead = boolPtr(true)
	assert.True(t, store.IsRead(flagged), "server flag counts")

	store.MarkMessageRead(context.Background(), nil, 5, 2)
	assert.True(t, store.IsRead(other), "local map counts")
}

func TestMarkMessageReadOnceOnly(t *testing.T) {
	store := NewStore(9)
	receipts := &recordingReceipts{}
	ctx := context.Background()

	store.MarkMessageRead(ctx, receipts, 5, 10)
	store.MarkMessageRead(ctx, receipts, 5, 10)
	store.MarkMessageRead(ctx, receipts, 5, 10)

	assert.Equal(t, 1, receipts.single, "repeat marks must not refire the receipt")
}

func TestMarkMessageReadSwallowsReceiptFailure(t *testing.T) {
	store := NewStore(9)
	receipts := &recordingReceipts{err: assert.AnError}

	store.MarkMessageRead(context.Background(), receipts, 5, 10)

	assert.True(t, store.IsRead(models.Message{ID: 10, SenderID: 3}),
		"local state sticks even when the endpoint fails")
}

func TestMarkRoomReadBulk(t *testing.T) {
	store := NewStore(9)
	receipts := &recordingReceipts{}
	ctx := context.Background()

	store.MarkMessageRead(ctx, receipts, 5, 1)
	before := store.LastRead(5)
	assert.True(t, before.IsZero())

	store.MarkRoomRead(ctx, receipts, 5, []int64{1, 2, 3})

	assert.Equal(t, 1, receipts.bulk)
	assert.Equal(t, []int64{2, 3}, receipts.lastIDs, "already-read ids are filtered out")
	assert.False(t, store.LastRead(5).IsZero())

	// всё уже прочитано: ни одного нового вызова
	store.MarkRoomRead(ctx, receipts, 5, []int64{1, 2, 3})
	assert.Equal(t, 1, receipts.bulk)
}
