package chatstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/models"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func msg(id int64, sender int, body string, at string) models.Message {
	return models.Message{ID: id, RoomID: 5, SenderID: sender, Body: body, SentAt: ts(at)}
}

func TestReconcileIdempotent(t *testing.T) {
	store := NewStore(9)
	store.SetMessages(5, []models.Message{
		msg(1, 2, "a", "2025-01-01T00:00:00Z"),
	})

	incoming := msg(42, 3, "b", "2025-01-01T00:00:05Z")
	store.Reconcile(5, incoming)
	once := store.Messages(5)

	store.Reconcile(5, incoming)
	twice := store.Messages(5)

	assert.Equal(t, once, twice)
	assert.Len(t, twice, 2)
}

func TestReconcileReplacesOptimisticInPlace(t *testing.T) {
	store := NewStore(9)
	store.SetMessages(5, []models.Message{
		msg(1, 2, "earlier", "2024-12-31T23:59:00Z"),
	})

	opt := store.AppendOptimistic(5, "hi")
	store.Reconcile(5, msg(777, 3, "from someone else", "2025-01-01T00:00:01Z"))

	before := store.Messages(5)
	require.Len(t, before, 3)
	optIdx := 1

	auth := models.Message{
		ID: 42, RoomID: 5, SenderID: 9, Body: "hi",
		SentAt: func() *time.Time { t := opt.SentAt.Add(400 * time.Millisecond); return &t }(),
	}
	store.Reconcile(5, auth)

	after := store.Messages(5)
	require.Len(t, after, 3, "replacement must not change list length")
	assert.Equal(t, int64(42), after[optIdx].ID, "authoritative copy keeps the optimistic position")
}

func TestReconcileAppendsUnknown(t *testing.T) {
	store := NewStore(9)
	store.Reconcile(5, msg(42, 3, "hello", "2025-01-01T00:00:00Z"))
	list := store.Messages(5)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].ID)
}

func TestRollbackRestoresExactSnapshot(t *testing.T) {
	store := NewStore(9)
	m1 := msg(1, 2, "m1", "2025-01-01T00:00:00Z")
	m2 := msg(2, 9, "m2", "2025-01-01T00:00:01Z")
	store.SetMessages(5, []models.Message{m1, m2})

	opt := store.AppendOptimistic(5, "doomed")
	require.Len(t, store.Messages(5), 3)

	store.RollbackSend(5, opt.ID)
	assert.Equal(t, []models.Message{m1, m2}, store.Messages(5))
}

func TestRollbackAfterReconcileIsNoop(t *testing.T) {
	store := NewStore(9)
	opt := store.AppendOptimistic(5, "hi")

	auth := models.Message{ID: 42, RoomID: 5, SenderID: 9, Body: "hi", ClientToken: opt.ClientToken, SentAt: opt.SentAt}
	store.Reconcile(5, auth)

	// слишком поздно: подтверждённая копия уже в списке
	store.RollbackSend(5, opt.ID)
	list := store.Messages(5)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].ID)
}

// Scenario from the duplicate-suppression bug report: an optimistic send
// followed 400ms later by the server echo must collapse to one message.
func TestDuplicateSuppression(t *testing.T) {
	store := NewStore(9)
	optimistic := models.Message{
		ID: 1700000000000, RoomID: 5, SenderID: 9, Body: "hi",
		SentAt: ts("2025-01-01T00:00:00.000Z"),
	}
	store.SetMessages(5, []models.Message{optimistic})

	store.Reconcile(5, models.Message{
		ID: 42, RoomID: 5, SenderID: 9, Body: "hi",
		SentAt: ts("2025-01-01T00:00:00.400Z"),
	})

	list := store.Messages(5)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].ID)
}

func TestCanModifyTrailingRunOnly(t *testing.T) {
	store := NewStore(9)
	store.SetMessages(5, []models.Message{
		msg(1, 9, "mine, answered", "2025-01-01T00:00:00Z"),
		msg(2, 3, "their reply", "2025-01-01T00:00:01Z"),
		msg(3, 9, "mine, trailing", "2025-01-01T00:00:02Z"),
		msg(4, 9, "mine, last", "2025-01-01T00:00:03Z"),
	})

	assert.False(t, store.CanModify(5, 1), "own message with a later reply from another sender")
	assert.False(t, store.CanModify(5, 2), "not the sender")
	assert.True(t, store.CanModify(5, 3))
	assert.True(t, store.CanModify(5, 4))
	assert.False(t, store.CanModify(5, 99), "unknown message")
}

func TestApplyEditAndDelete(t *testing.T) {
	store := NewStore(9)
	store.SetMessages(5, []models.Message{
		msg(1, 9, "typo", "2025-01-01T00:00:00Z"),
		msg(2, 9, "bye", "2025-01-01T00:00:01Z"),
	})

	store.ApplyEdit(5, 1, "fixed")
	assert.Equal(t, "fixed", store.Messages(5)[0].Body)

	store.ApplyDelete(5, 2)
	list := store.Messages(5)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
}
