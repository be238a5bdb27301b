package chatclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/chatstate"
	"fieldops/internal/models"
)

func newTestSession(t *testing.T, handler http.Handler) (*Session, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := chatstate.NewStore(9)
	rest := NewClient(srv.URL, "test-token")
	return NewSession(store, rest, NewSocket("ws://unused", "test-token")), srv
}

func TestSendConvergesToServerCopy(t *testing.T) {
	var gotToken string
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req struct {
			Message     string `json:"message"`
			ClientToken string `json:"client_token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotToken = req.ClientToken

		now := time.Now()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Message{
			ID: 42, RoomID: 5, SenderID: 9,
			Body: req.Message, ClientToken: req.ClientToken, SentAt: &now,
		})
	}))

	confirmed, err := session.Send(5, "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(42), confirmed.ID)
	assert.NotEmpty(t, gotToken, "send must carry the idempotency token")

	list := session.Store.Messages(5)
	require.Len(t, list, 1, "optimistic entry replaced, not duplicated")
	assert.Equal(t, int64(42), list[0].ID)
}

func TestSendFailureRollsBack(t *testing.T) {
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "not a chat member"})
	}))

	seed := models.Message{ID: 1, RoomID: 5, SenderID: 3, Body: "m1"}
	session.Store.SetMessages(5, []models.Message{seed})

	_, err := session.Send(5, "doomed")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "not a chat member", apiErr.Message)

	assert.Equal(t, []models.Message{seed}, session.Store.Messages(5), "cache restored to pre-send state")
}

func TestEditRefusedLocallyWithoutNetworkCall(t *testing.T) {
	calls := 0
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	session.Store.SetMessages(5, []models.Message{
		{ID: 1, RoomID: 5, SenderID: 9, Body: "mine"},
		{ID: 2, RoomID: 5, SenderID: 3, Body: "their reply"},
	})

	err := session.Edit(5, 1, "late edit")
	assert.ErrorIs(t, err, ErrNotModifiable)
	assert.Zero(t, calls, "ineligible edits never reach the wire")
}

func TestDeleteRemovesFromCache(t *testing.T) {
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"message": "message deleted"})
	}))

	session.Store.SetMessages(5, []models.Message{
		{ID: 1, RoomID: 5, SenderID: 9, Body: "going"},
	})

	require.NoError(t, session.Delete(5, 1))
	assert.Empty(t, session.Store.Messages(5))
}

func TestMarkVisibleSkipsOwnMessages(t *testing.T) {
	calls := 0
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	session.MarkVisible(5, models.Message{ID: 1, RoomID: 5, SenderID: 9})
	assert.Zero(t, calls)

	session.MarkVisible(5, models.Message{ID: 2, RoomID: 5, SenderID: 3})
	assert.Equal(t, 1, calls)

	// повторная видимость уже прочитанного — без сети
	session.MarkVisible(5, models.Message{ID: 2, RoomID: 5, SenderID: 3})
	assert.Equal(t, 1, calls)
}

func TestUnreadCountsEndpoint(t *testing.T) {
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chats/unread-counts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rooms": []map[string]int{{"room_id": 1, "count": 3}, {"room_id": 2, "count": 0}},
			"total": 3,
		})
	}))

	counts, total, err := session.rest.UnreadCounts(session.ctx)
	require.NoError(t, err)
	assert.Len(t, counts, 2)
	assert.Equal(t, 3, total)
}
