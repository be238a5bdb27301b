package chatclient

import (
	"context"
	"errors"

	"fieldops/internal/chatstate"
	"fieldops/internal/models"
)

// ErrNotModifiable is returned when a message is outside the trailing run
// of the user's own messages, so edit/delete is refused before any call
// leaves the client.
var ErrNotModifiable = errors.New("message can no longer be modified")

// Session owns one user's chat lifecycle: the shared store, the REST
// client and the socket. Every network call threads the session context,
// so Close cancels anything still in flight and a late response cannot
// write into torn-down state.
type Session struct {
	Store  *chatstate.Store
	rest   *Client
	socket *Socket

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSession(store *chatstate.Store, rest *Client, socket *Socket) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{Store: store, rest: rest, socket: socket, ctx: ctx, cancel: cancel}
}

// Open connects the socket and routes pushes into the store.
func (s *Session) Open() error {
	s.socket.OnMessage = func(roomID int, msg models.Message) {
		s.Store.Reconcile(roomID, msg)
	}
	return s.socket.Open(s.ctx)
}

// Close cancels in-flight requests and shuts the socket down.
func (s *Session) Close() {
	s.cancel()
	s.socket.Close()
}

// EnterRoom refetches the room's messages into the store and joins the
// push channel for it.
func (s *Session) EnterRoom(roomID int) error {
	messages, err := s.rest.GetMessages(s.ctx, roomID, 50, 0)
	if err != nil {
		return err
	}
	s.Store.SetMessages(roomID, messages)
	return s.socket.JoinRoom(roomID)
}

func (s *Session) LeaveRoom(roomID int) error {
	return s.socket.LeaveRoom(roomID)
}

// Send performs the optimistic send: insert locally, issue the REST call
// with the client token, reconcile the confirmed copy on success, roll
// the list back to the pre-send snapshot on failure.
func (s *Session) Send(roomID int, body string) (*models.Message, error) {
	opt := s.Store.AppendOptimistic(roomID, body)

	confirmed, err := s.rest.SendMessage(s.ctx, roomID, body, opt.ClientToken)
	if err != nil {
		s.Store.RollbackSend(roomID, opt.ID)
		return nil, err
	}
	s.Store.Reconcile(roomID, *confirmed)
	return confirmed, nil
}

// Edit mutates the text server-side, then patches the cache. A failed
// edit leaves the cache untouched.
func (s *Session) Edit(roomID int, msgID int64, body string) error {
	if !s.Store.CanModify(roomID, msgID) {
		return ErrNotModifiable
	}
	if _, err := s.rest.EditMessage(s.ctx, roomID, msgID, body); err != nil {
		return err
	}
	s.Store.ApplyEdit(roomID, msgID, body)
	return nil
}

func (s *Session) Delete(roomID int, msgID int64) error {
	if !s.Store.CanModify(roomID, msgID) {
		return ErrNotModifiable
	}
	if err := s.rest.DeleteMessage(s.ctx, roomID, msgID); err != nil {
		return err
	}
	s.Store.ApplyDelete(roomID, msgID)
	return nil
}

// MarkVisible is the viewport hook: called when a message becomes
// visible, ignores own messages, marks others read once.
func (s *Session) MarkVisible(roomID int, msg models.Message) {
	if msg.SenderID == s.Store.CurrentUserID() {
		return
	}
	s.Store.MarkMessageRead(s.ctx, s.rest, roomID, msg.ID)
}

// MarkRoomRead bulk-marks and advances the room's last-read stamp.
func (s *Session) MarkRoomRead(roomID int, msgIDs []int64) {
	s.Store.MarkRoomRead(s.ctx, s.rest, roomID, msgIDs)
}
