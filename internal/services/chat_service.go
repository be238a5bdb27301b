package services

import (
	"errors"
	"fmt"

	"fieldops/internal/authz"
	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

var (
	ErrNotChatMember = errors.New("user is not a member of this chat")
	ErrNotSender     = errors.New("only the sender can modify a message")
	ErrNotTrailing   = errors.New("message is no longer editable: someone has replied")
	ErrRoomNotFound  = errors.New("chat room not found")
	ErrNotGroupRoom  = errors.New("only group rooms can be deleted")
)

// ChatService handles room/message operations. Realtime delivery is the
// hub's job; the service only persists and validates.
type ChatService struct {
	rooms    repositories.ChatRepository
	messages repositories.MessageRepository
	cache    *UnreadCache // optional
}

func NewChatService(rooms repositories.ChatRepository, messages repositories.MessageRepository, cache *UnreadCache) *ChatService {
	return &ChatService{rooms: rooms, messages: messages, cache: cache}
}

func (s *ChatService) ListRooms(userID int) ([]*models.ChatRoom, error) {
	return s.rooms.ListUserRooms(userID)
}

func (s *ChatService) GetRoom(roomID int) (*models.ChatRoom, error) {
	return s.rooms.GetRoom(roomID)
}

func (s *ChatService) CreateGroup(creatorID int, name string, memberIDs []int) (*models.ChatRoom, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	members := append([]int{creatorID}, memberIDs...)
	room := &models.ChatRoom{
		Name:      &name,
		IsGroup:   true,
		CreatedBy: creatorID,
		Members:   dedupInts(members),
	}
	if err := s.rooms.CreateRoom(room); err != nil {
		return nil, err
	}
	return room, nil
}

// CreatePrivate повторно использует существующий личный чат, если он есть.
func (s *ChatService) CreatePrivate(creatorID, otherID int) (*models.ChatRoom, error) {
	if creatorID == otherID {
		return nil, fmt.Errorf("cannot open a private chat with yourself")
	}
	if existing, err := s.rooms.FindPrivateRoom(creatorID, otherID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}
	room := &models.ChatRoom{
		IsGroup:   false,
		CreatedBy: creatorID,
		Members:   []int{creatorID, otherID},
	}
	if err := s.rooms.CreateRoom(room); err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom: только групповые комнаты, только создатель или elevated-роль.
func (s *ChatService) DeleteRoom(roomID, userID, roleID int) error {
	room, err := s.rooms.GetRoom(roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if !room.IsGroup {
		return ErrNotGroupRoom
	}
	if room.CreatedBy != userID && !authz.IsElevated(roleID) {
		return ErrNotChatMember
	}
	if err := s.rooms.DeleteRoom(roomID); err != nil {
		return err
	}
	s.invalidateFor(room.Members)
	return nil
}

func (s *ChatService) EnsureMember(roomID, userID int) error {
	ok, err := s.rooms.IsMember(roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotChatMember
	}
	return nil
}

func (s *ChatService) GetMessages(roomID, userID, limit, offset int) ([]*models.Message, error) {
	if err := s.EnsureMember(roomID, userID); err != nil {
		return nil, err
	}
	return s.messages.ListByRoom(roomID, userID, limit, offset)
}

// SendMessage persists a message. A repeated client token returns the
// already-stored row instead of inserting a duplicate, which makes client
// retries safe.
func (s *ChatService) SendMessage(roomID, senderID int, body, clientToken string) (*models.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("message text is required")
	}
	if err := s.EnsureMember(roomID, senderID); err != nil {
		return nil, err
	}
	if clientToken != "" {
		if existing, err := s.messages.FindByClientToken(roomID, clientToken); err != nil {
			return nil, err
		} else if existing != nil {
			return existing, nil
		}
	}
	msg := &models.Message{
		RoomID:      roomID,
		SenderID:    senderID,
		Body:        body,
		ClientToken: clientToken,
	}
	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}
	s.invalidateRoom(roomID)
	return msg, nil
}

// EditMessage мутирует текст. Разрешено только отправителю, и только пока
// после сообщения нет ответов других участников.
func (s *ChatService) EditMessage(msgID int64, userID int, body string) (*models.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("message text is required")
	}
	msg, err := s.modifiableMessage(msgID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.UpdateBody(msgID, body); err != nil {
		return nil, err
	}
	msg.Body = body
	return msg, nil
}

func (s *ChatService) DeleteMessage(msgID int64, userID int) (*models.Message, error) {
	msg, err := s.modifiableMessage(msgID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Delete(msgID); err != nil {
		return nil, err
	}
	s.invalidateRoom(msg.RoomID)
	return msg, nil
}

func (s *ChatService) modifiableMessage(msgID int64, userID int) (*models.Message, error) {
	msg, err := s.messages.GetByID(msgID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrRoomNotFound
	}
	if msg.SenderID != userID {
		return nil, ErrNotSender
	}
	later, err := s.messages.CountLaterFromOthers(msg.RoomID, msgID, userID)
	if err != nil {
		return nil, err
	}
	if later > 0 {
		return nil, ErrNotTrailing
	}
	return msg, nil
}

func (s *ChatService) MarkMessageRead(msgID int64, userID int) error {
	msg, err := s.messages.GetByID(msgID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrRoomNotFound
	}
	if err := s.EnsureMember(msg.RoomID, userID); err != nil {
		return err
	}
	if err := s.messages.MarkRead(msgID, userID); err != nil {
		return err
	}
	s.invalidateUser(userID)
	return nil
}

func (s *ChatService) MarkRoomRead(roomID, userID int, messageIDs []int64) error {
	if err := s.EnsureMember(roomID, userID); err != nil {
		return err
	}
	if err := s.messages.MarkRoomRead(roomID, userID, messageIDs); err != nil {
		return err
	}
	s.invalidateUser(userID)
	return nil
}

// UnreadCounts returns per-room unread counts for the user in one round
// trip, with a short-TTL cache in front of the aggregate query.
func (s *ChatService) UnreadCounts(userID int) ([]repositories.RoomUnread, int, error) {
	if s.cache != nil {
		if counts, total, ok := s.cache.Get(userID); ok {
			return counts, total, nil
		}
	}
	counts, err := s.messages.UnreadCounts(userID)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if s.cache != nil {
		s.cache.Set(userID, counts, total)
	}
	return counts, total, nil
}

func (s *ChatService) invalidateRoom(roomID int) {
	if s.cache == nil {
		return
	}
	room, err := s.rooms.GetRoom(roomID)
	if err != nil || room == nil {
		return
	}
	s.invalidateFor(room.Members)
}

func (s *ChatService) invalidateFor(userIDs []int) {
	if s.cache == nil {
		return
	}
	for _, id := range userIDs {
		s.cache.Invalidate(id)
	}
}

func (s *ChatService) invalidateUser(userID int) {
	if s.cache != nil {
		s.cache.Invalidate(userID)
	}
}

func dedupInts(in []int) []int {
	seen := map[int]struct{}{}
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
