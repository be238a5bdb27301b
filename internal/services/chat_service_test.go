package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

type mockChatRepo struct {
	mock.Mock
}

func (m *mockChatRepo) CreateRoom(room *models.ChatRoom) error {
	return m.Called(room).Error(0)
}

func (m *mockChatRepo) GetRoom(roomID int) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	room, _ := args.Get(0).(*models.ChatRoom)
	return room, args.Error(1)
}

func (m *mockChatRepo) ListUserRooms(userID int) ([]*models.ChatRoom, error) {
	args := m.Called(userID)
	rooms, _ := args.Get(0).([]*models.ChatRoom)
	return rooms, args.Error(1)
}

func (m *mockChatRepo) DeleteRoom(roomID int) error {
	return m.Called(roomID).Error(0)
}

func (m *mockChatRepo) IsMember(roomID, userID int) (bool, error) {
	args := m.Called(roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockChatRepo) AddMember(roomID, userID int) error {
	return m.Called(roomID, userID).Error(0)
}

func (m *mockChatRepo) RemoveMember(roomID, userID int) error {
	return m.Called(roomID, userID).Error(0)
}

func (m *mockChatRepo) FindPrivateRoom(userA, userB int) (*models.ChatRoom, error) {
	args := m.Called(userA, userB)
	room, _ := args.Get(0).(*models.ChatRoom)
	return room, args.Error(1)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) ListByRoom(roomID, viewerID, limit, offset int) ([]*models.Message, error) {
	args := m.Called(roomID, viewerID, limit, offset)
	msgs, _ := args.Get(0).([]*models.Message)
	return msgs, args.Error(1)
}

func (m *mockMessageRepo) GetByID(id int64) (*models.Message, error) {
	args := m.Called(id)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *mockMessageRepo) Create(msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageRepo) FindByClientToken(roomID int, token string) (*models.Message, error) {
	args := m.Called(roomID, token)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *mockMessageRepo) UpdateBody(id int64, body string) error {
	return m.Called(id, body).Error(0)
}

func (m *mockMessageRepo) Delete(id int64) error {
	return m.Called(id).Error(0)
}

func (m *mockMessageRepo) CountLaterFromOthers(roomID int, id int64, senderID int) (int, error) {
	args := m.Called(roomID, id, senderID)
	return args.Int(0), args.Error(1)
}

func (m *mockMessageRepo) MarkRead(messageID int64, userID int) error {
	return m.Called(messageID, userID).Error(0)
}

func (m *mockMessageRepo) MarkRoomRead(roomID int, userID int, messageIDs []int64) error {
	return m.Called(roomID, userID, messageIDs).Error(0)
}

func (m *mockMessageRepo) UnreadCount(roomID, userID int) (int, error) {
	args := m.Called(roomID, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockMessageRepo) UnreadCounts(userID int) ([]repositories.RoomUnread, error) {
	args := m.Called(userID)
	counts, _ := args.Get(0).([]repositories.RoomUnread)
	return counts, args.Error(1)
}

func newChatService(rooms *mockChatRepo, messages *mockMessageRepo) *ChatService {
	return NewChatService(rooms, messages, nil)
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	rooms.On("IsMember", 5, 9).Return(false, nil)

	_, err := newChatService(rooms, messages).SendMessage(5, 9, "hi", "")
	assert.ErrorIs(t, err, ErrNotChatMember)
	messages.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSendMessageIdempotentOnClientToken(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	rooms.On("IsMember", 5, 9).Return(true, nil)

	existing := &models.Message{ID: 42, RoomID: 5, SenderID: 9, Body: "hi", ClientToken: "tok-1"}
	messages.On("FindByClientToken", 5, "tok-1").Return(existing, nil)

	msg, err := newChatService(rooms, messages).SendMessage(5, 9, "hi", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), msg.ID, "retry returns the stored row")
	messages.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSendMessageCreatesWhenTokenUnknown(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	rooms.On("IsMember", 5, 9).Return(true, nil)
	messages.On("FindByClientToken", 5, "tok-2").Return(nil, nil)
	messages.On("Create", mock.AnythingOfType("*models.Message")).Return(nil)

	msg, err := newChatService(rooms, messages).SendMessage(5, 9, "hi", "tok-2")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", msg.ClientToken)
	messages.AssertExpectations(t)
}

func TestEditMessageTrailingRunOnly(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	stored := &models.Message{ID: 7, RoomID: 5, SenderID: 9, Body: "old"}
	messages.On("GetByID", int64(7)).Return(stored, nil)
	messages.On("CountLaterFromOthers", 5, int64(7), 9).Return(2, nil)

	_, err := newChatService(rooms, messages).EditMessage(7, 9, "new")
	assert.ErrorIs(t, err, ErrNotTrailing)
	messages.AssertNotCalled(t, "UpdateBody", mock.Anything, mock.Anything)
}

func TestEditMessageRejectsOtherSender(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	stored := &models.Message{ID: 7, RoomID: 5, SenderID: 3, Body: "old"}
	messages.On("GetByID", int64(7)).Return(stored, nil)

	_, err := newChatService(rooms, messages).EditMessage(7, 9, "new")
	assert.ErrorIs(t, err, ErrNotSender)
}

func TestDeleteMessageTrailing(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	stored := &models.Message{ID: 7, RoomID: 5, SenderID: 9, Body: "bye"}
	messages.On("GetByID", int64(7)).Return(stored, nil)
	messages.On("CountLaterFromOthers", 5, int64(7), 9).Return(0, nil)
	messages.On("Delete", int64(7)).Return(nil)

	msg, err := newChatService(rooms, messages).DeleteMessage(7, 9)
	require.NoError(t, err)
	assert.Equal(t, 5, msg.RoomID)
	messages.AssertExpectations(t)
}

func TestUnreadCountsTotalIsSum(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	messages.On("UnreadCounts", 9).Return([]repositories.RoomUnread{
		{RoomID: 1, Count: 3},
		{RoomID: 2, Count: 0},
		{RoomID: 7, Count: 5},
	}, nil)

	counts, total, err := newChatService(rooms, messages).UnreadCounts(9)
	require.NoError(t, err)
	assert.Len(t, counts, 3)
	assert.Equal(t, 8, total)
}

func TestDeleteRoomRules(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	name := "ops"
	group := &models.ChatRoom{ID: 5, Name: &name, IsGroup: true, CreatedBy: 9, Members: []int{9, 3}}
	private := &models.ChatRoom{ID: 6, IsGroup: false, CreatedBy: 9, Members: []int{9, 3}}
	rooms.On("GetRoom", 5).Return(group, nil)
	rooms.On("GetRoom", 6).Return(private, nil)
	rooms.On("DeleteRoom", 5).Return(nil)

	svc := newChatService(rooms, messages)

	assert.ErrorIs(t, svc.DeleteRoom(6, 9, 10), ErrNotGroupRoom)
	assert.ErrorIs(t, svc.DeleteRoom(5, 3, 10), ErrNotChatMember, "not the creator, not elevated")
	assert.NoError(t, svc.DeleteRoom(5, 9, 10), "creator may delete")
}

func TestCreatePrivateReusesExistingRoom(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	existing := &models.ChatRoom{ID: 11, IsGroup: false, Members: []int{9, 3}}
	rooms.On("FindPrivateRoom", 9, 3).Return(existing, nil)

	room, err := newChatService(rooms, messages).CreatePrivate(9, 3)
	require.NoError(t, err)
	assert.Equal(t, 11, room.ID)
	rooms.AssertNotCalled(t, "CreateRoom", mock.Anything)
}

func TestCreateGroupDeduplicatesMembers(t *testing.T) {
	rooms := new(mockChatRepo)
	messages := new(mockMessageRepo)
	rooms.On("CreateRoom", mock.AnythingOfType("*models.ChatRoom")).Return(nil)

	room, err := newChatService(rooms, messages).CreateGroup(9, "ops", []int{3, 9, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{9, 3, 4}, room.Members, "creator first, duplicates dropped")
}
