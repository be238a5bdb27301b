package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fieldops/internal/models"
	"fieldops/internal/realtime"
	"fieldops/internal/services"
)

type ChatHandler struct {
	service *services.ChatService
	hub     *realtime.Hub
}

type sendMessageRequest struct {
	Message     string `json:"message" binding:"required"`
	ClientToken string `json:"client_token"`
}

type createGroupRequest struct {
	Name    string `json:"name" binding:"required"`
	Members []int  `json:"members" binding:"required"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// источник проверяется на уровне JWT, а не Origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewChatHandler(service *services.ChatService, hub *realtime.Hub) *ChatHandler {
	return &ChatHandler{service: service, hub: hub}
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	rooms, err := h.service.ListRooms(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *ChatHandler) CreateGroup(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.service.CreateGroup(userID, req.Name, req.Members)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *ChatHandler) CreatePrivate(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.service.CreatePrivate(userID, req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *ChatHandler) DeleteRoom(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	roomID, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if err := h.service.DeleteRoom(roomID, userID, roleID); err != nil {
		switch err {
		case services.ErrRoomNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.ErrNotGroupRoom, services.ErrNotChatMember:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deleted"})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	roomID, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	limit, offset := pagination(c)

	messages, err := h.service.GetMessages(roomID, userID, limit, offset)
	if err != nil {
		if err == services.ErrNotChatMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	roomID, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.service.SendMessage(roomID, userID, req.Message, req.ClientToken)
	if err != nil {
		if err == services.ErrNotChatMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.hub.Broadcast(roomID, models.SocketEvent{
		Event:   models.EventNewMessage,
		RoomID:  roomID,
		Message: msg,
	})
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	msgID, ok := pathInt64(c, "messageId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.service.EditMessage(msgID, userID, req.Message)
	if err != nil {
		h.modifyError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	msgID, ok := pathInt64(c, "messageId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	if _, err := h.service.DeleteMessage(msgID, userID); err != nil {
		h.modifyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

func (h *ChatHandler) modifyError(c *gin.Context, err error) {
	switch err {
	case services.ErrNotSender, services.ErrNotTrailing:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *ChatHandler) MarkMessageRead(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	msgID, ok := pathInt64(c, "messageId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	if err := h.service.MarkMessageRead(msgID, userID); err != nil {
		if err == services.ErrNotChatMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

func (h *ChatHandler) MarkRoomRead(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	roomID, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	var req struct {
		MessageIDs []int64 `json:"message_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.MarkRoomRead(roomID, userID, req.MessageIDs); err != nil {
		if err == services.ErrNotChatMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room marked as read"})
}

// UnreadCounts отдаёт счётчики по комнатам и общий итог одним запросом.
func (h *ChatHandler) UnreadCounts(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	counts, total, err := h.service.UnreadCounts(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": counts, "total": total})
}

// Stream upgrades the request to a websocket. Joining rooms happens via
// joinRoom frames, membership is re-checked per room on every join.
func (h *ChatHandler) Stream(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[chat][ws] upgrade failed user=%d: %v", userID, err)
		return
	}
	client := realtime.NewClient(h.hub, conn, userID, h.service.EnsureMember)
	client.Run()
}
