package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"fieldops/internal/models"
)

// RoomUnread is one row of the aggregate unread query.
type RoomUnread struct {
	RoomID int `json:"room_id"`
	Count  int `json:"count"`
}

type MessageRepository interface {
	// ListByRoom returns messages in chronological order. viewerID drives
	// the per-viewer is_read flag in the result.
	ListByRoom(roomID, viewerID, limit, offset int) ([]*models.Message, error)
	GetByID(id int64) (*models.Message, error)
	Create(msg *models.Message) error
	FindByClientToken(roomID int, token string) (*models.Message, error)
	UpdateBody(id int64, body string) error
	Delete(id int64) error

	// CountLaterFromOthers counts messages in the room that come after the
	// given one in chronological order and have a different sender. Zero
	// means the message sits in a trailing run of its sender's messages.
	CountLaterFromOthers(roomID int, id int64, senderID int) (int, error)

	MarkRead(messageID int64, userID int) error
	MarkRoomRead(roomID int, userID int, messageIDs []int64) error
	UnreadCount(roomID, userID int) (int, error)
	UnreadCounts(userID int) ([]RoomUnread, error)
}

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{DB: db}
}

func (r *messageRepository) ListByRoom(roomID, viewerID, limit, offset int) ([]*models.Message, error) {
	const q = `
		SELECT m.id, m.room_id, m.sender_id, COALESCE(u.full_name, ''), m.body,
		       COALESCE(m.client_token, ''), m.sent_at,
		       (m.sender_id = $2 OR EXISTS (
		            SELECT 1 FROM message_reads r WHERE r.message_id = m.id AND r.user_id = $2
		       )) AS is_read
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.room_id = $1
		ORDER BY m.sent_at ASC, m.id ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.Query(q, roomID, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var (
			msg    models.Message
			sentAt time.Time
			isRead bool
		)
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.SenderID, &msg.SenderName, &msg.Body,
			&msg.ClientToken, &sentAt, &isRead); err != nil {
			return nil, err
		}
		msg.SentAt = &sentAt
		msg.IsRead = &isRead
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func (r *messageRepository) GetByID(id int64) (*models.Message, error) {
	const q = `
		SELECT m.id, m.room_id, m.sender_id, COALESCE(u.full_name, ''), m.body,
		       COALESCE(m.client_token, ''), m.sent_at
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.id = $1
	`
	var (
		msg    models.Message
		sentAt time.Time
	)
	err := r.DB.QueryRow(q, id).Scan(&msg.ID, &msg.RoomID, &msg.SenderID, &msg.SenderName,
		&msg.Body, &msg.ClientToken, &sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	msg.SentAt = &sentAt
	return &msg, nil
}

func (r *messageRepository) Create(msg *models.Message) error {
	const q = `
		INSERT INTO messages (room_id, sender_id, body, client_token)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, sent_at
	`
	var sentAt time.Time
	if err := r.DB.QueryRow(q, msg.RoomID, msg.SenderID, msg.Body, msg.ClientToken).
		Scan(&msg.ID, &sentAt); err != nil {
		return err
	}
	msg.SentAt = &sentAt
	return nil
}

// FindByClientToken возвращает уже сохранённое сообщение с этим токеном
// (идемпотентный повтор отправки).
func (r *messageRepository) FindByClientToken(roomID int, token string) (*models.Message, error) {
	const q = `
		SELECT m.id, m.room_id, m.sender_id, COALESCE(u.full_name, ''), m.body,
		       COALESCE(m.client_token, ''), m.sent_at
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.room_id = $1 AND m.client_token = $2
	`
	var (
		msg    models.Message
		sentAt time.Time
	)
	err := r.DB.QueryRow(q, roomID, token).Scan(&msg.ID, &msg.RoomID, &msg.SenderID,
		&msg.SenderName, &msg.Body, &msg.ClientToken, &sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	msg.SentAt = &sentAt
	return &msg, nil
}

func (r *messageRepository) UpdateBody(id int64, body string) error {
	_, err := r.DB.Exec(`UPDATE messages SET body=$1 WHERE id=$2`, body, id)
	return err
}

func (r *messageRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM messages WHERE id=$1`, id)
	return err
}

func (r *messageRepository) CountLaterFromOthers(roomID int, id int64, senderID int) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM messages later
		WHERE later.room_id = $1
		  AND later.sender_id <> $3
		  AND (later.sent_at, later.id) > (
		        SELECT m.sent_at, m.id FROM messages m WHERE m.id = $2
		  )
	`
	var count int
	err := r.DB.QueryRow(q, roomID, id, senderID).Scan(&count)
	return count, err
}

func (r *messageRepository) MarkRead(messageID int64, userID int) error {
	const q = `
		INSERT INTO message_reads (message_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	_, err := r.DB.Exec(q, messageID, userID)
	return err
}

func (r *messageRepository) MarkRoomRead(roomID int, userID int, messageIDs []int64) error {
	const q = `
		INSERT INTO message_reads (message_id, user_id)
		SELECT m.id, $2
		FROM messages m
		WHERE m.room_id = $1 AND m.id = ANY($3) AND m.sender_id <> $2
		ON CONFLICT DO NOTHING
	`
	_, err := r.DB.Exec(q, roomID, userID, pq.Array(messageIDs))
	return err
}

func (r *messageRepository) UnreadCount(roomID, userID int) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM messages m
		WHERE m.room_id = $1
		  AND m.sender_id <> $2
		  AND NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = m.id AND r.user_id = $2)
	`
	var count int
	err := r.DB.QueryRow(q, roomID, userID).Scan(&count)
	return count, err
}

// UnreadCounts считает непрочитанное по всем комнатам пользователя одним
// запросом (агрегатный эндпоинт вместо обхода комнат по одной).
func (r *messageRepository) UnreadCounts(userID int) ([]RoomUnread, error) {
	const q = `
		SELECT cm.room_id,
		       COUNT(m.id) FILTER (
		           WHERE m.sender_id <> $1
		             AND NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = m.id AND r.user_id = $1)
		       ) AS unread
		FROM chat_room_members cm
		LEFT JOIN messages m ON m.room_id = cm.room_id
		WHERE cm.user_id = $1
		GROUP BY cm.room_id
		ORDER BY cm.room_id
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoomUnread
	for rows.Next() {
		var ru RoomUnread
		if err := rows.Scan(&ru.RoomID, &ru.Count); err != nil {
			return nil, err
		}
		out = append(out, ru)
	}
	return out, rows.Err()
}
