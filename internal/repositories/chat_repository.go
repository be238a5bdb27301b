package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"fieldops/internal/models"
)

type ChatRepository interface {
	CreateRoom(room *models.ChatRoom) error
	GetRoom(roomID int) (*models.ChatRoom, error)
	ListUserRooms(userID int) ([]*models.ChatRoom, error)
	DeleteRoom(roomID int) error
	IsMember(roomID, userID int) (bool, error)
	AddMember(roomID, userID int) error
	RemoveMember(roomID, userID int) error
	FindPrivateRoom(userA, userB int) (*models.ChatRoom, error)
}

type chatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{DB: db}
}

// CreateRoom вставляет комнату и всех участников одной транзакцией.
func (r *chatRepository) CreateRoom(room *models.ChatRoom) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO chat_rooms (name, is_group, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(q, room.Name, room.IsGroup, room.CreatedBy).Scan(&room.ID, &room.CreatedAt); err != nil {
		return err
	}
	for _, userID := range room.Members {
		if _, err := tx.Exec(
			`INSERT INTO chat_room_members (room_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			room.ID, userID,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *chatRepository) GetRoom(roomID int) (*models.ChatRoom, error) {
	const q = `
		SELECT c.id, c.name, c.is_group, c.created_by, c.created_at,
		       COALESCE(array_agg(m.user_id ORDER BY m.user_id), '{}') AS members
		FROM chat_rooms c
		LEFT JOIN chat_room_members m ON m.room_id = c.id
		WHERE c.id = $1
		GROUP BY c.id, c.name, c.is_group, c.created_by, c.created_at
	`
	room := &models.ChatRoom{}
	var members pq.Int64Array
	err := r.DB.QueryRow(q, roomID).Scan(
		&room.ID, &room.Name, &room.IsGroup, &room.CreatedBy, &room.CreatedAt, &members,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		room.Members = append(room.Members, int(m))
	}
	return room, nil
}

func (r *chatRepository) ListUserRooms(userID int) ([]*models.ChatRoom, error) {
	const q = `
		SELECT c.id, c.name, c.is_group, c.created_by, c.created_at,
		       COALESCE(array_agg(m.user_id ORDER BY m.user_id), '{}') AS members
		FROM chat_rooms c
		JOIN chat_room_members m ON m.room_id = c.id
		WHERE c.id IN (SELECT room_id FROM chat_room_members WHERE user_id = $1)
		GROUP BY c.id, c.name, c.is_group, c.created_by, c.created_at
		ORDER BY c.id
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.ChatRoom
	for rows.Next() {
		room := &models.ChatRoom{}
		var members pq.Int64Array
		if err := rows.Scan(&room.ID, &room.Name, &room.IsGroup, &room.CreatedBy, &room.CreatedAt, &members); err != nil {
			return nil, err
		}
		for _, m := range members {
			room.Members = append(room.Members, int(m))
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *chatRepository) DeleteRoom(roomID int) error {
	// members/messages/reads уходят по ON DELETE CASCADE
	_, err := r.DB.Exec(`DELETE FROM chat_rooms WHERE id=$1`, roomID)
	return err
}

func (r *chatRepository) IsMember(roomID, userID int) (bool, error) {
	const q = `SELECT 1 FROM chat_room_members WHERE room_id = $1 AND user_id = $2 LIMIT 1`
	var dummy int
	err := r.DB.QueryRow(q, roomID, userID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *chatRepository) AddMember(roomID, userID int) error {
	_, err := r.DB.Exec(
		`INSERT INTO chat_room_members (room_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		roomID, userID,
	)
	return err
}

func (r *chatRepository) RemoveMember(roomID, userID int) error {
	_, err := r.DB.Exec(`DELETE FROM chat_room_members WHERE room_id=$1 AND user_id=$2`, roomID, userID)
	return err
}

// FindPrivateRoom ищет существующий личный чат между двумя пользователями,
// чтобы не плодить дубликаты при повторном create-private-chat.
func (r *chatRepository) FindPrivateRoom(userA, userB int) (*models.ChatRoom, error) {
	const q = `
		SELECT c.id
		FROM chat_rooms c
		WHERE c.is_group = FALSE
		  AND EXISTS (SELECT 1 FROM chat_room_members WHERE room_id = c.id AND user_id = $1)
		  AND EXISTS (SELECT 1 FROM chat_room_members WHERE room_id = c.id AND user_id = $2)
		LIMIT 1
	`
	var id int
	err := r.DB.QueryRow(q, userA, userB).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetRoom(id)
}
