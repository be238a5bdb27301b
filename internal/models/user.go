package models

import "time"

type User struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Region       string `json:"region"`
	PasswordHash string `json:"-"` // не отдаём наружу
	RoleID       int    `json:"role_id"`

	// Telegram-уведомления (опционально, линкуется отдельно)
	TelegramChatID *int64 `json:"-"`

	// refresh-хранение в БД
	RefreshToken     *string    `json:"-"` // храним opaque строку
	RefreshExpiresAt *time.Time `json:"-"` // срок действия
	RefreshRevoked   bool       `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
