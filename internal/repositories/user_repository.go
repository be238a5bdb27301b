package repositories

import (
	"database/sql"
	"errors"
	"time"

	"fieldops/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	Update(user *models.User) error
	Delete(id int) error
	List(limit, offset int) ([]*models.User, error)
	ListByRole(roleID int, limit, offset int) ([]*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetCount() (int, error)

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, full_name, email, phone, region, password_hash, role_id,
	telegram_chat_id, refresh_token, refresh_expires_at, refresh_revoked, created_at
`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Region, &u.PasswordHash, &u.RoleID,
		&u.TelegramChatID, &u.RefreshToken, &u.RefreshExpiresAt, &u.RefreshRevoked, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (full_name, email, phone, region, password_hash, role_id, telegram_chat_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.FullName, user.Email, user.Phone, user.Region,
		user.PasswordHash, user.RoleID, user.TelegramChatID,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRow(q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.DB.QueryRow(q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET full_name=$1, email=$2, phone=$3, region=$4, role_id=$5, telegram_chat_id=$6
		WHERE id=$7
	`
	_, err := r.DB.Exec(q,
		user.FullName, user.Email, user.Phone, user.Region,
		user.RoleID, user.TelegramChatID, user.ID,
	)
	return err
}

func (r *userRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY full_name LIMIT $1 OFFSET $2`
	return r.queryUsers(q, limit, offset)
}

func (r *userRepository) ListByRole(roleID int, limit, offset int) ([]*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE role_id = $1 ORDER BY full_name LIMIT $2 OFFSET $3`
	return r.queryUsers(q, roleID, limit, offset)
}

func (r *userRepository) queryUsers(q string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepository) GetCount() (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (r *userRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, userID)
	return err
}

// RotateRefresh атомарно меняет старый refresh на новый.
func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2
		WHERE refresh_token=$3
		  AND refresh_revoked=FALSE
		  AND refresh_expires_at > NOW()
		RETURNING ` + userColumns + `
	`
	u, err := scanUser(r.DB.QueryRow(q, newToken, newExpiresAt, oldToken))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) ClearRefresh(userID int) error {
	const q = `
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1
	`
	_, err := r.DB.Exec(q, userID)
	return err
}
