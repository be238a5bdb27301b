package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"fieldops/internal/models"
)

type LeaveRepository struct {
	db *sql.DB
}

func NewLeaveRepository(db *sql.DB) *LeaveRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(lr *models.LeaveRequest) error {
	const q = `
		INSERT INTO leave_requests (staff_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRow(q, lr.StaffID, lr.Type, lr.StartDate, lr.EndDate, lr.Reason, lr.Status).
		Scan(&lr.ID, &lr.CreatedAt)
}

func (r *LeaveRepository) GetByID(id int) (*models.LeaveRequest, error) {
	const q = `
		SELECT id, staff_id, type, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
		       reason, status, decided_by, decided_at, created_at
		FROM leave_requests WHERE id=$1
	`
	lr := &models.LeaveRequest{}
	err := r.db.QueryRow(q, id).Scan(&lr.ID, &lr.StaffID, &lr.Type, &lr.StartDate, &lr.EndDate,
		&lr.Reason, &lr.Status, &lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lr, nil
}

func (r *LeaveRepository) UpdateStatus(id int, status models.LeaveStatus, decidedBy int) error {
	const q = `
		UPDATE leave_requests
		SET status=$1, decided_by=$2, decided_at=NOW()
		WHERE id=$3
	`
	_, err := r.db.Exec(q, status, decidedBy, id)
	return err
}

func (r *LeaveRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM leave_requests WHERE id=$1`, id)
	return err
}

func (r *LeaveRepository) Filter(staffID int, status string, limit, offset int) ([]models.LeaveRequest, error) {
	query := `
		SELECT id, staff_id, type, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
		       reason, status, decided_by, decided_at, created_at
		FROM leave_requests WHERE 1=1`
	args := []interface{}{}
	i := 1

	if staffID > 0 {
		query += fmt.Sprintf(" AND staff_id = $%d", i)
		args = append(args, staffID)
		i++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, status)
		i++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaveRequest
	for rows.Next() {
		var lr models.LeaveRequest
		if err := rows.Scan(&lr.ID, &lr.StaffID, &lr.Type, &lr.StartDate, &lr.EndDate,
			&lr.Reason, &lr.Status, &lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}
