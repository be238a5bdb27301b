package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"fieldops/internal/models"
)

type AttendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &AttendanceRepository{db: db}
}

// --- login history ---

func (r *AttendanceRepository) CreateLogin(h *models.LoginHistory) error {
	const q = `
		INSERT INTO login_history (staff_id, login_at, device)
		VALUES ($1, NOW(), $2)
		RETURNING id, login_at
	`
	return r.db.QueryRow(q, h.StaffID, h.Device).Scan(&h.ID, &h.LoginAt)
}

// CloseLogin проставляет logout_at последней открытой записи сотрудника.
func (r *AttendanceRepository) CloseLogin(staffID int) error {
	const q = `
		UPDATE login_history
		SET logout_at = NOW()
		WHERE id = (
			SELECT id FROM login_history
			WHERE staff_id = $1 AND logout_at IS NULL
			ORDER BY login_at DESC
			LIMIT 1
		)
	`
	res, err := r.db.Exec(q, staffID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AttendanceRepository) FilterLogins(f models.AttendanceFilter) ([]models.LoginHistory, error) {
	query := `SELECT id, staff_id, login_at, logout_at, device FROM login_history WHERE 1=1`
	args := []interface{}{}
	i := 1

	if f.StaffID > 0 {
		query += fmt.Sprintf(" AND staff_id = $%d", i)
		args = append(args, f.StaffID)
		i++
	}
	if f.From != "" {
		query += fmt.Sprintf(" AND login_at >= $%d", i)
		args = append(args, f.From)
		i++
	}
	if f.To != "" {
		query += fmt.Sprintf(" AND login_at < ($%d::date + 1)", i)
		args = append(args, f.To)
		i++
	}

	query += fmt.Sprintf(" ORDER BY login_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LoginHistory
	for rows.Next() {
		var h models.LoginHistory
		if err := rows.Scan(&h.ID, &h.StaffID, &h.LoginAt, &h.LogoutAt, &h.Device); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// --- journey plans ---

func (r *AttendanceRepository) CreateJourney(j *models.JourneyPlan) error {
	const q = `
		INSERT INTO journey_plans (rep_id, client_id, plan_date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRow(q, j.RepID, j.ClientID, j.PlanDate, j.Status, j.Notes).
		Scan(&j.ID, &j.CreatedAt)
}

func (r *AttendanceRepository) GetJourney(id int) (*models.JourneyPlan, error) {
	const q = `
		SELECT id, rep_id, client_id, to_char(plan_date, 'YYYY-MM-DD'), status, notes, checkin_at, created_at
		FROM journey_plans WHERE id=$1
	`
	j := &models.JourneyPlan{}
	err := r.db.QueryRow(q, id).Scan(&j.ID, &j.RepID, &j.ClientID, &j.PlanDate, &j.Status, &j.Notes, &j.CheckinAt, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *AttendanceRepository) UpdateJourneyStatus(id int, status models.JourneyStatus, setCheckin bool) error {
	if setCheckin {
		_, err := r.db.Exec(
			`UPDATE journey_plans SET status=$1, checkin_at=NOW() WHERE id=$2`, status, id)
		return err
	}
	_, err := r.db.Exec(`UPDATE journey_plans SET status=$1 WHERE id=$2`, status, id)
	return err
}

func (r *AttendanceRepository) DeleteJourney(id int) error {
	_, err := r.db.Exec(`DELETE FROM journey_plans WHERE id=$1`, id)
	return err
}

func (r *AttendanceRepository) FilterJourneys(f models.AttendanceFilter) ([]models.JourneyPlan, error) {
	query := `
		SELECT id, rep_id, client_id, to_char(plan_date, 'YYYY-MM-DD'), status, notes, checkin_at, created_at
		FROM journey_plans WHERE 1=1`
	args := []interface{}{}
	i := 1

	if f.StaffID > 0 {
		query += fmt.Sprintf(" AND rep_id = $%d", i)
		args = append(args, f.StaffID)
		i++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, f.Status)
		i++
	}
	if f.From != "" {
		query += fmt.Sprintf(" AND plan_date >= $%d", i)
		args = append(args, f.From)
		i++
	}
	if f.To != "" {
		query += fmt.Sprintf(" AND plan_date <= $%d", i)
		args = append(args, f.To)
		i++
	}

	query += fmt.Sprintf(" ORDER BY plan_date DESC, id LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JourneyPlan
	for rows.Next() {
		var j models.JourneyPlan
		if err := rows.Scan(&j.ID, &j.RepID, &j.ClientID, &j.PlanDate, &j.Status, &j.Notes, &j.CheckinAt, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
