package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"fieldops/internal/models"
)

type SalesRepository struct {
	db *sql.DB
}

func NewSalesRepository(db *sql.DB) *SalesRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &SalesRepository{db: db}
}

// --- targets ---

func (r *SalesRepository) CreateTarget(t *models.SalesTarget) error {
	const q = `
		INSERT INTO sales_targets (rep_id, period, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRow(q, t.RepID, t.Period, t.Amount).Scan(&t.ID, &t.CreatedAt)
}

func (r *SalesRepository) GetTarget(id int) (*models.SalesTarget, error) {
	const q = `SELECT id, rep_id, period, amount, created_at FROM sales_targets WHERE id=$1`
	t := &models.SalesTarget{}
	err := r.db.QueryRow(q, id).Scan(&t.ID, &t.RepID, &t.Period, &t.Amount, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SalesRepository) UpdateTarget(t *models.SalesTarget) error {
	const q = `UPDATE sales_targets SET rep_id=$1, period=$2, amount=$3 WHERE id=$4`
	_, err := r.db.Exec(q, t.RepID, t.Period, t.Amount, t.ID)
	return err
}

func (r *SalesRepository) DeleteTarget(id int) error {
	_, err := r.db.Exec(`DELETE FROM sales_targets WHERE id=$1`, id)
	return err
}

func (r *SalesRepository) ListTargets(period string, repID int) ([]models.SalesTarget, error) {
	query := `SELECT id, rep_id, period, amount, created_at FROM sales_targets WHERE 1=1`
	args := []interface{}{}
	i := 1

	if period != "" {
		query += fmt.Sprintf(" AND period = $%d", i)
		args = append(args, period)
		i++
	}
	if repID > 0 {
		query += fmt.Sprintf(" AND rep_id = $%d", i)
		args = append(args, repID)
		i++
	}
	query += " ORDER BY period DESC, rep_id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SalesTarget
	for rows.Next() {
		var t models.SalesTarget
		if err := rows.Scan(&t.ID, &t.RepID, &t.Period, &t.Amount, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- master sales ---

func (r *SalesRepository) CreateSale(s *models.MasterSale) error {
	const q = `
		INSERT INTO master_sales (rep_id, client_id, amount, quantity, sold_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRow(q, s.RepID, s.ClientID, s.Amount, s.Quantity, s.SoldAt).
		Scan(&s.ID, &s.CreatedAt)
}

func (r *SalesRepository) GetSale(id int) (*models.MasterSale, error) {
	const q = `
		SELECT id, rep_id, client_id, amount, quantity, sold_at, created_at
		FROM master_sales WHERE id=$1
	`
	s := &models.MasterSale{}
	err := r.db.QueryRow(q, id).Scan(&s.ID, &s.RepID, &s.ClientID, &s.Amount, &s.Quantity, &s.SoldAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SalesRepository) UpdateSale(s *models.MasterSale) error {
	const q = `
		UPDATE master_sales
		SET rep_id=$1, client_id=$2, amount=$3, quantity=$4, sold_at=$5
		WHERE id=$6
	`
	_, err := r.db.Exec(q, s.RepID, s.ClientID, s.Amount, s.Quantity, s.SoldAt, s.ID)
	return err
}

func (r *SalesRepository) DeleteSale(id int) error {
	_, err := r.db.Exec(`DELETE FROM master_sales WHERE id=$1`, id)
	return err
}

func (r *SalesRepository) FilterSales(f models.SalesFilter) ([]models.MasterSale, error) {
	sortBy := f.SortBy
	order := f.Order
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	allowed := map[string]bool{"sold_at": true, "amount": true, "rep_id": true, "client_id": true}
	if !allowed[sortBy] {
		sortBy = "sold_at"
	}

	query := `SELECT id, rep_id, client_id, amount, quantity, sold_at, created_at FROM master_sales WHERE 1=1`
	args := []interface{}{}
	i := 1

	if f.RepID > 0 {
		query += fmt.Sprintf(" AND rep_id = $%d", i)
		args = append(args, f.RepID)
		i++
	}
	if f.ClientID > 0 {
		query += fmt.Sprintf(" AND client_id = $%d", i)
		args = append(args, f.ClientID)
		i++
	}
	if f.From != "" {
		query += fmt.Sprintf(" AND sold_at >= $%d", i)
		args = append(args, f.From)
		i++
	}
	if f.To != "" {
		query += fmt.Sprintf(" AND sold_at < ($%d::date + 1)", i)
		args = append(args, f.To)
		i++
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortBy, order, i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MasterSale
	for rows.Next() {
		var s models.MasterSale
		if err := rows.Scan(&s.ID, &s.RepID, &s.ClientID, &s.Amount, &s.Quantity, &s.SoldAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Performance агрегирует продажи по репам за период против их планов.
func (r *SalesRepository) Performance(period string) ([]models.RepPerformance, error) {
	const q = `
		SELECT u.id, u.full_name,
		       COALESCE(t.amount, 0) AS target,
		       COALESCE(SUM(s.amount), 0) AS total,
		       COUNT(s.id) AS sales_count
		FROM users u
		LEFT JOIN sales_targets t ON t.rep_id = u.id AND t.period = $1
		LEFT JOIN master_sales s ON s.rep_id = u.id AND to_char(s.sold_at, 'YYYY-MM') = $1
		WHERE u.role_id = 10
		GROUP BY u.id, u.full_name, t.amount
		ORDER BY u.full_name
	`
	rows, err := r.db.Query(q, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RepPerformance
	for rows.Next() {
		var p models.RepPerformance
		if err := rows.Scan(&p.RepID, &p.RepName, &p.Target, &p.Total, &p.SalesCount); err != nil {
			return nil, err
		}
		if p.Target > 0 {
			p.Attainment = p.Total / p.Target
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
