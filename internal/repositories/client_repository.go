package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"fieldops/internal/models"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(client *models.Client) (int64, error) {
	const q = `
		INSERT INTO clients (name, region, address, contact_person, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(q, client.Name, client.Region, client.Address, client.ContactPerson, client.Phone).
		Scan(&client.ID, &client.CreatedAt)
	return int64(client.ID), err
}

func (r *ClientRepository) GetByID(id int) (*models.Client, error) {
	const q = `
		SELECT id, name, region, address, contact_person, phone, created_at
		FROM clients WHERE id=$1
	`
	client := &models.Client{}
	err := r.db.QueryRow(q, id).Scan(&client.ID, &client.Name, &client.Region,
		&client.Address, &client.ContactPerson, &client.Phone, &client.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *ClientRepository) Update(client *models.Client) error {
	const q = `
		UPDATE clients
		SET name=$1, region=$2, address=$3, contact_person=$4, phone=$5
		WHERE id=$6
	`
	_, err := r.db.Exec(q, client.Name, client.Region, client.Address,
		client.ContactPerson, client.Phone, client.ID)
	return err
}

func (r *ClientRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM clients WHERE id=$1`, id)
	return err
}

func (r *ClientRepository) List(region string, limit, offset int) ([]models.Client, error) {
	query := `SELECT id, name, region, address, contact_person, phone, created_at FROM clients WHERE 1=1`
	args := []interface{}{}
	i := 1

	if region != "" {
		query += fmt.Sprintf(" AND region = $%d", i)
		args = append(args, region)
		i++
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Region, &c.Address, &c.ContactPerson, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
