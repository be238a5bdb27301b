package models

import "time"

// Client represents an outlet a sales rep visits and sells to.
type Client struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Region        string    `json:"region"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
}
