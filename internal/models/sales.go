package models

import "time"

// SalesTarget is a monthly quota for one rep. Period is "YYYY-MM".
type SalesTarget struct {
	ID        int       `json:"id"`
	RepID     int       `json:"rep_id"`
	Period    string    `json:"period"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// MasterSale is one recorded sale by a rep to a client.
type MasterSale struct {
	ID        int       `json:"id"`
	RepID     int       `json:"rep_id"`
	ClientID  int       `json:"client_id"`
	Amount    float64   `json:"amount"`
	Quantity  int       `json:"quantity"`
	SoldAt    time.Time `json:"sold_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SalesFilter defines the available parameters for filtering sales.
type SalesFilter struct {
	RepID    int
	ClientID int
	From     string // "2006-01-02", inclusive
	To       string
	SortBy   string
	Order    string
	Limit    int
	Offset   int
}

// RepPerformance is one row of the performance summary: totals for a rep
// against the target of the requested period.
type RepPerformance struct {
	RepID      int     `json:"rep_id"`
	RepName    string  `json:"rep_name"`
	Target     float64 `json:"target"`
	Total      float64 `json:"total"`
	SalesCount int     `json:"sales_count"`
	Attainment float64 `json:"attainment"` // Total/Target, 0 when no target
}
