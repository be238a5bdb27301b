package models

import "time"

// LoginHistory is one attendance record: a check-in with an optional
// check-out once the day is closed.
type LoginHistory struct {
	ID       int        `json:"id"`
	StaffID  int        `json:"staff_id"`
	LoginAt  time.Time  `json:"login_at"`
	LogoutAt *time.Time `json:"logout_at,omitempty"`
	Device   string     `json:"device"`
}

// JourneyStatus defines the possible statuses of a planned visit.
type JourneyStatus string

const (
	JourneyPending   JourneyStatus = "pending"
	JourneyCheckedIn JourneyStatus = "checked_in"
	JourneyCompleted JourneyStatus = "completed"
	JourneyCancelled JourneyStatus = "cancelled"
)

// JourneyPlan is a planned client visit for a rep on a given date.
type JourneyPlan struct {
	ID        int           `json:"id"`
	RepID     int           `json:"rep_id"`
	ClientID  int           `json:"client_id"`
	PlanDate  string        `json:"plan_date"` // "2006-01-02"
	Status    JourneyStatus `json:"status"`
	Notes     string        `json:"notes"`
	CheckinAt *time.Time    `json:"checkin_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// AttendanceFilter defines the available parameters for filtering
// login-history and journey-plan listings.
type AttendanceFilter struct {
	StaffID int
	From    string
	To      string
	Status  string
	Limit   int
	Offset  int
}
