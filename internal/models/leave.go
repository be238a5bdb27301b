package models

import "time"

type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

type LeaveType string

const (
	LeaveAnnual LeaveType = "annual"
	LeaveSick   LeaveType = "sick"
	LeaveUnpaid LeaveType = "unpaid"
)

type LeaveRequest struct {
	ID        int         `json:"id"`
	StaffID   int         `json:"staff_id"`
	Type      LeaveType   `json:"type"`
	StartDate string      `json:"start_date"` // "2006-01-02"
	EndDate   string      `json:"end_date"`
	Reason    string      `json:"reason"`
	Status    LeaveStatus `json:"status"`
	DecidedBy *int        `json:"decided_by,omitempty"`
	DecidedAt *time.Time  `json:"decided_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
