package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

var (
	ErrLeaveNotFound      = errors.New("leave request not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotRequestOwner    = errors.New("not the owner of this leave request")
	ErrDecisionNotAllowed = errors.New("only managers can decide leave requests")
)

type LeaveService struct {
	repo     *repositories.LeaveRepository
	users    UserService
	emails   EmailService
	notifier *Notifier
}

func NewLeaveService(repo *repositories.LeaveRepository, users UserService, emails EmailService, notifier *Notifier) *LeaveService {
	return &LeaveService{repo: repo, users: users, emails: emails, notifier: notifier}
}

func (s *LeaveService) Create(lr *models.LeaveRequest) error {
	if lr.StartDate == "" || lr.EndDate == "" {
		return fmt.Errorf("start_date and end_date are required")
	}
	start, err := time.Parse("2006-01-02", lr.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", lr.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date is before start_date")
	}
	if lr.Type == "" {
		lr.Type = models.LeaveAnnual
	}
	lr.Status = models.LeavePending
	return s.repo.Create(lr)
}

func (s *LeaveService) GetByID(id int) (*models.LeaveRequest, error) {
	return s.repo.GetByID(id)
}

func (s *LeaveService) List(staffID int, status string, limit, offset int) ([]models.LeaveRequest, error) {
	return s.repo.Filter(staffID, status, limit, offset)
}

// Decide approves or rejects a pending request and notifies the requester.
// Email and Telegram are best-effort: the decision stands even if both fail.
func (s *LeaveService) Decide(id int, deciderID int, approve bool) (*models.LeaveRequest, error) {
	lr, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lr == nil {
		return nil, ErrLeaveNotFound
	}

	to := models.LeaveApproved
	if !approve {
		to = models.LeaveRejected
	}
	if !canTransitionLeave(lr.Status, to) {
		return nil, ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(id, to, deciderID); err != nil {
		return nil, err
	}
	lr.Status = to
	lr.DecidedBy = &deciderID
	now := time.Now()
	lr.DecidedAt = &now

	s.notifyDecision(lr, approve)
	return lr, nil
}

// Cancel: владелец может отозвать pending, approved отменяется владельцем
// или менеджером.
func (s *LeaveService) Cancel(id int, userID int, elevated bool) (*models.LeaveRequest, error) {
	lr, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lr == nil {
		return nil, ErrLeaveNotFound
	}
	if lr.StaffID != userID && !elevated {
		return nil, ErrNotRequestOwner
	}
	if !canTransitionLeave(lr.Status, models.LeaveCancelled) {
		return nil, ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(id, models.LeaveCancelled, userID); err != nil {
		return nil, err
	}
	lr.Status = models.LeaveCancelled
	return lr, nil
}

func (s *LeaveService) notifyDecision(lr *models.LeaveRequest, approved bool) {
	staff, err := s.users.GetUserByID(lr.StaffID)
	if err != nil || staff == nil {
		log.Printf("leave decision: cannot load staff %d for notification: %v", lr.StaffID, err)
		return
	}
	if s.emails != nil {
		if err := s.emails.SendLeaveDecisionEmail(staff.Email, staff.FullName, approved, lr.StartDate, lr.EndDate); err != nil {
			log.Printf("leave decision: email to %s failed: %v", staff.Email, err)
		}
	}
	if staff.TelegramChatID != nil {
		s.notifier.LeaveDecision(*staff.TelegramChatID, approved, lr.StartDate, lr.EndDate)
	}
}
