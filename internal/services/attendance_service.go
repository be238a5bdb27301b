package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

var (
	ErrNoOpenShift      = errors.New("no open attendance record")
	ErrJourneyNotFound  = errors.New("journey plan not found")
	ErrNotJourneyOwner  = errors.New("not the owner of this journey plan")
	ErrJourneyFinalized = errors.New("journey plan is already finalized")
)

type AttendanceService struct {
	repo *repositories.AttendanceRepository
}

func NewAttendanceService(repo *repositories.AttendanceRepository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

func (s *AttendanceService) CheckIn(staffID int, device string) (*models.LoginHistory, error) {
	h := &models.LoginHistory{StaffID: staffID, Device: device}
	if err := s.repo.CreateLogin(h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *AttendanceService) CheckOut(staffID int) error {
	err := s.repo.CloseLogin(staffID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoOpenShift
	}
	return err
}

func (s *AttendanceService) ListLogins(f models.AttendanceFilter) ([]models.LoginHistory, error) {
	return s.repo.FilterLogins(f)
}

func (s *AttendanceService) CreateJourney(j *models.JourneyPlan) error {
	if _, err := time.Parse("2006-01-02", j.PlanDate); err != nil {
		return fmt.Errorf("invalid plan_date: %w", err)
	}
	if j.ClientID == 0 {
		return fmt.Errorf("client_id is required")
	}
	j.Status = models.JourneyPending
	return s.repo.CreateJourney(j)
}

func (s *AttendanceService) GetJourney(id int) (*models.JourneyPlan, error) {
	return s.repo.GetJourney(id)
}

func (s *AttendanceService) ListJourneys(f models.AttendanceFilter) ([]models.JourneyPlan, error) {
	return s.repo.FilterJourneys(f)
}

// ChangeJourneyStatus применяет guarded-переход; checked_in дополнительно
// фиксирует время прибытия.
func (s *AttendanceService) ChangeJourneyStatus(id, userID int, elevated bool, to models.JourneyStatus) (*models.JourneyPlan, error) {
	j, err := s.repo.GetJourney(id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJourneyNotFound
	}
	if j.RepID != userID && !elevated {
		return nil, ErrNotJourneyOwner
	}
	if !canTransitionJourney(j.Status, to) {
		return nil, ErrInvalidTransition
	}
	setCheckin := to == models.JourneyCheckedIn
	if err := s.repo.UpdateJourneyStatus(id, to, setCheckin); err != nil {
		return nil, err
	}
	j.Status = to
	if setCheckin {
		now := time.Now()
		j.CheckinAt = &now
	}
	return j, nil
}

func (s *AttendanceService) DeleteJourney(id, userID int, elevated bool) error {
	j, err := s.repo.GetJourney(id)
	if err != nil {
		return err
	}
	if j == nil {
		return ErrJourneyNotFound
	}
	if j.RepID != userID && !elevated {
		return ErrNotJourneyOwner
	}
	if j.Status == models.JourneyCompleted {
		return ErrJourneyFinalized
	}
	return s.repo.DeleteJourney(id)
}
