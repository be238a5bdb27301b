package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

type UserService interface {
	CreateUserWithPassword(user *models.User, plainPassword string) error
	GetUserByID(id int) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id int) error
	ListUsers(limit, offset int) ([]*models.User, error)
	ListByRole(roleID, limit, offset int) ([]*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserCount() (int, error)

	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

func (s *userService) CreateUserWithPassword(user *models.User, plainPassword string) error {
	if strings.TrimSpace(plainPassword) == "" {
		return fmt.Errorf("password is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("email is required")
	}

	hashedPassword, err := s.authService.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword

	if err := s.repo.Create(user); err != nil {
		return err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			// warn but do not fail creation
			log.Printf("CreateUserWithPassword: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}
	return nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) UpdateUser(user *models.User) error {
	return s.repo.Update(user)
}

func (s *userService) DeleteUser(id int) error {
	return s.repo.Delete(id)
}

func (s *userService) ListUsers(limit, offset int) ([]*models.User, error) {
	return s.repo.List(limit, offset)
}

func (s *userService) ListByRole(roleID, limit, offset int) ([]*models.User, error) {
	return s.repo.ListByRole(roleID, limit, offset)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *userService) GetUserCount() (int, error) {
	return s.repo.GetCount()
}

func (s *userService) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(userID, token, expiresAt)
}

func (s *userService) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	return s.repo.RotateRefresh(oldToken, newToken, newExpiresAt)
}

func (s *userService) ClearRefresh(userID int) error {
	return s.repo.ClearRefresh(userID)
}
