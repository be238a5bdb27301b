package services

import (
	"fmt"

	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

type ClientService struct {
	repo *repositories.ClientRepository
}

func NewClientService(repo *repositories.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

func (s *ClientService) Create(client *models.Client) (int64, error) {
	if client.Name == "" {
		return 0, fmt.Errorf("client name is required")
	}
	return s.repo.Create(client)
}

func (s *ClientService) GetByID(id int) (*models.Client, error) {
	return s.repo.GetByID(id)
}

func (s *ClientService) Update(client *models.Client) error {
	return s.repo.Update(client)
}

func (s *ClientService) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *ClientService) List(region string, limit, offset int) ([]models.Client, error) {
	return s.repo.List(region, limit, offset)
}
