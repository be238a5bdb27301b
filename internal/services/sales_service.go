package services

import (
	"errors"
	"fmt"
	"time"

	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

var ErrSaleNotFound = errors.New("sale record not found")

type SalesService struct {
	repo *repositories.SalesRepository
}

func NewSalesService(repo *repositories.SalesRepository) *SalesService {
	return &SalesService{repo: repo}
}

func (s *SalesService) CreateTarget(t *models.SalesTarget) error {
	if _, err := time.Parse("2006-01", t.Period); err != nil {
		return fmt.Errorf("invalid period, expected YYYY-MM: %w", err)
	}
	if t.Amount <= 0 {
		return fmt.Errorf("target amount must be positive")
	}
	return s.repo.CreateTarget(t)
}

func (s *SalesService) GetTarget(id int) (*models.SalesTarget, error) {
	return s.repo.GetTarget(id)
}

func (s *SalesService) UpdateTarget(t *models.SalesTarget) error {
	return s.repo.UpdateTarget(t)
}

func (s *SalesService) DeleteTarget(id int) error {
	return s.repo.DeleteTarget(id)
}

func (s *SalesService) ListTargets(period string, repID int) ([]models.SalesTarget, error) {
	return s.repo.ListTargets(period, repID)
}

func (s *SalesService) CreateSale(sale *models.MasterSale) error {
	if sale.Amount <= 0 {
		return fmt.Errorf("sale amount must be positive")
	}
	if sale.Quantity <= 0 {
		sale.Quantity = 1
	}
	if sale.SoldAt.IsZero() {
		sale.SoldAt = time.Now()
	}
	return s.repo.CreateSale(sale)
}

func (s *SalesService) GetSale(id int) (*models.MasterSale, error) {
	return s.repo.GetSale(id)
}

func (s *SalesService) UpdateSale(sale *models.MasterSale) error {
	existing, err := s.repo.GetSale(sale.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSaleNotFound
	}
	return s.repo.UpdateSale(sale)
}

func (s *SalesService) DeleteSale(id int) error {
	return s.repo.DeleteSale(id)
}

func (s *SalesService) FilterSales(f models.SalesFilter) ([]models.MasterSale, error) {
	return s.repo.FilterSales(f)
}

func (s *SalesService) Performance(period string) ([]models.RepPerformance, error) {
	if period == "" {
		period = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, fmt.Errorf("invalid period, expected YYYY-MM: %w", err)
	}
	return s.repo.Performance(period)
}
