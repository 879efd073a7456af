package service

import (
	"time"

	"go-catalog-admin/internal/repository"
)

// MaxRevenueDays caps the revenue chart window.
const MaxRevenueDays = 366

type DashboardService interface {
	GetRevenue(days int) ([]repository.RevenueData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewDashboardService(orderRepo repository.OrderRepository) DashboardService {
	return &dashboardService{orderRepo: orderRepo, now: time.Now}
}

// GetRevenue returns revenue per day for the last days days, today included.
func (s *dashboardService) GetRevenue(days int) ([]repository.RevenueData, error) {
	if days <= 0 {
		days = 7
	}
	days = min(days, MaxRevenueDays)
	endDate := s.now()
	y, m, d := endDate.Date()
	startDate := time.Date(y, m, d, 0, 0, 0, 0, endDate.Location()).AddDate(0, 0, -(days - 1))
	return s.orderRepo.GetRevenue(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.orderRepo.GetDashboardStats()
}
