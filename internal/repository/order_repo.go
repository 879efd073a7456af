package repository

import (
	"errors"
	"time"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// LowStockThreshold marks a variant as running low.
const LowStockThreshold = 5

type OrderRepository interface {
	FindAll(status model.OrderStatus) ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	UpdateStatus(id uuid.UUID, from, to model.OrderStatus, updatedBy string) error
	GetDashboardStats() (*DashboardStats, error)
	GetRevenue(startDate, endDate time.Time) ([]RevenueData, error)
}

// RevenueData is one day of the revenue chart.
type RevenueData struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type DashboardStats struct {
	TotalProducts      int64   `json:"total_products"`
	OutOfStockProducts int64   `json:"out_of_stock_products"`
	LowStockVariants   int64   `json:"low_stock_variants"`
	TotalValuation     float64 `json:"total_valuation"`
	PendingOrders      int64   `json:"pending_orders"`
	PendingReviews     int64   `json:"pending_reviews"`
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) FindAll(status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	q := r.db.Preload("Items").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order from one status to the next. The current status
// is part of the WHERE clause so a concurrent change is reported as not found.
func (r *orderRepo) UpdateStatus(id uuid.UUID, from, to model.OrderStatus, updatedBy string) error {
	res := r.db.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("total_stock = 0").Count(&stats.OutOfStockProducts).Error; err != nil {
		return nil, err
	}
	err := r.db.Model(&model.ProductVariant{}).
		Joins("JOIN products ON products.id = product_variants.product_id AND products.deleted_at IS NULL").
		Where("product_variants.stock < ?", LowStockThreshold).
		Count(&stats.LowStockVariants).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(total_stock * price), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Order{}).Where("status = ?", model.OrderPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Review{}).Where("status = ?", model.ReviewPending).Count(&stats.PendingReviews).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetRevenue sums non-cancelled orders per day.
func (r *orderRepo) GetRevenue(startDate, endDate time.Time) ([]RevenueData, error) {
	rows, err := r.db.Model(&model.Order{}).
		Select(`
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COUNT(*) as orders,
			COALESCE(SUM(total_amount), 0) as revenue
		`).
		Where("created_at BETWEEN ? AND ? AND status <> ?", startDate, endDate, model.OrderCancelled).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []RevenueData{}
	for rows.Next() {
		var data RevenueData
		if err := rows.Scan(&data.Date, &data.Orders, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}
