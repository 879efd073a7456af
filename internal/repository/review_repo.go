package repository

import (
	"errors"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewFilter struct {
	ProductID *uuid.UUID
	Status    model.ReviewStatus
}

type ReviewRepository interface {
	FindAll(filter ReviewFilter) ([]model.Review, error)
	FindByID(id uuid.UUID) (*model.Review, error)
	UpdateStatus(id uuid.UUID, status model.ReviewStatus, updatedBy string) error
	Delete(id uuid.UUID, deletedBy string) error
}

type reviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db}
}

func (r *reviewRepo) FindAll(filter ReviewFilter) ([]model.Review, error) {
	var reviews []model.Review
	q := r.db.Preload("Product").Order("created_at DESC")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) FindByID(id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("Product").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) UpdateStatus(id uuid.UUID, status model.ReviewStatus, updatedBy string) error {
	res := r.db.Model(&model.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepo) Delete(id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Review{}).Where("id = ?", id).Update("deleted_by", deletedBy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return r.db.Delete(&model.Review{}, "id = ?", id).Error
}
