package repository

import (
	"errors"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSlideNotFound = errors.New("slide not found")

type SlideRepository interface {
	FindAll(activeOnly bool) ([]model.Slide, error)
	FindByID(id uuid.UUID) (*model.Slide, error)
	Create(slide *model.Slide) error
	Update(slide *model.Slide) error
	Delete(id uuid.UUID, deletedBy string) error
	NextPosition() (int, error)
}

type slideRepo struct {
	db *gorm.DB
}

func NewSlideRepo(db *gorm.DB) SlideRepository {
	return &slideRepo{db}
}

func (r *slideRepo) FindAll(activeOnly bool) ([]model.Slide, error) {
	var slides []model.Slide
	q := r.db.Order("position ASC, created_at ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&slides).Error
	return slides, err
}

func (r *slideRepo) FindByID(id uuid.UUID) (*model.Slide, error) {
	var slide model.Slide
	if err := r.db.First(&slide, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlideNotFound
		}
		return nil, err
	}
	return &slide, nil
}

func (r *slideRepo) Create(slide *model.Slide) error {
	return r.db.Create(slide).Error
}

func (r *slideRepo) Update(slide *model.Slide) error {
	return r.db.Save(slide).Error
}

func (r *slideRepo) Delete(id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Slide{}).Where("id = ?", id).Update("deleted_by", deletedBy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlideNotFound
	}
	return r.db.Delete(&model.Slide{}, "id = ?", id).Error
}

// NextPosition returns the position after the last slide.
func (r *slideRepo) NextPosition() (int, error) {
	var last *int
	err := r.db.Model(&model.Slide{}).Select("MAX(position)").Scan(&last).Error
	if err != nil || last == nil {
		return 0, err
	}
	return *last + 1, nil
}
