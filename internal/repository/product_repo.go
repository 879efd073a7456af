package repository

import (
	"context"
	"errors"
	"strings"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// ProductFilter narrows FindAll. IDs, when set, restricts the result to those
// products (used for search hits); Query is matched with ILIKE otherwise.
type ProductFilter struct {
	Query    string
	Category string
	IDs      []uuid.UUID
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// Create inserts the product together with its variants and images.
func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update rewrites the product row and replaces its variants and images in one
// transaction.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"name":               product.Name,
				"slug":               product.Slug,
				"category":           product.Category,
				"description":        product.Description,
				"original_price":     product.OriginalPrice,
				"sale_price":         product.SalePrice,
				"on_sale":            product.OnSale,
				"price":              product.Price,
				"total_stock":        product.TotalStock,
				"updated_by":         product.UpdatedBy,
				"updated_by_user_id": product.UpdatedByUserID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}

		for i := range product.Variants {
			product.Variants[i].ID = 0
			product.Variants[i].ProductID = product.ID
		}
		for i := range product.Images {
			product.Images[i].ID = 0
			product.Images[i].ProductID = product.ID
		}
		if len(product.Variants) > 0 {
			if err := tx.Create(&product.Variants).Error; err != nil {
				return err
			}
		}
		if len(product.Images) > 0 {
			if err := tx.Create(&product.Images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	} else if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where(
			"name ILIKE ? OR description ILIKE ? OR category ILIKE ? OR id IN (?)",
			like, like, like,
			r.db.Model(&model.ProductVariant{}).Select("product_id").Where("sku ILIKE ?", like),
		)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	var products []model.Product
	err := withChildren(q).
		Preload("CreatedByUser").Preload("UpdatedByUser").
		Order("updated_at DESC").
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := withChildren(r.db.WithContext(ctx)).
		Preload("CreatedByUser").Preload("UpdatedByUser").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SlugExists also sees soft-deleted rows; the unique index does.
func (r *productRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("slug = ? AND id <> ?", slug, exclude).
		Count(&count).Error
	return count > 0, err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}
