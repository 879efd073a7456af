package repository

import (
	"context"
	"errors"

	"go-catalog-admin/internal/model"

	"gorm.io/gorm"
)

var (
	ErrTermNotFound = errors.New("entry not found")
	ErrTermInUse    = errors.New("entry is used by existing products")
	ErrUnknownKind  = errors.New("unknown catalog kind")
)

// TaxonomyRepository stores sizes, colors and categories. Save and Delete take
// the entry kind from the value (see model.KindOf).
type TaxonomyRepository interface {
	Sizes(ctx context.Context) ([]model.Size, error)
	Colors(ctx context.Context) ([]model.Color, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, entry interface{}) error
	Update(ctx context.Context, entry interface{}) error
	Delete(ctx context.Context, kind string, id uint) error
}

type taxonomyRepo struct {
	db *gorm.DB
}

func NewTaxonomyRepo(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepo{db}
}

func (r *taxonomyRepo) Sizes(ctx context.Context) ([]model.Size, error) {
	var out []model.Size
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *taxonomyRepo) Colors(ctx context.Context) ([]model.Color, error) {
	var out []model.Color
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *taxonomyRepo) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *taxonomyRepo) Create(ctx context.Context, entry interface{}) error {
	if model.KindOf(entry) == "" {
		return ErrUnknownKind
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *taxonomyRepo) Update(ctx context.Context, entry interface{}) error {
	if model.KindOf(entry) == "" {
		return ErrUnknownKind
	}
	res := r.db.WithContext(ctx).Model(entry).Select("*").Updates(entry)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTermNotFound
	}
	return nil
}

// Delete refuses to remove a size, color or category that a live product
// still uses.
func (r *taxonomyRepo) Delete(ctx context.Context, kind string, id uint) error {
	entry, usage, err := termTable(kind)
	if err != nil {
		return err
	}
	db := r.db.WithContext(ctx)

	var name string
	if err := db.Model(entry).Select("name").Where("id = ?", id).Scan(&name).Error; err != nil {
		return err
	}
	if name == "" {
		return ErrTermNotFound
	}

	var used int64
	if err := usage(db, name).Count(&used).Error; err != nil {
		return err
	}
	if used > 0 {
		return ErrTermInUse
	}
	return db.Delete(entry, id).Error
}

// termTable maps a kind to its model and a query counting the products that
// reference a term of that kind by name.
func termTable(kind string) (interface{}, func(db *gorm.DB, name string) *gorm.DB, error) {
	switch kind {
	case model.KindSize:
		return &model.Size{}, func(db *gorm.DB, name string) *gorm.DB {
			return db.Model(&model.ProductVariant{}).
				Joins("JOIN products ON products.id = product_variants.product_id AND products.deleted_at IS NULL").
				Where("product_variants.size = ?", name)
		}, nil
	case model.KindColor:
		return &model.Color{}, func(db *gorm.DB, name string) *gorm.DB {
			return db.Model(&model.ProductVariant{}).
				Joins("JOIN products ON products.id = product_variants.product_id AND products.deleted_at IS NULL").
				Where("product_variants.color = ?", name)
		}, nil
	case model.KindCategory:
		return &model.Category{}, func(db *gorm.DB, name string) *gorm.DB {
			return db.Model(&model.Product{}).Where("category = ?", name)
		}, nil
	default:
		return nil, nil, ErrUnknownKind
	}
}

// SeedTaxonomy inserts a starter set of sizes, colors and categories into an
// empty catalog.
func SeedTaxonomy(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Size{}).Count(&count).Error; err != nil || count > 0 {
		return err
	}
	sizes := []model.Size{{Name: "XS"}, {Name: "S", SortOrder: 1}, {Name: "M", SortOrder: 2}, {Name: "L", SortOrder: 3}, {Name: "XL", SortOrder: 4}}
	colors := []model.Color{{Name: "Black", Hex: "#000000"}, {Name: "White", Hex: "#ffffff", SortOrder: 1}, {Name: "Red", Hex: "#d32f2f", SortOrder: 2}, {Name: "Blue", Hex: "#1976d2", SortOrder: 3}}
	categories := []model.Category{{Name: "Shirts"}, {Name: "Trousers", SortOrder: 1}, {Name: "Dresses", SortOrder: 2}, {Name: "Accessories", SortOrder: 3}}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sizes).Error; err != nil {
			return err
		}
		if err := tx.Create(&colors).Error; err != nil {
			return err
		}
		return tx.Create(&categories).Error
	})
}
