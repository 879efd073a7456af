package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	Name          string   `gorm:"type:varchar(255);not null" json:"name"`
	Slug          string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Category      string   `gorm:"type:varchar(100);index" json:"category"`
	Description   string   `gorm:"type:text" json:"description"`
	OriginalPrice float64  `gorm:"type:decimal(12,2);not null" json:"original_price"`
	SalePrice     *float64 `gorm:"type:decimal(12,2)" json:"sale_price"`
	OnSale        bool     `gorm:"default:false" json:"on_sale"`
	Price         float64  `gorm:"type:decimal(12,2);not null" json:"price"` // effective price: sale price while on sale
	TotalStock    int      `gorm:"default:0" json:"total_stock"`             // sum of variant stock, rewritten on every save

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	// Relations
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
}

// ProductVariant is one size/color combination with its own stock.
type ProductVariant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_variant_cell" json:"product_id"`
	Size      string    `gorm:"type:varchar(50);not null;index:idx_variant_cell" json:"size"`
	Color     string    `gorm:"type:varchar(50);not null;index:idx_variant_cell" json:"color"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	Weight    *float64  `gorm:"type:decimal(10,3)" json:"weight"`
	Price     *float64  `gorm:"type:decimal(12,2)" json:"price,omitempty"`
	SKU       string    `gorm:"type:varchar(80);index" json:"sku"`
}

// ProductImage belongs to one color of a product. Exactly one image per
// product carries IsPrimary.
type ProductImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Color      string    `gorm:"type:varchar(50);not null" json:"color"`
	URL        string    `gorm:"type:varchar(1024);not null" json:"url"`
	StorageKey string    `gorm:"type:varchar(512)" json:"-"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	IsPrimary  bool      `gorm:"default:false" json:"is_primary"`
}
