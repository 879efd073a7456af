package model

// Size, Color and Category make up the admin-managed catalog vocabulary that
// products pick from.
type Size struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required,max=50"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

type Color struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required,max=50"`
	Hex       string `gorm:"type:varchar(7)" json:"hex" validate:"omitempty,hexcolor"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

type Category struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

// Taxonomy kinds, used in routes, cache keys and event names.
const (
	KindSize     = "sizes"
	KindColor    = "colors"
	KindCategory = "categories"
)

// KindOf returns the taxonomy kind of a *Size, *Color or *Category, or "" for
// anything else.
func KindOf(v interface{}) string {
	switch v.(type) {
	case *Size:
		return KindSize
	case *Color:
		return KindColor
	case *Category:
		return KindCategory
	default:
		return ""
	}
}
