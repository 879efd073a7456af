package model

// Slide is one entry of the storefront home carousel.
type Slide struct {
	BaseModel
	Title      string `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Subtitle   string `gorm:"type:varchar(255)" json:"subtitle" validate:"max=255"`
	Link       string `gorm:"type:varchar(1024)" json:"link" validate:"omitempty,url"`
	ImageURL   string `gorm:"type:varchar(1024)" json:"image_url"`
	StorageKey string `gorm:"type:varchar(512)" json:"-"`
	Position   int    `gorm:"default:0;index" json:"position"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
}
