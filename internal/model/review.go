package model

import "github.com/google/uuid"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewHidden   ReviewStatus = "hidden"
)

// Review is a customer rating of a product, moderated from the admin panel.
type Review struct {
	BaseModel
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product     `json:"product,omitempty"`
	CustomerName string       `gorm:"type:varchar(255)" json:"customer_name"`
	Rating       int          `gorm:"not null" json:"rating"`
	Comment      string       `gorm:"type:text" json:"comment"`
	Status       ReviewStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
}
