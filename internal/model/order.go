package model

import "github.com/google/uuid"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the statuses an order may move to from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered, OrderCancelled},
}

// CanTransition reports whether an order in status s may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	BaseModel
	OrderNo       string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	CustomerName  string      `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail string      `gorm:"type:varchar(255)" json:"customer_email"`
	Status        OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TotalAmount   float64     `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots the variant that was bought.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255)" json:"product_name"`
	SKU         string    `gorm:"type:varchar(80)" json:"sku"`
	Size        string    `gorm:"type:varchar(50)" json:"size"`
	Color       string    `gorm:"type:varchar(50)" json:"color"`
	Price       float64   `gorm:"type:decimal(12,2)" json:"price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
}
