package domain

import "time"

// Order owns its items; deleting an order removes them, deleting the
// owning user only detaches it.
type Order struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64      `gorm:"index" json:"user_id"`
	Total     float64     `gorm:"default:0" json:"total"`
	Status    string      `gorm:"size:50;default:pending" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem carries the unit price snapshotted at checkout time. It is
// never recomputed from the live catalog, so historical orders keep
// their totals when prices change.
type OrderItem struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64   `gorm:"index;not null" json:"order_id"`
	ProductID *int64  `gorm:"index" json:"product_id"`
	Quantity  int     `gorm:"default:1" json:"quantity"`
	Price     float64 `gorm:"default:0" json:"price"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}

type Payment struct {
	ID      int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID *int64  `gorm:"index" json:"order_id"`
	Amount  float64 `gorm:"not null" json:"amount"`
	Method  string  `gorm:"size:80" json:"method"`
	Status  string  `gorm:"size:50;default:pending" json:"status"`
}

// TableName Specify table name
func (Payment) TableName() string {
	return "payments"
}
