package models

import "time"

// Order statuses. The set is open ended; these are the tags the store uses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is the header of a placed order. The total is supplied by the caller
// at placement time and is not recomputed from the line items.
type Order struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Total     float64   `json:"total" gorm:"not null" validate:"gte=0"`
	Status    string    `json:"status" gorm:"type:varchar(255);not null;default:pending"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderItem is one line of an order. Price is the per-unit price snapshotted
// at purchase time, independent of the game's current catalog price.
type OrderItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"orderId" gorm:"index;not null"`
	GameID   uint    `json:"gameId" gorm:"not null"`
	Quantity int     `json:"quantity" gorm:"not null" validate:"gte=1"`
	Price    float64 `json:"price" gorm:"not null"`
}

// OrderItemWithGame joins a line item to the current catalog record of its
// game. Game fields reflect catalog state at query time; Price stays the
// purchase-time snapshot.
type OrderItemWithGame struct {
	OrderItem
	Game Game `json:"game"`
}

// OrderWithItems is an order joined to all of its line items.
type OrderWithItems struct {
	Order
	Items []OrderItemWithGame `json:"items"`
}
