package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a line captured from the cart at placement time.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	ImageRef       string    `gorm:"column:image_ref;not null;default:''"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
