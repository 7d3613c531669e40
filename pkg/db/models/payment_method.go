package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a card vaulted with Square. At most one per user is the
// default.
type PaymentMethod struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	CardBrand        string    `gorm:"column:card_brand;not null;default:''"`
	Last4            string    `gorm:"column:last4;not null;default:''"`
	ExpMonth         int       `gorm:"column:exp_month;not null;default:0"`
	ExpYear          int       `gorm:"column:exp_year;not null;default:0"`
	HolderName       string    `gorm:"column:holder_name;not null;default:''"`
	SquareCardID     string    `gorm:"column:square_card_id;not null;default:''"`
	SquareCustomerID string    `gorm:"column:square_customer_id;not null;default:''"`
	IsDefault        bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
