package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// CartRecord is a user's cart. One active cart per user; checkout converts it.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status    enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items     []CartItem       `gorm:"foreignKey:CartID"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName maps CartRecord onto the carts table.
func (CartRecord) TableName() string {
	return "carts"
}
