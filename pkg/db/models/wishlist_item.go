package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a saved product. Adding twice is a no-op.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_wishlist_user_product,unique"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_wishlist_user_product,unique"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
