package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// CheckoutSession is the server-side state of the checkout wizard. A user
// has at most one open session; completion is recorded exactly once.
type CheckoutSession struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	CartID         uuid.UUID            `gorm:"column:cart_id;type:uuid;not null"`
	Step           enums.CheckoutStep   `gorm:"column:step;not null;default:'shipping'"`
	FirstName      string               `gorm:"column:first_name;not null;default:''"`
	LastName       string               `gorm:"column:last_name;not null;default:''"`
	Email          string               `gorm:"column:email;not null;default:''"`
	Phone          string               `gorm:"column:phone;not null;default:''"`
	Street         string               `gorm:"column:street;not null;default:''"`
	City           string               `gorm:"column:city;not null;default:''"`
	State          string               `gorm:"column:state;not null;default:''"`
	ZipCode        string               `gorm:"column:zip_code;not null;default:''"`
	Country        string               `gorm:"column:country;not null;default:''"`
	ShippingMethod enums.ShippingMethod `gorm:"column:shipping_method;not null;default:'standard'"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;not null;default:'gateway'"`
	Completed      bool                 `gorm:"column:completed;not null;default:false"`
	OrderID        *uuid.UUID           `gorm:"column:order_id;type:uuid"`
	ExpiresAt      time.Time            `gorm:"column:expires_at;not null"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
