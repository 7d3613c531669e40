package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Order is an immutable record of a completed checkout. Shipping and payment
// details are snapshotted; the live catalog is never consulted again.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber    string               `gorm:"column:order_number;not null;uniqueIndex"`
	Status         enums.OrderStatus    `gorm:"column:status;not null;default:'processing'"`
	SubtotalCents  int64                `gorm:"column:subtotal_cents;not null"`
	ShippingCents  int64                `gorm:"column:shipping_cents;not null"`
	TaxCents       int64                `gorm:"column:tax_cents;not null"`
	TotalCents     int64                `gorm:"column:total_cents;not null"`
	Currency       string               `gorm:"column:currency;not null;default:'IDR'"`
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
	PaymentStatus  enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentRef     string               `gorm:"column:payment_ref;not null;default:''"`
	TrackingNumber *string              `gorm:"column:tracking_number"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID"`
	ShippedAt      *time.Time           `gorm:"column:shipped_at"`
	DeliveredAt    *time.Time           `gorm:"column:delivered_at"`
	CancelledAt    *time.Time           `gorm:"column:cancelled_at"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
