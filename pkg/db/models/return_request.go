package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// ReturnRequest is a customer's request to send an order line back. Status is
// advanced by the simulation worker or an admin decision, never by the
// customer directly.
type ReturnRequest struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID           uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID         uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Reason            enums.ReturnReason    `gorm:"column:reason;not null"`
	Condition         enums.ReturnCondition `gorm:"column:condition;not null"`
	Description       string                `gorm:"column:description;not null"`
	Photos            pq.StringArray        `gorm:"column:photos;type:text[]"`
	Status            enums.ReturnStatus    `gorm:"column:status;not null;default:'pending'"`
	RefundAmountCents int64                 `gorm:"column:refund_amount_cents;not null;default:0"`
	DecidedAt         *time.Time            `gorm:"column:decided_at"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
