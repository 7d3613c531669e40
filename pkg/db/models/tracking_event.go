package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// TrackingEvent is one shipment milestone. Each order carries at most one
// event per step; visibility is derived from the order status, not from
// positions in a slice.
type TrackingEvent struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	Step        enums.TrackingStep `gorm:"column:step;not null"`
	Description string             `gorm:"column:description;not null;default:''"`
	Location    string             `gorm:"column:location;not null;default:''"`
	OccurredAt  time.Time          `gorm:"column:occurred_at;not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
}
