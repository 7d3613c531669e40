package tracking

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

type milestone struct {
	description string
	location    string
}

// Canonical copy for each simulated milestone. The carrier feed is faked, so
// the storyline is fixed.
var milestones = map[enums.TrackingStep]milestone{
	enums.TrackingStepOrdered:        {"Order confirmed", "Jakarta Fulfillment Center"},
	enums.TrackingStepPacked:         {"Package packed and ready for pickup", "Jakarta Fulfillment Center"},
	enums.TrackingStepInTransit:      {"Shipment in transit", "Regional Sorting Hub"},
	enums.TrackingStepOutForDelivery: {"Out for delivery", "Local Courier Depot"},
	enums.TrackingStepDelivered:      {"Delivered to recipient", "Destination Address"},
}

// NewEvent builds the canonical tracking event for a milestone.
func NewEvent(orderID uuid.UUID, step enums.TrackingStep, occurredAt time.Time) *models.TrackingEvent {
	entry := milestones[step]
	return &models.TrackingEvent{
		OrderID:     orderID,
		Step:        step,
		Description: entry.description,
		Location:    entry.location,
		OccurredAt:  occurredAt.UTC(),
	}
}
