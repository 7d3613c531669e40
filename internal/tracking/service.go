package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// TrackingEventDTO is one visible milestone on the shipment timeline.
type TrackingEventDTO struct {
	Step        enums.TrackingStep `json:"step"`
	Description string             `json:"description"`
	Location    string             `json:"location,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// TrackingDTO is the public tracking lookup response.
type TrackingDTO struct {
	TrackingNumber string             `json:"tracking_number"`
	OrderNumber    string             `json:"order_number"`
	Status         enums.OrderStatus  `json:"status"`
	Message        string             `json:"message,omitempty"`
	Events         []TrackingEventDTO `json:"events"`
}

// Service answers public tracking number lookups.
type Service interface {
	Track(ctx context.Context, trackingNumber string) (*TrackingDTO, error)
}

type orderFinder interface {
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error)
}

type service struct {
	repo   Repository
	orders orderFinder
}

// NewService constructs a tracking service.
func NewService(repo Repository, orders orderFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order finder required")
	}
	return &service{repo: repo, orders: orders}, nil
}

// Track resolves a tracking number to the visible slice of its timeline.
// The feed is simulated, so visibility is clamped to the order status:
// processing shows only the confirmation, shipped shows progress up to
// in_transit, delivered shows everything, cancelled shows nothing.
func (s *service) Track(ctx context.Context, trackingNumber string) (*TrackingDTO, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required")
	}

	order, err := s.orders.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no shipment found for this tracking number")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up tracking number")
	}

	dto := &TrackingDTO{
		TrackingNumber: trackingNumber,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		Events:         []TrackingEventDTO{},
	}

	if order.Status == enums.OrderStatusCancelled {
		dto.Message = "This order was cancelled. No shipment is in progress."
		return dto, nil
	}

	events, err := s.repo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracking events")
	}

	maxRank := visibleRank(order.Status)
	for i := range events {
		if events[i].Step.Rank() > maxRank {
			continue
		}
		dto.Events = append(dto.Events, TrackingEventDTO{
			Step:        events[i].Step,
			Description: events[i].Description,
			Location:    events[i].Location,
			OccurredAt:  events[i].OccurredAt,
		})
	}
	return dto, nil
}

func visibleRank(status enums.OrderStatus) int {
	switch status {
	case enums.OrderStatusProcessing:
		return enums.TrackingStepOrdered.Rank()
	case enums.OrderStatusShipped:
		return enums.TrackingStepInTransit.Rank()
	case enums.OrderStatusDelivered:
		return enums.TrackingStepDelivered.Rank()
	default:
		return -1
	}
}
