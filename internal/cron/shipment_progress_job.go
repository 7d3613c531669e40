package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/internal/orders"
	"github.com/nordicgeo/geoshop-backend/internal/tracking"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
)

// ShipmentProgressJobParams configure the carrier feed simulation.
type ShipmentProgressJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	OrderRepo    orders.Repository
	TrackingRepo tracking.Repository
}

// NewShipmentProgressJob builds the job that advances every shipped order's
// timeline by one milestone per cycle. Reaching delivered flips the order.
func NewShipmentProgressJob(params ShipmentProgressJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.TrackingRepo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	return &shipmentProgressJob{
		logg:         params.Logger,
		db:           params.DB,
		orderRepo:    params.OrderRepo,
		trackingRepo: params.TrackingRepo,
		now:          time.Now,
	}, nil
}

type shipmentProgressJob struct {
	logg         *logger.Logger
	db           txRunner
	orderRepo    orders.Repository
	trackingRepo tracking.Repository
	now          func() time.Time
}

func (j *shipmentProgressJob) Name() string { return "shipment-progress" }

func (j *shipmentProgressJob) Run(ctx context.Context) error {
	shipped, err := j.orderRepo.ListByStatusBefore(ctx, enums.OrderStatusShipped, j.now().UTC())
	if err != nil {
		return fmt.Errorf("query shipped orders: %w", err)
	}

	var errs []error
	advanced := 0
	for i := range shipped {
		moved, err := j.advance(ctx, &shipped[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("advance order %s: %w", shipped[i].OrderNumber, err))
			continue
		}
		if moved {
			advanced++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": advanced})
	j.logg.Info(logCtx, "shipment progress loop complete")
	return multierr.Combine(errs...)
}

func (j *shipmentProgressJob) advance(ctx context.Context, order *models.Order) (bool, error) {
	events, err := j.trackingRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return false, err
	}

	latest := enums.TrackingStepOrdered
	for i := range events {
		if events[i].Step.Rank() > latest.Rank() {
			latest = events[i].Step
		}
	}
	next := latest.Next()
	if next == latest {
		return false, nil
	}

	now := j.now().UTC()
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := j.trackingRepo.WithTx(tx).Create(ctx, tracking.NewEvent(order.ID, next, now)); err != nil {
			return err
		}
		if next != enums.TrackingStepDelivered {
			return nil
		}
		order.Status = enums.OrderStatusDelivered
		order.DeliveredAt = &now
		return j.orderRepo.WithTx(tx).Update(ctx, order)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
