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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderDispatchJobParams configure the warehouse dispatch simulation.
type OrderDispatchJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	OrderRepo     orders.Repository
	TrackingRepo  tracking.Repository
	DispatchAfter time.Duration
}

// NewOrderDispatchJob builds the job that ships processing orders once they
// have sat in the warehouse long enough. There is no real carrier; the job
// stands in for the dispatch feed.
func NewOrderDispatchJob(params OrderDispatchJobParams) (Job, error) {
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
	if params.DispatchAfter <= 0 {
		return nil, fmt.Errorf("dispatch delay must be positive")
	}
	return &orderDispatchJob{
		logg:          params.Logger,
		db:            params.DB,
		orderRepo:     params.OrderRepo,
		trackingRepo:  params.TrackingRepo,
		dispatchAfter: params.DispatchAfter,
		now:           time.Now,
	}, nil
}

type orderDispatchJob struct {
	logg          *logger.Logger
	db            txRunner
	orderRepo     orders.Repository
	trackingRepo  tracking.Repository
	dispatchAfter time.Duration
	now           func() time.Time
}

func (j *orderDispatchJob) Name() string { return "order-dispatch" }

func (j *orderDispatchJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.dispatchAfter)
	stale, err := j.orderRepo.ListByStatusBefore(ctx, enums.OrderStatusProcessing, cutoff)
	if err != nil {
		return fmt.Errorf("query processing orders: %w", err)
	}

	var errs []error
	dispatched := 0
	for i := range stale {
		if err := j.dispatch(ctx, &stale[i]); err != nil {
			errs = append(errs, fmt.Errorf("dispatch order %s: %w", stale[i].OrderNumber, err))
			continue
		}
		dispatched++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": dispatched})
	j.logg.Info(logCtx, "order dispatch loop complete")
	return multierr.Combine(errs...)
}

func (j *orderDispatchJob) dispatch(ctx context.Context, order *models.Order) error {
	now := j.now().UTC()
	trackingNumber := orders.NewTrackingNumber()

	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		order.Status = enums.OrderStatusShipped
		order.TrackingNumber = &trackingNumber
		order.ShippedAt = &now
		if err := j.orderRepo.WithTx(tx).Update(ctx, order); err != nil {
			return err
		}
		return j.trackingRepo.WithTx(tx).Create(ctx,
			tracking.NewEvent(order.ID, enums.TrackingStepPacked, now))
	})
}
