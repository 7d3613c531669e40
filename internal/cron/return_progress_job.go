package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/internal/returns"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
)

type orderLineReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// ReturnProgressJobParams configure the refund pipeline simulation.
type ReturnProgressJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	ReturnRepo   returns.Repository
	OrderReader  orderLineReader
	ApproveAfter time.Duration
}

// NewReturnProgressJob builds the job that walks return requests through the
// refund pipeline. Pending requests are left to the admin unless the
// auto-approve window has passed; approved and processing requests move one
// stage per cycle.
func NewReturnProgressJob(params ReturnProgressJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.ReturnRepo == nil {
		return nil, fmt.Errorf("return repository required")
	}
	if params.OrderReader == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if params.ApproveAfter <= 0 {
		return nil, fmt.Errorf("auto-approve delay must be positive")
	}
	return &returnProgressJob{
		logg:         params.Logger,
		db:           params.DB,
		returnRepo:   params.ReturnRepo,
		orders:       params.OrderReader,
		approveAfter: params.ApproveAfter,
		now:          time.Now,
	}, nil
}

type returnProgressJob struct {
	logg         *logger.Logger
	db           txRunner
	returnRepo   returns.Repository
	orders       orderLineReader
	approveAfter time.Duration
	now          func() time.Time
}

func (j *returnProgressJob) Name() string { return "return-progress" }

func (j *returnProgressJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.completeProcessing(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.startProcessing(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.autoApprove(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

// completeProcessing runs before startProcessing so a request spends a full
// cycle in each stage instead of jumping approved→completed at once.
func (j *returnProgressJob) completeProcessing(ctx context.Context) error {
	rows, err := j.returnRepo.ListByStatus(ctx, enums.ReturnStatusProcessing)
	if err != nil {
		return fmt.Errorf("query processing returns: %w", err)
	}
	count := 0
	for i := range rows {
		rows[i].Status = enums.ReturnStatusCompleted
		if err := j.save(ctx, &rows[i]); err != nil {
			return fmt.Errorf("complete return %s: %w", rows[i].ID, err)
		}
		count++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "return completion loop complete")
	return nil
}

func (j *returnProgressJob) startProcessing(ctx context.Context) error {
	rows, err := j.returnRepo.ListByStatus(ctx, enums.ReturnStatusApproved)
	if err != nil {
		return fmt.Errorf("query approved returns: %w", err)
	}
	count := 0
	for i := range rows {
		rows[i].Status = enums.ReturnStatusProcessing
		if err := j.save(ctx, &rows[i]); err != nil {
			return fmt.Errorf("process return %s: %w", rows[i].ID, err)
		}
		count++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "return processing loop complete")
	return nil
}

// autoApprove accepts pending requests the admin never decided on.
func (j *returnProgressJob) autoApprove(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.approveAfter)
	rows, err := j.returnRepo.ListByStatusBefore(ctx, enums.ReturnStatusPending, cutoff)
	if err != nil {
		return fmt.Errorf("query pending returns: %w", err)
	}
	count := 0
	for i := range rows {
		if err := j.approve(ctx, &rows[i]); err != nil {
			return fmt.Errorf("auto-approve return %s: %w", rows[i].ID, err)
		}
		count++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "return auto-approve loop complete")
	return nil
}

func (j *returnProgressJob) approve(ctx context.Context, request *models.ReturnRequest) error {
	order, err := j.orders.FindByID(ctx, request.OrderID)
	if err != nil {
		return err
	}

	var refund int64
	for i := range order.Items {
		if order.Items[i].ProductID == request.ProductID {
			refund = order.Items[i].UnitPriceCents * int64(order.Items[i].Quantity)
			break
		}
	}

	decidedAt := j.now().UTC()
	request.Status = enums.ReturnStatusApproved
	request.RefundAmountCents = refund
	request.DecidedAt = &decidedAt
	return j.save(ctx, request)
}

func (j *returnProgressJob) save(ctx context.Context, request *models.ReturnRequest) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		return j.returnRepo.WithTx(tx).Update(ctx, request)
	})
}
