package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// AdminListResult pairs a page of orders with the unfiltered total.
type AdminListResult struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
}

// Service exposes order history and the customer cancel action. Orders are
// created by checkout and advanced by the simulation worker, never here.
type Service interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	AdminList(ctx context.Context, input AdminListInput) (*AdminListResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	txRunner txRunner
	now      func() time.Time
}

// NewService constructs an order service.
func NewService(repo Repository, runner txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, txRunner: runner, now: time.Now}, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewOrderDTO(&rows[i]))
	}
	return dtos, nil
}

// Cancel stops an order that has not left the warehouse. Shipped, delivered
// and already cancelled orders stay as they are.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
	}

	cancelledAt := s.now().UTC()
	order.Status = enums.OrderStatusCancelled
	order.CancelledAt = &cancelledAt

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Update(ctx, order)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) AdminList(ctx context.Context, input AdminListInput) (*AdminListResult, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}
	rows, total, err := s.repo.ListAdmin(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	result := &AdminListResult{
		Orders: make([]OrderDTO, 0, len(rows)),
		Total:  total,
	}
	for i := range rows {
		result.Orders = append(result.Orders, *NewOrderDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) loadOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
