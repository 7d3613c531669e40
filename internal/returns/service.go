package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// Service handles the customer return flow plus the admin decision step.
// Approved requests move through the refund pipeline via the simulation
// worker, not through this service.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateReturnInput) (*ReturnRequestDTO, error)
	Get(ctx context.Context, userID, requestID uuid.UUID) (*ReturnRequestDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]ReturnRequestDTO, error)
	Approve(ctx context.Context, requestID uuid.UUID) (*ReturnRequestDTO, error)
	Reject(ctx context.Context, requestID uuid.UUID) (*ReturnRequestDTO, error)
	ListByStatus(ctx context.Context, status enums.ReturnStatus) ([]ReturnRequestDTO, error)
}

type orderLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type service struct {
	repo   Repository
	orders orderLoader
	now    func() time.Time
}

// NewService constructs a returns service.
func NewService(repo Repository, orders orderLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("return repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	return &service{repo: repo, orders: orders, now: time.Now}, nil
}

// Create opens a return for a delivered order line.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateReturnInput) (*ReturnRequestDTO, error) {
	reason, err := enums.ParseReturnReason(strings.TrimSpace(input.Reason))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid return reason")
	}
	condition, err := enums.ParseReturnCondition(strings.TrimSpace(input.Condition))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item condition")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.Status != enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only delivered orders can be returned")
	}
	if lineFor(order, input.ProductID) == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not part of this order")
	}

	request := &models.ReturnRequest{
		UserID:      userID,
		OrderID:     order.ID,
		ProductID:   input.ProductID,
		Reason:      reason,
		Condition:   condition,
		Description: description,
		Photos:      input.Photos,
		Status:      enums.ReturnStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create return request")
	}
	return NewReturnRequestDTO(request), nil
}

func (s *service) Get(ctx context.Context, userID, requestID uuid.UUID) (*ReturnRequestDTO, error) {
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return request not found")
	}
	return NewReturnRequestDTO(request), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ReturnRequestDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list return requests")
	}
	return mapDTOs(rows), nil
}

// Approve accepts a pending request and fixes the refund at the order line
// total as it was paid.
func (s *service) Approve(ctx context.Context, requestID uuid.UUID) (*ReturnRequestDTO, error) {
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.ReturnStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("return request in status %s cannot be approved", request.Status))
	}

	order, err := s.orders.FindByID(ctx, request.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for refund")
	}
	line := lineFor(order, request.ProductID)
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "return references a missing order line")
	}

	decidedAt := s.now().UTC()
	request.Status = enums.ReturnStatusApproved
	request.RefundAmountCents = line.UnitPriceCents * int64(line.Quantity)
	request.DecidedAt = &decidedAt

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve return request")
	}
	return NewReturnRequestDTO(request), nil
}

func (s *service) Reject(ctx context.Context, requestID uuid.UUID) (*ReturnRequestDTO, error) {
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.ReturnStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("return request in status %s cannot be rejected", request.Status))
	}

	decidedAt := s.now().UTC()
	request.Status = enums.ReturnStatusRejected
	request.DecidedAt = &decidedAt

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject return request")
	}
	return NewReturnRequestDTO(request), nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.ReturnStatus) ([]ReturnRequestDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid return status filter")
	}
	rows, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list return requests")
	}
	return mapDTOs(rows), nil
}

func (s *service) load(ctx context.Context, requestID uuid.UUID) (*models.ReturnRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return request")
	}
	return request, nil
}

func lineFor(order *models.Order, productID uuid.UUID) *models.OrderItem {
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			return &order.Items[i]
		}
	}
	return nil
}

func mapDTOs(rows []models.ReturnRequest) []ReturnRequestDTO {
	dtos := make([]ReturnRequestDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewReturnRequestDTO(&rows[i]))
	}
	return dtos
}
