package orders

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

type stubTxRunner struct{}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	byID  map[uuid.UUID]*models.Order
	clock time.Time
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: map[uuid.UUID]*models.Order{}, clock: time.Now().UTC()}
}

func (s *stubOrderRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(_ context.Context, order *models.Order) error {
	order.ID = uuid.New()
	s.clock = s.clock.Add(time.Second)
	order.CreatedAt = s.clock
	s.byID[order.ID] = order
	return nil
}

func (s *stubOrderRepo) Update(_ context.Context, order *models.Order) error {
	if _, ok := s.byID[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.byID[order.ID] = order
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.byID[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByTrackingNumber(_ context.Context, trackingNumber string) (*models.Order, error) {
	for _, order := range s.byID {
		if order.TrackingNumber != nil && *order.TrackingNumber == trackingNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range s.byID {
		if order.UserID == userID {
			rows = append(rows, *order)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (s *stubOrderRepo) ListAdmin(_ context.Context, input AdminListInput) ([]models.Order, int64, error) {
	var rows []models.Order
	for _, order := range s.byID {
		if input.Status != "" && order.Status != input.Status {
			continue
		}
		rows = append(rows, *order)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, int64(len(rows)), nil
}

func (s *stubOrderRepo) ListByStatusBefore(_ context.Context, status enums.OrderStatus, before time.Time) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range s.byID {
		if order.Status == status && order.UpdatedAt.Before(before) {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func seedOrder(repo *stubOrderRepo, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	order := &models.Order{
		UserID:      userID,
		OrderNumber: NewOrderNumber(time.Now()),
		Status:      status,
		TotalCents:  5_275_000,
		Currency:    "IDR",
	}
	repo.Create(context.Background(), order)
	return order
}

func newOrderService(t *testing.T, repo *stubOrderRepo) Service {
	t.Helper()
	svc, err := NewService(repo, &stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCancelFromProcessing(t *testing.T) {
	repo := newStubOrderRepo()
	userID := uuid.New()
	order := seedOrder(repo, userID, enums.OrderStatusProcessing)
	svc := newOrderService(t, repo)

	dto, err := svc.Cancel(context.Background(), userID, order.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if dto.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", dto.Status)
	}
	if dto.CancelledAt == nil {
		t.Fatal("expected cancellation timestamp")
	}
}

func TestCancelRejectedOutsideProcessing(t *testing.T) {
	repo := newStubOrderRepo()
	userID := uuid.New()
	svc := newOrderService(t, repo)

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	} {
		order := seedOrder(repo, userID, status)
		if _, err := svc.Cancel(context.Background(), userID, order.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict for %s, got %v", status, err)
		}
	}
}

func TestOrdersScopedToOwner(t *testing.T) {
	repo := newStubOrderRepo()
	owner := uuid.New()
	order := seedOrder(repo, owner, enums.OrderStatusProcessing)
	svc := newOrderService(t, repo)

	if _, err := svc.Get(context.Background(), uuid.New(), order.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), uuid.New(), order.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found cancelling foreign order, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := newStubOrderRepo()
	userID := uuid.New()
	first := seedOrder(repo, userID, enums.OrderStatusProcessing)
	second := seedOrder(repo, userID, enums.OrderStatusShipped)
	seedOrder(repo, uuid.New(), enums.OrderStatusProcessing)
	svc := newOrderService(t, repo)

	dtos, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected two orders, got %d", len(dtos))
	}
	if dtos[0].ID != second.ID || dtos[1].ID != first.ID {
		t.Fatal("expected newest order first")
	}
}

func TestAdminListFiltersStatus(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, uuid.New(), enums.OrderStatusProcessing)
	seedOrder(repo, uuid.New(), enums.OrderStatusShipped)
	svc := newOrderService(t, repo)

	result, err := svc.AdminList(context.Background(), AdminListInput{Status: enums.OrderStatusShipped})
	if err != nil {
		t.Fatalf("AdminList: %v", err)
	}
	if result.Total != 1 || len(result.Orders) != 1 {
		t.Fatalf("expected one shipped order, got %+v", result)
	}

	if _, err := svc.AdminList(context.Background(), AdminListInput{Status: "refunded"}); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestNumberFormats(t *testing.T) {
	orderNumber := NewOrderNumber(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	if !strings.HasPrefix(orderNumber, "GEO-20260830-") || len(orderNumber) != len("GEO-20260830-000000") {
		t.Fatalf("unexpected order number %q", orderNumber)
	}

	trackingNumber := NewTrackingNumber()
	if !strings.HasPrefix(trackingNumber, "NG") || !strings.HasSuffix(trackingNumber, "ID") || len(trackingNumber) != 14 {
		t.Fatalf("unexpected tracking number %q", trackingNumber)
	}
}
