package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

type stubTrackingRepo struct {
	events map[uuid.UUID][]models.TrackingEvent
}

func (s *stubTrackingRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubTrackingRepo) Create(_ context.Context, event *models.TrackingEvent) error {
	event.ID = uuid.New()
	s.events[event.OrderID] = append(s.events[event.OrderID], *event)
	return nil
}

func (s *stubTrackingRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]models.TrackingEvent, error) {
	return s.events[orderID], nil
}

type stubOrderFinder struct {
	order *models.Order
}

func (s *stubOrderFinder) FindByTrackingNumber(_ context.Context, trackingNumber string) (*models.Order, error) {
	if s.order == nil || s.order.TrackingNumber == nil || *s.order.TrackingNumber != trackingNumber {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

// fullTimeline seeds all five milestones an hour apart.
func fullTimeline(repo *stubTrackingRepo, orderID uuid.UUID) {
	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	for i, step := range enums.TrackingSteps() {
		repo.Create(context.Background(), NewEvent(orderID, step, base.Add(time.Duration(i)*time.Hour)))
	}
}

func trackedOrder(status enums.OrderStatus) *models.Order {
	trackingNumber := "NG4930274415ID"
	return &models.Order{
		ID:             uuid.New(),
		OrderNumber:    "GEO-20260820-000001",
		Status:         status,
		TrackingNumber: &trackingNumber,
	}
}

func newTrackingService(t *testing.T, repo *stubTrackingRepo, order *models.Order) Service {
	t.Helper()
	svc, err := NewService(repo, &stubOrderFinder{order: order})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestTrackVisibilityByStatus(t *testing.T) {
	cases := []struct {
		status enums.OrderStatus
		want   int
	}{
		{enums.OrderStatusProcessing, 1},
		{enums.OrderStatusShipped, 3},
		{enums.OrderStatusDelivered, 5},
	}
	for _, tc := range cases {
		repo := &stubTrackingRepo{events: map[uuid.UUID][]models.TrackingEvent{}}
		order := trackedOrder(tc.status)
		fullTimeline(repo, order.ID)
		svc := newTrackingService(t, repo, order)

		dto, err := svc.Track(context.Background(), *order.TrackingNumber)
		if err != nil {
			t.Fatalf("Track(%s): %v", tc.status, err)
		}
		if len(dto.Events) != tc.want {
			t.Fatalf("status %s: expected %d visible events, got %d", tc.status, tc.want, len(dto.Events))
		}
	}
}

func TestTrackProcessingShowsOnlyConfirmation(t *testing.T) {
	repo := &stubTrackingRepo{events: map[uuid.UUID][]models.TrackingEvent{}}
	order := trackedOrder(enums.OrderStatusProcessing)
	fullTimeline(repo, order.ID)
	svc := newTrackingService(t, repo, order)

	dto, _ := svc.Track(context.Background(), *order.TrackingNumber)
	if len(dto.Events) != 1 || dto.Events[0].Step != enums.TrackingStepOrdered {
		t.Fatalf("expected only the ordered milestone, got %+v", dto.Events)
	}
}

func TestTrackCancelledHidesTimeline(t *testing.T) {
	repo := &stubTrackingRepo{events: map[uuid.UUID][]models.TrackingEvent{}}
	order := trackedOrder(enums.OrderStatusCancelled)
	fullTimeline(repo, order.ID)
	svc := newTrackingService(t, repo, order)

	dto, err := svc.Track(context.Background(), *order.TrackingNumber)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if len(dto.Events) != 0 {
		t.Fatalf("expected empty timeline, got %d events", len(dto.Events))
	}
	if dto.Message == "" {
		t.Fatal("expected cancellation message")
	}
}

func TestTrackUnknownNumber(t *testing.T) {
	repo := &stubTrackingRepo{events: map[uuid.UUID][]models.TrackingEvent{}}
	svc := newTrackingService(t, repo, nil)

	if _, err := svc.Track(context.Background(), "NG0000000000ID"); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Track(context.Background(), "  "); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank number, got %v", err)
	}
}
