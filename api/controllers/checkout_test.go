package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/nordicgeo/geoshop-backend/internal/checkout"
	"github.com/nordicgeo/geoshop-backend/internal/orders"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

type stubCheckoutService struct {
	start            func(ctx context.Context, userID uuid.UUID) (*checkoutsvc.SessionDTO, error)
	get              func(ctx context.Context, userID uuid.UUID) (*checkoutsvc.SessionDTO, error)
	advanceToPayment func(ctx context.Context, userID uuid.UUID, input checkoutsvc.ShippingInput) (*checkoutsvc.SessionDTO, error)
	advanceToReview  func(ctx context.Context, userID uuid.UUID, input checkoutsvc.PaymentSelectionInput) (*checkoutsvc.SessionDTO, error)
	back             func(ctx context.Context, userID uuid.UUID) (*checkoutsvc.SessionDTO, error)
	quote            func(ctx context.Context, userID uuid.UUID) (*checkoutsvc.QuoteDTO, error)
	placeOrder       func(ctx context.Context, userID uuid.UUID, input checkoutsvc.PlaceOrderInput) (*checkoutsvc.PlaceOrderResult, error)
}

func (s *stubCheckoutService) Start(ctx context.Context, userID uuid.UUID) (*checkoutsvc.SessionDTO, error) {
	return s.start(ctx, userID)
}

func (s *stubCheckoutService) Get(ctx context.Context, userID uuid.UUID) (*checkoutsvc.SessionDTO, error) {
	return s.get(ctx, userID)
}

func (s *stubCheckoutService) AdvanceToPayment(ctx context.Context, userID uuid.UUID, input checkoutsvc.ShippingInput) (*checkoutsvc.SessionDTO, error) {
	return s.advanceToPayment(ctx, userID, input)
}

func (s *stubCheckoutService) AdvanceToReview(ctx context.Context, userID uuid.UUID, input checkoutsvc.PaymentSelectionInput) (*checkoutsvc.SessionDTO, error) {
	return s.advanceToReview(ctx, userID, input)
}

func (s *stubCheckoutService) Back(ctx context.Context, userID uuid.UUID) (*checkoutsvc.SessionDTO, error) {
	return s.back(ctx, userID)
}

func (s *stubCheckoutService) Quote(ctx context.Context, userID uuid.UUID) (*checkoutsvc.QuoteDTO, error) {
	return s.quote(ctx, userID)
}

func (s *stubCheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, input checkoutsvc.PlaceOrderInput) (*checkoutsvc.PlaceOrderResult, error) {
	return s.placeOrder(ctx, userID, input)
}

func TestCheckoutStartReturnsCreated(t *testing.T) {
	svc := &stubCheckoutService{
		start: func(context.Context, uuid.UUID) (*checkoutsvc.SessionDTO, error) {
			return &checkoutsvc.SessionDTO{ID: uuid.New(), Step: enums.CheckoutStepShipping}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/checkout", "", uuid.New())
	resp := httptest.NewRecorder()
	CheckoutStart(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkoutsvc.SessionDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Step != enums.CheckoutStepShipping {
		t.Fatalf("expected shipping step got %s", envelope.Data.Step)
	}
}

func TestCheckoutShippingValidatesBody(t *testing.T) {
	svc := &stubCheckoutService{
		advanceToPayment: func(context.Context, uuid.UUID, checkoutsvc.ShippingInput) (*checkoutsvc.SessionDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	// Missing everything past the name.
	req := authedRequest(http.MethodPost, "/api/v1/checkout/shipping", `{"first_name":"Astrid"}`, uuid.New())
	resp := httptest.NewRecorder()
	CheckoutShipping(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR got %s", code)
	}
}

func TestCheckoutShippingAdvancesSession(t *testing.T) {
	var gotInput checkoutsvc.ShippingInput
	svc := &stubCheckoutService{
		advanceToPayment: func(_ context.Context, _ uuid.UUID, input checkoutsvc.ShippingInput) (*checkoutsvc.SessionDTO, error) {
			gotInput = input
			return &checkoutsvc.SessionDTO{Step: enums.CheckoutStepPayment}, nil
		},
	}

	body := `{
		"first_name": "Astrid",
		"last_name": "Berg",
		"email": "astrid@example.com",
		"phone": "+4791234567",
		"street": "Storgata 1",
		"city": "Oslo",
		"state": "Oslo",
		"zip_code": "0155",
		"country": "NO",
		"shipping_method": "standard"
	}`
	req := authedRequest(http.MethodPost, "/api/v1/checkout/shipping", body, uuid.New())
	resp := httptest.NewRecorder()
	CheckoutShipping(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.City != "Oslo" || gotInput.ShippingMethod != "standard" {
		t.Fatalf("unexpected input forwarded: %+v", gotInput)
	}
}

func TestCheckoutConfirmCreatedWhenPaymentSucceeds(t *testing.T) {
	svc := &stubCheckoutService{
		placeOrder: func(context.Context, uuid.UUID, checkoutsvc.PlaceOrderInput) (*checkoutsvc.PlaceOrderResult, error) {
			return &checkoutsvc.PlaceOrderResult{
				Payment: checkoutsvc.PaymentOutcomeDTO{Status: enums.PaymentStatusSucceeded, Reference: "sim-1"},
				Order:   &orders.OrderDTO{ID: uuid.New(), OrderNumber: "GS-20260830-0001"},
			}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/checkout/confirm", `{"idempotency_key":"abc"}`, uuid.New())
	resp := httptest.NewRecorder()
	CheckoutConfirm(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCheckoutConfirmDeclinedStaysOK(t *testing.T) {
	svc := &stubCheckoutService{
		placeOrder: func(context.Context, uuid.UUID, checkoutsvc.PlaceOrderInput) (*checkoutsvc.PlaceOrderResult, error) {
			return &checkoutsvc.PlaceOrderResult{
				Payment: checkoutsvc.PaymentOutcomeDTO{Status: enums.PaymentStatusFailed},
			}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/checkout/confirm", `{"idempotency_key":"abc"}`, uuid.New())
	resp := httptest.NewRecorder()
	CheckoutConfirm(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkoutsvc.PlaceOrderResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Order != nil {
		t.Fatal("expected no order on a declined payment")
	}
	if envelope.Data.Payment.Status != enums.PaymentStatusFailed {
		t.Fatalf("expected failed status got %s", envelope.Data.Payment.Status)
	}
}
