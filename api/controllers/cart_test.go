package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/api/middleware"
	cartsvc "github.com/nordicgeo/geoshop-backend/internal/cart"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
)

type stubCartService struct {
	getActive      func(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error)
	addItem        func(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.CartDTO, error)
	updateQuantity func(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.CartDTO, error)
	removeItem     func(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartDTO, error)
	clear          func(ctx context.Context, userID uuid.UUID) error
}

func (s *stubCartService) GetActiveCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.getActive(ctx, userID)
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	return s.addItem(ctx, userID, productID, quantity)
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	return s.updateQuantity(ctx, userID, productID, quantity)
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.removeItem(ctx, userID, productID)
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.clear(ctx, userID)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test"})
}

func authedRequest(method, path, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestCartAddItemReturnsUpdatedCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	var gotUser, gotProduct uuid.UUID
	var gotQuantity int
	svc := &stubCartService{
		addItem: func(_ context.Context, u, p uuid.UUID, q int) (*cartsvc.CartDTO, error) {
			gotUser, gotProduct, gotQuantity = u, p, q
			return &cartsvc.CartDTO{
				ID:            uuid.New(),
				Items:         []cartsvc.CartItemDTO{{ProductID: p, Quantity: q, UnitPriceCents: 4_500_00, LineTotalCents: 9_000_00}},
				TotalItems:    q,
				SubtotalCents: 9_000_00,
			}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":2}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, userID)
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotUser != userID || gotProduct != productID || gotQuantity != 2 {
		t.Fatalf("service called with %s %s %d", gotUser, gotProduct, gotQuantity)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SubtotalCents != 9_000_00 {
		t.Fatalf("expected subtotal 900000 got %d", envelope.Data.SubtotalCents)
	}
}

func TestCartAddItemRejectsMalformedProductID(t *testing.T) {
	svc := &stubCartService{
		addItem: func(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"not-a-uuid","quantity":1}`, uuid.New())
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR got %s", code)
	}
}

func TestCartUpdateItemAllowsZeroQuantity(t *testing.T) {
	productID := uuid.New()

	var gotQuantity = -1
	svc := &stubCartService{
		updateQuantity: func(_ context.Context, _, _ uuid.UUID, q int) (*cartsvc.CartDTO, error) {
			gotQuantity = q
			return &cartsvc.CartDTO{Items: []cartsvc.CartItemDTO{}}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":0}`
	req := authedRequest(http.MethodPut, "/api/v1/cart/items", body, uuid.New())
	resp := httptest.NewRecorder()
	CartUpdateItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotQuantity != 0 {
		t.Fatalf("expected quantity 0 got %d", gotQuantity)
	}
}

func TestCartGetRequiresAuthenticatedUser(t *testing.T) {
	svc := &stubCartService{
		getActive: func(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	CartGet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartRemoveItemParsesPathID(t *testing.T) {
	productID := uuid.New()

	var gotProduct uuid.UUID
	svc := &stubCartService{
		removeItem: func(_ context.Context, _, p uuid.UUID) (*cartsvc.CartDTO, error) {
			gotProduct = p
			return &cartsvc.CartDTO{Items: []cartsvc.CartItemDTO{}}, nil
		},
	}

	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), "", uuid.New())
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productID", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	resp := httptest.NewRecorder()
	CartRemoveItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotProduct != productID {
		t.Fatalf("expected product %s got %s", productID, gotProduct)
	}
}

func TestCartHandlersGuardNilService(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/cart", "", uuid.New())
	resp := httptest.NewRecorder()
	CartGet(nil, testLogger())(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
