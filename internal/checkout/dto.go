package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// ShippingInput carries the delivery details collected on the shipping step.
type ShippingInput struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	Street         string `json:"street" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required"`
	ZipCode        string `json:"zip_code" validate:"required"`
	Country        string `json:"country" validate:"required"`
	ShippingMethod string `json:"shipping_method" validate:"required"`
}

// PaymentSelectionInput carries the payment method chosen on the payment step.
type PaymentSelectionInput struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// PlaceOrderInput carries the final confirmation payload.
type PlaceOrderInput struct {
	SourceID       string `json:"source_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// SessionDTO is the checkout session shape returned to clients.
type SessionDTO struct {
	ID             uuid.UUID            `json:"id"`
	Step           enums.CheckoutStep   `json:"step"`
	FirstName      string               `json:"first_name,omitempty"`
	LastName       string               `json:"last_name,omitempty"`
	Email          string               `json:"email,omitempty"`
	Phone          string               `json:"phone,omitempty"`
	Street         string               `json:"street,omitempty"`
	City           string               `json:"city,omitempty"`
	State          string               `json:"state,omitempty"`
	ZipCode        string               `json:"zip_code,omitempty"`
	Country        string               `json:"country,omitempty"`
	ShippingMethod enums.ShippingMethod `json:"shipping_method"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	Completed      bool                 `json:"completed"`
	OrderID        *uuid.UUID           `json:"order_id,omitempty"`
	ExpiresAt      time.Time            `json:"expires_at"`
}

// NewSessionDTO maps a checkout session into the response shape.
func NewSessionDTO(session *models.CheckoutSession) *SessionDTO {
	if session == nil {
		return nil
	}
	return &SessionDTO{
		ID:             session.ID,
		Step:           session.Step,
		FirstName:      session.FirstName,
		LastName:       session.LastName,
		Email:          session.Email,
		Phone:          session.Phone,
		Street:         session.Street,
		City:           session.City,
		State:          session.State,
		ZipCode:        session.ZipCode,
		Country:        session.Country,
		ShippingMethod: session.ShippingMethod,
		PaymentMethod:  session.PaymentMethod,
		Completed:      session.Completed,
		OrderID:        session.OrderID,
		ExpiresAt:      session.ExpiresAt,
	}
}

// QuoteDTO is the recomputed order total for the current cart and session.
type QuoteDTO struct {
	SubtotalCents int64  `json:"subtotal_cents"`
	ShippingCents int64  `json:"shipping_cents"`
	TaxCents      int64  `json:"tax_cents"`
	TotalCents    int64  `json:"total_cents"`
	Currency      string `json:"currency"`
}
