package payments

import (
	"context"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// LineItem is one order line presented to the gateway.
type LineItem struct {
	ProductID      uuid.UUID
	Name           string
	UnitPriceCents int64
	Quantity       int
}

// OrderPayload carries everything the gateway needs to charge an order.
type OrderPayload struct {
	OrderNumber    string
	UserID         uuid.UUID
	AmountCents    int64
	Currency       string
	CustomerEmail  string
	CustomerName   string
	SourceID       string
	IdempotencyKey string
	Items          []LineItem
}

// PaymentResult is the single awaited outcome of a charge attempt.
type PaymentResult struct {
	Status    enums.PaymentStatus
	Reference string
}

// Succeeded reports whether the charge went through.
func (r PaymentResult) Succeeded() bool {
	return r.Status == enums.PaymentStatusSucceeded
}

// Gateway charges orders. Implementations must be safe for concurrent use.
type Gateway interface {
	CreatePayment(ctx context.Context, payload OrderPayload) (PaymentResult, error)
}
