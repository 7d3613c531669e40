package payments

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/square/square-go-sdk"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	"github.com/nordicgeo/geoshop-backend/pkg/square"
)

type paymentCreator interface {
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*sq.Payment, error)
	LocationID() string
	NewIdempotencyKey(prefix string) string
}

type squareGateway struct {
	client paymentCreator
}

// NewSquareGateway wraps the Square client as an order payment gateway.
func NewSquareGateway(client paymentCreator) (Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("square client required")
	}
	return &squareGateway{client: client}, nil
}

func (g *squareGateway) CreatePayment(ctx context.Context, payload OrderPayload) (PaymentResult, error) {
	if err := validatePayload(payload); err != nil {
		return PaymentResult{}, err
	}
	if strings.TrimSpace(payload.SourceID) == "" {
		return PaymentResult{}, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}

	idempotencyKey := payload.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = g.client.NewIdempotencyKey("order.payment")
	}

	payment, err := g.client.CreatePayment(ctx, square.PaymentCreateParams{
		AmountCents:    payload.AmountCents,
		Currency:       payload.Currency,
		LocationID:     g.client.LocationID(),
		SourceID:       payload.SourceID,
		IdempotencyKey: idempotencyKey,
		Note:           fmt.Sprintf("order %s", payload.OrderNumber),
		ReferenceID:    payload.OrderNumber,
	})
	if err != nil {
		return PaymentResult{}, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create payment")
	}
	if payment == nil {
		return PaymentResult{}, pkgerrors.New(pkgerrors.CodePayment, "empty payment response")
	}

	return PaymentResult{
		Status:    mapSquareStatus(stringValue(payment.GetStatus())),
		Reference: stringValue(payment.GetID()),
	}, nil
}

// mapSquareStatus collapses the gateway's status vocabulary into ours.
func mapSquareStatus(status string) enums.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "COMPLETED", "APPROVED":
		return enums.PaymentStatusSucceeded
	case "PENDING":
		return enums.PaymentStatusPending
	case "CANCELED":
		return enums.PaymentStatusCancelled
	default:
		return enums.PaymentStatusFailed
	}
}

func validatePayload(payload OrderPayload) error {
	if payload.AmountCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if strings.TrimSpace(payload.Currency) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	if strings.TrimSpace(payload.OrderNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	return nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
