package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/config"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Card nonces the simulated gateway recognizes for forcing outcomes.
const (
	SimulatedDeclineSource = "sim:decline"
	SimulatedPendingSource = "sim:pending"
	SimulatedCancelSource  = "sim:cancel"
)

type simulatedGateway struct{}

// NewSimulatedGateway returns a gateway that settles instantly without
// touching Square. It refuses to run in production.
func NewSimulatedGateway(app config.AppConfig) (Gateway, error) {
	if app.IsProd() {
		return nil, fmt.Errorf("simulated payments are not allowed in production")
	}
	return &simulatedGateway{}, nil
}

func (g *simulatedGateway) CreatePayment(_ context.Context, payload OrderPayload) (PaymentResult, error) {
	if err := validatePayload(payload); err != nil {
		return PaymentResult{}, err
	}

	status := enums.PaymentStatusSucceeded
	switch strings.TrimSpace(payload.SourceID) {
	case SimulatedDeclineSource:
		status = enums.PaymentStatusFailed
	case SimulatedPendingSource:
		status = enums.PaymentStatusPending
	case SimulatedCancelSource:
		status = enums.PaymentStatusCancelled
	}

	return PaymentResult{
		Status:    status,
		Reference: "sim_" + uuid.NewString(),
	}, nil
}
