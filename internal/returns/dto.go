package returns

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// CreateReturnInput is the customer-submitted return request.
type CreateReturnInput struct {
	OrderID     uuid.UUID `json:"order_id" validate:"required"`
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
	Condition   string    `json:"condition" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Photos      []string  `json:"photos"`
}

// ReturnRequestDTO is the return request shape returned to clients.
type ReturnRequestDTO struct {
	ID                uuid.UUID             `json:"id"`
	OrderID           uuid.UUID             `json:"order_id"`
	ProductID         uuid.UUID             `json:"product_id"`
	Reason            enums.ReturnReason    `json:"reason"`
	Condition         enums.ReturnCondition `json:"condition"`
	Description       string                `json:"description"`
	Photos            []string              `json:"photos,omitempty"`
	Status            enums.ReturnStatus    `json:"status"`
	RefundAmountCents int64                 `json:"refund_amount_cents"`
	DecidedAt         *time.Time            `json:"decided_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// NewReturnRequestDTO maps a return request into the response shape.
func NewReturnRequestDTO(request *models.ReturnRequest) *ReturnRequestDTO {
	if request == nil {
		return nil
	}
	return &ReturnRequestDTO{
		ID:                request.ID,
		OrderID:           request.OrderID,
		ProductID:         request.ProductID,
		Reason:            request.Reason,
		Condition:         request.Condition,
		Description:       request.Description,
		Photos:            request.Photos,
		Status:            request.Status,
		RefundAmountCents: request.RefundAmountCents,
		DecidedAt:         request.DecidedAt,
		CreatedAt:         request.CreatedAt,
	}
}
