package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
)

// CartItemDTO is a single line in the cart, priced at the moment it was added.
type CartItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	ImageRef       string    `json:"image_ref,omitempty"`
	LineTotalCents int64     `json:"line_total_cents"`
}

// CartDTO is the active cart shape returned to clients.
type CartDTO struct {
	ID            uuid.UUID     `json:"id"`
	Items         []CartItemDTO `json:"items"`
	TotalItems    int           `json:"total_items"`
	SubtotalCents int64         `json:"subtotal_cents"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewCartDTO maps a cart record and its items into the response shape.
func NewCartDTO(record *models.CartRecord) *CartDTO {
	if record == nil {
		return nil
	}
	dto := &CartDTO{
		ID:        record.ID,
		Items:     make([]CartItemDTO, 0, len(record.Items)),
		UpdatedAt: record.UpdatedAt,
	}
	for i := range record.Items {
		item := &record.Items[i]
		lineTotal := item.UnitPriceCents * int64(item.Quantity)
		dto.Items = append(dto.Items, CartItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageRef:       item.ImageRef,
			LineTotalCents: lineTotal,
		})
		dto.TotalItems += item.Quantity
		dto.SubtotalCents += lineTotal
	}
	return dto
}
