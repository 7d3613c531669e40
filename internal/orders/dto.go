package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// OrderItemDTO is one purchased line as it was priced at checkout.
type OrderItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	ImageRef       string    `json:"image_ref,omitempty"`
}

// ShippingInfoDTO is the delivery snapshot captured at checkout.
type ShippingInfoDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// OrderDTO is the order shape returned to clients.
type OrderDTO struct {
	ID             uuid.UUID            `json:"id"`
	OrderNumber    string               `json:"order_number"`
	Status         enums.OrderStatus    `json:"status"`
	SubtotalCents  int64                `json:"subtotal_cents"`
	ShippingCents  int64                `json:"shipping_cents"`
	TaxCents       int64                `json:"tax_cents"`
	TotalCents     int64                `json:"total_cents"`
	Currency       string               `json:"currency"`
	Shipping       ShippingInfoDTO      `json:"shipping"`
	ShippingMethod enums.ShippingMethod `json:"shipping_method"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	PaymentStatus  enums.PaymentStatus  `json:"payment_status"`
	TrackingNumber string               `json:"tracking_number,omitempty"`
	Items          []OrderItemDTO       `json:"items"`
	ShippedAt      *time.Time           `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// NewOrderDTO maps an order and its items into the response shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		SubtotalCents: order.SubtotalCents,
		ShippingCents: order.ShippingCents,
		TaxCents:      order.TaxCents,
		TotalCents:    order.TotalCents,
		Currency:      order.Currency,
		Shipping: ShippingInfoDTO{
			FirstName: order.FirstName,
			LastName:  order.LastName,
			Email:     order.Email,
			Phone:     order.Phone,
			Street:    order.Street,
			City:      order.City,
			State:     order.State,
			ZipCode:   order.ZipCode,
			Country:   order.Country,
		},
		ShippingMethod: order.ShippingMethod,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		Items:          make([]OrderItemDTO, 0, len(order.Items)),
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		CancelledAt:    order.CancelledAt,
		CreatedAt:      order.CreatedAt,
	}
	if order.TrackingNumber != nil {
		dto.TrackingNumber = *order.TrackingNumber
	}
	for i := range order.Items {
		item := &order.Items[i]
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageRef:       item.ImageRef,
		})
	}
	return dto
}

// AdminListInput filters the admin order listing.
type AdminListInput struct {
	Status enums.OrderStatus
	Limit  int
	Offset int
}
