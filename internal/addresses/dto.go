package addresses

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
)

// AddressInput is the payload for creating a saved address.
type AddressInput struct {
	Label     string `json:"label"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required"`
	Country   string `json:"country" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

// UpdateAddressInput holds optional mutation values for a saved address.
type UpdateAddressInput struct {
	Label     *string `json:"label,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Street    *string `json:"street,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zip_code,omitempty"`
	Country   *string `json:"country,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

// AddressDTO is the saved address shape returned to clients.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAddressDTO maps an address row into its public DTO.
func NewAddressDTO(address *models.Address) *AddressDTO {
	if address == nil {
		return nil
	}
	return &AddressDTO{
		ID:        address.ID,
		Label:     address.Label,
		FirstName: address.FirstName,
		LastName:  address.LastName,
		Phone:     address.Phone,
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		ZipCode:   address.ZipCode,
		Country:   address.Country,
		IsDefault: address.IsDefault,
		CreatedAt: address.CreatedAt,
	}
}
