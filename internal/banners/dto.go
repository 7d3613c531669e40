package banners

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// CreateBannerInput holds the payload to create a storefront banner.
type CreateBannerInput struct {
	Title     string                `json:"title" validate:"required"`
	ImageURL  string                `json:"image_url" validate:"required,url"`
	LinkURL   string                `json:"link_url"`
	Placement enums.BannerPlacement `json:"placement" validate:"required"`
	IsActive  bool                  `json:"is_active"`
}

// UpdateBannerInput holds optional mutation values for a banner.
type UpdateBannerInput struct {
	Title    *string `json:"title,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	LinkURL  *string `json:"link_url,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// BannerDTO is the banner shape returned to clients.
type BannerDTO struct {
	ID        uuid.UUID             `json:"id"`
	Title     string                `json:"title"`
	ImageURL  string                `json:"image_url"`
	LinkURL   string                `json:"link_url"`
	Placement enums.BannerPlacement `json:"placement"`
	IsActive  bool                  `json:"is_active"`
	CreatedAt time.Time             `json:"created_at"`
}

// NewBannerDTO maps a banner row into its public DTO.
func NewBannerDTO(banner *models.Banner) *BannerDTO {
	if banner == nil {
		return nil
	}
	return &BannerDTO{
		ID:        banner.ID,
		Title:     banner.Title,
		ImageURL:  banner.ImageURL,
		LinkURL:   banner.LinkURL,
		Placement: banner.Placement,
		IsActive:  banner.IsActive,
		CreatedAt: banner.CreatedAt,
	}
}
