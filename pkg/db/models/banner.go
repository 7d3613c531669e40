package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Banner is a promotional asset occupying a storefront slot. Only one
// banner per placement may be active at a time.
type Banner struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string                `gorm:"column:title;not null"`
	ImageURL  string                `gorm:"column:image_url;not null"`
	LinkURL   string                `gorm:"column:link_url;not null;default:''"`
	Placement enums.BannerPlacement `gorm:"column:placement;not null"`
	IsActive  bool                  `gorm:"column:is_active;not null;default:false"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
