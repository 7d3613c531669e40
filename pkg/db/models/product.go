package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Product is a catalog entry for a piece of surveying equipment.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Slug        string                `gorm:"column:slug;not null;uniqueIndex"`
	Description string                `gorm:"column:description;not null;default:''"`
	Category    enums.ProductCategory `gorm:"column:category;not null"`
	Brand       string                `gorm:"column:brand;not null;default:''"`
	PriceCents  int64                 `gorm:"column:price_cents;not null"`
	Stock       int                   `gorm:"column:stock;not null;default:0"`
	Images      pq.StringArray        `gorm:"column:images;type:text[]"`
	IsPublished bool                  `gorm:"column:is_published;not null;default:false"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
