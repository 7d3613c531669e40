package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Post is a blog article shown on the storefront when published.
type Post struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string           `gorm:"column:title;not null"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex"`
	Excerpt     string           `gorm:"column:excerpt;not null;default:''"`
	Body        string           `gorm:"column:body;not null;default:''"`
	CoverImage  string           `gorm:"column:cover_image;not null;default:''"`
	Status      enums.PostStatus `gorm:"column:status;not null;default:'draft'"`
	PublishedAt *time.Time       `gorm:"column:published_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
