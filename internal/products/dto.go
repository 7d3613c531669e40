package products

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	"github.com/nordicgeo/geoshop-backend/pkg/pagination"
)

// CreateProductInput holds the validated payload to create a catalog entry.
type CreateProductInput struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description"`
	Category    enums.ProductCategory `json:"category" validate:"required"`
	Brand       string                `json:"brand"`
	PriceCents  int64                 `json:"price_cents" validate:"required,gt=0"`
	Stock       int                   `json:"stock" validate:"gte=0"`
	Images      []string              `json:"images"`
	IsPublished bool                  `json:"is_published"`
}

// UpdateProductInput holds optional mutation values for a catalog entry.
type UpdateProductInput struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Category    *enums.ProductCategory `json:"category,omitempty"`
	Brand       *string                `json:"brand,omitempty"`
	PriceCents  *int64                 `json:"price_cents,omitempty"`
	Stock       *int                   `json:"stock,omitempty"`
	Images      *[]string              `json:"images,omitempty"`
	IsPublished *bool                  `json:"is_published,omitempty"`
}

// ProductDTO is the catalog entry shape returned to clients.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Slug        string                `json:"slug"`
	Description string                `json:"description"`
	Category    enums.ProductCategory `json:"category"`
	Brand       string                `json:"brand"`
	PriceCents  int64                 `json:"price_cents"`
	Stock       int                   `json:"stock"`
	InStock     bool                  `json:"in_stock"`
	Images      []string              `json:"images"`
	IsPublished bool                  `json:"is_published"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewProductDTO maps a product row into its public DTO.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Category:    product.Category,
		Brand:       product.Brand,
		PriceCents:  product.PriceCents,
		Stock:       product.Stock,
		InStock:     product.Stock > 0,
		Images:      append([]string(nil), product.Images...),
		IsPublished: product.IsPublished,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category      *enums.ProductCategory `json:"category,omitempty"`
	Brand         *string                `json:"brand,omitempty"`
	PriceMinCents *int64                 `json:"price_min_cents,omitempty"`
	PriceMaxCents *int64                 `json:"price_max_cents,omitempty"`
	InStock       *bool                  `json:"in_stock,omitempty"`
	Query         string                 `json:"q,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter the catalog.
type ListInput struct {
	Filters       ListFilters
	Pagination    pagination.Params
	IncludeDrafts bool
}

// ListResult is one page of catalog entries plus the cursor for the next page.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// Slugify turns a product name into a URL-safe slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
