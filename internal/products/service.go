package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// Service exposes catalog management and browse operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	GetByID(ctx context.Context, productID uuid.UUID, includeDrafts bool) (*ProductDTO, error)
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type productStore interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, query listQuery) (*ListResult, error)
}

type service struct {
	repo productStore
}

// NewService constructs a catalog service instance.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        Slugify(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Brand:       strings.TrimSpace(input.Brand),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		Images:      append([]string(nil), input.Images...),
		IsPublished: input.IsPublished,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

func (s *service) Update(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.PriceCents != nil && *input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}

	applyUpdate(product, input)

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, productID uuid.UUID, includeDrafts bool) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsPublished && !includeDrafts {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*ProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsPublished && !includeDrafts {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	result, err := s.repo.List(ctx, listQuery{
		Pagination:    input.Pagination,
		Filters:       input.Filters,
		IncludeDrafts: input.IncludeDrafts,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if input.PriceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
		product.Slug = Slugify(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Images != nil {
		product.Images = append([]string(nil), *input.Images...)
	}
	if input.IsPublished != nil {
		product.IsPublished = *input.IsPublished
	}
}
