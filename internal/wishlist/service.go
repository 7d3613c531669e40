package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/internal/products"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// WishlistEntry pairs a saved product with the time it was saved.
type WishlistEntry struct {
	ProductID uuid.UUID            `json:"product_id"`
	Product   *products.ProductDTO `json:"product,omitempty"`
	SavedAt   time.Time            `json:"saved_at"`
}

// Service manages a customer's saved products.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]WishlistEntry, error)
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo        Repository
	productRepo productReader
}

// NewService constructs a wishlist service.
func NewService(repo Repository, productRepo productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, productRepo: productRepo}, nil
}

// Add saves a published product. Saving twice is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsPublished {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.repo.Add(ctx, &models.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist item")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]WishlistEntry, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	entries := make([]WishlistEntry, 0, len(rows))
	for i := range rows {
		entry := WishlistEntry{
			ProductID: rows[i].ProductID,
			SavedAt:   rows[i].CreatedAt,
		}
		if rows[i].Product != nil {
			entry.Product = products.NewProductDTO(rows[i].Product)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
