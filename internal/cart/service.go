package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// Service manages the customer's single active cart.
type Service interface {
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo        Repository
	productRepo productReader
}

// NewService constructs a cart service.
func NewService(repo Repository, productRepo productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, productRepo: productRepo}, nil
}

// GetActiveCart returns the open cart, creating an empty one on first use.
func (s *service) GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(record), nil
}

// AddItem puts a published product in the cart. Adding a product already in
// the cart raises its quantity. The line snapshots name, price and image at
// add time.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	record, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(ctx, record.ID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "not enough stock for requested quantity")
	}

	if existing != nil {
		existing.Quantity = newQuantity
		if err := s.repo.UpdateItem(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
	} else {
		imageRef := ""
		if len(product.Images) > 0 {
			imageRef = product.Images[0]
		}
		item := &models.CartItem{
			CartID:         record.ID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       quantity,
			ImageRef:       imageRef,
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
		}
	}

	return s.reload(ctx, userID)
}

// UpdateQuantity sets the line quantity. Zero or negative removes the line.
func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	record, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, record.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err == nil && quantity > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "not enough stock for requested quantity")
	}

	item.Quantity = quantity
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}

	return s.reload(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	record, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	removed, err := s.repo.DeleteItem(ctx, record.ID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	return s.reload(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	record, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItems(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	record = &models.CartRecord{UserID: userID}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return record, nil
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return NewCartDTO(record), nil
}
