package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

type wishKey struct {
	user, product uuid.UUID
}

type stubWishlistRepo struct {
	items map[wishKey]*models.WishlistItem
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{items: map[wishKey]*models.WishlistItem{}}
}

func (s *stubWishlistRepo) Add(_ context.Context, item *models.WishlistItem) error {
	key := wishKey{user: item.UserID, product: item.ProductID}
	if _, exists := s.items[key]; exists {
		return nil
	}
	item.ID = uuid.New()
	s.items[key] = item
	return nil
}

func (s *stubWishlistRepo) Remove(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	key := wishKey{user: userID, product: productID}
	if _, exists := s.items[key]; !exists {
		return false, nil
	}
	delete(s.items, key)
	return true, nil
}

func (s *stubWishlistRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	for key, item := range s.items {
		if key.user == userID {
			rows = append(rows, *item)
		}
	}
	return rows, nil
}

func (s *stubWishlistRepo) Contains(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	_, exists := s.items[wishKey{user: userID, product: productID}]
	return exists, nil
}

type stubProductReader struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProductReader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func publishedProduct() *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Name:        "Leica TS16 Total Station",
		Slug:        "leica-ts16-total-station",
		Category:    enums.ProductCategoryTotalStation,
		PriceCents:  1_800_000_00,
		Stock:       2,
		IsPublished: true,
	}
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	repo := newStubWishlistRepo()
	product := publishedProduct()
	svc, err := NewService(repo, &stubProductReader{byID: map[uuid.UUID]*models.Product{product.ID: product}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	userID := uuid.New()

	if err := svc.Add(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("Add twice: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected one wishlist row, got %d", len(repo.items))
	}
}

func TestWishlistAddRejectsUnknownOrDraftProduct(t *testing.T) {
	draft := publishedProduct()
	draft.IsPublished = false
	svc, _ := NewService(newStubWishlistRepo(), &stubProductReader{byID: map[uuid.UUID]*models.Product{draft.ID: draft}})

	if err := svc.Add(context.Background(), uuid.New(), uuid.New()); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing product, got %v", err)
	}
	if err := svc.Add(context.Background(), uuid.New(), draft.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for draft product, got %v", err)
	}
}

func TestWishlistRemove(t *testing.T) {
	repo := newStubWishlistRepo()
	product := publishedProduct()
	svc, _ := NewService(repo, &stubProductReader{byID: map[uuid.UUID]*models.Product{product.ID: product}})
	userID := uuid.New()

	svc.Add(context.Background(), userID, product.ID)
	if err := svc.Remove(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.Remove(context.Background(), userID, product.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestWishlistListScopedToUser(t *testing.T) {
	repo := newStubWishlistRepo()
	product := publishedProduct()
	svc, _ := NewService(repo, &stubProductReader{byID: map[uuid.UUID]*models.Product{product.ID: product}})

	alice := uuid.New()
	bob := uuid.New()
	svc.Add(context.Background(), alice, product.ID)

	entries, err := svc.List(context.Background(), bob)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty wishlist for other user, got %d", len(entries))
	}
}
