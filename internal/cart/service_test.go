package cart

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

type stubCartRepo struct {
	carts map[uuid.UUID]*models.CartRecord
	items map[uuid.UUID][]*models.CartItem
	clock time.Time
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts: map[uuid.UUID]*models.CartRecord{},
		items: map[uuid.UUID][]*models.CartItem{},
		clock: time.Now().UTC(),
	}
}

func (s *stubCartRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	for _, record := range s.carts {
		if record.UserID == userID && record.Status == enums.CartStatusActive {
			copied := *record
			for _, item := range s.items[record.ID] {
				copied.Items = append(copied.Items, *item)
			}
			sort.Slice(copied.Items, func(i, j int) bool {
				return copied.Items[i].CreatedAt.Before(copied.Items[j].CreatedAt)
			})
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(_ context.Context, record *models.CartRecord) error {
	record.ID = uuid.New()
	record.Status = enums.CartStatusActive
	s.carts[record.ID] = record
	return nil
}

func (s *stubCartRepo) FindItem(_ context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items[cartID] {
		if item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(_ context.Context, item *models.CartItem) error {
	item.ID = uuid.New()
	s.clock = s.clock.Add(time.Second)
	item.CreatedAt = s.clock
	s.items[item.CartID] = append(s.items[item.CartID], item)
	return nil
}

func (s *stubCartRepo) UpdateItem(_ context.Context, item *models.CartItem) error {
	for i, existing := range s.items[item.CartID] {
		if existing.ProductID == item.ProductID {
			copied := *item
			copied.CreatedAt = existing.CreatedAt
			s.items[item.CartID][i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartRepo) DeleteItem(_ context.Context, cartID, productID uuid.UUID) (bool, error) {
	rows := s.items[cartID]
	for i, item := range rows {
		if item.ProductID == productID {
			s.items[cartID] = append(rows[:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubCartRepo) DeleteItems(_ context.Context, cartID uuid.UUID) error {
	s.items[cartID] = nil
	return nil
}

func (s *stubCartRepo) MarkConverted(_ context.Context, cartID uuid.UUID) error {
	if record, ok := s.carts[cartID]; ok {
		record.Status = enums.CartStatusConverted
	}
	return nil
}

type stubCatalog struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func catalogWith(products ...*models.Product) *stubCatalog {
	byID := map[uuid.UUID]*models.Product{}
	for _, product := range products {
		byID[product.ID] = product
	}
	return &stubCatalog{byID: byID}
}

func gnssReceiver() *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Name:        "Trimble R12i GNSS Receiver",
		Category:    enums.ProductCategoryGNSSReceiver,
		PriceCents:  2_500_000_00,
		Stock:       5,
		Images:      []string{"products/r12i.jpg"},
		IsPublished: true,
	}
}

func newCartService(t *testing.T, repo *stubCartRepo, catalog *stubCatalog) Service {
	t.Helper()
	svc, err := NewService(repo, catalog)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGetActiveCartCreatesOnFirstUse(t *testing.T) {
	repo := newStubCartRepo()
	svc := newCartService(t, repo, catalogWith())
	userID := uuid.New()

	dto, err := svc.GetActiveCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetActiveCart: %v", err)
	}
	if dto.TotalItems != 0 || dto.SubtotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", dto)
	}

	again, err := svc.GetActiveCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetActiveCart: %v", err)
	}
	if again.ID != dto.ID {
		t.Fatal("expected the same cart on repeat access")
	}
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	product := gnssReceiver()
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))
	userID := uuid.New()

	dto, err := svc.AddItem(context.Background(), userID, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(dto.Items))
	}
	line := dto.Items[0]
	if line.ProductName != product.Name || line.UnitPriceCents != product.PriceCents {
		t.Fatalf("snapshot mismatch: %+v", line)
	}
	if line.ImageRef != "products/r12i.jpg" {
		t.Fatalf("expected first image snapshotted, got %q", line.ImageRef)
	}
	if dto.TotalItems != 2 || dto.SubtotalCents != 2*product.PriceCents {
		t.Fatalf("totals wrong: %+v", dto)
	}
}

func TestAddItemMergesQuantity(t *testing.T) {
	product := gnssReceiver()
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))
	userID := uuid.New()

	svc.AddItem(context.Background(), userID, product.ID, 2)
	dto, err := svc.AddItem(context.Background(), userID, product.ID, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 3 {
		t.Fatalf("expected merged line with quantity 3, got %+v", dto.Items)
	}
}

func TestAddItemEnforcesStock(t *testing.T) {
	product := gnssReceiver()
	product.Stock = 2
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, product.ID, 3); pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict over stock, got %v", err)
	}

	svc.AddItem(context.Background(), userID, product.ID, 2)
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 1); pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict when merge exceeds stock, got %v", err)
	}
}

func TestAddItemRejectsDraftAndUnknownProducts(t *testing.T) {
	draft := gnssReceiver()
	draft.IsPublished = false
	svc := newCartService(t, newStubCartRepo(), catalogWith(draft))

	if _, err := svc.AddItem(context.Background(), uuid.New(), draft.ID, 1); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for draft product, got %v", err)
	}
	if _, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestUpdateQuantitySetsAndRemoves(t *testing.T) {
	product := gnssReceiver()
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))
	userID := uuid.New()

	svc.AddItem(context.Background(), userID, product.ID, 2)

	dto, err := svc.UpdateQuantity(context.Background(), userID, product.ID, 4)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if dto.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", dto.Items[0].Quantity)
	}

	dto, err = svc.UpdateQuantity(context.Background(), userID, product.ID, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity to zero: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected line removed at zero quantity, got %+v", dto.Items)
	}
}

func TestRemoveItemMissing(t *testing.T) {
	svc := newCartService(t, newStubCartRepo(), catalogWith())

	if _, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New()); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for absent line, got %v", err)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	first := gnssReceiver()
	second := gnssReceiver()
	second.Name = "Leica GS18 T"
	svc := newCartService(t, newStubCartRepo(), catalogWith(first, second))
	userID := uuid.New()

	svc.AddItem(context.Background(), userID, first.ID, 1)
	svc.AddItem(context.Background(), userID, second.ID, 2)

	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	dto, _ := svc.GetActiveCart(context.Background(), userID)
	if dto.TotalItems != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", dto)
	}
}
