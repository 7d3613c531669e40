package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

type stubProductStore struct {
	byID      map[uuid.UUID]*models.Product
	listCalls []listQuery
	listRes   *ListResult
}

func newStubProductStore() *stubProductStore {
	return &stubProductStore{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductStore) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	for _, existing := range s.byID {
		if existing.Slug == product.Slug {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_products_slug"`)
		}
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductStore) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubProductStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductStore) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, product := range s.byID {
		if product.Slug == slug {
			copied := *product
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductStore) List(_ context.Context, query listQuery) (*ListResult, error) {
	s.listCalls = append(s.listCalls, query)
	if s.listRes != nil {
		return s.listRes, nil
	}
	return &ListResult{}, nil
}

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:       "Trimble R12i GNSS Receiver",
		Category:   enums.ProductCategoryGNSSReceiver,
		Brand:      "Trimble",
		PriceCents: 2_500_000_00,
		Stock:      4,
		Images:     []string{"r12i-front.jpg"},
	}
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	store := newStubProductStore()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dto, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Slug != "trimble-r12i-gnss-receiver" {
		t.Fatalf("unexpected slug %q", dto.Slug)
	}
	if !dto.InStock {
		t.Fatal("expected in_stock true")
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := NewService(newStubProductStore())

	cases := []struct {
		name  string
		mut   func(*CreateProductInput)
		wantC pkgerrors.Code
	}{
		{"missing name", func(in *CreateProductInput) { in.Name = " " }, pkgerrors.CodeValidation},
		{"bad category", func(in *CreateProductInput) { in.Category = "telescope" }, pkgerrors.CodeValidation},
		{"zero price", func(in *CreateProductInput) { in.PriceCents = 0 }, pkgerrors.CodeValidation},
		{"negative stock", func(in *CreateProductInput) { in.Stock = -1 }, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mut(&input)
			if _, err := svc.Create(context.Background(), input); pkgerrors.CodeOf(err) != tc.wantC {
				t.Fatalf("expected %s, got %v", tc.wantC, err)
			}
		})
	}
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	store := newStubProductStore()
	svc, _ := NewService(store)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(context.Background(), validInput())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateProductAppliesPartialChanges(t *testing.T) {
	store := newStubProductStore()
	svc, _ := NewService(store)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	price := int64(2_300_000_00)
	published := true
	dto, err := svc.Update(context.Background(), created.ID, UpdateProductInput{
		PriceCents:  &price,
		IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if dto.PriceCents != price || !dto.IsPublished {
		t.Fatalf("update not applied: %+v", dto)
	}
	if dto.Name != created.Name {
		t.Fatal("untouched fields must survive")
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := NewService(newStubProductStore())
	name := "x"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetHidesDraftsFromPublic(t *testing.T) {
	store := newStubProductStore()
	svc, _ := NewService(store)

	input := validInput()
	input.IsPublished = false
	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), created.ID, false); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected draft hidden, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID, true); err != nil {
		t.Fatalf("admin read should see drafts: %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), created.Slug, false); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected draft hidden by slug, got %v", err)
	}
}

func TestListPassesDraftVisibility(t *testing.T) {
	store := newStubProductStore()
	svc, _ := NewService(store)

	if _, err := svc.List(context.Background(), ListInput{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := svc.List(context.Background(), ListInput{IncludeDrafts: true}); err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(store.listCalls) != 2 {
		t.Fatalf("expected 2 list calls, got %d", len(store.listCalls))
	}
	if store.listCalls[0].IncludeDrafts || !store.listCalls[1].IncludeDrafts {
		t.Fatalf("draft visibility not forwarded: %+v", store.listCalls)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Trimble R12i GNSS Receiver": "trimble-r12i-gnss-receiver",
		"  Leica TS16  ":             "leica-ts16",
		"DJI Matrice 350 RTK!":       "dji-matrice-350-rtk",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
