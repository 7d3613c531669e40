package paymentmethods

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	squarepkg "github.com/nordicgeo/geoshop-backend/pkg/square"
)

type stubTxRunner struct{}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserLoader struct {
	user *models.User
}

func (s *stubUserLoader) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubVault struct {
	customer   *sq.Customer
	card       *sq.Card
	cardErr    error
	disabled   []string
	ensured    []squarepkg.CustomerCreateParams
	cardParams []squarepkg.CardCreateParams
}

func (s *stubVault) EnsureCustomer(_ context.Context, params squarepkg.CustomerCreateParams) (*sq.Customer, error) {
	s.ensured = append(s.ensured, params)
	return s.customer, nil
}

func (s *stubVault) CreateCard(_ context.Context, params squarepkg.CardCreateParams) (*sq.Card, error) {
	s.cardParams = append(s.cardParams, params)
	return s.card, s.cardErr
}

func (s *stubVault) DisableCard(_ context.Context, cardID string) (*sq.Card, error) {
	s.disabled = append(s.disabled, cardID)
	return s.card, nil
}

type stubMethodRepo struct {
	byID  map[uuid.UUID]*models.PaymentMethod
	clock time.Time
}

func newStubMethodRepo() *stubMethodRepo {
	return &stubMethodRepo{byID: map[uuid.UUID]*models.PaymentMethod{}, clock: time.Now().UTC()}
}

func (s *stubMethodRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubMethodRepo) Create(_ context.Context, method *models.PaymentMethod) error {
	method.ID = uuid.New()
	s.clock = s.clock.Add(time.Second)
	method.CreatedAt = s.clock
	s.byID[method.ID] = method
	return nil
}

func (s *stubMethodRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubMethodRepo) FindByID(_ context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	if method, ok := s.byID[id]; ok {
		copied := *method
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMethodRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	var rows []models.PaymentMethod
	for _, method := range s.byID {
		if method.UserID == userID {
			rows = append(rows, *method)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].IsDefault != rows[j].IsDefault {
			return rows[i].IsDefault
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (s *stubMethodRepo) ClearDefault(_ context.Context, userID uuid.UUID) error {
	for _, method := range s.byID {
		if method.UserID == userID {
			method.IsDefault = false
		}
	}
	return nil
}

func (s *stubMethodRepo) SetDefault(_ context.Context, id uuid.UUID) error {
	if method, ok := s.byID[id]; ok {
		method.IsDefault = true
	}
	return nil
}

func (s *stubMethodRepo) defaultsFor(userID uuid.UUID) []*models.PaymentMethod {
	var defaults []*models.PaymentMethod
	for _, method := range s.byID {
		if method.UserID == userID && method.IsDefault {
			defaults = append(defaults, method)
		}
	}
	return defaults
}

func stubCard(id string) *sq.Card {
	card := &sq.Card{}
	card.ID = &id
	brand := sq.CardBrandVisa
	card.CardBrand = &brand
	last4 := "4242"
	card.Last4 = &last4
	expMonth := int64(12)
	card.ExpMonth = &expMonth
	expYear := int64(2050)
	card.ExpYear = &expYear
	return card
}

func stubCustomer(id string) *sq.Customer {
	customer := &sq.Customer{}
	customer.ID = &id
	return customer
}

func testUser() *models.User {
	return &models.User{
		ID:        uuid.New(),
		Email:     "buyer@example.com",
		FirstName: "Budi",
		LastName:  "Santoso",
	}
}

func newCardService(t *testing.T, repo *stubMethodRepo, vault *stubVault, user *models.User) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:              repo,
		UserLoader:        &stubUserLoader{user: user},
		SquareClient:      vault,
		TransactionRunner: &stubTxRunner{},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func storeInput() StoreCardInput {
	return StoreCardInput{SourceID: "cnon:card-nonce", IdempotencyKey: uuid.NewString()}
}

func TestStoreCardDefaultsFirstCard(t *testing.T) {
	user := testUser()
	repo := newStubMethodRepo()
	vault := &stubVault{customer: stubCustomer("cust-1"), card: stubCard("card-1")}
	svc := newCardService(t, repo, vault, user)

	dto, err := svc.StoreCard(context.Background(), user.ID, storeInput())
	if err != nil {
		t.Fatalf("StoreCard: %v", err)
	}
	if !dto.IsDefault {
		t.Fatal("first card must become the default")
	}
	if dto.CardBrand != string(sq.CardBrandVisa) || dto.Last4 != "4242" {
		t.Fatalf("card metadata not captured: %+v", dto)
	}
	if len(vault.ensured) != 1 || vault.ensured[0].ReferenceID != user.ID.String() {
		t.Fatalf("expected customer ensured with user reference, got %+v", vault.ensured)
	}
}

func TestStoreCardHonorsExistingDefault(t *testing.T) {
	user := testUser()
	repo := newStubMethodRepo()
	vault := &stubVault{customer: stubCustomer("cust-1"), card: stubCard("card-1")}
	svc := newCardService(t, repo, vault, user)

	first, _ := svc.StoreCard(context.Background(), user.ID, storeInput())

	vault.card = stubCard("card-2")
	second, err := svc.StoreCard(context.Background(), user.ID, storeInput())
	if err != nil {
		t.Fatalf("StoreCard: %v", err)
	}
	if second.IsDefault {
		t.Fatal("second card must not displace the default unless asked")
	}
	defaults := repo.defaultsFor(user.ID)
	if len(defaults) != 1 || defaults[0].ID != first.ID {
		t.Fatalf("expected first card to stay default, got %v", defaults)
	}
}

func TestStoreCardTakesDefaultWhenRequested(t *testing.T) {
	user := testUser()
	repo := newStubMethodRepo()
	vault := &stubVault{customer: stubCustomer("cust-1"), card: stubCard("card-1")}
	svc := newCardService(t, repo, vault, user)

	svc.StoreCard(context.Background(), user.ID, storeInput())

	vault.card = stubCard("card-2")
	input := storeInput()
	input.IsDefault = true
	second, err := svc.StoreCard(context.Background(), user.ID, input)
	if err != nil {
		t.Fatalf("StoreCard: %v", err)
	}
	defaults := repo.defaultsFor(user.ID)
	if len(defaults) != 1 || defaults[0].ID != second.ID {
		t.Fatalf("expected requested card as sole default, got %v", defaults)
	}
}

func TestStoreCardValidation(t *testing.T) {
	user := testUser()
	svc := newCardService(t, newStubMethodRepo(), &stubVault{}, user)

	input := storeInput()
	input.SourceID = " "
	if _, err := svc.StoreCard(context.Background(), user.ID, input); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	input = storeInput()
	input.IdempotencyKey = ""
	if _, err := svc.StoreCard(context.Background(), user.ID, input); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveDisablesAndPromotes(t *testing.T) {
	user := testUser()
	repo := newStubMethodRepo()
	vault := &stubVault{customer: stubCustomer("cust-1"), card: stubCard("card-1")}
	svc := newCardService(t, repo, vault, user)

	first, _ := svc.StoreCard(context.Background(), user.ID, storeInput())
	vault.card = stubCard("card-2")
	second, _ := svc.StoreCard(context.Background(), user.ID, storeInput())

	if err := svc.Remove(context.Background(), user.ID, first.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(vault.disabled) != 1 || vault.disabled[0] != "card-1" {
		t.Fatalf("expected square card disabled, got %v", vault.disabled)
	}
	defaults := repo.defaultsFor(user.ID)
	if len(defaults) != 1 || defaults[0].ID != second.ID {
		t.Fatalf("expected survivor promoted, got %v", defaults)
	}
}

func TestSetDefaultIsIdempotentAndOwned(t *testing.T) {
	user := testUser()
	repo := newStubMethodRepo()
	vault := &stubVault{customer: stubCustomer("cust-1"), card: stubCard("card-1")}
	svc := newCardService(t, repo, vault, user)

	card, _ := svc.StoreCard(context.Background(), user.ID, storeInput())

	if _, err := svc.SetDefault(context.Background(), user.ID, card.ID); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if len(repo.defaultsFor(user.ID)) != 1 {
		t.Fatal("expected one default")
	}

	if _, err := svc.SetDefault(context.Background(), uuid.New(), card.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign card, got %v", err)
	}
}
