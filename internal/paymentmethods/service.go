package paymentmethods

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	"github.com/nordicgeo/geoshop-backend/pkg/square"
)

// Service orchestrates card-on-file persistence for customers.
type Service interface {
	StoreCard(ctx context.Context, userID uuid.UUID, input StoreCardInput) (*PaymentMethodDTO, error)
	SetDefault(ctx context.Context, userID, methodID uuid.UUID) (*PaymentMethodDTO, error)
	Remove(ctx context.Context, userID, methodID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]PaymentMethodDTO, error)
}

// StoreCardInput captures the payload required to vault a card.
type StoreCardInput struct {
	SourceID          string `json:"source_id" validate:"required"`
	CardholderName    string `json:"cardholder_name"`
	VerificationToken string `json:"verification_token"`
	IsDefault         bool   `json:"is_default"`
	IdempotencyKey    string `json:"idempotency_key" validate:"required"`
}

// PaymentMethodDTO is the vaulted card shape returned to clients.
type PaymentMethodDTO struct {
	ID        uuid.UUID `json:"id"`
	CardBrand string    `json:"card_brand"`
	Last4     string    `json:"last4"`
	ExpMonth  int       `json:"exp_month"`
	ExpYear   int       `json:"exp_year"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

type cardVault interface {
	EnsureCustomer(ctx context.Context, params square.CustomerCreateParams) (*sq.Customer, error)
	CreateCard(ctx context.Context, params square.CardCreateParams) (*sq.Card, error)
	DisableCard(ctx context.Context, cardID string) (*sq.Card, error)
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the payment method service.
type ServiceParams struct {
	Repo              Repository
	UserLoader        customerLoader
	SquareClient      cardVault
	TransactionRunner txRunner
}

type service struct {
	repo     Repository
	users    customerLoader
	square   cardVault
	txRunner txRunner
}

// NewService constructs a payment method service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment method repo required")
	}
	if params.UserLoader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user loader required")
	}
	if params.SquareClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "square client required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:     params.Repo,
		users:    params.UserLoader,
		square:   params.SquareClient,
		txRunner: params.TransactionRunner,
	}, nil
}

// StoreCard vaults a card with Square and persists the metadata.
func (s *service) StoreCard(ctx context.Context, userID uuid.UUID, input StoreCardInput) (*PaymentMethodDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	sourceID := strings.TrimSpace(input.SourceID)
	if sourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source_id is required")
	}
	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	customer, err := s.square.EnsureCustomer(ctx, square.CustomerCreateParams{
		Email:       user.Email,
		GivenName:   user.FirstName,
		FamilyName:  user.LastName,
		PhoneNumber: user.Phone,
		ReferenceID: user.ID.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure square customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square customer response is nil")
	}
	customerID := stringValue(customer.GetID())
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square customer missing id")
	}

	params := square.CardCreateParams{
		CustomerID:     customerID,
		SourceID:       sourceID,
		IdempotencyKey: idempotencyKey,
		ReferenceID:    user.ID.String(),
	}
	if cardholder := strings.TrimSpace(input.CardholderName); cardholder != "" {
		params.CardholderName = cardholder
	}
	if token := strings.TrimSpace(input.VerificationToken); token != "" {
		params.VerificationToken = token
	}

	card, err := s.square.CreateCard(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create square card")
	}
	if card == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square card response is nil")
	}
	if stringValue(card.GetID()) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square card missing id")
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}

	hasDefault := false
	for _, method := range existing {
		if method.IsDefault {
			hasDefault = true
			break
		}
	}
	shouldDefault := len(existing) == 0 || input.IsDefault || !hasDefault

	method := buildPaymentMethod(card, userID, customerID, shouldDefault)

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if shouldDefault && len(existing) > 0 {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return txRepo.Create(ctx, method)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment method")
	}

	return newDTO(method), nil
}

func (s *service) SetDefault(ctx context.Context, userID, methodID uuid.UUID) (*PaymentMethodDTO, error) {
	method, err := s.loadOwned(ctx, userID, methodID)
	if err != nil {
		return nil, err
	}
	if method.IsDefault {
		return newDTO(method), nil
	}

	method.IsDefault = true
	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		return txRepo.SetDefault(ctx, methodID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default payment method")
	}

	return newDTO(method), nil
}

// Remove disables the card at Square and deletes the local row. The newest
// surviving card inherits the default when the default is removed.
func (s *service) Remove(ctx context.Context, userID, methodID uuid.UUID) error {
	method, err := s.loadOwned(ctx, userID, methodID)
	if err != nil {
		return err
	}

	if method.SquareCardID != "" {
		if _, err := s.square.DisableCard(ctx, method.SquareCardID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "disable square card")
		}
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, methodID); err != nil {
			return err
		}
		if !method.IsDefault {
			return nil
		}
		remaining, err := txRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for i := range remaining {
			if remaining[i].ID == methodID {
				continue
			}
			return txRepo.SetDefault(ctx, remaining[i].ID)
		}
		return nil
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove payment method")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]PaymentMethodDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}
	dtos := make([]PaymentMethodDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadOwned(ctx context.Context, userID, methodID uuid.UUID) (*models.PaymentMethod, error) {
	method, err := s.repo.FindByID(ctx, methodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
	}
	if method.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}
	return method, nil
}

func buildPaymentMethod(card *sq.Card, userID uuid.UUID, customerID string, isDefault bool) *models.PaymentMethod {
	method := &models.PaymentMethod{
		UserID:           userID,
		SquareCardID:     stringValue(card.GetID()),
		SquareCustomerID: customerID,
		Last4:            stringValue(card.GetLast4()),
		HolderName:       stringValue(card.GetCardholderName()),
		IsDefault:        isDefault,
	}
	if brand := card.GetCardBrand(); brand != nil {
		method.CardBrand = string(*brand)
	}
	if month := card.GetExpMonth(); month != nil {
		method.ExpMonth = int(*month)
	}
	if year := card.GetExpYear(); year != nil {
		method.ExpYear = int(*year)
	}
	return method
}

func newDTO(method *models.PaymentMethod) *PaymentMethodDTO {
	if method == nil {
		return nil
	}
	return &PaymentMethodDTO{
		ID:        method.ID,
		CardBrand: method.CardBrand,
		Last4:     method.Last4,
		ExpMonth:  method.ExpMonth,
		ExpYear:   method.ExpYear,
		IsDefault: method.IsDefault,
		CreatedAt: method.CreatedAt,
	}
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
