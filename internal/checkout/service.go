package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/internal/cart"
	"github.com/nordicgeo/geoshop-backend/internal/orders"
	"github.com/nordicgeo/geoshop-backend/internal/payments"
	"github.com/nordicgeo/geoshop-backend/internal/tracking"
	"github.com/nordicgeo/geoshop-backend/pkg/config"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// PaymentOutcomeDTO reports the gateway result for a confirmation attempt.
type PaymentOutcomeDTO struct {
	Status    enums.PaymentStatus `json:"status"`
	Reference string              `json:"reference,omitempty"`
}

// PlaceOrderResult is the confirmation response. Order is nil when the
// payment did not go through; the session then stays on the review step.
type PlaceOrderResult struct {
	Payment PaymentOutcomeDTO `json:"payment"`
	Order   *orders.OrderDTO  `json:"order,omitempty"`
}

// Service walks a customer through the linear checkout wizard.
type Service interface {
	Start(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	AdvanceToPayment(ctx context.Context, userID uuid.UUID, input ShippingInput) (*SessionDTO, error)
	AdvanceToReview(ctx context.Context, userID uuid.UUID, input PaymentSelectionInput) (*SessionDTO, error)
	Back(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	Quote(ctx context.Context, userID uuid.UUID) (*QuoteDTO, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Repo              Repository
	CartRepo          cart.Repository
	OrderRepo         orders.Repository
	TrackingRepo      tracking.Repository
	Gateway           payments.Gateway
	TransactionRunner txRunner
	Checkout          config.CheckoutConfig
}

type service struct {
	repo         Repository
	cartRepo     cart.Repository
	orderRepo    orders.Repository
	trackingRepo tracking.Repository
	gateway      payments.Gateway
	txRunner     txRunner
	cfg          config.CheckoutConfig
	now          func() time.Time
}

// NewService constructs a checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout repo required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repo required")
	}
	if params.TrackingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tracking repo required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:         params.Repo,
		cartRepo:     params.CartRepo,
		orderRepo:    params.OrderRepo,
		trackingRepo: params.TrackingRepo,
		gateway:      params.Gateway,
		txRunner:     params.TransactionRunner,
		cfg:          params.Checkout,
		now:          time.Now,
	}, nil
}

// Start opens a session for the customer's non-empty cart. A still-open
// session is resumed rather than replaced.
func (s *service) Start(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	if existing, err := s.repo.FindOpenByUser(ctx, userID, s.now()); err == nil {
		return NewSessionDTO(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}

	record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
	}

	session := &models.CheckoutSession{
		UserID:         userID,
		CartID:         record.ID,
		Step:           enums.CheckoutStepShipping,
		ShippingMethod: enums.ShippingMethodStandard,
		PaymentMethod:  enums.PaymentMethodGateway,
		ExpiresAt:      s.now().Add(s.cfg.SessionTTL).UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	return NewSessionDTO(session), nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	session, err := s.loadOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewSessionDTO(session), nil
}

// AdvanceToPayment validates the shipping form and moves shipping→payment.
func (s *service) AdvanceToPayment(ctx context.Context, userID uuid.UUID, input ShippingInput) (*SessionDTO, error) {
	session, err := s.loadOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step != enums.CheckoutStepShipping {
		return nil, stepConflict(session.Step, enums.CheckoutStepShipping)
	}

	if err := validateShipping(&input); err != nil {
		return nil, err
	}
	method, err := enums.ParseShippingMethod(strings.TrimSpace(input.ShippingMethod))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}

	session.FirstName = strings.TrimSpace(input.FirstName)
	session.LastName = strings.TrimSpace(input.LastName)
	session.Email = strings.ToLower(strings.TrimSpace(input.Email))
	session.Phone = strings.TrimSpace(input.Phone)
	session.Street = strings.TrimSpace(input.Street)
	session.City = strings.TrimSpace(input.City)
	session.State = strings.TrimSpace(input.State)
	session.ZipCode = strings.TrimSpace(input.ZipCode)
	session.Country = strings.TrimSpace(input.Country)
	session.ShippingMethod = method
	session.Step = enums.CheckoutStepPayment

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return NewSessionDTO(session), nil
}

// AdvanceToReview records the payment method and moves payment→review.
func (s *service) AdvanceToReview(ctx context.Context, userID uuid.UUID, input PaymentSelectionInput) (*SessionDTO, error) {
	session, err := s.loadOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step != enums.CheckoutStepPayment {
		return nil, stepConflict(session.Step, enums.CheckoutStepPayment)
	}

	method, err := enums.ParsePaymentMethod(strings.TrimSpace(input.PaymentMethod))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	session.PaymentMethod = method
	session.Step = enums.CheckoutStepReview

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return NewSessionDTO(session), nil
}

// Back moves exactly one step towards shipping. At shipping it is a no-op.
func (s *service) Back(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	session, err := s.loadOpen(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := session.Step.Prev()
	if previous == session.Step {
		return NewSessionDTO(session), nil
	}

	session.Step = previous
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return NewSessionDTO(session), nil
}

// Quote reprices the live cart against the session's shipping method.
func (s *service) Quote(ctx context.Context, userID uuid.UUID) (*QuoteDTO, error) {
	session, err := s.loadOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
	}

	quote := BuildQuote(record.Items, session.ShippingMethod, s.cfg.Currency)
	return &quote, nil
}

// PlaceOrder confirms the checkout. The gateway is charged first, outside the
// transaction; only a settled payment converts the cart into an order. A
// declined, pending or cancelled charge leaves the session on review so the
// customer can retry without losing state.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error) {
	session, err := s.loadOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step != enums.CheckoutStepReview {
		return nil, stepConflict(session.Step, enums.CheckoutStepReview)
	}

	record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
	}

	now := s.now().UTC()
	quote := BuildQuote(record.Items, session.ShippingMethod, s.cfg.Currency)
	orderNumber := orders.NewOrderNumber(now)

	paymentStatus := enums.PaymentStatusPending
	paymentRef := ""
	if session.PaymentMethod.RequiresGateway() {
		result, err := s.gateway.CreatePayment(ctx, s.buildPayload(session, record, quote, orderNumber, input))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "charge payment")
		}
		if !result.Succeeded() {
			return &PlaceOrderResult{
				Payment: PaymentOutcomeDTO{Status: result.Status, Reference: result.Reference},
			}, nil
		}
		paymentStatus = result.Status
		paymentRef = result.Reference
	}

	order := buildOrder(session, record, quote, orderNumber, paymentStatus, paymentRef)

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		if err := s.trackingRepo.WithTx(tx).Create(ctx, tracking.NewEvent(order.ID, enums.TrackingStepOrdered, now)); err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).MarkConverted(ctx, record.ID); err != nil {
			return err
		}
		session.Step = enums.CheckoutStepConfirm
		session.Completed = true
		session.OrderID = &order.ID
		return s.repo.WithTx(tx).Update(ctx, session)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize order")
	}

	return &PlaceOrderResult{
		Payment: PaymentOutcomeDTO{Status: paymentStatus, Reference: paymentRef},
		Order:   orders.NewOrderDTO(order),
	}, nil
}

func (s *service) buildPayload(session *models.CheckoutSession, record *models.CartRecord, quote QuoteDTO, orderNumber string, input PlaceOrderInput) payments.OrderPayload {
	payload := payments.OrderPayload{
		OrderNumber:    orderNumber,
		UserID:         session.UserID,
		AmountCents:    quote.TotalCents,
		Currency:       quote.Currency,
		CustomerEmail:  session.Email,
		CustomerName:   strings.TrimSpace(session.FirstName + " " + session.LastName),
		SourceID:       strings.TrimSpace(input.SourceID),
		IdempotencyKey: strings.TrimSpace(input.IdempotencyKey),
	}
	for i := range record.Items {
		item := &record.Items[i]
		payload.Items = append(payload.Items, payments.LineItem{
			ProductID:      item.ProductID,
			Name:           item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}
	return payload
}

func buildOrder(session *models.CheckoutSession, record *models.CartRecord, quote QuoteDTO, orderNumber string, paymentStatus enums.PaymentStatus, paymentRef string) *models.Order {
	order := &models.Order{
		UserID:         session.UserID,
		OrderNumber:    orderNumber,
		Status:         enums.OrderStatusProcessing,
		SubtotalCents:  quote.SubtotalCents,
		ShippingCents:  quote.ShippingCents,
		TaxCents:       quote.TaxCents,
		TotalCents:     quote.TotalCents,
		Currency:       quote.Currency,
		FirstName:      session.FirstName,
		LastName:       session.LastName,
		Email:          session.Email,
		Phone:          session.Phone,
		Street:         session.Street,
		City:           session.City,
		State:          session.State,
		ZipCode:        session.ZipCode,
		Country:        session.Country,
		ShippingMethod: session.ShippingMethod,
		PaymentMethod:  session.PaymentMethod,
		PaymentStatus:  paymentStatus,
		PaymentRef:     paymentRef,
	}
	for i := range record.Items {
		item := &record.Items[i]
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageRef:       item.ImageRef,
		})
	}
	return order
}

func (s *service) loadOpen(ctx context.Context, userID uuid.UUID) (*models.CheckoutSession, error) {
	session, err := s.repo.FindOpenByUser(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	return session, nil
}

func (s *service) loadCart(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.cartRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}

func stepConflict(current, expected enums.CheckoutStep) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		"checkout is on step "+current.String()+", expected "+expected.String())
}

func validateShipping(input *ShippingInput) error {
	required := map[string]string{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"email":      input.Email,
		"phone":      input.Phone,
		"street":     input.Street,
		"city":       input.City,
		"state":      input.State,
		"zip_code":   input.ZipCode,
		"country":    input.Country,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}
	return nil
}
