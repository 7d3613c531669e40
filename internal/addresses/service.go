package addresses

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// Service manages a customer's address book.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateAddressInput) (*AddressDTO, error)
	Remove(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the address service.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
}

type service struct {
	repo     Repository
	txRunner txRunner
}

// NewService constructs an address book service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "address repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: params.Repo, txRunner: params.TransactionRunner}, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validateAddressFields(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}

	hasDefault := false
	for _, address := range existing {
		if address.IsDefault {
			hasDefault = true
			break
		}
	}

	// The first address always becomes the default, as does any later
	// address when the book somehow lost its default.
	shouldDefault := len(existing) == 0 || input.IsDefault || !hasDefault

	address := &models.Address{
		UserID:    userID,
		Label:     strings.TrimSpace(input.Label),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Street:    strings.TrimSpace(input.Street),
		City:      strings.TrimSpace(input.City),
		State:     strings.TrimSpace(input.State),
		ZipCode:   strings.TrimSpace(input.ZipCode),
		Country:   strings.TrimSpace(input.Country),
		IsDefault: shouldDefault,
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if shouldDefault && len(existing) > 0 {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return txRepo.Create(ctx, address)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist address")
	}

	return NewAddressDTO(address), nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateAddressInput) (*AddressDTO, error) {
	address, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	applyAddressUpdate(address, input)

	// Unsetting the default directly is ignored; the default moves only
	// when another address takes it over.
	promote := input.IsDefault != nil && *input.IsDefault && !address.IsDefault
	if promote {
		address.IsDefault = true
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if promote {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return txRepo.Update(ctx, address)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}

	return NewAddressDTO(address), nil
}

func (s *service) Remove(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, addressID); err != nil {
			return err
		}
		if !address.IsDefault {
			return nil
		}
		remaining, err := txRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for i := range remaining {
			if remaining[i].ID == addressID {
				continue
			}
			// Promote the newest survivor.
			return txRepo.SetDefault(ctx, remaining[i].ID)
		}
		return nil
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove address")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	address, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if address.IsDefault {
		return NewAddressDTO(address), nil
	}

	address.IsDefault = true
	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		return txRepo.SetDefault(ctx, addressID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}

	return NewAddressDTO(address), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	dtos := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewAddressDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}

func validateAddressFields(input AddressInput) error {
	required := map[string]string{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
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

func applyAddressUpdate(address *models.Address, input UpdateAddressInput) {
	if input.Label != nil {
		address.Label = strings.TrimSpace(*input.Label)
	}
	if input.FirstName != nil {
		address.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		address.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		address.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Street != nil {
		address.Street = strings.TrimSpace(*input.Street)
	}
	if input.City != nil {
		address.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		address.State = strings.TrimSpace(*input.State)
	}
	if input.ZipCode != nil {
		address.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.Country != nil {
		address.Country = strings.TrimSpace(*input.Country)
	}
}
