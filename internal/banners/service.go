package banners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// Service exposes banner slot management.
type Service interface {
	Create(ctx context.Context, input CreateBannerInput) (*BannerDTO, error)
	Update(ctx context.Context, bannerID uuid.UUID, input UpdateBannerInput) (*BannerDTO, error)
	Delete(ctx context.Context, bannerID uuid.UUID) error
	SetActive(ctx context.Context, bannerID uuid.UUID) (*BannerDTO, error)
	List(ctx context.Context) ([]BannerDTO, error)
	ListActive(ctx context.Context) ([]BannerDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	dbClient txRunner
}

// NewService constructs a banner service instance.
func NewService(repo Repository, dbClient txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("banner repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateBannerInput) (*BannerDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}
	if !input.Placement.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid banner placement")
	}

	banner := &models.Banner{
		Title:     strings.TrimSpace(input.Title),
		ImageURL:  strings.TrimSpace(input.ImageURL),
		LinkURL:   strings.TrimSpace(input.LinkURL),
		Placement: input.Placement,
		IsActive:  input.IsActive,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if banner.IsActive {
			if err := txRepo.ClearActive(ctx, banner.Placement); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear active banner")
			}
		}
		if err := txRepo.Create(ctx, banner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert banner")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}

	return NewBannerDTO(banner), nil
}

func (s *service) Update(ctx context.Context, bannerID uuid.UUID, input UpdateBannerInput) (*BannerDTO, error) {
	banner, err := s.loadBanner(ctx, bannerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		banner.Title = strings.TrimSpace(*input.Title)
	}
	if input.ImageURL != nil {
		if strings.TrimSpace(*input.ImageURL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
		}
		banner.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.LinkURL != nil {
		banner.LinkURL = strings.TrimSpace(*input.LinkURL)
	}

	// Deactivating the placement's only active banner is ignored so the
	// slot never goes dark through an edit.
	activate := input.IsActive != nil && *input.IsActive && !banner.IsActive
	if activate {
		banner.IsActive = true
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if activate {
			if err := txRepo.ClearActive(ctx, banner.Placement); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear active banner")
			}
		}
		if err := txRepo.Update(ctx, banner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update banner")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
	}

	return NewBannerDTO(banner), nil
}

func (s *service) Delete(ctx context.Context, bannerID uuid.UUID) error {
	banner, err := s.loadBanner(ctx, bannerID)
	if err != nil {
		return err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, bannerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete banner")
		}
		if !banner.IsActive {
			return nil
		}
		// Deleting the active banner promotes the oldest remaining one so
		// the placement keeps something to show.
		next, err := txRepo.FirstInPlacement(ctx, banner.Placement)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load replacement banner")
		}
		next.IsActive = true
		if err := txRepo.Update(ctx, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote banner")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	return nil
}

func (s *service) SetActive(ctx context.Context, bannerID uuid.UUID) (*BannerDTO, error) {
	banner, err := s.loadBanner(ctx, bannerID)
	if err != nil {
		return nil, err
	}
	if banner.IsActive {
		return NewBannerDTO(banner), nil
	}

	banner.IsActive = true
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearActive(ctx, banner.Placement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear active banner")
		}
		if err := txRepo.Update(ctx, banner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update banner")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate banner")
	}

	return NewBannerDTO(banner), nil
}

func (s *service) List(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return toDTOs(rows), nil
}

func (s *service) ListActive(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active banners")
	}
	return toDTOs(rows), nil
}

func (s *service) loadBanner(ctx context.Context, bannerID uuid.UUID) (*models.Banner, error) {
	banner, err := s.repo.FindByID(ctx, bannerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
	}
	return banner, nil
}

func toDTOs(rows []models.Banner) []BannerDTO {
	dtos := make([]BannerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewBannerDTO(&rows[i]))
	}
	return dtos
}
