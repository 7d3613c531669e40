package banners

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Repository handles banner persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	List(ctx context.Context) ([]models.Banner, error)
	ListActive(ctx context.Context) ([]models.Banner, error)
	ClearActive(ctx context.Context, placement enums.BannerPlacement) error
	FirstInPlacement(ctx context.Context, placement enums.BannerPlacement) (*models.Banner, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a banner repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *repository) Update(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Banner{}).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *repository) List(ctx context.Context) ([]models.Banner, error) {
	var rows []models.Banner
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) ListActive(ctx context.Context) ([]models.Banner, error) {
	var rows []models.Banner
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error
	return rows, err
}

func (r *repository) FirstInPlacement(ctx context.Context, placement enums.BannerPlacement) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).
		Where("placement = ?", placement).
		Order("created_at ASC").
		First(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *repository) ClearActive(ctx context.Context, placement enums.BannerPlacement) error {
	return r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("placement = ? AND is_active = ?", placement, true).
		Update("is_active", false).
		Error
}
