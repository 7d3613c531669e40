package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Repository handles order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAdmin(ctx context.Context, input AdminListInput) ([]models.Order, int64, error)
	ListByStatusBefore(ctx context.Context, status enums.OrderStatus, before time.Time) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tracking_number = ?", trackingNumber).
		First(&order).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListAdmin pages through all orders, optionally narrowed to one status.
func (r *repository) ListAdmin(ctx context.Context, input AdminListInput) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if input.Status != "" {
		query = query.Where("status = ?", input.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(input.Offset).
		Find(&rows).
		Error
	return rows, total, err
}

// ListByStatusBefore returns orders in the given status last updated before
// the cutoff. The simulation worker drives lifecycle transitions off it.
func (r *repository) ListByStatusBefore(ctx context.Context, status enums.OrderStatus, before time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND updated_at < ?", status, before).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}
