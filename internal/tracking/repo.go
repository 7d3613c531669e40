package tracking

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
)

// Repository handles tracking event persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.TrackingEvent) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.TrackingEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a tracking repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.TrackingEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByOrder returns the order's timeline oldest first.
func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.TrackingEvent, error) {
	var rows []models.TrackingEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("occurred_at ASC").
		Find(&rows).
		Error
	return rows, err
}
