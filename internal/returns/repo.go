package returns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Repository handles return request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.ReturnRequest) error
	Update(ctx context.Context, request *models.ReturnRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReturnRequest, error)
	ListByStatus(ctx context.Context, status enums.ReturnStatus) ([]models.ReturnRequest, error)
	ListByStatusBefore(ctx context.Context, status enums.ReturnStatus, before time.Time) ([]models.ReturnRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a return request repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.ReturnRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) Update(ctx context.Context, request *models.ReturnRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	var request models.ReturnRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReturnRequest, error) {
	var rows []models.ReturnRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

func (r *repository) ListByStatus(ctx context.Context, status enums.ReturnStatus) ([]models.ReturnRequest, error) {
	var rows []models.ReturnRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListByStatusBefore returns requests in the given status last touched before
// the cutoff. The simulation worker walks the refund pipeline off it.
func (r *repository) ListByStatusBefore(ctx context.Context, status enums.ReturnStatus, before time.Time) ([]models.ReturnRequest, error) {
	var rows []models.ReturnRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", status, before).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}
