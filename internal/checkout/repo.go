package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
)

// Repository handles checkout session persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, session *models.CheckoutSession) error
	Update(ctx context.Context, session *models.CheckoutSession) error
	FindOpenByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.CheckoutSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a checkout session repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) Update(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// FindOpenByUser returns the user's live session, ignoring completed and
// expired ones.
func (r *repository) FindOpenByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = false AND expires_at > ?", userID, now).
		Order("created_at DESC").
		First(&session).
		Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
