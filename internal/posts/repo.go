package posts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Repository handles article persistence.
type Repository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, publishedOnly bool) ([]models.Post, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an article repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repository) List(ctx context.Context, publishedOnly bool) ([]models.Post, error) {
	qb := r.db.WithContext(ctx).Model(&models.Post{})
	if publishedOnly {
		qb = qb.Where("status = ?", enums.PostStatusPublished).Order("published_at DESC")
	} else {
		qb = qb.Order("created_at DESC")
	}
	var rows []models.Post
	err := qb.Find(&rows).Error
	return rows, err
}
