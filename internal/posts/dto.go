package posts

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/internal/products"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// CreatePostInput holds the payload to create an article.
type CreatePostInput struct {
	Title      string `json:"title" validate:"required"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body"`
	CoverImage string `json:"cover_image"`
	Publish    bool   `json:"publish"`
}

// UpdatePostInput holds optional mutation values for an article.
type UpdatePostInput struct {
	Title      *string `json:"title,omitempty"`
	Excerpt    *string `json:"excerpt,omitempty"`
	Body       *string `json:"body,omitempty"`
	CoverImage *string `json:"cover_image,omitempty"`
}

// PostDTO is the article shape returned to clients.
type PostDTO struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Excerpt     string           `json:"excerpt"`
	Body        string           `json:"body"`
	CoverImage  string           `json:"cover_image"`
	Status      enums.PostStatus `json:"status"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewPostDTO maps a post row into its public DTO.
func NewPostDTO(post *models.Post) *PostDTO {
	if post == nil {
		return nil
	}
	return &PostDTO{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Excerpt:     post.Excerpt,
		Body:        post.Body,
		CoverImage:  post.CoverImage,
		Status:      post.Status,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// slugFor reuses the catalog slug rules for article titles.
func slugFor(title string) string {
	return products.Slugify(title)
}
