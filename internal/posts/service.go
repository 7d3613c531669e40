package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

// Service exposes article management and the public blog surface.
type Service interface {
	Create(ctx context.Context, input CreatePostInput) (*PostDTO, error)
	Update(ctx context.Context, postID uuid.UUID, input UpdatePostInput) (*PostDTO, error)
	Delete(ctx context.Context, postID uuid.UUID) error
	Publish(ctx context.Context, postID uuid.UUID) (*PostDTO, error)
	Unpublish(ctx context.Context, postID uuid.UUID) (*PostDTO, error)
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*PostDTO, error)
	List(ctx context.Context, includeDrafts bool) ([]PostDTO, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs an article service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("post repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreatePostInput) (*PostDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	post := &models.Post{
		Title:      title,
		Slug:       slugFor(title),
		Excerpt:    strings.TrimSpace(input.Excerpt),
		Body:       input.Body,
		CoverImage: strings.TrimSpace(input.CoverImage),
		Status:     enums.PostStatusDraft,
	}
	if input.Publish {
		now := s.now().UTC()
		post.Status = enums.PostStatusPublished
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an article with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert post")
	}
	return NewPostDTO(post), nil
}

func (s *service) Update(ctx context.Context, postID uuid.UUID, input UpdatePostInput) (*PostDTO, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		post.Title = title
		post.Slug = slugFor(title)
	}
	if input.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.CoverImage != nil {
		post.CoverImage = strings.TrimSpace(*input.CoverImage)
	}

	if err := s.repo.Update(ctx, post); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an article with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update post")
	}
	return NewPostDTO(post), nil
}

func (s *service) Delete(ctx context.Context, postID uuid.UUID) error {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete post")
	}
	return nil
}

func (s *service) Publish(ctx context.Context, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == enums.PostStatusPublished {
		return NewPostDTO(post), nil
	}

	now := s.now().UTC()
	post.Status = enums.PostStatusPublished
	post.PublishedAt = &now
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: publish post")
	}
	return NewPostDTO(post), nil
}

func (s *service) Unpublish(ctx context.Context, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == enums.PostStatusDraft {
		return NewPostDTO(post), nil
	}

	post.Status = enums.PostStatusDraft
	post.PublishedAt = nil
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: unpublish post")
	}
	return NewPostDTO(post), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*PostDTO, error) {
	post, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.Status != enums.PostStatusPublished && !includeDrafts {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
	}
	return NewPostDTO(post), nil
}

func (s *service) List(ctx context.Context, includeDrafts bool) ([]PostDTO, error) {
	rows, err := s.repo.List(ctx, !includeDrafts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	dtos := make([]PostDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewPostDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadPost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return post, nil
}
