package posts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
)

type stubPostRepo struct {
	byID map[uuid.UUID]*models.Post
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{byID: map[uuid.UUID]*models.Post{}}
}

func (s *stubPostRepo) Create(_ context.Context, post *models.Post) error {
	post.ID = uuid.New()
	s.byID[post.ID] = post
	return nil
}

func (s *stubPostRepo) Update(_ context.Context, post *models.Post) error {
	s.byID[post.ID] = post
	return nil
}

func (s *stubPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubPostRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	if post, ok := s.byID[id]; ok {
		copied := *post
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPostRepo) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, post := range s.byID {
		if post.Slug == slug {
			copied := *post
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPostRepo) List(_ context.Context, publishedOnly bool) ([]models.Post, error) {
	var rows []models.Post
	for _, post := range s.byID {
		if publishedOnly && post.Status != enums.PostStatusPublished {
			continue
		}
		rows = append(rows, *post)
	}
	return rows, nil
}

func TestCreatePostDefaultsToDraft(t *testing.T) {
	repo := newStubPostRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreatePostInput{Title: "Choosing a GNSS Base Station"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Status != enums.PostStatusDraft {
		t.Fatalf("expected draft, got %s", dto.Status)
	}
	if dto.Slug != "choosing-a-gnss-base-station" {
		t.Fatalf("unexpected slug %q", dto.Slug)
	}
	if dto.PublishedAt != nil {
		t.Fatal("draft must not carry a publish timestamp")
	}
}

func TestCreatePostWithImmediatePublish(t *testing.T) {
	svc, _ := NewService(newStubPostRepo())
	dto, err := svc.Create(context.Background(), CreatePostInput{Title: "Total Station Calibration", Publish: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Status != enums.PostStatusPublished || dto.PublishedAt == nil {
		t.Fatalf("expected published with timestamp, got %+v", dto)
	}
}

func TestPublishLifecycle(t *testing.T) {
	repo := newStubPostRepo()
	svc, _ := NewService(repo)

	created, _ := svc.Create(context.Background(), CreatePostInput{Title: "RTK vs PPK Workflows"})

	published, err := svc.Publish(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.Status != enums.PostStatusPublished || published.PublishedAt == nil {
		t.Fatalf("expected published, got %+v", published)
	}

	// Publishing twice keeps the original timestamp.
	again, err := svc.Publish(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Publish again: %v", err)
	}
	if !again.PublishedAt.Equal(*published.PublishedAt) {
		t.Fatal("republish must not move the publish timestamp")
	}

	draft, err := svc.Unpublish(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Unpublish: %v", err)
	}
	if draft.Status != enums.PostStatusDraft || draft.PublishedAt != nil {
		t.Fatalf("expected draft with cleared timestamp, got %+v", draft)
	}
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	repo := newStubPostRepo()
	svc, _ := NewService(repo)

	created, _ := svc.Create(context.Background(), CreatePostInput{Title: "Level Loop Closure"})

	if _, err := svc.GetBySlug(context.Background(), created.Slug, false); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected draft hidden, got %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), created.Slug, true); err != nil {
		t.Fatalf("admin read should see drafts: %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := newStubPostRepo()
	svc, _ := NewService(repo)

	svc.Create(context.Background(), CreatePostInput{Title: "Draft Article"})
	svc.Create(context.Background(), CreatePostInput{Title: "Published Article", Publish: true})

	public, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(public) != 1 || public[0].Status != enums.PostStatusPublished {
		t.Fatalf("expected only the published article, got %+v", public)
	}

	all, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both articles, got %d", len(all))
	}
}

func TestCreatePostRequiresTitle(t *testing.T) {
	svc, _ := NewService(newStubPostRepo())
	if _, err := svc.Create(context.Background(), CreatePostInput{Title: "  "}); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
