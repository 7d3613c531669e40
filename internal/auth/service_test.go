package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordicgeo/geoshop-backend/internal/users"
	pkgAuth "github.com/nordicgeo/geoshop-backend/pkg/auth"
	"github.com/nordicgeo/geoshop-backend/pkg/config"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	"github.com/nordicgeo/geoshop-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	created []users.CreateUserDTO
}

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = append(s.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	if s.byEmail == nil {
		s.byEmail = map[string]*models.User{}
	}
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionManager struct {
	generated map[string]string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	if s.generated == nil {
		s.generated = map[string]string{}
	}
	token := "refresh-" + accessID
	s.generated[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	if s.generated[oldAccessID] != provided {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}
	delete(s.generated, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	if s.generated == nil {
		s.generated = map[string]string{}
	}
	s.generated[newID] = token
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.generated, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "geoshop-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, role enums.UserRole) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Sari",
		LastName:     "Wijaya",
		Role:         role,
	}
	if repo.byEmail == nil {
		repo.byEmail = map[string]*models.User{}
	}
	repo.byEmail[email] = user
	return user
}

func TestRegisterIssuesTokens(t *testing.T) {
	repo := &stubUserRepo{}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "Buyer@Example.com",
		Password:  "correct-horse",
		FirstName: "Budi",
		LastName:  "Santoso",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.User.Email != "buyer@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.User.Email)
	}
	if resp.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %q", resp.User.Role)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatal("claims user id mismatch")
	}
	if _, ok := sessions.generated[claims.ID]; !ok {
		t.Fatal("expected refresh session keyed by jti")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "buyer@example.com", "correct-horse", enums.UserRoleCustomer)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "buyer@example.com",
		Password:  "correct-horse",
		FirstName: "Budi",
		LastName:  "Santoso",
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSessionManager{})
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "buyer@example.com",
		Password:  "short",
		FirstName: "Budi",
		LastName:  "Santoso",
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginSuccessAndFailure(t *testing.T) {
	repo := &stubUserRepo{}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "buyer@example.com", "correct-horse", enums.UserRoleCustomer)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Buyer@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), invalidCredentialsMessage) {
		t.Fatalf("expected generic message, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := &stubUserRepo{}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "buyer@example.com", "correct-horse", enums.UserRoleCustomer)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == login.AccessToken {
		t.Fatal("expected a new access token")
	}
	if pair.RefreshToken == login.RefreshToken {
		t.Fatal("expected a new refresh token")
	}

	// The old pair must not rotate twice.
	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	}); err == nil {
		t.Fatal("expected second rotation to fail")
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSessionManager{})
	_, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: "not-a-jwt", RefreshToken: "x"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := &stubUserRepo{}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "buyer@example.com", "correct-horse", enums.UserRoleCustomer)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != claims.ID {
		t.Fatalf("expected session revoked for %s, got %v", claims.ID, sessions.revoked)
	}
}
