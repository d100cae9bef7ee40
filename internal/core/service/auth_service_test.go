package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
	"github.com/pdpi/member-portal/internal/pkg/token"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

type stubTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{tokens: make(map[string]string)}
}

func (s *stubTokenStore) Save(_ context.Context, jti, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[jti] = userID
	return nil
}

func (s *stubTokenStore) Consume(_ context.Context, jti string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.tokens[jti]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.tokens, jti)
	return uid, nil
}

func (s *stubTokenStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, jti)
	return nil
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{ID: "id-" + email, Email: email, Name: "Test", PasswordHash: string(hash), Role: role}
	if _, err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func newTestAuthService() (*AuthService, *stubUserRepo, *stubTokenStore, *token.Issuer) {
	users := newStubUserRepo()
	tokens := newStubTokenStore()
	issuer := token.NewIssuer("secret", time.Minute, time.Hour)
	return NewAuthService(users, tokens, issuer, zerolog.Nop()), users, tokens, issuer
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	svc, users, tokens, issuer := newTestAuthService()
	seedUser(t, users, "admin.pusat@pdpi.or.id", "password123", domain.RoleAdminPusat)

	res, err := svc.Login(context.Background(), " Admin.Pusat@pdpi.or.id ", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User == nil || res.User.Role != domain.RoleAdminPusat {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", res.Tokens)
	}
	if !res.Tokens.ExpiresAt.After(time.Now()) {
		t.Fatalf("expiry should be in the future")
	}

	claims, err := issuer.Parse(res.Tokens.AccessToken, token.TypeAccess)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Role != domain.RoleAdminPusat {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("refresh token not stored")
	}
}

func TestAuthService_Login_Rejections(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	seedUser(t, users, "anggota@pdpi.or.id", "password123", domain.RoleMember)

	cases := map[string][2]string{
		"wrong password": {"anggota@pdpi.or.id", "nope"},
		"unknown email":  {"ghost@pdpi.or.id", "password123"},
		"empty input":    {"", ""},
	}
	for name, c := range cases {
		if _, err := svc.Login(context.Background(), c[0], c[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_CreatesPendingMember(t *testing.T) {
	svc, users, _, _ := newTestAuthService()

	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "baru@pdpi.or.id", Password: "secret1", Name: "dr. Baru", BranchID: "bdg-001",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.User.Role != domain.RoleMember || res.User.MemberID != domain.PendingMemberID {
		t.Fatalf("unexpected account: %+v", res.User)
	}
	if res.Tokens.AccessToken == "" {
		t.Fatalf("registration should sign the member in")
	}
	stored, _ := users.FindByEmail(context.Background(), "baru@pdpi.or.id")
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")) != nil {
		t.Fatalf("stored hash does not match password")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	bad := []ports.RegisterInput{
		{Email: "not-an-email", Password: "secret1", Name: "x"},
		{Email: "a@pdpi.or.id", Password: "123", Name: "x"},
		{Email: "a@pdpi.or.id", Password: "secret1", Name: "  "},
	}
	for _, in := range bad {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	seedUser(t, users, "anggota@pdpi.or.id", "password123", domain.RoleMember)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "anggota@pdpi.or.id", Password: "secret1", Name: "x"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Refresh / Logout
// ---------------------------------------------------------------------------

func TestAuthService_Refresh_RotatesOnce(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	seedUser(t, users, "anggota@pdpi.or.id", "password123", domain.RoleMember)

	login, err := svc.Login(context.Background(), "anggota@pdpi.or.id", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Tokens.RefreshToken == login.Tokens.RefreshToken {
		t.Fatalf("refresh token should rotate")
	}

	if _, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("reused refresh token must fail, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), refreshed.Tokens.RefreshToken); err != nil {
		t.Fatalf("rotated token should work: %v", err)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	seedUser(t, users, "anggota@pdpi.or.id", "password123", domain.RoleMember)
	login, _ := svc.Login(context.Background(), "anggota@pdpi.or.id", "password123")

	if _, err := svc.Refresh(context.Background(), login.Tokens.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	svc, users, tokens, _ := newTestAuthService()
	seedUser(t, users, "anggota@pdpi.or.id", "password123", domain.RoleMember)
	login, _ := svc.Login(context.Background(), "anggota@pdpi.or.id", "password123")

	if err := svc.Logout(context.Background(), login.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("refresh token still stored")
	}
	if _, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("revoked token must fail, got %v", err)
	}
	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("logout with garbage token should succeed, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Profile
// ---------------------------------------------------------------------------

func TestAuthService_UpdateProfileAndPassword(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	u := seedUser(t, users, "anggota@pdpi.or.id", "password123", domain.RoleMember)

	phone := "0812"
	updated, err := svc.UpdateProfile(context.Background(), u.ID, domain.ProfileUpdate{Phone: &phone})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Phone != "0812" || updated.Name != "Test" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	if err := svc.ChangePassword(context.Background(), u.ID, "wrong", "newpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "password123", "newpass1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "anggota@pdpi.or.id", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
