package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
	"github.com/pdpi/member-portal/internal/pkg/token"
)

const minPasswordLength = 6

// AuthService implements login, registration and refresh-token rotation.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.RefreshTokenStore
	issuer *token.Issuer
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens ports.RefreshTokenStore, issuer *token.Issuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer, log: log, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Info().Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return result, nil
}

// Register creates a member account awaiting verification and signs it in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("email must be a valid email")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:                uuid.NewString(),
		Email:             email,
		Name:              strings.TrimSpace(in.Name),
		PasswordHash:      string(hash),
		Role:              domain.RoleMember,
		MemberID:          domain.PendingMemberID,
		OrganizationLevel: domain.LevelCabang,
		BranchID:          in.BranchID,
		Phone:             in.Phone,
		Category:          in.Category,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	result, err := s.issue(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	s.log.Info().Str("user_id", created.ID).Msg("member registered")
	return result, nil
}

// Refresh redeems a refresh token exactly once and returns a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	claims, err := s.issuer.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, err
	}

	userID, err := s.tokens.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			s.log.Warn().Str("jti", claims.ID).Msg("refresh token reuse or revoked")
		}
		return nil, err
	}
	if userID != claims.UserID {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return result, nil
}

// Logout revokes the refresh token. An unparseable or already revoked token
// is not an error: the caller is logged out either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.issuer.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil
	}
	if err := s.tokens.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("user_id", claims.UserID).Msg("logout")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, domain.Invalid("name must not be empty")
	}
	update.Apply(user)
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		return domain.Invalid(fmt.Sprintf("new password must be at least %d characters", minPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now().UTC()
	return s.users.Update(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, pair.RefreshID, user.ID, s.issuer.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &ports.AuthResult{
		Tokens: ports.TokenPair{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresAt:    pair.AccessExpiresAt,
		},
		User: user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
