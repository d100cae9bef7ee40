package ports

import (
	"context"

	"github.com/pdpi/member-portal/internal/core/domain"
)

// UserRepository defines persistence operations for portal accounts.
// Lookups by email are case-insensitive.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// MemberRepository lists the accounts eligible for the public directory.
type MemberRepository interface {
	// ListMembers returns every account with a verified member ID.
	ListMembers(ctx context.Context) ([]*domain.User, error)
}
