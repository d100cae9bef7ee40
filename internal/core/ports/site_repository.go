package ports

import (
	"context"

	"github.com/pdpi/member-portal/internal/core/domain"
)

// MenuRepository stores one menu tree per position.
type MenuRepository interface {
	Get(ctx context.Context, position domain.MenuPosition) ([]domain.MenuItem, error)
	Replace(ctx context.Context, position domain.MenuPosition, items []domain.MenuItem) error
}

// SiteRepository stores the singleton and low-volume site content.
type SiteRepository interface {
	Homepage(ctx context.Context) (domain.Homepage, error)
	SaveHomepage(ctx context.Context, h domain.Homepage) error
	Profile(ctx context.Context) (domain.OrgProfile, error)
	Board(ctx context.Context, level domain.OrganizationLevel) ([]domain.BoardMember, error)
	DynamicContents(ctx context.Context) ([]domain.DynamicContent, error)
	// DynamicContent returns domain.ErrContentNotFound when slug has no page.
	DynamicContent(ctx context.Context, slug string) (*domain.DynamicContent, error)
	UpsertDynamicContent(ctx context.Context, c domain.DynamicContent) error
	Documents(ctx context.Context, userID string) ([]domain.Document, error)
}

// FileStore persists uploaded blobs under a relative key such as "2025/03/ab12_photo.png".
type FileStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, data []byte) error
	URL(key string) string
}

// SiteSeed is the static site content loaded at startup. Documents are keyed
// by owner user ID; the "" key holds documents shown to every member.
type SiteSeed struct {
	Homepage  domain.Homepage
	Profile   domain.OrgProfile
	Board     []domain.BoardMember
	Pages     []domain.DynamicContent
	Documents map[string][]domain.Document
}

// SiteSeeder loads the static site content into a SiteRepository.
type SiteSeeder interface {
	SeedSite(ctx context.Context, seed SiteSeed) error
}
