package ports

import (
	"context"
	"io"
	"time"

	"github.com/pdpi/member-portal/internal/core/domain"
)

// TokenPair is the result of a login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthResult bundles an issued token pair with the account it belongs to.
type AuthResult struct {
	Tokens TokenPair
	User   *domain.User
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	BranchID string
	Category string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// NewsInput is a full or partial article body. Nil fields are unset on
// create and unchanged on update.
type NewsInput struct {
	Slug        *string
	Title       *string
	Excerpt     *string
	Content     *string
	Image       *string
	Category    *domain.NewsCategory
	Tags        []string
	Author      *string
	Status      *domain.Status
	PublishedAt *time.Time
}

type AgendaInput struct {
	Slug            *string
	Title           *string
	Description     *string
	Type            *domain.AgendaType
	Date            *time.Time
	EndDate         *time.Time
	Location        *string
	IsOnline        *bool
	SKP             *float64
	Quota           *int
	Registered      *int
	RegistrationURL *string
	Image           *string
	Fee             *string
	Status          *domain.Status
	PublishedAt     *time.Time
}

type DirectoryInput struct {
	Slug             *string
	Name             *string
	Type             *domain.FacilityType
	Address          *string
	Phone            *string
	Email            *string
	Website          *string
	City             *string
	Province         *string
	HasRespirologist *bool
	Facilities       []string
	Status           *domain.Status
	PublishedAt      *time.Time
}

type NewsService interface {
	List(ctx context.Context, filter NewsFilter) (domain.Page[*domain.News], error)
	// Get resolves key as a slug first, then as an ID. Soft-deleted records are not found.
	Get(ctx context.Context, key string) (*domain.News, error)
	Create(ctx context.Context, in NewsInput) (*domain.News, error)
	Update(ctx context.Context, id string, in NewsInput) (*domain.News, error)
	Patch(ctx context.Context, id string, patch domain.LifecyclePatch) (*domain.News, error)
	Delete(ctx context.Context, id string) (*domain.News, error)
}

type AgendaService interface {
	List(ctx context.Context, filter AgendaFilter) (domain.Page[*domain.Agenda], error)
	Get(ctx context.Context, key string) (*domain.Agenda, error)
	Create(ctx context.Context, in AgendaInput) (*domain.Agenda, error)
	Update(ctx context.Context, id string, in AgendaInput) (*domain.Agenda, error)
	Patch(ctx context.Context, id string, patch domain.LifecyclePatch) (*domain.Agenda, error)
	Delete(ctx context.Context, id string) (*domain.Agenda, error)
}

type DirectoryService interface {
	List(ctx context.Context, filter DirectoryFilter) (domain.Page[*domain.DirectoryEntry], error)
	Get(ctx context.Context, key string) (*domain.DirectoryEntry, error)
	Create(ctx context.Context, in DirectoryInput) (*domain.DirectoryEntry, error)
	Update(ctx context.Context, id string, in DirectoryInput) (*domain.DirectoryEntry, error)
	Patch(ctx context.Context, id string, patch domain.LifecyclePatch) (*domain.DirectoryEntry, error)
	Delete(ctx context.Context, id string) (*domain.DirectoryEntry, error)
}

type MenuService interface {
	All(ctx context.Context) (map[domain.MenuPosition][]domain.MenuItem, error)
	ByPosition(ctx context.Context, position string) ([]domain.MenuItem, error)
	// Navigation returns the position's tree filtered for role and sorted by order.
	Navigation(ctx context.Context, position, role string) ([]domain.MenuItem, error)
	Replace(ctx context.Context, position string, items []domain.MenuItem) ([]domain.MenuItem, error)
}

type SiteService interface {
	Homepage(ctx context.Context) (domain.Homepage, error)
	UpdateHomepage(ctx context.Context, patch domain.HomepagePatch) (domain.Homepage, error)
	Profile(ctx context.Context) (domain.OrgProfile, error)
	Board(ctx context.Context, level string) ([]domain.BoardMember, error)
	DynamicContents(ctx context.Context) ([]domain.DynamicContent, error)
	// DynamicContent returns nil without error when slug has no page.
	DynamicContent(ctx context.Context, slug string) (*domain.DynamicContent, error)
	SaveDynamicContent(ctx context.Context, c domain.DynamicContent) (*domain.DynamicContent, error)
	Documents(ctx context.Context, userID string) ([]domain.Document, error)
}

// UploadInput is one multipart file part. Size is the client-declared length.
type UploadInput struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*domain.UploadedFile, error)
}

// MemberSearch filters the public directory. Name matches a substring;
// Branch and Province match whole values. All comparisons ignore case.
type MemberSearch struct {
	Name     string
	Branch   string
	Province string
	Page     domain.PageRequest
}

type MemberService interface {
	Search(ctx context.Context, q MemberSearch) (domain.Page[domain.MemberProfile], error)
	Filters(ctx context.Context) (domain.MemberFilters, error)
}
