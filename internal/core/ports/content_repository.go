package ports

import (
	"context"
	"time"

	"github.com/pdpi/member-portal/internal/core/domain"
)

// ListFilter carries the query parameters common to every content list.
type ListFilter struct {
	Status domain.StatusFilter
	Page   domain.PageRequest
}

// NewsSort selects the ordering of a news list.
type NewsSort string

const (
	NewsSortLatest  NewsSort = "latest"
	NewsSortPopular NewsSort = "popular"
)

// NewsFilter narrows a news list. Every non-empty field must match.
type NewsFilter struct {
	ListFilter
	Category domain.NewsCategory
	Author   string
	Search   string // substring of title, excerpt or content, case-insensitive
	Month    string // YYYY-MM of publishedAt
	Sort     NewsSort
}

// AgendaFilter narrows an agenda list.
type AgendaFilter struct {
	ListFilter
	Type     domain.AgendaType
	Upcoming bool
	Now      time.Time
}

// DirectoryFilter narrows a directory list.
type DirectoryFilter struct {
	ListFilter
	Type     domain.FacilityType
	Province string
	City     string
	Search   string // substring of name, city or province, case-insensitive
}

// NewsRepository persists news articles. FindBySlug and FindByID return
// soft-deleted records too; callers decide what to expose.
type NewsRepository interface {
	Create(ctx context.Context, n *domain.News) error
	Update(ctx context.Context, n *domain.News) error
	FindByID(ctx context.Context, id string) (*domain.News, error)
	FindBySlug(ctx context.Context, slug string) (*domain.News, error)
	// SlugInUse reports whether a non-deleted record other than exceptID owns slug.
	SlugInUse(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, filter NewsFilter) ([]*domain.News, int64, error)
	IncrementViews(ctx context.Context, id string, delta int64) error
}

type AgendaRepository interface {
	Create(ctx context.Context, a *domain.Agenda) error
	Update(ctx context.Context, a *domain.Agenda) error
	FindByID(ctx context.Context, id string) (*domain.Agenda, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Agenda, error)
	SlugInUse(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, filter AgendaFilter) ([]*domain.Agenda, int64, error)
}

type DirectoryRepository interface {
	Create(ctx context.Context, d *domain.DirectoryEntry) error
	Update(ctx context.Context, d *domain.DirectoryEntry) error
	FindByID(ctx context.Context, id string) (*domain.DirectoryEntry, error)
	FindBySlug(ctx context.Context, slug string) (*domain.DirectoryEntry, error)
	SlugInUse(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, filter DirectoryFilter) ([]*domain.DirectoryEntry, int64, error)
}
