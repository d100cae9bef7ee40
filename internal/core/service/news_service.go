package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// NewsService implements the news CRUD operations.
type NewsService struct {
	repo ports.NewsRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewNewsService(repo ports.NewsRepository, log zerolog.Logger) *NewsService {
	return &NewsService{repo: repo, log: log, now: time.Now}
}

func (s *NewsService) List(ctx context.Context, filter ports.NewsFilter) (domain.Page[*domain.News], error) {
	filter.ListFilter = normalizeList(filter.ListFilter, newsPageSize)
	if filter.Month != "" {
		if _, err := time.Parse("2006-01", filter.Month); err != nil {
			return domain.Page[*domain.News]{}, domain.Invalid("month must be formatted as YYYY-MM")
		}
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.News]{}, fmt.Errorf("list news: %w", err)
	}
	return newPage(items, total, filter.Page), nil
}

func (s *NewsService) Get(ctx context.Context, key string) (*domain.News, error) {
	return resolve[*domain.News](ctx, s.repo, key)
}

func (s *NewsService) Create(ctx context.Context, in ports.NewsInput) (*domain.News, error) {
	now := s.now().UTC()
	id := newID()

	n := &domain.News{
		ID:       id,
		Title:    deref(in.Title),
		Excerpt:  deref(in.Excerpt),
		Content:  deref(in.Content),
		Image:    deref(in.Image),
		Category: deref(in.Category),
		Tags:     in.Tags,
		Author:   deref(in.Author),
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Author == "" {
		n.Author = domain.DefaultAuthor
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, domain.Invalid("status must be draft or published")
	}

	n.Slug = domain.SlugFor(deref(in.Slug), n.Title, id)
	if err := ensureSlugFree[*domain.News](ctx, s.repo, n.Slug, ""); err != nil {
		return nil, err
	}
	n.Lifecycle = domain.NewLifecycle(deref(in.Status), in.PublishedAt, now)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	s.log.Info().Str("id", n.ID).Str("slug", n.Slug).Str("status", string(n.Status)).Msg("news created")
	return n, nil
}

func (s *NewsService) Update(ctx context.Context, id string, in ports.NewsInput) (*domain.News, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	setIf(&n.Title, in.Title)
	setIf(&n.Excerpt, in.Excerpt)
	setIf(&n.Content, in.Content)
	setIf(&n.Image, in.Image)
	setIf(&n.Category, in.Category)
	setIf(&n.Author, in.Author)
	if in.Tags != nil {
		n.Tags = in.Tags
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}

	if in.Slug != nil {
		slug := domain.SlugFor(*in.Slug, n.Title, n.ID)
		if slug != n.Slug {
			if err := ensureSlugFree[*domain.News](ctx, s.repo, slug, n.ID); err != nil {
				return nil, err
			}
			n.Slug = slug
		}
	}
	if err := updateLifecycle(&n.Lifecycle, in.Status, in.PublishedAt, now); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("update news: %w", err)
	}
	return n, nil
}

func (s *NewsService) Patch(ctx context.Context, id string, patch domain.LifecyclePatch) (*domain.News, error) {
	return applyPatch[*domain.News](ctx, s.repo, id, patch, s.now().UTC())
}

func (s *NewsService) Delete(ctx context.Context, id string) (*domain.News, error) {
	n, err := softDelete[*domain.News](ctx, s.repo, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("id", id).Msg("news deleted")
	return n, nil
}
