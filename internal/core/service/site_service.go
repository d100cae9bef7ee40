package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// SiteService serves the homepage, organization profile, board, dynamic
// pages and member documents.
type SiteService struct {
	repo ports.SiteRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewSiteService(repo ports.SiteRepository, log zerolog.Logger) *SiteService {
	return &SiteService{repo: repo, log: log, now: time.Now}
}

func (s *SiteService) Homepage(ctx context.Context) (domain.Homepage, error) {
	return s.repo.Homepage(ctx)
}

func (s *SiteService) UpdateHomepage(ctx context.Context, patch domain.HomepagePatch) (domain.Homepage, error) {
	current, err := s.repo.Homepage(ctx)
	if err != nil {
		return domain.Homepage{}, fmt.Errorf("load homepage: %w", err)
	}
	next := patch.Apply(current)
	if err := s.repo.SaveHomepage(ctx, next); err != nil {
		return domain.Homepage{}, fmt.Errorf("save homepage: %w", err)
	}
	s.log.Info().Msg("homepage updated")
	return next, nil
}

func (s *SiteService) Profile(ctx context.Context) (domain.OrgProfile, error) {
	return s.repo.Profile(ctx)
}

// Board lists board members, optionally restricted to one organization level.
func (s *SiteService) Board(ctx context.Context, level string) ([]domain.BoardMember, error) {
	lvl := domain.OrganizationLevel(level)
	switch lvl {
	case "", domain.LevelPusat, domain.LevelWilayah, domain.LevelCabang:
	default:
		return nil, domain.Invalid("level must be one of pusat, wilayah, cabang")
	}
	members, err := s.repo.Board(ctx, lvl)
	if err != nil {
		return nil, err
	}
	return nonNil(members), nil
}

func (s *SiteService) DynamicContents(ctx context.Context) ([]domain.DynamicContent, error) {
	items, err := s.repo.DynamicContents(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (s *SiteService) DynamicContent(ctx context.Context, slug string) (*domain.DynamicContent, error) {
	c, err := s.repo.DynamicContent(ctx, domain.NormalizeContentSlug(slug))
	if errors.Is(err, domain.ErrContentNotFound) {
		return nil, nil
	}
	return c, err
}

// SaveDynamicContent creates or replaces the page at c.Slug.
func (s *SiteService) SaveDynamicContent(ctx context.Context, c domain.DynamicContent) (*domain.DynamicContent, error) {
	c.Slug = domain.NormalizeContentSlug(c.Slug)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.UpsertDynamicContent(ctx, c); err != nil {
		return nil, fmt.Errorf("save dynamic content: %w", err)
	}
	s.log.Info().Str("slug", c.Slug).Bool("html", c.HTML != "").Msg("dynamic content saved")
	return &c, nil
}

func (s *SiteService) Documents(ctx context.Context, userID string) ([]domain.Document, error) {
	docs, err := s.repo.Documents(ctx, userID)
	if err != nil {
		return nil, err
	}
	return nonNil(docs), nil
}
