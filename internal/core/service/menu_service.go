package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// MenuService serves and edits the navigation trees.
type MenuService struct {
	repo ports.MenuRepository
	log  zerolog.Logger
}

func NewMenuService(repo ports.MenuRepository, log zerolog.Logger) *MenuService {
	return &MenuService{repo: repo, log: log}
}

func (s *MenuService) All(ctx context.Context) (map[domain.MenuPosition][]domain.MenuItem, error) {
	out := make(map[domain.MenuPosition][]domain.MenuItem, len(domain.MenuPositions))
	for _, p := range domain.MenuPositions {
		items, err := s.repo.Get(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("load %s menu: %w", p, err)
		}
		out[p] = nonNil(items)
	}
	return out, nil
}

func (s *MenuService) ByPosition(ctx context.Context, position string) ([]domain.MenuItem, error) {
	p, err := domain.ParseMenuPosition(position)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Get(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("load %s menu: %w", p, err)
	}
	return nonNil(items), nil
}

func (s *MenuService) Navigation(ctx context.Context, position, role string) ([]domain.MenuItem, error) {
	items, err := s.ByPosition(ctx, position)
	if err != nil {
		return nil, err
	}
	return nonNil(domain.SortMenu(domain.FilterMenu(items, role))), nil
}

// Replace swaps the whole tree of a position. Fixed items of the current
// tree must survive and keep their route and slug.
func (s *MenuService) Replace(ctx context.Context, position string, items []domain.MenuItem) ([]domain.MenuItem, error) {
	p, err := domain.ParseMenuPosition(position)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return nil, domain.Invalid("menus are required")
	}

	current, err := s.repo.Get(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("load %s menu: %w", p, err)
	}
	if err := domain.ProtectFixed(items, current); err != nil {
		return nil, err
	}
	stampPosition(items, p, "")

	if err := s.repo.Replace(ctx, p, items); err != nil {
		return nil, fmt.Errorf("save %s menu: %w", p, err)
	}
	s.log.Info().Str("position", string(p)).Int("items", len(items)).Msg("menu replaced")
	return items, nil
}

func stampPosition(items []domain.MenuItem, p domain.MenuPosition, parentID string) {
	for i := range items {
		items[i].Position = p
		if parentID != "" {
			items[i].ParentID = parentID
		}
		stampPosition(items[i].Children, p, items[i].ID)
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
