package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// MenuRepository implements ports.MenuRepository in memory.
type MenuRepository struct {
	mu    sync.RWMutex
	trees map[domain.MenuPosition][]domain.MenuItem
}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{trees: make(map[domain.MenuPosition][]domain.MenuItem)}
}

func (r *MenuRepository) Get(_ context.Context, p domain.MenuPosition) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMenu(r.trees[p]), nil
}

func (r *MenuRepository) Replace(_ context.Context, p domain.MenuPosition, items []domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees[p] = cloneMenu(items)
	return nil
}

func cloneMenu(items []domain.MenuItem) []domain.MenuItem {
	if items == nil {
		return nil
	}
	out := make([]domain.MenuItem, len(items))
	for i, it := range items {
		it.Roles = slices.Clone(it.Roles)
		it.Children = cloneMenu(it.Children)
		out[i] = it
	}
	return out
}

// SiteRepository implements ports.SiteRepository in memory.
type SiteRepository struct {
	mu        sync.RWMutex
	homepage  domain.Homepage
	profile   domain.OrgProfile
	board     []domain.BoardMember
	pages     map[string]domain.DynamicContent
	documents map[string][]domain.Document
}

func NewSiteRepository() *SiteRepository {
	return &SiteRepository{
		pages:     make(map[string]domain.DynamicContent),
		documents: make(map[string][]domain.Document),
	}
}

// SeedSite replaces the whole site content with seed.
func (r *SiteRepository) SeedSite(_ context.Context, seed ports.SiteSeed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.homepage = seed.Homepage
	r.profile = seed.Profile
	r.board = slices.Clone(seed.Board)
	r.pages = make(map[string]domain.DynamicContent, len(seed.Pages))
	for _, p := range seed.Pages {
		p.Slug = domain.NormalizeContentSlug(p.Slug)
		r.pages[p.Slug] = p
	}
	r.documents = make(map[string][]domain.Document, len(seed.Documents))
	for uid, docs := range seed.Documents {
		r.documents[uid] = slices.Clone(docs)
	}
	return nil
}

func (r *SiteRepository) Homepage(context.Context) (domain.Homepage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h := r.homepage
	h.Hero.Images = slices.Clone(h.Hero.Images)
	h.Stats = slices.Clone(h.Stats)
	h.Features = slices.Clone(h.Features)
	return h, nil
}

func (r *SiteRepository) SaveHomepage(_ context.Context, h domain.Homepage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.homepage = h
	return nil
}

func (r *SiteRepository) Profile(context.Context) (domain.OrgProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profile, nil
}

func (r *SiteRepository) Board(_ context.Context, level domain.OrganizationLevel) ([]domain.BoardMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.BoardMember, 0, len(r.board))
	for _, m := range r.board {
		if level == "" || m.Level == level {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *SiteRepository) DynamicContents(context.Context) ([]domain.DynamicContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DynamicContent, 0, len(r.pages))
	for _, p := range r.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *SiteRepository) DynamicContent(_ context.Context, slug string) (*domain.DynamicContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[slug]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return &p, nil
}

func (r *SiteRepository) UpsertDynamicContent(_ context.Context, c domain.DynamicContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[c.Slug] = c
	return nil
}

// Documents returns the shared documents followed by those owned by userID.
func (r *SiteRepository) Documents(_ context.Context, userID string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.documents[""])
	if userID != "" {
		out = append(out, r.documents[userID]...)
	}
	return out, nil
}
