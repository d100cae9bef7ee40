package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// DirectoryService implements the facility directory CRUD operations.
// Entries are slugged from their name.
type DirectoryService struct {
	repo ports.DirectoryRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewDirectoryService(repo ports.DirectoryRepository, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{repo: repo, log: log, now: time.Now}
}

func (s *DirectoryService) List(ctx context.Context, filter ports.DirectoryFilter) (domain.Page[*domain.DirectoryEntry], error) {
	filter.ListFilter = normalizeList(filter.ListFilter, directoryPageSize)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.DirectoryEntry]{}, fmt.Errorf("list directory: %w", err)
	}
	return newPage(items, total, filter.Page), nil
}

func (s *DirectoryService) Get(ctx context.Context, key string) (*domain.DirectoryEntry, error) {
	return resolve[*domain.DirectoryEntry](ctx, s.repo, key)
}

func (s *DirectoryService) Create(ctx context.Context, in ports.DirectoryInput) (*domain.DirectoryEntry, error) {
	now := s.now().UTC()
	id := newID()

	d := &domain.DirectoryEntry{ID: id}
	applyDirectoryInput(d, in)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, domain.Invalid("status must be draft or published")
	}

	d.Slug = domain.SlugFor(deref(in.Slug), d.Name, id)
	if err := ensureSlugFree[*domain.DirectoryEntry](ctx, s.repo, d.Slug, ""); err != nil {
		return nil, err
	}
	status := deref(in.Status)
	if status == "" {
		status = domain.StatusPublished
	}
	d.Lifecycle = domain.NewLifecycle(status, in.PublishedAt, now)

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create directory entry: %w", err)
	}
	s.log.Info().Str("id", d.ID).Str("slug", d.Slug).Msg("directory entry created")
	return d, nil
}

func (s *DirectoryService) Update(ctx context.Context, id string, in ports.DirectoryInput) (*domain.DirectoryEntry, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	applyDirectoryInput(d, in)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		slug := domain.SlugFor(*in.Slug, d.Name, d.ID)
		if slug != d.Slug {
			if err := ensureSlugFree[*domain.DirectoryEntry](ctx, s.repo, slug, d.ID); err != nil {
				return nil, err
			}
			d.Slug = slug
		}
	}
	if err := updateLifecycle(&d.Lifecycle, in.Status, in.PublishedAt, now); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update directory entry: %w", err)
	}
	return d, nil
}

func (s *DirectoryService) Patch(ctx context.Context, id string, patch domain.LifecyclePatch) (*domain.DirectoryEntry, error) {
	return applyPatch[*domain.DirectoryEntry](ctx, s.repo, id, patch, s.now().UTC())
}

func (s *DirectoryService) Delete(ctx context.Context, id string) (*domain.DirectoryEntry, error) {
	d, err := softDelete[*domain.DirectoryEntry](ctx, s.repo, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("id", id).Msg("directory entry deleted")
	return d, nil
}

func applyDirectoryInput(d *domain.DirectoryEntry, in ports.DirectoryInput) {
	setIf(&d.Name, in.Name)
	setIf(&d.Type, in.Type)
	setIf(&d.Address, in.Address)
	setIf(&d.Phone, in.Phone)
	setIf(&d.Email, in.Email)
	setIf(&d.Website, in.Website)
	setIf(&d.City, in.City)
	setIf(&d.Province, in.Province)
	setIf(&d.HasRespirologist, in.HasRespirologist)
	if in.Facilities != nil {
		d.Facilities = in.Facilities
	}
}
