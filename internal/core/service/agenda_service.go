package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// AgendaService implements the event CRUD operations.
type AgendaService struct {
	repo ports.AgendaRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewAgendaService(repo ports.AgendaRepository, log zerolog.Logger) *AgendaService {
	return &AgendaService{repo: repo, log: log, now: time.Now}
}

func (s *AgendaService) List(ctx context.Context, filter ports.AgendaFilter) (domain.Page[*domain.Agenda], error) {
	filter.ListFilter = normalizeList(filter.ListFilter, agendaPageSize)
	if filter.Upcoming && filter.Now.IsZero() {
		filter.Now = s.now().UTC()
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Agenda]{}, fmt.Errorf("list agenda: %w", err)
	}
	return newPage(items, total, filter.Page), nil
}

func (s *AgendaService) Get(ctx context.Context, key string) (*domain.Agenda, error) {
	return resolve[*domain.Agenda](ctx, s.repo, key)
}

func (s *AgendaService) Create(ctx context.Context, in ports.AgendaInput) (*domain.Agenda, error) {
	now := s.now().UTC()
	id := newID()

	a := &domain.Agenda{ID: id}
	applyAgendaInput(a, in)
	if a.Date.IsZero() {
		return nil, domain.Invalid("date is required")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, domain.Invalid("status must be draft or published")
	}

	a.Slug = domain.SlugFor(deref(in.Slug), a.Title, id)
	if err := ensureSlugFree[*domain.Agenda](ctx, s.repo, a.Slug, ""); err != nil {
		return nil, err
	}
	a.Lifecycle = domain.NewLifecycle(deref(in.Status), in.PublishedAt, now)

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create agenda: %w", err)
	}
	s.log.Info().Str("id", a.ID).Str("slug", a.Slug).Msg("agenda created")
	return a, nil
}

func (s *AgendaService) Update(ctx context.Context, id string, in ports.AgendaInput) (*domain.Agenda, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	applyAgendaInput(a, in)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		slug := domain.SlugFor(*in.Slug, a.Title, a.ID)
		if slug != a.Slug {
			if err := ensureSlugFree[*domain.Agenda](ctx, s.repo, slug, a.ID); err != nil {
				return nil, err
			}
			a.Slug = slug
		}
	}
	if err := updateLifecycle(&a.Lifecycle, in.Status, in.PublishedAt, now); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update agenda: %w", err)
	}
	return a, nil
}

func (s *AgendaService) Patch(ctx context.Context, id string, patch domain.LifecyclePatch) (*domain.Agenda, error) {
	return applyPatch[*domain.Agenda](ctx, s.repo, id, patch, s.now().UTC())
}

func (s *AgendaService) Delete(ctx context.Context, id string) (*domain.Agenda, error) {
	a, err := softDelete[*domain.Agenda](ctx, s.repo, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("id", id).Msg("agenda deleted")
	return a, nil
}

func applyAgendaInput(a *domain.Agenda, in ports.AgendaInput) {
	setIf(&a.Title, in.Title)
	setIf(&a.Description, in.Description)
	setIf(&a.Type, in.Type)
	setIf(&a.Date, in.Date)
	if in.EndDate != nil {
		t := *in.EndDate
		a.EndDate = &t
	}
	setIf(&a.Location, in.Location)
	setIf(&a.IsOnline, in.IsOnline)
	setIf(&a.SKP, in.SKP)
	setIf(&a.Quota, in.Quota)
	setIf(&a.Registered, in.Registered)
	setIf(&a.RegistrationURL, in.RegistrationURL)
	setIf(&a.Image, in.Image)
	setIf(&a.Fee, in.Fee)
}
