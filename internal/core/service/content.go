package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// Default page sizes per collection.
const (
	newsPageSize      = 9
	agendaPageSize    = 12
	directoryPageSize = 20
)

// recordRepo is the subset of every content repository the shared lifecycle
// helpers need.
type recordRepo[T domain.Record] interface {
	FindByID(ctx context.Context, id string) (T, error)
	FindBySlug(ctx context.Context, slug string) (T, error)
	SlugInUse(ctx context.Context, slug, exceptID string) (bool, error)
	Update(ctx context.Context, rec T) error
}

func newID() string {
	return uuid.NewString()
}

// resolve looks key up as a slug, then as an ID, hiding soft-deleted records.
func resolve[T domain.Record](ctx context.Context, repo recordRepo[T], key string) (T, error) {
	var zero T
	rec, err := repo.FindBySlug(ctx, key)
	if errors.Is(err, domain.ErrContentNotFound) {
		rec, err = repo.FindByID(ctx, key)
	}
	if err != nil {
		return zero, err
	}
	if rec.State().Deleted() {
		return zero, domain.ErrContentNotFound
	}
	return rec, nil
}

// ensureSlugFree fails with ErrSlugTaken when another live record owns slug.
func ensureSlugFree[T domain.Record](ctx context.Context, repo recordRepo[T], slug, exceptID string) error {
	if slug == "" {
		return domain.Invalid("slug could not be generated")
	}
	taken, err := repo.SlugInUse(ctx, slug, exceptID)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: %q", domain.ErrSlugTaken, slug)
	}
	return nil
}

// applyPatch performs a lifecycle patch. Restoring a record re-checks its
// slug, since another record may have claimed it while it was deleted.
func applyPatch[T domain.Record](ctx context.Context, repo recordRepo[T], id string, patch domain.LifecyclePatch, now time.Time) (T, error) {
	var zero T
	rec, err := repo.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return zero, domain.Invalid("status must be draft or published")
	}
	if patch.Restore && rec.State().Deleted() {
		if err := ensureSlugFree(ctx, repo, rec.RecordSlug(), rec.RecordID()); err != nil {
			return zero, err
		}
	}
	patch.Apply(rec.State(), now)
	if err := repo.Update(ctx, rec); err != nil {
		return zero, fmt.Errorf("patch %s: %w", id, err)
	}
	return rec, nil
}

// softDelete stamps deletedAt. Deleting an already deleted record is a no-op
// that still returns it.
func softDelete[T domain.Record](ctx context.Context, repo recordRepo[T], id string, now time.Time) (T, error) {
	var zero T
	rec, err := repo.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if rec.State().Deleted() {
		return rec, nil
	}
	rec.State().SoftDelete(now)
	if err := repo.Update(ctx, rec); err != nil {
		return zero, fmt.Errorf("delete %s: %w", id, err)
	}
	return rec, nil
}

// updateLifecycle folds the status and publishedAt fields of a PUT body into
// the record.
func updateLifecycle(l *domain.Lifecycle, status *domain.Status, publishedAt *time.Time, now time.Time) error {
	if status != nil {
		if !status.Valid() {
			return domain.Invalid("status must be draft or published")
		}
		if *status != l.Status {
			l.SetStatus(*status, now)
		}
	}
	if publishedAt != nil {
		t := *publishedAt
		l.PublishedAt = &t
	}
	l.UpdatedAt = now
	return nil
}

func normalizeList(f ports.ListFilter, pageSize int) ports.ListFilter {
	f.Page = f.Page.Normalize(pageSize)
	return f
}

func newPage[T any](items []T, total int64, req domain.PageRequest) domain.Page[T] {
	if items == nil {
		items = []T{}
	}
	return domain.Page[T]{Items: items, Pagination: domain.NewPageInfo(req, total)}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
