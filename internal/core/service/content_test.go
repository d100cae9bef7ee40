package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository shared by the content service tests
// ---------------------------------------------------------------------------

type stubRecords[T domain.Record] struct {
	mu    sync.Mutex
	order []string
	byID  map[string]T
	clone func(T) T
}

func newStubRecords[T domain.Record](clone func(T) T) *stubRecords[T] {
	return &stubRecords[T]{byID: make(map[string]T), clone: clone}
}

func (r *stubRecords[T]) Create(_ context.Context, rec T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.RecordID()] = r.clone(rec)
	r.order = append([]string{rec.RecordID()}, r.order...)
	return nil
}

func (r *stubRecords[T]) Update(_ context.Context, rec T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.RecordID()]; !ok {
		return domain.ErrContentNotFound
	}
	r.byID[rec.RecordID()] = r.clone(rec)
	return nil
}

func (r *stubRecords[T]) FindByID(_ context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, domain.ErrContentNotFound
	}
	return r.clone(rec), nil
}

func (r *stubRecords[T]) FindBySlug(_ context.Context, slug string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted T
	found := false
	for _, id := range r.order {
		rec := r.byID[id]
		if rec.RecordSlug() != slug {
			continue
		}
		if !rec.State().Deleted() {
			return r.clone(rec), nil
		}
		deleted, found = rec, true
	}
	if found {
		return r.clone(deleted), nil
	}
	var zero T
	return zero, domain.ErrContentNotFound
}

func (r *stubRecords[T]) SlugInUse(_ context.Context, slug, exceptID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.byID {
		if id != exceptID && rec.RecordSlug() == slug && !rec.State().Deleted() {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRecords[T]) list(f ports.ListFilter) ([]T, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []T
	for _, id := range r.order {
		if rec := r.byID[id]; rec.State().Matches(f.Status) {
			matched = append(matched, r.clone(rec))
		}
	}
	page := domain.Paginate(matched, f.Page)
	return page.Items, page.Pagination.Total, nil
}

type stubNewsRepo struct {
	*stubRecords[*domain.News]
}

func newStubNewsRepo() *stubNewsRepo {
	return &stubNewsRepo{newStubRecords(func(n *domain.News) *domain.News { c := *n; return &c })}
}

func (r *stubNewsRepo) List(_ context.Context, f ports.NewsFilter) ([]*domain.News, int64, error) {
	return r.list(f.ListFilter)
}

func (r *stubNewsRepo) IncrementViews(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return domain.ErrContentNotFound
	}
	n.Views += delta
	return nil
}

type stubAgendaRepo struct {
	*stubRecords[*domain.Agenda]
}

func (r *stubAgendaRepo) List(_ context.Context, f ports.AgendaFilter) ([]*domain.Agenda, int64, error) {
	return r.list(f.ListFilter)
}

type stubDirectoryRepo struct {
	*stubRecords[*domain.DirectoryEntry]
}

func (r *stubDirectoryRepo) List(_ context.Context, f ports.DirectoryFilter) ([]*domain.DirectoryEntry, int64, error) {
	return r.list(f.ListFilter)
}

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var clock0 = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func newTestNewsService() (*NewsService, *stubNewsRepo) {
	repo := newStubNewsRepo()
	svc := NewNewsService(repo, zerolog.Nop())
	svc.now = fixedClock(clock0)
	return svc, repo
}

// ---------------------------------------------------------------------------
// News: create
// ---------------------------------------------------------------------------

func TestNewsService_Create_GeneratesSlugAndDefaults(t *testing.T) {
	svc, _ := newTestNewsService()

	n, err := svc.Create(context.Background(), ports.NewsInput{
		Title:   ptr("Hari Paru Sedunia 2025!"),
		Content: ptr("body"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Slug != "hari-paru-sedunia-2025" {
		t.Fatalf("unexpected slug %q", n.Slug)
	}
	if n.Status != domain.StatusDraft || n.PublishedAt != nil {
		t.Fatalf("expected unpublished draft, got %+v", n.Lifecycle)
	}
	if n.Author != domain.DefaultAuthor || n.Tags == nil {
		t.Fatalf("defaults not applied: author=%q tags=%v", n.Author, n.Tags)
	}
	if n.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestNewsService_Create_PublishedIsStamped(t *testing.T) {
	svc, _ := newTestNewsService()

	n, err := svc.Create(context.Background(), ports.NewsInput{
		Title: ptr("Rilis"), Excerpt: ptr("short"), Status: ptr(domain.StatusPublished),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.PublishedAt == nil || !n.PublishedAt.Equal(clock0) {
		t.Fatalf("publishedAt not stamped: %v", n.PublishedAt)
	}
}

func TestNewsService_Create_Validation(t *testing.T) {
	svc, _ := newTestNewsService()

	cases := []ports.NewsInput{
		{Content: ptr("no title")},
		{Title: ptr("no body")},
		{Title: ptr("bad status"), Content: ptr("x"), Status: ptr(domain.Status("archived"))},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	}
}

func TestNewsService_Create_SlugConflict(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()

	first, err := svc.Create(ctx, ports.NewsInput{Title: ptr("Same Title"), Content: ptr("a")})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, ports.NewsInput{Title: ptr("same   title"), Content: ptr("b")}); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	if _, err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Create(ctx, ports.NewsInput{Title: ptr("Same Title"), Content: ptr("c")}); err != nil {
		t.Fatalf("slug of a deleted article should be reusable: %v", err)
	}
}

// ---------------------------------------------------------------------------
// News: update / patch / delete
// ---------------------------------------------------------------------------

func TestNewsService_Update_MergesAndPublishes(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()
	n, _ := svc.Create(ctx, ports.NewsInput{Title: ptr("Draft"), Content: ptr("v1"), Category: ptr(domain.CategoryUmum)})

	later := clock0.Add(time.Hour)
	svc.now = fixedClock(later)
	updated, err := svc.Update(ctx, n.ID, ports.NewsInput{Content: ptr("v2"), Status: ptr(domain.StatusPublished)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Draft" || updated.Content != "v2" || updated.Category != domain.CategoryUmum {
		t.Fatalf("fields not merged: %+v", updated)
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(later) {
		t.Fatalf("publishing should stamp publishedAt")
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt not bumped")
	}
}

func TestNewsService_Update_SlugConflict(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, ports.NewsInput{Title: ptr("Alpha"), Content: ptr("a")})
	beta, _ := svc.Create(ctx, ports.NewsInput{Title: ptr("Beta"), Content: ptr("b")})

	if _, err := svc.Update(ctx, beta.ID, ports.NewsInput{Slug: ptr("alpha")}); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
	if _, err := svc.Update(ctx, beta.ID, ports.NewsInput{Slug: ptr("Beta")}); err != nil {
		t.Fatalf("keeping its own slug must not conflict: %v", err)
	}
}

func TestNewsService_PatchStatus(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()
	n, _ := svc.Create(ctx, ports.NewsInput{Title: ptr("P"), Content: ptr("x"), Status: ptr(domain.StatusPublished)})

	got, err := svc.Patch(ctx, n.ID, domain.LifecyclePatch{Status: ptr(domain.StatusDraft)})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got.Status != domain.StatusDraft || got.PublishedAt != nil {
		t.Fatalf("draft should clear publishedAt: %+v", got.Lifecycle)
	}

	if _, err := svc.Patch(ctx, "missing", domain.LifecyclePatch{}); !errors.Is(err, domain.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestNewsService_DeleteHidesFromDefaultList(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()
	keep, _ := svc.Create(ctx, ports.NewsInput{Title: ptr("Keep"), Content: ptr("x")})
	gone, _ := svc.Create(ctx, ports.NewsInput{Title: ptr("Gone"), Content: ptr("x")})

	if _, err := svc.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again, err := svc.Delete(ctx, gone.ID)
	if err != nil || again.DeletedAt == nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}

	def, _ := svc.List(ctx, ports.NewsFilter{})
	if def.Pagination.Total != 1 || def.Items[0].ID != keep.ID {
		t.Fatalf("default list should only contain the live article: %+v", def.Pagination)
	}
	del, _ := svc.List(ctx, ports.NewsFilter{ListFilter: ports.ListFilter{Status: domain.FilterDeleted}})
	if del.Pagination.Total != 1 || del.Items[0].ID != gone.ID {
		t.Fatalf("deleted filter should return the deleted article")
	}

	if _, err := svc.Get(ctx, "gone"); !errors.Is(err, domain.ErrContentNotFound) {
		t.Fatalf("deleted article must not be readable, got %v", err)
	}
	if _, err := svc.Delete(ctx, "missing"); !errors.Is(err, domain.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestNewsService_RestoreRechecksSlug(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()
	old, _ := svc.Create(ctx, ports.NewsInput{Title: ptr("Topic"), Content: ptr("x")})
	_, _ = svc.Delete(ctx, old.ID)
	_, _ = svc.Create(ctx, ports.NewsInput{Title: ptr("Topic"), Content: ptr("y")})

	if _, err := svc.Patch(ctx, old.ID, domain.LifecyclePatch{Restore: true}); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("restoring onto a taken slug must fail, got %v", err)
	}
}

func TestNewsService_GetBySlugOrID(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()
	n, _ := svc.Create(ctx, ports.NewsInput{Title: ptr("Lookup"), Content: ptr("x")})

	if got, err := svc.Get(ctx, "lookup"); err != nil || got.ID != n.ID {
		t.Fatalf("lookup by slug failed: %v", err)
	}
	if got, err := svc.Get(ctx, n.ID); err != nil || got.ID != n.ID {
		t.Fatalf("lookup by id failed: %v", err)
	}
}

func TestNewsService_ListPagination(t *testing.T) {
	svc, _ := newTestNewsService()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		if _, err := svc.Create(ctx, ports.NewsInput{Title: ptr("Item " + string(rune('a'+i))), Content: ptr("x")}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := svc.List(ctx, ports.NewsFilter{ListFilter: ports.ListFilter{Page: domain.PageRequest{Page: 3, Limit: 10}}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 5 || page.Pagination.TotalPages != 3 {
		t.Fatalf("expected 5 items on 3 pages, got %d items %+v", len(page.Items), page.Pagination)
	}

	def, _ := svc.List(ctx, ports.NewsFilter{})
	if def.Pagination.Limit != newsPageSize || len(def.Items) != newsPageSize {
		t.Fatalf("default page size not applied: %+v", def.Pagination)
	}

	if _, err := svc.List(ctx, ports.NewsFilter{Month: "May 2025"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected month validation error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Agenda / directory
// ---------------------------------------------------------------------------

func TestAgendaService_CreateRequiresDescriptionAndDate(t *testing.T) {
	repo := &stubAgendaRepo{newStubRecords(func(a *domain.Agenda) *domain.Agenda { c := *a; return &c })}
	svc := NewAgendaService(repo, zerolog.Nop())
	svc.now = fixedClock(clock0)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.AgendaInput{Title: ptr("Webinar"), Date: ptr(clock0)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing description should fail, got %v", err)
	}
	if _, err := svc.Create(ctx, ports.AgendaInput{Title: ptr("Webinar"), Description: ptr("d")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing date should fail, got %v", err)
	}

	a, err := svc.Create(ctx, ports.AgendaInput{
		Title: ptr("Webinar Asma"), Description: ptr("d"), Date: ptr(clock0.Add(72 * time.Hour)), SKP: ptr(2.0),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Slug != "webinar-asma" || a.SKP != 2 {
		t.Fatalf("unexpected agenda: %+v", a)
	}

	upd, err := svc.Update(ctx, a.ID, ports.AgendaInput{Location: ptr("Jakarta")})
	if err != nil || upd.Location != "Jakarta" || upd.Title != "Webinar Asma" {
		t.Fatalf("merge update failed: %v %+v", err, upd)
	}
}

func TestDirectoryService_SlugFromNameAndPublishedByDefault(t *testing.T) {
	repo := &stubDirectoryRepo{newStubRecords(func(d *domain.DirectoryEntry) *domain.DirectoryEntry { c := *d; return &c })}
	svc := NewDirectoryService(repo, zerolog.Nop())
	ctx := context.Background()

	d, err := svc.Create(ctx, ports.DirectoryInput{Name: ptr("RSUP Persahabatan"), City: ptr("Jakarta Timur")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Slug != "rsup-persahabatan" || d.Status != domain.StatusPublished {
		t.Fatalf("unexpected entry: slug=%q status=%q", d.Slug, d.Status)
	}
	if _, err := svc.Create(ctx, ports.DirectoryInput{Name: ptr("RSUP  Persahabatan"), City: ptr("X")}); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
	if _, err := svc.Create(ctx, ports.DirectoryInput{Name: ptr("No City")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
