package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubMenuRepo struct {
	trees map[domain.MenuPosition][]domain.MenuItem
	saved []domain.MenuItem
}

func (r *stubMenuRepo) Get(_ context.Context, p domain.MenuPosition) ([]domain.MenuItem, error) {
	return r.trees[p], nil
}

func (r *stubMenuRepo) Replace(_ context.Context, p domain.MenuPosition, items []domain.MenuItem) error {
	r.trees[p] = items
	r.saved = items
	return nil
}

type stubSiteRepo struct {
	home  domain.Homepage
	board []domain.BoardMember
	pages map[string]domain.DynamicContent
}

func (r *stubSiteRepo) Homepage(context.Context) (domain.Homepage, error) { return r.home, nil }
func (r *stubSiteRepo) SaveHomepage(_ context.Context, h domain.Homepage) error {
	r.home = h
	return nil
}
func (r *stubSiteRepo) Profile(context.Context) (domain.OrgProfile, error) {
	return domain.OrgProfile{}, nil
}
func (r *stubSiteRepo) Board(_ context.Context, lvl domain.OrganizationLevel) ([]domain.BoardMember, error) {
	var out []domain.BoardMember
	for _, m := range r.board {
		if lvl == "" || m.Level == lvl {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *stubSiteRepo) DynamicContents(context.Context) ([]domain.DynamicContent, error) {
	return nil, nil
}
func (r *stubSiteRepo) DynamicContent(_ context.Context, slug string) (*domain.DynamicContent, error) {
	c, ok := r.pages[slug]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return &c, nil
}
func (r *stubSiteRepo) UpsertDynamicContent(_ context.Context, c domain.DynamicContent) error {
	r.pages[c.Slug] = c
	return nil
}
func (r *stubSiteRepo) Documents(context.Context, string) ([]domain.Document, error) {
	return nil, nil
}

type stubFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
	puts  int
}

func (s *stubFileStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok, nil
}

func (s *stubFileStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
	s.puts++
	return nil
}

func (s *stubFileStore) URL(key string) string { return "/uploads/" + key }

type stubDeduper struct {
	seen map[string]bool
	err  error
}

func (d *stubDeduper) Seen(_ context.Context, articleID, visitor string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	k := articleID + "|" + visitor
	was := d.seen[k]
	d.seen[k] = true
	return was, nil
}

// ---------------------------------------------------------------------------
// Menu
// ---------------------------------------------------------------------------

func headerTree() []domain.MenuItem {
	all := domain.RoleList{"public", "member", "admin_pusat"}
	return []domain.MenuItem{
		{ID: "home", Label: "Beranda", Slug: "beranda", To: "/", IsActive: true, IsFixed: true, Roles: all, Order: 2},
		{ID: "news", Label: "Berita", To: "/berita", IsActive: true, Roles: all, Order: 1},
		{ID: "dash", Label: "Dashboard", To: "/dashboard", IsActive: true, Roles: domain.RoleList{"member"}, Order: 3},
	}
}

func TestMenuService_Navigation(t *testing.T) {
	repo := &stubMenuRepo{trees: map[domain.MenuPosition][]domain.MenuItem{domain.MenuHeader: headerTree()}}
	svc := NewMenuService(repo, zerolog.Nop())

	nav, err := svc.Navigation(context.Background(), "header", "")
	if err != nil {
		t.Fatalf("navigation: %v", err)
	}
	if len(nav) != 2 || nav[0].ID != "news" || nav[1].ID != "home" {
		t.Fatalf("expected sorted public items [news home], got %+v", nav)
	}

	if _, err := svc.Navigation(context.Background(), "topbar", ""); !errors.Is(err, domain.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestMenuService_AllIncludesEmptyPositions(t *testing.T) {
	repo := &stubMenuRepo{trees: map[domain.MenuPosition][]domain.MenuItem{domain.MenuHeader: headerTree()}}
	all, err := NewMenuService(repo, zerolog.Nop()).All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 || all[domain.MenuFooter] == nil {
		t.Fatalf("every position should be present and non-nil: %+v", all)
	}
}

func TestMenuService_ReplaceProtectsFixed(t *testing.T) {
	repo := &stubMenuRepo{trees: map[domain.MenuPosition][]domain.MenuItem{domain.MenuHeader: headerTree()}}
	svc := NewMenuService(repo, zerolog.Nop())

	_, err := svc.Replace(context.Background(), "header", []domain.MenuItem{{ID: "news", Label: "Berita", To: "/berita"}})
	if !errors.Is(err, domain.ErrFixedMenuRemoved) {
		t.Fatalf("expected ErrFixedMenuRemoved, got %v", err)
	}
	if repo.saved != nil {
		t.Fatalf("nothing should be saved on rejection")
	}

	next := []domain.MenuItem{{ID: "home", Label: "Home", To: "/home", Children: []domain.MenuItem{{ID: "sub", To: "/sub"}}}}
	saved, err := svc.Replace(context.Background(), "header", next)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if saved[0].To != "/" || saved[0].Position != domain.MenuHeader {
		t.Fatalf("fixed route or position not applied: %+v", saved[0])
	}
	if saved[0].Children[0].ParentID != "home" {
		t.Fatalf("child parent not stamped: %+v", saved[0].Children[0])
	}

	if _, err := svc.Replace(context.Background(), "header", nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("nil tree should be rejected, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Site
// ---------------------------------------------------------------------------

func TestSiteService_UpdateHomepageMergesShallowly(t *testing.T) {
	repo := &stubSiteRepo{home: domain.Homepage{
		Hero:  domain.Hero{Title: "Old", Description: "Keep", Images: []string{"a.jpg"}},
		Stats: []domain.StatItem{{Label: "Anggota", Value: "3000+"}},
		SEO:   domain.SEO{Title: "PDPI", Description: "desc"},
	}}
	svc := NewSiteService(repo, zerolog.Nop())

	got, err := svc.UpdateHomepage(context.Background(), domain.HomepagePatch{
		Hero: &domain.HeroPatch{Title: ptr("New")},
		SEO:  &domain.SEOPatch{Description: ptr("new desc")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Hero.Title != "New" || got.Hero.Description != "Keep" || len(got.Hero.Images) != 1 {
		t.Fatalf("hero not merged field-wise: %+v", got.Hero)
	}
	if got.SEO.Title != "PDPI" || got.SEO.Description != "new desc" {
		t.Fatalf("seo not merged field-wise: %+v", got.SEO)
	}
	if len(got.Stats) != 1 {
		t.Fatalf("stats should be untouched")
	}
	if repo.home.Hero.Title != "New" {
		t.Fatalf("homepage not persisted")
	}
}

func TestSiteService_BoardLevel(t *testing.T) {
	repo := &stubSiteRepo{board: []domain.BoardMember{
		{ID: "1", Level: domain.LevelPusat}, {ID: "2", Level: domain.LevelWilayah},
	}}
	svc := NewSiteService(repo, zerolog.Nop())

	pusat, err := svc.Board(context.Background(), "pusat")
	if err != nil || len(pusat) != 1 {
		t.Fatalf("expected one pusat member, got %v %v", pusat, err)
	}
	all, _ := svc.Board(context.Background(), "")
	if len(all) != 2 {
		t.Fatalf("expected all members")
	}
	if _, err := svc.Board(context.Background(), "desa"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSiteService_DynamicContent(t *testing.T) {
	repo := &stubSiteRepo{pages: map[string]domain.DynamicContent{}}
	svc := NewSiteService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.SaveDynamicContent(ctx, domain.DynamicContent{Slug: "x", Title: "X"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing body and html should fail, got %v", err)
	}

	saved, err := svc.SaveDynamicContent(ctx, domain.DynamicContent{Slug: "/profil/visi-misi/", Title: "Visi", Body: "# Visi"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Slug != "profil/visi-misi" {
		t.Fatalf("slug not normalized: %q", saved.Slug)
	}

	got, err := svc.DynamicContent(ctx, "profil/visi-misi")
	if err != nil || got == nil || got.Title != "Visi" {
		t.Fatalf("lookup failed: %v %+v", err, got)
	}
	missing, err := svc.DynamicContent(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing page should be nil without error, got %v %v", missing, err)
	}
}

// ---------------------------------------------------------------------------
// Upload
// ---------------------------------------------------------------------------

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestUploadService(limit int64) (*UploadService, *stubFileStore) {
	store := &stubFileStore{files: map[string][]byte{}}
	svc := NewUploadService(store, limit, zerolog.Nop())
	svc.now = fixedClock(clock0)
	return svc, store
}

func TestUploadService_StoresUnderDatePartition(t *testing.T) {
	svc, store := newTestUploadService(0)

	res, err := svc.Upload(context.Background(), ports.UploadInput{
		Filename: "Foto Profil (1).PNG", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.Type != "image/png" {
		t.Fatalf("unexpected type %q", res.Type)
	}
	if !strings.HasPrefix(res.URL, "/uploads/2025/05/") {
		t.Fatalf("unexpected url %q", res.URL)
	}
	if !strings.HasSuffix(res.Filename, "_foto-profil-1.png") || len(res.Filename) != hashPrefixLen+len("_foto-profil-1.png") {
		t.Fatalf("unexpected filename %q", res.Filename)
	}
	if res.OriginalName != "Foto Profil (1).PNG" || res.Size != int64(len(pngHeader)) {
		t.Fatalf("unexpected metadata: %+v", res)
	}
	if store.puts != 1 {
		t.Fatalf("expected one write, got %d", store.puts)
	}
}

func TestUploadService_DeduplicatesIdenticalContent(t *testing.T) {
	svc, store := newTestUploadService(0)
	ctx := context.Background()

	first, _ := svc.Upload(ctx, ports.UploadInput{Filename: "a.png", Body: bytes.NewReader(pngHeader)})
	second, err := svc.Upload(ctx, ports.UploadInput{Filename: "a.png", Body: bytes.NewReader(pngHeader)})
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if !second.Deduplicated || second.URL != first.URL {
		t.Fatalf("identical content should resolve to the same file: %+v", second)
	}
	if store.puts != 1 {
		t.Fatalf("expected a single write, got %d", store.puts)
	}
}

func TestUploadService_Rejections(t *testing.T) {
	svc, _ := newTestUploadService(16)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, ports.UploadInput{Filename: "a.png", Body: bytes.NewReader(pngHeader)}); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge for oversized body, got %v", err)
	}
	if _, err := svc.Upload(ctx, ports.UploadInput{Filename: "a.png", Size: 1 << 30, Body: bytes.NewReader(nil)}); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge for declared size, got %v", err)
	}
	if _, err := svc.Upload(ctx, ports.UploadInput{Filename: "a.txt", Body: strings.NewReader("hello")}); !errors.Is(err, domain.ErrFileTypeNotAllowed) {
		t.Fatalf("expected ErrFileTypeNotAllowed, got %v", err)
	}
	if _, err := svc.Upload(ctx, ports.UploadInput{Filename: "a.png", Body: bytes.NewReader(nil)}); !errors.Is(err, domain.ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":         "passwd",
		`C:\Users\me\My_Photo.jpg`: "my-photo",
		".png":                     "file",
		"":                         "file",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Views
// ---------------------------------------------------------------------------

func TestViewService_CountsOncePerVisitor(t *testing.T) {
	news := newStubNewsRepo()
	_ = news.Create(context.Background(), &domain.News{ID: "n1", Slug: "n1"})
	svc := NewViewService(news, &stubDeduper{seen: map[string]bool{}}, zerolog.Nop())
	ctx := context.Background()

	for _, visitor := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2", ""} {
		if err := svc.Process(ctx, ports.ViewEvent{ArticleID: "n1", Visitor: visitor}); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	n, _ := news.FindByID(ctx, "n1")
	if n.Views != 3 {
		t.Fatalf("expected 3 views, got %d", n.Views)
	}
}

func TestViewService_DedupFailureStillCounts(t *testing.T) {
	news := newStubNewsRepo()
	_ = news.Create(context.Background(), &domain.News{ID: "n1", Slug: "n1"})
	svc := NewViewService(news, &stubDeduper{err: errors.New("redis down")}, zerolog.Nop())

	if err := svc.Process(context.Background(), ports.ViewEvent{ArticleID: "n1", Visitor: "v"}); err != nil {
		t.Fatalf("process: %v", err)
	}
	n, _ := news.FindByID(context.Background(), "n1")
	if n.Views != 1 {
		t.Fatalf("expected view to be counted, got %d", n.Views)
	}

	if err := svc.Process(context.Background(), ports.ViewEvent{ArticleID: "missing"}); !errors.Is(err, domain.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}
