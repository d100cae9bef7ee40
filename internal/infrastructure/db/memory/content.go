package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// NewsRepository implements ports.NewsRepository in memory.
type NewsRepository struct {
	*collection[*domain.News]
}

func NewNewsRepository() *NewsRepository {
	return &NewsRepository{newCollection(cloneNews)}
}

func cloneNews(n *domain.News) *domain.News {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	return &c
}

func (r *NewsRepository) List(_ context.Context, f ports.NewsFilter) ([]*domain.News, int64, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	keep := func(n *domain.News) bool {
		if f.Category != "" && n.Category != f.Category {
			return false
		}
		if f.Author != "" && !strings.EqualFold(n.Author, f.Author) {
			return false
		}
		if f.Month != "" && publishedOrCreated(n.Lifecycle).Format("2006-01") != f.Month {
			return false
		}
		if search != "" && !containsFold(search, n.Title, n.Excerpt, n.Content) {
			return false
		}
		return true
	}
	order := func(a, b *domain.News) int {
		return publishedOrCreated(b.Lifecycle).Compare(publishedOrCreated(a.Lifecycle))
	}
	if f.Sort == ports.NewsSortPopular {
		order = func(a, b *domain.News) int {
			return cmp.Compare(b.Views, a.Views)
		}
	}
	items, total := r.query(f.ListFilter, keep, order)
	return items, total, nil
}

func (r *NewsRepository) IncrementViews(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return domain.ErrContentNotFound
	}
	n.Views += delta
	return nil
}

// AgendaRepository implements ports.AgendaRepository in memory.
type AgendaRepository struct {
	*collection[*domain.Agenda]
}

func NewAgendaRepository() *AgendaRepository {
	return &AgendaRepository{newCollection(func(a *domain.Agenda) *domain.Agenda {
		c := *a
		return &c
	})}
}

func (r *AgendaRepository) List(_ context.Context, f ports.AgendaFilter) ([]*domain.Agenda, int64, error) {
	keep := func(a *domain.Agenda) bool {
		if f.Type != "" && a.Type != f.Type {
			return false
		}
		if f.Upcoming && !a.Upcoming(f.Now) {
			return false
		}
		return true
	}
	items, total := r.query(f.ListFilter, keep, func(a, b *domain.Agenda) int {
		return a.Date.Compare(b.Date)
	})
	return items, total, nil
}

// DirectoryRepository implements ports.DirectoryRepository in memory.
type DirectoryRepository struct {
	*collection[*domain.DirectoryEntry]
}

func NewDirectoryRepository() *DirectoryRepository {
	return &DirectoryRepository{newCollection(func(d *domain.DirectoryEntry) *domain.DirectoryEntry {
		c := *d
		c.Facilities = slices.Clone(d.Facilities)
		return &c
	})}
}

func (r *DirectoryRepository) List(_ context.Context, f ports.DirectoryFilter) ([]*domain.DirectoryEntry, int64, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	keep := func(d *domain.DirectoryEntry) bool {
		if f.Type != "" && d.Type != f.Type {
			return false
		}
		if f.Province != "" && !strings.EqualFold(d.Province, f.Province) {
			return false
		}
		if f.City != "" && !strings.EqualFold(d.City, f.City) {
			return false
		}
		if search != "" && !containsFold(search, d.Name, d.City, d.Province) {
			return false
		}
		return true
	}
	items, total := r.query(f.ListFilter, keep, func(a, b *domain.DirectoryEntry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return items, total, nil
}

func publishedOrCreated(l domain.Lifecycle) time.Time {
	if l.PublishedAt != nil {
		return *l.PublishedAt
	}
	return l.CreatedAt
}

// containsFold reports whether any field contains the lower-cased needle.
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
