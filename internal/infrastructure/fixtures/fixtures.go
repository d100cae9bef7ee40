// Package fixtures holds the seed data the portal starts with: the four
// development accounts, sample content, the navigation trees and the static
// site pages.
package fixtures

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

//go:embed data/*.yaml
var files embed.FS

// Bundle is the decoded seed data.
type Bundle struct {
	Users     []*domain.User
	News      []*domain.News
	Agenda    []*domain.Agenda
	Directory []*domain.DirectoryEntry
	Menus     map[domain.MenuPosition][]domain.MenuItem
	Site      ports.SiteSeed
}

type userFixture struct {
	ID                string `yaml:"id"`
	Email             string `yaml:"email"`
	Name              string `yaml:"name"`
	Role              string `yaml:"role"`
	Avatar            string `yaml:"avatar"`
	MemberID          string `yaml:"memberId"`
	OrganizationLevel string `yaml:"organizationLevel"`
	BranchID          string `yaml:"branchId"`
	RegionID          string `yaml:"regionId"`
	Province          string `yaml:"province"`
	City              string `yaml:"city"`
}

type lifecycleFixture struct {
	Status      string     `yaml:"status"`
	PublishedAt *time.Time `yaml:"publishedAt"`
}

type newsFixture struct {
	ID               string   `yaml:"id"`
	Slug             string   `yaml:"slug"`
	Title            string   `yaml:"title"`
	Excerpt          string   `yaml:"excerpt"`
	Content          string   `yaml:"content"`
	Image            string   `yaml:"image"`
	Category         string   `yaml:"category"`
	Author           string   `yaml:"author"`
	Tags             []string `yaml:"tags"`
	Views            int64    `yaml:"views"`
	lifecycleFixture `yaml:",inline"`
}

type agendaFixture struct {
	ID               string     `yaml:"id"`
	Slug             string     `yaml:"slug"`
	Title            string     `yaml:"title"`
	Description      string     `yaml:"description"`
	Type             string     `yaml:"type"`
	Date             time.Time  `yaml:"date"`
	EndDate          *time.Time `yaml:"endDate"`
	Location         string     `yaml:"location"`
	IsOnline         bool       `yaml:"isOnline"`
	SKP              float64    `yaml:"skp"`
	Quota            int        `yaml:"quota"`
	Registered       int        `yaml:"registered"`
	RegistrationURL  string     `yaml:"registrationUrl"`
	Image            string     `yaml:"image"`
	Fee              string     `yaml:"fee"`
	lifecycleFixture `yaml:",inline"`
}

type directoryFixture struct {
	ID               string   `yaml:"id"`
	Slug             string   `yaml:"slug"`
	Name             string   `yaml:"name"`
	Type             string   `yaml:"type"`
	Address          string   `yaml:"address"`
	Phone            string   `yaml:"phone"`
	Email            string   `yaml:"email"`
	Website          string   `yaml:"website"`
	City             string   `yaml:"city"`
	Province         string   `yaml:"province"`
	HasRespirologist bool     `yaml:"hasRespirologist"`
	Facilities       []string `yaml:"facilities"`
	lifecycleFixture `yaml:",inline"`
}

type menusFixture struct {
	Header  []domain.MenuItem `yaml:"header"`
	Sidebar []domain.MenuItem `yaml:"sidebar"`
	Footer  []domain.MenuItem `yaml:"footer"`
}

type siteFixture struct {
	Homepage  domain.Homepage              `yaml:"homepage"`
	Profile   domain.OrgProfile            `yaml:"profile"`
	Board     []domain.BoardMember         `yaml:"board"`
	Documents map[string][]domain.Document `yaml:"documents"`
	Pages     []domain.DynamicContent      `yaml:"pages"`
}

// Load decodes the embedded fixtures. Every account gets password hashed at
// cost; content is stamped as created at now.
func Load(password string, cost int, now time.Time) (*Bundle, error) {
	if password == "" {
		return nil, errors.New("fixtures: seed password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("fixtures: hash password: %w", err)
	}
	now = now.UTC()

	var (
		users     []userFixture
		news      []newsFixture
		agenda    []agendaFixture
		directory []directoryFixture
		menus     menusFixture
		site      siteFixture
	)
	for name, out := range map[string]any{
		"users.yaml":     &users,
		"news.yaml":      &news,
		"agenda.yaml":    &agenda,
		"directory.yaml": &directory,
		"menus.yaml":     &menus,
		"site.yaml":      &site,
	} {
		if err := decode(name, out); err != nil {
			return nil, err
		}
	}

	b := &Bundle{
		Menus: map[domain.MenuPosition][]domain.MenuItem{
			domain.MenuHeader:  menus.Header,
			domain.MenuSidebar: menus.Sidebar,
			domain.MenuFooter:  menus.Footer,
		},
		Site: ports.SiteSeed{
			Homepage:  site.Homepage,
			Profile:   site.Profile,
			Board:     site.Board,
			Pages:     site.Pages,
			Documents: site.Documents,
		},
	}
	for p, items := range b.Menus {
		stamp(items, p, "")
	}
	for i := range b.Site.Pages {
		b.Site.Pages[i].UpdatedAt = now
	}

	for _, u := range users {
		role, ok := domain.ParseRole(u.Role)
		if !ok {
			return nil, fmt.Errorf("fixtures: user %s has unknown role %q", u.Email, u.Role)
		}
		b.Users = append(b.Users, &domain.User{
			ID:                u.ID,
			Email:             u.Email,
			Name:              u.Name,
			PasswordHash:      string(hash),
			Role:              role,
			Avatar:            u.Avatar,
			MemberID:          u.MemberID,
			OrganizationLevel: domain.OrganizationLevel(u.OrganizationLevel),
			BranchID:          u.BranchID,
			RegionID:          u.RegionID,
			Province:          u.Province,
			City:              u.City,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	for _, n := range news {
		b.News = append(b.News, &domain.News{
			ID:        n.ID,
			Slug:      domain.SlugFor(n.Slug, n.Title, n.ID),
			Title:     n.Title,
			Excerpt:   n.Excerpt,
			Content:   n.Content,
			Image:     n.Image,
			Category:  domain.NewsCategory(n.Category),
			Tags:      n.Tags,
			Author:    n.Author,
			Views:     n.Views,
			Lifecycle: n.lifecycle(now),
		})
	}
	for _, a := range agenda {
		b.Agenda = append(b.Agenda, &domain.Agenda{
			ID:              a.ID,
			Slug:            domain.SlugFor(a.Slug, a.Title, a.ID),
			Title:           a.Title,
			Description:     a.Description,
			Type:            domain.AgendaType(a.Type),
			Date:            a.Date,
			EndDate:         a.EndDate,
			Location:        a.Location,
			IsOnline:        a.IsOnline,
			SKP:             a.SKP,
			Quota:           a.Quota,
			Registered:      a.Registered,
			RegistrationURL: a.RegistrationURL,
			Image:           a.Image,
			Fee:             a.Fee,
			Lifecycle:       a.lifecycle(now),
		})
	}
	for _, d := range directory {
		b.Directory = append(b.Directory, &domain.DirectoryEntry{
			ID:               d.ID,
			Slug:             domain.SlugFor(d.Slug, d.Name, d.ID),
			Name:             d.Name,
			Type:             domain.FacilityType(d.Type),
			Address:          d.Address,
			Phone:            d.Phone,
			Email:            d.Email,
			Website:          d.Website,
			City:             d.City,
			Province:         d.Province,
			HasRespirologist: d.HasRespirologist,
			Facilities:       d.Facilities,
			Lifecycle:        d.lifecycle(now),
		})
	}
	return b, nil
}

func decode(name string, out any) error {
	raw, err := files.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("fixtures: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("fixtures: decode %s: %w", name, err)
	}
	return nil
}

// lifecycle defaults fixture records to published; a published record without
// a date is stamped now.
func (f lifecycleFixture) lifecycle(now time.Time) domain.Lifecycle {
	status := domain.Status(f.Status)
	if f.Status == "" {
		status = domain.StatusPublished
	}
	return domain.NewLifecycle(status, f.PublishedAt, now)
}

func stamp(items []domain.MenuItem, p domain.MenuPosition, parentID string) {
	for i := range items {
		items[i].Position = p
		items[i].ParentID = parentID
		stamp(items[i].Children, p, items[i].ID)
	}
}

// Targets are the repositories a Bundle is written to.
type Targets struct {
	Users     ports.UserRepository
	News      ports.NewsRepository
	Agenda    ports.AgendaRepository
	Directory ports.DirectoryRepository
	Menus     ports.MenuRepository
	Site      ports.SiteSeeder
}

// Seed writes b into t. Accounts and content are only written when the first
// fixture account does not exist yet; menus only for empty positions. Seed is
// therefore safe to run on every start.
func Seed(ctx context.Context, b *Bundle, t Targets) (bool, error) {
	if len(b.Users) > 0 {
		_, err := t.Users.FindByEmail(ctx, b.Users[0].Email)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return false, fmt.Errorf("seed: look up users: %w", err)
		}
	}

	for _, u := range b.Users {
		if _, err := t.Users.Create(ctx, u); err != nil && !errors.Is(err, domain.ErrUserExists) {
			return false, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	for _, n := range b.News {
		if err := t.News.Create(ctx, n); err != nil {
			return false, fmt.Errorf("seed news %s: %w", n.Slug, err)
		}
	}
	for _, a := range b.Agenda {
		if err := t.Agenda.Create(ctx, a); err != nil {
			return false, fmt.Errorf("seed agenda %s: %w", a.Slug, err)
		}
	}
	for _, d := range b.Directory {
		if err := t.Directory.Create(ctx, d); err != nil {
			return false, fmt.Errorf("seed directory %s: %w", d.Slug, err)
		}
	}
	for _, p := range domain.MenuPositions {
		current, err := t.Menus.Get(ctx, p)
		if err != nil {
			return false, fmt.Errorf("seed %s menu: %w", p, err)
		}
		if len(current) == 0 {
			if err := t.Menus.Replace(ctx, p, b.Menus[p]); err != nil {
				return false, fmt.Errorf("seed %s menu: %w", p, err)
			}
		}
	}
	if err := t.Site.SeedSite(ctx, b.Site); err != nil {
		return false, fmt.Errorf("seed site: %w", err)
	}
	return true, nil
}
