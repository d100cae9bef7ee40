package domain

import (
	"strings"
	"time"
)

// Hero is the banner block at the top of the homepage.
type Hero struct {
	Title       string   `json:"title"       bson:"title"       yaml:"title"`
	Description string   `json:"description" bson:"description" yaml:"description"`
	Images      []string `json:"images"      bson:"images"      yaml:"images"`
}

// StatItem is a headline figure such as member count.
type StatItem struct {
	Label string `json:"label" bson:"label" yaml:"label"`
	Value string `json:"value" bson:"value" yaml:"value"`
}

// FeatureItem is one card of the homepage feature grid.
type FeatureItem struct {
	Title       string `json:"title"       bson:"title"       yaml:"title"`
	Description string `json:"description" bson:"description" yaml:"description"`
	Icon        string `json:"icon"        bson:"icon"        yaml:"icon"`
}

// SEO carries page metadata.
type SEO struct {
	Title       string `json:"title"       bson:"title"       yaml:"title"`
	Description string `json:"description" bson:"description" yaml:"description"`
}

// Homepage is the editable landing page content.
type Homepage struct {
	Hero     Hero          `json:"hero"     bson:"hero"     yaml:"hero"`
	Stats    []StatItem    `json:"stats"    bson:"stats"    yaml:"stats"`
	Features []FeatureItem `json:"features" bson:"features" yaml:"features"`
	SEO      SEO           `json:"seo"      bson:"seo"      yaml:"seo"`
}

// HeroPatch and SEOPatch are field-wise partial updates.
type HeroPatch struct {
	Title       *string
	Description *string
	Images      []string
}

type SEOPatch struct {
	Title       *string
	Description *string
}

// HomepagePatch merges into a Homepage. Hero and SEO merge field by field;
// Stats and Features replace the current lists when non-nil.
type HomepagePatch struct {
	Hero     *HeroPatch
	Stats    []StatItem
	Features []FeatureItem
	SEO      *SEOPatch
}

// Apply returns h with p merged in.
func (p HomepagePatch) Apply(h Homepage) Homepage {
	if p.Hero != nil {
		if p.Hero.Title != nil {
			h.Hero.Title = *p.Hero.Title
		}
		if p.Hero.Description != nil {
			h.Hero.Description = *p.Hero.Description
		}
		if p.Hero.Images != nil {
			h.Hero.Images = p.Hero.Images
		}
	}
	if p.Stats != nil {
		h.Stats = p.Stats
	}
	if p.Features != nil {
		h.Features = p.Features
	}
	if p.SEO != nil {
		if p.SEO.Title != nil {
			h.SEO.Title = *p.SEO.Title
		}
		if p.SEO.Description != nil {
			h.SEO.Description = *p.SEO.Description
		}
	}
	return h
}

// VisionMission is the association's vision statement and mission list.
type VisionMission struct {
	Vision  string   `json:"visi" bson:"visi" yaml:"visi"`
	Mission []string `json:"misi" bson:"misi" yaml:"misi"`
}

// TimelineItem is one milestone in the association's history.
type TimelineItem struct {
	Year        string `json:"year"            bson:"year"            yaml:"year"`
	Title       string `json:"title"           bson:"title"           yaml:"title"`
	Description string `json:"description"     bson:"description"     yaml:"description"`
	Image       string `json:"image,omitempty" bson:"image,omitempty" yaml:"image"`
}

type History struct {
	Content  string         `json:"content"  bson:"content"  yaml:"content"`
	Timeline []TimelineItem `json:"timeline" bson:"timeline" yaml:"timeline"`
}

// Statutes points at the association's articles of association (AD/ART).
type Statutes struct {
	Title       string `json:"title"       bson:"title"        yaml:"title"`
	Description string `json:"description" bson:"description"  yaml:"description"`
	URL         string `json:"url"         bson:"url"          yaml:"url"`
	LastUpdated string `json:"lastUpdated" bson:"last_updated" yaml:"lastUpdated"`
}

// OrgProfile groups the static organization pages.
type OrgProfile struct {
	VisionMission VisionMission `json:"visiMisi" bson:"visi_misi" yaml:"visiMisi"`
	History       History       `json:"sejarah"  bson:"sejarah"   yaml:"sejarah"`
	Statutes      Statutes      `json:"adArt"    bson:"ad_art"    yaml:"adArt"`
}

// BoardMember is one seat on the central, regional or branch board.
type BoardMember struct {
	ID       string            `json:"id"              bson:"id"              yaml:"id"`
	Name     string            `json:"name"            bson:"name"            yaml:"name"`
	Position string            `json:"position"        bson:"position"        yaml:"position"`
	Photo    string            `json:"photo,omitempty" bson:"photo,omitempty" yaml:"photo"`
	Division string            `json:"bidang"          bson:"bidang"          yaml:"bidang"`
	Level    OrganizationLevel `json:"level"           bson:"level"           yaml:"level"`
	Period   string            `json:"periode"         bson:"periode"         yaml:"periode"`
	Email    string            `json:"email,omitempty" bson:"email,omitempty" yaml:"email"`
	Phone    string            `json:"phone,omitempty" bson:"phone,omitempty" yaml:"phone"`
}

// ImageRef wraps an image source the way the page renderer expects.
type ImageRef struct {
	Src string `json:"src" bson:"src" yaml:"src"`
}

type Author struct {
	Name   string    `json:"name"             bson:"name"             yaml:"name"`
	To     string    `json:"to,omitempty"     bson:"to,omitempty"     yaml:"to"`
	Avatar *ImageRef `json:"avatar,omitempty" bson:"avatar,omitempty" yaml:"avatar"`
}

type Badge struct {
	Label string `json:"label" bson:"label" yaml:"label"`
}

// DynamicContent is a free-form page addressed by a path-like slug such as
// "profil/visi-misi". Body is markdown, HTML is pre-rendered markup.
type DynamicContent struct {
	Slug        string    `json:"slug"                  bson:"slug"`
	Title       string    `json:"title"                 bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Body        string    `json:"body,omitempty"        bson:"body,omitempty"`
	HTML        string    `json:"html,omitempty"        bson:"html,omitempty"`
	Date        string    `json:"date,omitempty"        bson:"date,omitempty"`
	Image       *ImageRef `json:"image,omitempty"       bson:"image,omitempty"`
	Authors     []Author  `json:"authors,omitempty"     bson:"authors,omitempty"`
	Badge       *Badge    `json:"badge,omitempty"       bson:"badge,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"             bson:"updated_at"`
}

// NormalizeContentSlug trims surrounding slashes and whitespace so that
// "/profil/visi-misi/" and "profil/visi-misi" address the same page.
func NormalizeContentSlug(s string) string {
	return strings.Trim(strings.TrimSpace(s), "/")
}

// Validate checks the fields a dynamic page needs.
func (d *DynamicContent) Validate() error {
	if NormalizeContentSlug(d.Slug) == "" || strings.TrimSpace(d.Title) == "" {
		return Invalid("slug and title are required")
	}
	if strings.TrimSpace(d.Body) == "" && strings.TrimSpace(d.HTML) == "" {
		return Invalid("body or html is required")
	}
	return nil
}

// DocumentStatus is the validity state of a member credential.
type DocumentStatus string

const (
	DocumentValid   DocumentStatus = "valid"
	DocumentExpired DocumentStatus = "expired"
	DocumentPending DocumentStatus = "pending"
)

// Document is a member credential such as an STR or SIP.
type Document struct {
	ID         string         `json:"id"         bson:"id"          yaml:"id"`
	Name       string         `json:"name"       bson:"name"        yaml:"name"`
	Type       string         `json:"type"       bson:"type"        yaml:"type"`
	ValidUntil string         `json:"validUntil" bson:"valid_until" yaml:"validUntil"`
	Status     DocumentStatus `json:"status"     bson:"status"      yaml:"status"`
	URL        string         `json:"url"        bson:"url"         yaml:"url"`
}
