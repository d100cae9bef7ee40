package domain

import "strings"

// NewsCategory classifies a news article.
type NewsCategory string

const (
	CategoryUmum       NewsCategory = "umum"
	CategoryIlmiah     NewsCategory = "ilmiah"
	CategoryKegiatan   NewsCategory = "kegiatan"
	CategoryPengumuman NewsCategory = "pengumuman"
	CategoryPrestasi   NewsCategory = "prestasi"
)

// DefaultAuthor is used when an article is created without one.
const DefaultAuthor = "Admin"

// News is a published or draft article.
type News struct {
	ID       string       `json:"id"       bson:"_id"`
	Slug     string       `json:"slug"     bson:"slug"`
	Title    string       `json:"title"    bson:"title"`
	Excerpt  string       `json:"excerpt"  bson:"excerpt"`
	Content  string       `json:"content"  bson:"content"`
	Image    string       `json:"image"    bson:"image"`
	Category NewsCategory `json:"category" bson:"category"`
	Tags     []string     `json:"tags"     bson:"tags"`
	Author   string       `json:"author"   bson:"author"`
	Views    int64        `json:"views"    bson:"views"`

	Lifecycle `bson:",inline"`
}

func (n *News) RecordID() string   { return n.ID }
func (n *News) RecordSlug() string { return n.Slug }
func (n *News) State() *Lifecycle  { return &n.Lifecycle }

// Validate checks the fields required for an article to exist.
func (n *News) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return Invalid("title is required")
	}
	if strings.TrimSpace(n.Content) == "" && strings.TrimSpace(n.Excerpt) == "" {
		return Invalid("content or excerpt is required")
	}
	return nil
}
