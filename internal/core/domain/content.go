package domain

import "time"

// Status is the publication state of a content record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is draft or published.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// StatusFilter selects records in a list query.
type StatusFilter string

const (
	// FilterActive matches every record that has not been soft-deleted.
	FilterActive    StatusFilter = ""
	FilterDraft     StatusFilter = "draft"
	FilterPublished StatusFilter = "published"
	FilterDeleted   StatusFilter = "deleted"
	FilterAll       StatusFilter = "all"
)

// ParseStatusFilter accepts the query-string spelling of a filter.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch f := StatusFilter(s); f {
	case FilterActive, FilterDraft, FilterPublished, FilterDeleted, FilterAll:
		return f, true
	}
	return "", false
}

// Lifecycle holds the publication and soft-delete state shared by every
// content record. A record is never physically removed: deletion sets
// DeletedAt and restoration clears it.
type Lifecycle struct {
	Status      Status     `json:"status"                bson:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"             bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"             bson:"updated_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"   bson:"deleted_at,omitempty"`
}

// NewLifecycle starts a record in status, stamping publishedAt when it is
// created already published.
func NewLifecycle(status Status, publishedAt *time.Time, now time.Time) Lifecycle {
	if !status.Valid() {
		status = StatusDraft
	}
	l := Lifecycle{Status: status, CreatedAt: now, UpdatedAt: now}
	if publishedAt != nil {
		t := *publishedAt
		l.PublishedAt = &t
	} else if status == StatusPublished {
		t := now
		l.PublishedAt = &t
	}
	return l
}

// Deleted reports whether the record has been soft-deleted.
func (l *Lifecycle) Deleted() bool {
	return l.DeletedAt != nil
}

// SetStatus moves the record between draft and published. Publishing stamps
// PublishedAt if it was never set; reverting to draft clears it.
func (l *Lifecycle) SetStatus(s Status, now time.Time) {
	l.Status = s
	switch s {
	case StatusPublished:
		if l.PublishedAt == nil {
			t := now
			l.PublishedAt = &t
		}
	case StatusDraft:
		l.PublishedAt = nil
	}
	l.UpdatedAt = now
}

// SoftDelete marks the record deleted. Deleting twice keeps the first timestamp.
func (l *Lifecycle) SoftDelete(now time.Time) {
	if l.DeletedAt == nil {
		t := now
		l.DeletedAt = &t
	}
	l.UpdatedAt = now
}

// Restore clears the soft-delete marker.
func (l *Lifecycle) Restore(now time.Time) {
	l.DeletedAt = nil
	l.UpdatedAt = now
}

// Matches reports whether the record is selected by f.
func (l *Lifecycle) Matches(f StatusFilter) bool {
	switch f {
	case FilterAll:
		return true
	case FilterDeleted:
		return l.Deleted()
	case FilterDraft:
		return !l.Deleted() && l.Status == StatusDraft
	case FilterPublished:
		return !l.Deleted() && l.Status == StatusPublished
	default:
		return !l.Deleted()
	}
}

// LifecyclePatch is a partial lifecycle change. Nil fields are untouched.
// Setting Restore clears a soft delete; setting DeletedAt stamps one.
type LifecyclePatch struct {
	Status      *Status
	PublishedAt *time.Time
	DeletedAt   *time.Time
	Restore     bool
}

// Apply performs the patch. An explicit PublishedAt wins over the value
// implied by a status change.
func (p LifecyclePatch) Apply(l *Lifecycle, now time.Time) {
	if p.Status != nil {
		l.SetStatus(*p.Status, now)
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		l.PublishedAt = &t
	}
	if p.Restore {
		l.Restore(now)
	} else if p.DeletedAt != nil {
		t := *p.DeletedAt
		l.DeletedAt = &t
	}
	l.UpdatedAt = now
}

// Record is implemented by every slug-addressed content type.
type Record interface {
	RecordID() string
	RecordSlug() string
	State() *Lifecycle
}
