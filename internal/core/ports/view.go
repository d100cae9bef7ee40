package ports

import (
	"context"
	"time"
)

// ViewEvent records that a visitor opened a news article.
type ViewEvent struct {
	ArticleID string
	Visitor   string // client address or user ID; empty disables deduplication
	At        time.Time
}

// ViewDeduper suppresses repeat views by the same visitor within a window.
type ViewDeduper interface {
	// Seen marks the view and reports whether it had already been recorded.
	Seen(ctx context.Context, articleID, visitor string) (bool, error)
}

type ViewService interface {
	Process(ctx context.Context, ev ViewEvent) error
}
