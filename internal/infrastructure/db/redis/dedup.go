package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewWindow = time.Hour

// ViewDeduper suppresses repeated article views by one visitor.
// Key format: portal:view:<article_id>:<visitor>
type ViewDeduper struct {
	client redis.Cmdable
	window time.Duration
}

func NewViewDeduper(client redis.Cmdable, window time.Duration) *ViewDeduper {
	if window <= 0 {
		window = defaultViewWindow
	}
	return &ViewDeduper{client: client, window: window}
}

// Seen marks the view with SET NX and reports whether the key already existed.
func (d *ViewDeduper) Seen(ctx context.Context, articleID, visitor string) (bool, error) {
	created, err := d.client.SetNX(ctx, viewKey(articleID, visitor), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("view dedup: %w", err)
	}
	return !created, nil
}

func viewKey(articleID, visitor string) string {
	return fmt.Sprintf("%sview:%s:%s", keyPrefix, articleID, visitor)
}
