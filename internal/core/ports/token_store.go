package ports

import (
	"context"
	"time"
)

// RefreshTokenStore tracks which refresh tokens are still redeemable.
// Each token is identified by its JWT ID and can be consumed at most once.
type RefreshTokenStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	// Consume atomically removes jti and returns the user it was issued to.
	// It returns domain.ErrInvalidToken when jti is unknown or expired.
	Consume(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}
