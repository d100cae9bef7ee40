package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pdpi/member-portal/internal/core/domain"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// ---------------------------------------------------------------------------
// Connection
// ---------------------------------------------------------------------------

func TestConnect_FailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatal("expected ping error for a closed server")
	}
}

func TestPinger(t *testing.T) {
	mr, client := newTestClient(t)
	p := Pinger{Client: client}
	if p.Name() != "redis" {
		t.Fatalf("unexpected name %q", p.Name())
	}
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.Close()
	if err := p.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail after the server stopped")
	}
}

// ---------------------------------------------------------------------------
// Refresh tokens
// ---------------------------------------------------------------------------

func TestTokenStore_ConsumeOnce(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewTokenStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "jti-1", "user-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL("portal:refresh:jti-1"); ttl != time.Hour {
		t.Fatalf("expected 1h TTL, got %v", ttl)
	}

	userID, err := store.Consume(ctx, "jti-1")
	if err != nil || userID != "user-1" {
		t.Fatalf("consume: %q %v", userID, err)
	}
	if mr.Exists("portal:refresh:jti-1") {
		t.Fatal("consumed token must be deleted")
	}
	if _, err := store.Consume(ctx, "jti-1"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("second consume should be rejected, got %v", err)
	}
}

func TestTokenStore_ExpiryAndRevoke(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewTokenStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "short", "user-1", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Consume(ctx, "short"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expired token should be rejected, got %v", err)
	}

	if err := store.Save(ctx, "revoked", "user-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Revoke(ctx, "revoked"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := store.Revoke(ctx, "unknown"); err != nil {
		t.Fatalf("revoking an unknown token should be a no-op, got %v", err)
	}
	if _, err := store.Consume(ctx, "revoked"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("revoked token should be rejected, got %v", err)
	}
}

func TestTokenStore_ServerError(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewTokenStore(client)
	mr.SetError("READONLY")

	if _, err := store.Consume(context.Background(), "jti"); err == nil || errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("server errors must not look like an invalid token, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// View dedup
// ---------------------------------------------------------------------------

func TestViewDeduper_Window(t *testing.T) {
	mr, client := newTestClient(t)
	d := NewViewDeduper(client, 10*time.Minute)
	ctx := context.Background()

	seen, err := d.Seen(ctx, "news-1", "ip:10.0.0.1")
	if err != nil || seen {
		t.Fatalf("first view: seen=%v err=%v", seen, err)
	}
	if ttl := mr.TTL("portal:view:news-1:ip:10.0.0.1"); ttl != 10*time.Minute {
		t.Fatalf("expected window TTL, got %v", ttl)
	}

	if seen, _ := d.Seen(ctx, "news-1", "ip:10.0.0.1"); !seen {
		t.Fatal("repeat view inside the window should be seen")
	}
	if seen, _ := d.Seen(ctx, "news-1", "user:7"); seen {
		t.Fatal("another visitor should not be deduplicated")
	}

	mr.FastForward(11 * time.Minute)
	if seen, _ := d.Seen(ctx, "news-1", "ip:10.0.0.1"); seen {
		t.Fatal("view after the window should count again")
	}
}

func TestViewDeduper_DefaultWindow(t *testing.T) {
	_, client := newTestClient(t)
	if d := NewViewDeduper(client, 0); d.window != defaultViewWindow {
		t.Fatalf("expected default window, got %v", d.window)
	}
}
