package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pdpi/member-portal/internal/core/domain"
)

// expiringSet is a mutex-guarded map whose entries lapse after their TTL.
type expiringSet struct {
	mu      sync.Mutex
	entries map[string]expiringEntry
	now     func() time.Time
}

type expiringEntry struct {
	value   string
	expires time.Time
}

func newExpiringSet() *expiringSet {
	return &expiringSet{entries: make(map[string]expiringEntry), now: time.Now}
}

// take removes key and returns its value if it had not expired.
func (s *expiringSet) take(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	if !ok || !s.now().Before(e.expires) {
		return "", false
	}
	return e.value, true
}

// setIfAbsent stores key unless a live entry exists, reporting whether it did.
func (s *expiringSet) setIfAbsent(key, value string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expires) {
		return false
	}
	s.entries[key] = expiringEntry{value: value, expires: now.Add(ttl)}
	return true
}

func (s *expiringSet) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = expiringEntry{value: value, expires: s.now().Add(ttl)}
}

func (s *expiringSet) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// TokenStore implements ports.RefreshTokenStore in memory.
type TokenStore struct {
	set *expiringSet
}

func NewTokenStore() *TokenStore {
	return &TokenStore{set: newExpiringSet()}
}

func (s *TokenStore) Save(_ context.Context, jti, userID string, ttl time.Duration) error {
	s.set.set(jti, userID, ttl)
	return nil
}

// Consume redeems jti once. Unknown, expired and already consumed tokens all
// yield domain.ErrInvalidToken.
func (s *TokenStore) Consume(_ context.Context, jti string) (string, error) {
	userID, ok := s.set.take(jti)
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

func (s *TokenStore) Revoke(_ context.Context, jti string) error {
	s.set.remove(jti)
	return nil
}

// ViewDeduper implements ports.ViewDeduper in memory.
type ViewDeduper struct {
	set    *expiringSet
	window time.Duration
}

func NewViewDeduper(window time.Duration) *ViewDeduper {
	return &ViewDeduper{set: newExpiringSet(), window: window}
}

func (d *ViewDeduper) Seen(_ context.Context, articleID, visitor string) (bool, error) {
	return !d.set.setIfAbsent(articleID+"|"+visitor, "1", d.window), nil
}
