package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/pdpi/member-portal/internal/core/domain"
)

// UserRepository implements ports.UserRepository in memory. Emails are
// unique ignoring case.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]domain.User), byEmail: make(map[string]string)}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, domain.ErrUserExists
	}
	r.byID[u.ID] = *u
	r.byEmail[key] = u.ID
	created := *u
	return &created, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	key := strings.ToLower(u.Email)
	if owner, taken := r.byEmail[key]; taken && owner != u.ID {
		return domain.ErrUserExists
	}
	delete(r.byEmail, strings.ToLower(old.Email))
	r.byEmail[key] = u.ID
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepository) ListMembers(context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		if u.Listed() {
			out = append(out, &u)
		}
	}
	return out, nil
}
