package portalclient

import (
	"sync"
	"time"

	"github.com/pdpi/member-portal/internal/core/domain"
)

// User, Role and Permission are the portal's own account types.
type (
	User       = domain.User
	Role       = domain.Role
	Permission = domain.Permission
)

// State is a point-in-time copy of a Session.
type State struct {
	IsAuthenticated bool
	User            *User
	AccessToken     string
	RefreshToken    string
	// ExpiresAt is the access token expiry. Zero when no refresh token is held.
	ExpiresAt time.Time
}

// Session is the authentication state one Client works on. It is safe for
// concurrent use. A user is authenticated only while both a user and an
// access token are held.
type Session struct {
	mu           sync.RWMutex
	user         *User
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		IsAuthenticated: s.user != nil && s.accessToken != "",
		User:            cloneUser(s.user),
		AccessToken:     s.accessToken,
		RefreshToken:    s.refreshToken,
		ExpiresAt:       s.expiresAt,
	}
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.accessToken != ""
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// Role is the user's role, public when signed out.
func (s *Session) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.Role == "" {
		return domain.RolePublic
	}
	return s.user.Role
}

func (s *Session) refreshState() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken, s.expiresAt
}

func (s *Session) apply(t tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.User != nil {
		s.user = cloneUser(t.User)
	}
	s.accessToken = t.AccessToken
	s.refreshToken = t.RefreshToken
	s.expiresAt = time.Time{}
	if t.RefreshToken != "" {
		s.expiresAt = t.ExpiresAt
	}
}

func (s *Session) setUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = cloneUser(u)
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
