// Package portalclient is a Go client for the member portal API. It owns the
// session lifecycle: sign-in, persisted tokens, a proactive refresh shortly
// before the access token expires, and a transparent refresh-and-retry when
// a request comes back 401.
package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/pdpi/member-portal/internal/core/domain"
)

const (
	// DefaultRefreshLead is how long before expiry the access token is renewed.
	DefaultRefreshLead = 60 * time.Second

	defaultTimeout = 15 * time.Second
	refreshTimeout = 30 * time.Second
	refreshKey     = "refresh"
)

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the self sign-up fields.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Category string `json:"category,omitempty"`
	BranchID string `json:"branchId,omitempty"`
}

// ProfileUpdate lists the self-editable fields. Nil leaves a field unchanged.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Bio     *string `json:"bio,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying client. Its transport is wrapped, not
// replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base = hc }
}

// WithStorage persists the session. Without it the session lives in memory.
func WithStorage(s Storage) Option {
	return func(c *Client) { c.storage = s }
}

// WithRefreshLead sets how long before expiry the timer refreshes.
func WithRefreshLead(d time.Duration) Option {
	return func(c *Client) { c.lead = d }
}

// WithLogger sets the logger for session events.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client talks to one portal API, e.g. "http://localhost:8080/api/v1".
type Client struct {
	baseURL string
	session *Session
	storage Storage
	base    *http.Client
	http    *http.Client
	lead    time.Duration
	log     zerolog.Logger
	now     func() time.Time

	flight singleflight.Group

	// stateMu serializes installing and clearing the session. epoch grows
	// on every sign-in and sign-out; a refresh started in an older epoch
	// must not install its result.
	stateMu sync.Mutex
	epoch   uint64

	timerMu  sync.Mutex
	timer    *time.Timer
	timerGen uint64
}

func New(baseURL string, session *Session, opts ...Option) (*Client, error) {
	if session == nil {
		return nil, errors.New("portalclient: session is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("portalclient: base url %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		session: session,
		lead:    DefaultRefreshLead,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.storage == nil {
		c.storage = NewMemoryStorage()
	}
	if c.base == nil {
		c.base = &http.Client{Timeout: defaultTimeout}
	}
	rt := c.base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	c.http = &http.Client{
		Transport:     &authTransport{base: rt, client: c},
		Timeout:       c.base.Timeout,
		CheckRedirect: c.base.CheckRedirect,
		Jar:           c.base.Jar,
	}
	return c, nil
}

// Session returns the session this client works on.
func (c *Client) Session() *Session { return c.session }

// HTTPClient returns an *http.Client that attaches the bearer token and
// retries once after a refresh when the API answers 401.
func (c *Client) HTTPClient() *http.Client { return c.http }

// Close stops the refresh timer. The session is left untouched.
func (c *Client) Close() {
	c.stopTimer()
}

// ---------------------------------------------------------------------------
// Session lifecycle
// ---------------------------------------------------------------------------

func (c *Client) Login(ctx context.Context, cred Credentials) (*User, error) {
	var res authPayload
	if err := c.authCall(ctx, "login", http.MethodPost, "/auth/login", cred, &res); err != nil {
		return nil, err
	}
	if err := res.check("login", true); err != nil {
		return nil, err
	}
	c.establish(res.tokens(c.now()))
	c.log.Info().Str("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("signed in")
	return cloneUser(res.User), nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	var res authPayload
	if err := c.authCall(ctx, "register", http.MethodPost, "/auth/register", reg, &res); err != nil {
		return nil, err
	}
	if err := res.check("register", true); err != nil {
		return nil, err
	}
	c.establish(res.tokens(c.now()))
	return cloneUser(res.User), nil
}

// Refresh exchanges the refresh token for a new pair and returns the new
// access token. Concurrent callers share one request; a caller whose ctx ends
// stops waiting without cancelling it. A failed refresh signs the session out.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.refresh(ctx, "")
}

// refresh joins or starts the shared refresh. When stale is set and the
// session already holds a different token, that token is returned as is.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(refreshKey, func() (any, error) {
		if stale != "" {
			if current := c.session.AccessToken(); current != "" && current != stale {
				return current, nil
			}
		}
		return c.doRefresh(detached)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(string), nil
	}
}

func (c *Client) doRefresh(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	epoch := c.currentEpoch()
	refreshToken, _ := c.session.refreshState()
	if refreshToken == "" {
		c.logoutIf(ctx, epoch)
		return "", &AuthError{Op: "refresh", Message: "no refresh token"}
	}

	var res authPayload
	err := c.authCall(ctx, "refresh", http.MethodPost, "/auth/refresh", refreshBody{RefreshToken: refreshToken}, &res)
	if err == nil {
		err = res.check("refresh", false)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("token refresh failed, signing out")
		c.logoutIf(ctx, epoch)
		return "", err
	}

	t := res.tokens(c.now())
	if !c.install(t, epoch) {
		c.log.Debug().Msg("session changed during refresh, discarding tokens")
		return "", ErrNotAuthenticated
	}
	c.log.Debug().Time("expires_at", t.ExpiresAt).Msg("token refreshed")
	return t.AccessToken, nil
}

// Logout stops the refresh timer, clears persisted and local state, and tells
// the API to revoke the refresh token. Failing to reach the API is only
// logged; the returned error is about local storage.
func (c *Client) Logout(ctx context.Context) error {
	c.stateMu.Lock()
	refreshToken, storeErr := c.clearLocked()
	c.stateMu.Unlock()
	c.notifyLogout(ctx, refreshToken)
	return storeErr
}

// logoutIf signs out only the session that was current at epoch.
func (c *Client) logoutIf(ctx context.Context, epoch uint64) {
	c.stateMu.Lock()
	if c.epoch != epoch {
		c.stateMu.Unlock()
		return
	}
	refreshToken, err := c.clearLocked()
	c.stateMu.Unlock()
	if err != nil {
		c.log.Warn().Err(err).Msg("sign out")
	}
	c.notifyLogout(ctx, refreshToken)
}

// clearLocked ends the epoch and drops local and persisted state. It returns
// the refresh token that was held. Callers hold stateMu.
func (c *Client) clearLocked() (string, error) {
	c.epoch++
	c.stopTimer()
	refreshToken, _ := c.session.refreshState()
	c.session.clear()
	if err := c.storage.Delete(sessionKeys...); err != nil {
		return refreshToken, fmt.Errorf("clear session storage: %w", err)
	}
	return refreshToken, nil
}

func (c *Client) notifyLogout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := c.authCall(ctx, "logout", http.MethodPost, "/auth/logout", refreshBody{RefreshToken: refreshToken}, nil); err != nil {
		c.log.Warn().Err(err).Msg("logout notification failed")
	}
}

// Restore loads a persisted session. It reports whether a session was found.
// A token already inside the refresh lead is renewed before Restore returns.
func (c *Client) Restore(ctx context.Context) (bool, error) {
	access, ok, err := c.storage.Get(KeyAccessToken)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if !ok || access == "" {
		return false, nil
	}

	rawUser, _, err := c.storage.Get(KeyUser)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	var user User
	if rawUser == "" || json.Unmarshal([]byte(rawUser), &user) != nil {
		c.log.Warn().Msg("discarding persisted session with unreadable user")
		_ = c.storage.Delete(sessionKeys...)
		return false, nil
	}

	refreshToken, _, _ := c.storage.Get(KeyRefreshToken)
	var expiresAt time.Time
	if raw, _, _ := c.storage.Get(KeyExpiresAt); raw != "" {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			expiresAt = time.UnixMilli(ms)
		}
	}

	c.stateMu.Lock()
	c.epoch++
	c.session.apply(tokens{User: &user, AccessToken: access, RefreshToken: refreshToken, ExpiresAt: expiresAt})
	c.stateMu.Unlock()
	if refreshToken == "" {
		return true, nil
	}
	if expiresAt.IsZero() || !c.now().Before(expiresAt.Add(-c.lead)) {
		if _, err := c.Refresh(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	c.scheduleRefresh(expiresAt)
	return true, nil
}

// ---------------------------------------------------------------------------
// Account
// ---------------------------------------------------------------------------

func (c *Client) Profile(ctx context.Context) (*User, error) {
	if !c.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	var u User
	if err := c.Do(ctx, http.MethodGet, "/auth/profile", nil, &u); err != nil {
		return nil, err
	}
	c.storeUser(&u)
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	if !c.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	var u User
	if err := c.Do(ctx, http.MethodPut, "/auth/profile", update, &u); err != nil {
		return nil, err
	}
	c.storeUser(&u)
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	if !c.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	body := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{current, next}
	return c.Do(ctx, http.MethodPost, "/auth/profile/change-password", body, nil)
}

// Navigation returns the menu tree of position as visible to the session's role.
func (c *Client) Navigation(ctx context.Context, position string) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	if err := c.Do(ctx, http.MethodGet, "/menus/"+position+"/navigation", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Transport helpers
// ---------------------------------------------------------------------------

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

// Do sends in as JSON to path and decodes the data block of the response
// into out. Non-2xx responses become *APIError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, decodeErr)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) authCall(ctx context.Context, op, method, path string, in, out any) error {
	err := c.Do(ctx, method, path, in, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &AuthError{Op: op, Status: apiErr.Status, Message: apiErr.Message}
	}
	if err != nil {
		return &AuthError{Op: op, Err: err}
	}
	return nil
}

// establish starts a new session epoch with t.
func (c *Client) establish(t tokens) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.epoch++
	c.installLocked(t)
}

// install applies refreshed tokens unless the session was signed out or
// replaced since epoch.
func (c *Client) install(t tokens, epoch uint64) bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.installLocked(t)
	return true
}

// installLocked applies t, persists it and schedules the next refresh.
// Callers hold stateMu.
func (c *Client) installLocked(t tokens) {
	c.session.apply(t)
	if err := c.persist(); err != nil {
		c.log.Warn().Err(err).Msg("persist session")
	}
	c.scheduleRefresh(t.ExpiresAt)
}

func (c *Client) currentEpoch() uint64 {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.epoch
}

func (c *Client) persist() error {
	st := c.session.State()
	values := map[string]string{KeyAccessToken: st.AccessToken}
	if st.User != nil {
		data, err := json.Marshal(st.User)
		if err != nil {
			return err
		}
		values[KeyUser] = string(data)
	}
	if st.RefreshToken == "" {
		if err := c.storage.Delete(KeyRefreshToken, KeyExpiresAt); err != nil {
			return err
		}
		return c.storage.Set(values)
	}
	values[KeyRefreshToken] = st.RefreshToken
	if !st.ExpiresAt.IsZero() {
		values[KeyExpiresAt] = strconv.FormatInt(st.ExpiresAt.UnixMilli(), 10)
	}
	return c.storage.Set(values)
}

func (c *Client) storeUser(u *User) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if !c.session.IsAuthenticated() {
		return
	}
	c.session.setUser(u)
	if err := c.persist(); err != nil {
		c.log.Warn().Err(err).Msg("persist session")
	}
}

// ---------------------------------------------------------------------------
// Refresh timer
// ---------------------------------------------------------------------------

// scheduleRefresh replaces any pending timer with one firing lead before
// expiresAt. A zero expiresAt only cancels.
func (c *Client) scheduleRefresh(expiresAt time.Time) {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
	if expiresAt.IsZero() {
		return
	}
	gen := c.timerGen
	delay := expiresAt.Sub(c.now()) - c.lead
	if delay < 0 {
		delay = 0
	}
	c.timer = time.AfterFunc(delay, func() { c.fire(gen) })
}

func (c *Client) fire(gen uint64) {
	c.timerMu.Lock()
	current := gen == c.timerGen
	c.timerMu.Unlock()
	if !current {
		return
	}
	if _, err := c.Refresh(context.Background()); err != nil {
		c.log.Warn().Err(err).Msg("scheduled refresh failed")
	}
}

func (c *Client) stopTimer() {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

// pendingRefresh reports whether a refresh timer is armed.
func (c *Client) pendingRefresh() bool {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()
	return c.timer != nil
}
