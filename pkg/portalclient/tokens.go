package portalclient

import "time"

// tokens is the session material an auth response carries.
type tokens struct {
	User         *User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// authPayload is the data block of the login, register and refresh
// responses. ExpiresAt is in Unix milliseconds, ExpiresIn in seconds.
type authPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
	ExpiresIn    int64  `json:"expiresIn"`
	User         *User  `json:"user"`
}

func (p authPayload) check(op string, needUser bool) error {
	if p.AccessToken == "" {
		return &AuthError{Op: op, Message: "response has no access token"}
	}
	if needUser && p.User == nil {
		return &AuthError{Op: op, Message: "response has no user"}
	}
	return nil
}

// tokens prefers the absolute expiry and falls back to now+ExpiresIn.
func (p authPayload) tokens(now time.Time) tokens {
	t := tokens{User: p.User, AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
	switch {
	case p.ExpiresAt > 0:
		t.ExpiresAt = time.UnixMilli(p.ExpiresAt)
	case p.ExpiresIn > 0:
		t.ExpiresAt = now.Add(time.Duration(p.ExpiresIn) * time.Second)
	}
	return t
}
