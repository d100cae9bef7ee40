package portalclient

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by calls that need a signed-in session.
var ErrNotAuthenticated = errors.New("portalclient: not authenticated")

// AuthError reports a rejected or malformed response from an /auth endpoint.
type AuthError struct {
	Op      string // login, register, refresh
	Status  int    // 0 when the response itself was unusable
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, msg)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from any other endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 401
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Status == 401
	}
	return false
}
