package portalclient

import (
	"io"
	"net/http"
	"strings"
)

// authTransport attaches the session's bearer token. A 401 from a non-auth
// endpoint triggers one shared refresh and a single retry of the request.
type authTransport struct {
	base   http.RoundTripper
	client *Client
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.client.session.AccessToken()
	resp, err := t.base.RoundTrip(withBearer(req, token))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || isAuthPath(req.URL.Path) {
		return resp, err
	}
	if refreshToken, _ := t.client.session.refreshState(); token == "" && refreshToken == "" {
		return resp, nil
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	fresh, err := t.client.refresh(req.Context(), token)
	if err != nil || fresh == "" {
		// The session has been signed out; surface the original 401.
		return resp, nil
	}
	retry, err := replay(req, fresh)
	if err != nil {
		return resp, nil
	}
	drain(resp)
	return t.base.RoundTrip(retry)
}

func isAuthPath(p string) bool {
	return strings.Contains(p, "/auth/")
}

func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func replay(req *http.Request, token string) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
