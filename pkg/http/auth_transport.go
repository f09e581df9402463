package http

import "net/http"

// TokenSource returns the bearer token for the next request. An empty token
// means no Authorization header is sent.
type TokenSource func() string

type authTransport struct {
	token     TokenSource
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if token := t.token(); token != "" {
		reqCopy.Header.Set("Authorization", "Bearer "+token)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthTokenSource reads the token on every request, so a credential
// supplied after startup is picked up without rebuilding the client.
func WithAuthTokenSource(source TokenSource) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			token:     source,
			transport: rt,
		}
	})
}
