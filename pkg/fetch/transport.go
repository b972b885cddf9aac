package fetch

import (
	"net/http"
)

// UserAgentTransport wraps an http.RoundTripper and identifies outbound
// requests with a fixed User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip sets the User-Agent on a clone of the request, leaving the
// caller's request untouched, and delegates to the wrapped transport.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	identified := req.Clone(req.Context())
	identified.Header.Set("User-Agent", t.UserAgent)
	return t.RoundTripper.RoundTrip(identified)
}
