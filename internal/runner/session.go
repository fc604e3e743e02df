package runner

import (
	"net/http"
	"strings"
)

// Session holds the normalized target configuration shared by every call.
type Session struct {
	BaseURL string
	Token   string
	headers http.Header
}

// NewSession strips trailing slashes from baseURL and derives the request
// headers. Neither argument is validated; a malformed URL surfaces as a
// transport failure on the first call.
func NewSession(baseURL, token string) Session {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	h.Set("Content-Type", "application/json")
	return Session{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		headers: h,
	}
}

// Headers returns a copy of the headers sent with every request.
func (s Session) Headers() http.Header {
	if s.headers == nil {
		return http.Header{"Content-Type": []string{"application/json"}}
	}
	return s.headers.Clone()
}

// URL joins the base URL and a relative endpoint.
func (s Session) URL(endpoint string) string {
	return s.BaseURL + endpoint
}
