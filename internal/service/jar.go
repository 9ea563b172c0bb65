package service

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// SessionCookie is the name of the session cookie replayed on every request.
const SessionCookie = "sessionid"

// NewSessionJar returns a cookie jar for baseURL. When session is non-empty
// it is pre-seeded as the session cookie.
func NewSessionJar(baseURL, session string) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if session == "" {
		return jar, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	jar.SetCookies(u, []*http.Cookie{{
		Name:  SessionCookie,
		Value: session,
		Path:  "/",
	}})
	return jar, nil
}
