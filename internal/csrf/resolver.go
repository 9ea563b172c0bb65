// Package csrf resolves the anti-forgery token sent with every mutating
// request.
package csrf

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/notification-center/internal/page"
)

const (
	// MetaName is the <meta name> carrying the token.
	MetaName = "csrf-token"

	// FieldName is the form field conventionally carrying the token.
	FieldName = "csrfmiddlewaretoken"

	// CookieName is the cookie the fallback would read.
	CookieName = "csrftoken"
)

// ErrNoFetcher is returned by Reload when the resolver cannot fetch pages.
var ErrNoFetcher = errors.New("no page fetcher configured")

// Fetcher downloads a fresh copy of the shell page.
type Fetcher interface {
	FetchPage(ctx context.Context) (*page.Document, error)
}

// Resolver looks the token up in the current page snapshot. It is safe to
// call from command goroutines while the document is being replaced.
type Resolver struct {
	mu      sync.RWMutex
	doc     *page.Document
	fetcher Fetcher
}

// NewResolver creates a resolver over doc, which may be nil.
func NewResolver(doc *page.Document) *Resolver {
	return &Resolver{doc: doc}
}

// WithFetcher lets Reload fetch the shell page through f.
func (r *Resolver) WithFetcher(f Fetcher) *Resolver {
	r.fetcher = f
	return r
}

// Reload fetches the shell page again and swaps it in, picking up a rotated
// token. The previous snapshot is kept when the fetch fails.
func (r *Resolver) Reload(ctx context.Context) error {
	if r.fetcher == nil {
		return ErrNoFetcher
	}
	doc, err := r.fetcher.FetchPage(ctx)
	if err != nil {
		return fmt.Errorf("reloading shell page: %w", err)
	}
	r.SetDocument(doc)
	return nil
}

// SetDocument replaces the page snapshot, e.g. after the shell page was
// fetched again and the token rotated.
func (r *Resolver) SetDocument(doc *page.Document) {
	r.mu.Lock()
	r.doc = doc
	r.mu.Unlock()
}

// Resolve returns the token from, in order: the page metadata, the form
// field, the cookie fallback.
func (r *Resolver) Resolve() (string, bool) {
	r.mu.RLock()
	doc := r.doc
	r.mu.RUnlock()

	if token, ok := doc.Meta(MetaName); ok && token != "" {
		return token, true
	}
	if token, ok := doc.FieldValue(FieldName); ok && token != "" {
		return token, true
	}
	return cookieToken()
}

// cookieToken is the last-resort lookup. It never yields a value.
// TODO: read CookieName from the client's cookie jar once the service stops
// issuing it HttpOnly.
func cookieToken() (string, bool) {
	return "", false
}
