// Package mutation sends the state-changing notification requests, each with
// a freshly resolved anti-forgery token.
package mutation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nhle/notification-center/internal/service"
)

// Service is the subset of the transport used for mutations.
type Service interface {
	MarkRead(ctx context.Context, token, id string) (int, error)
	MarkAllRead(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token, id string) error
}

// TokenSource yields the current anti-forgery token.
type TokenSource interface {
	Resolve() (string, bool)
}

// Reloader is implemented by token sources that can refresh their token,
// e.g. by fetching the shell page again.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Client performs mutations. It holds no notification state; the caller
// applies results.
type Client struct {
	svc    Service
	tokens TokenSource
	logger zerolog.Logger
}

// NewClient creates a mutation client.
func NewClient(svc Service, tokens TokenSource, logger zerolog.Logger) *Client {
	return &Client{
		svc:    svc,
		tokens: tokens,
		logger: logger.With().Str("component", "mutation").Logger(),
	}
}

// token resolves the token for one request. A missing token is logged and
// the request goes out without it.
func (c *Client) token(op string) string {
	token, ok := c.tokens.Resolve()
	if !ok {
		c.logger.Warn().Str("op", op).Msg("no anti-forgery token found, sending request without it")
	}
	return token
}

// refreshOnForbidden reloads the token source after the service refused the
// token, so the next mutation carries a fresh one. The failed request is not
// retried.
func (c *Client) refreshOnForbidden(ctx context.Context, op string, err error) {
	if !service.IsForbidden(err) {
		return
	}
	reloader, ok := c.tokens.(Reloader)
	if !ok {
		return
	}
	if rerr := reloader.Reload(ctx); rerr != nil {
		c.logger.Warn().Err(rerr).Str("op", op).Msg("refreshing anti-forgery token")
		return
	}
	c.logger.Info().Str("op", op).Msg("anti-forgery token refreshed after rejection")
}

// MarkRead marks notification id read and returns the new unread count.
func (c *Client) MarkRead(ctx context.Context, id string) (int, error) {
	count, err := c.svc.MarkRead(ctx, c.token("mark_read"), id)
	if err != nil {
		c.refreshOnForbidden(ctx, "mark_read", err)
		return 0, fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return count, nil
}

// MarkAllRead marks every notification read and returns how many changed.
func (c *Client) MarkAllRead(ctx context.Context) (int, error) {
	changed, err := c.svc.MarkAllRead(ctx, c.token("mark_all_read"))
	if err != nil {
		c.refreshOnForbidden(ctx, "mark_all_read", err)
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}
	return changed, nil
}

// Delete removes notification id. A business-rule rejection surfaces as a
// *service.RejectedError in the returned chain.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.svc.Delete(ctx, c.token("delete"), id); err != nil {
		c.refreshOnForbidden(ctx, "delete", err)
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	return nil
}
