// Package service is the HTTP transport to the remote notification service.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/page"
)

// Header names sent with every request.
const (
	HeaderRequestedWith = "X-Requested-With"
	HeaderCSRFToken     = "X-CSRFToken"
	requestedWithValue  = "XMLHttpRequest"
)

// maxErrorBody caps how much of an unexpected response body is kept in a
// StatusError.
const maxErrorBody = 512

// Client is a thin JSON client for the notification endpoints. It marks every
// request as programmatic and replays the session through its cookie jar.
// There is no retry: the next poll tick or user action is the retry path.
type Client struct {
	baseURL    string
	pagePath   string
	endpoints  model.EndpointConfig
	httpClient *http.Client
}

// NewClient creates a client for cfg. jar may be nil.
func NewClient(cfg model.ServiceConfig, jar http.CookieJar, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		pagePath:  cfg.PagePath,
		endpoints: cfg.Endpoints,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// FetchPage downloads and parses the shell page.
func (c *Client) FetchPage(ctx context.Context) (*page.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.pagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request GET %s: %w", c.pagePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     http.MethodGet,
			Path:       c.pagePath,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return page.Parse(resp.Body)
}

// Count returns the authoritative unread count.
func (c *Client) Count(ctx context.Context) (int, error) {
	var resp CountResponse
	if err := c.do(ctx, http.MethodGet, c.endpoints.Count, nil, "", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// List returns up to limit notifications in server order plus the unread
// count.
func (c *Client) List(ctx context.Context, limit int) (*ListResult, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var resp ListResponse
	if err := c.do(ctx, http.MethodGet, c.endpoints.List, query, "", nil, &resp); err != nil {
		return nil, err
	}

	notifications := resp.Notifications
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return &ListResult{
		Notifications: notifications,
		UnreadCount:   resp.UnreadCount,
	}, nil
}

// MarkRead marks one notification read and returns the new unread count.
func (c *Client) MarkRead(ctx context.Context, token, id string) (int, error) {
	var resp MarkReadResponse
	body := idRequest{NotificationID: id}
	if err := c.do(ctx, http.MethodPost, c.endpoints.MarkRead, nil, token, body, &resp); err != nil {
		return 0, err
	}
	return resp.NewCount, nil
}

// MarkAllRead marks every notification read and returns how many changed.
func (c *Client) MarkAllRead(ctx context.Context, token string) (int, error) {
	var resp MarkAllReadResponse
	if err := c.do(ctx, http.MethodPost, c.endpoints.MarkAllRead, nil, token, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Delete removes a notification. The service rejects unread notifications
// with a RejectedError.
func (c *Client) Delete(ctx context.Context, token, id string) error {
	var resp DeleteResponse
	body := idRequest{NotificationID: id}
	return c.do(ctx, http.MethodPost, c.endpoints.Delete, nil, token, body, &resp)
}

// do builds the request, sends it, classifies the status, and decodes the
// JSON envelope and result.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	token string,
	body interface{},
	result interface{},
) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestedWith, requestedWithValue)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set(HeaderCSRFToken, token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	var env envelope
	envErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if envErr == nil && env.Error != "" {
			return &RejectedError{StatusCode: resp.StatusCode, Message: env.Error}
		}
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), maxErrorBody),
		}
	}

	if envErr != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, envErr)
	}
	if !env.Success {
		if env.Error != "" {
			return &RejectedError{StatusCode: resp.StatusCode, Message: env.Error}
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnsuccessful)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
