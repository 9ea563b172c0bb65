package mutation

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notification-center/internal/service"
)

type fakeService struct {
	tokens    []string
	ids       []string
	markCount int
	allCount  int
	err       error
}

func (f *fakeService) MarkRead(_ context.Context, token, id string) (int, error) {
	f.tokens = append(f.tokens, token)
	f.ids = append(f.ids, id)
	return f.markCount, f.err
}

func (f *fakeService) MarkAllRead(_ context.Context, token string) (int, error) {
	f.tokens = append(f.tokens, token)
	return f.allCount, f.err
}

func (f *fakeService) Delete(_ context.Context, token, id string) error {
	f.tokens = append(f.tokens, token)
	f.ids = append(f.ids, id)
	return f.err
}

type rotatingTokens struct {
	values []string
	calls  int
}

func (r *rotatingTokens) Resolve() (string, bool) {
	if r.calls >= len(r.values) {
		return "", false
	}
	v := r.values[r.calls]
	r.calls++
	return v, true
}

func TestTokenResolvedPerRequest(t *testing.T) {
	svc := &fakeService{markCount: 2}
	tokens := &rotatingTokens{values: []string{"a", "b"}}
	c := NewClient(svc, tokens, zerolog.Nop())

	_, err := c.MarkRead(context.Background(), "1")
	require.NoError(t, err)
	_, err = c.MarkAllRead(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, svc.tokens)
	assert.Equal(t, 2, tokens.calls)
}

func TestMissingTokenIsLoggedAndSent(t *testing.T) {
	var buf bytes.Buffer
	svc := &fakeService{}
	c := NewClient(svc, &rotatingTokens{}, zerolog.New(&buf))

	require.NoError(t, c.Delete(context.Background(), "9"))
	assert.Equal(t, []string{""}, svc.tokens)
	assert.Equal(t, []string{"9"}, svc.ids)
	assert.Contains(t, buf.String(), "no anti-forgery token")
}

func TestMarkReadReturnsCount(t *testing.T) {
	svc := &fakeService{markCount: 5}
	c := NewClient(svc, &rotatingTokens{values: []string{"t"}}, zerolog.Nop())

	n, err := c.MarkRead(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestRejectionSurvivesWrapping(t *testing.T) {
	svc := &fakeService{err: &service.RejectedError{StatusCode: 400, Message: "no leída"}}
	c := NewClient(svc, &rotatingTokens{values: []string{"t"}}, zerolog.Nop())

	err := c.Delete(context.Background(), "3")
	require.Error(t, err)
	assert.True(t, service.IsRejected(err))
	assert.Equal(t, "no leída", service.RejectionMessage(err))
}

func TestTransportErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	svc := &fakeService{err: boom}
	c := NewClient(svc, &rotatingTokens{values: []string{"t"}}, zerolog.Nop())

	_, err := c.MarkAllRead(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, service.IsRejected(err))
}

type reloadingTokens struct {
	rotatingTokens
	reloads int
	err     error
}

func (r *reloadingTokens) Reload(context.Context) error {
	r.reloads++
	return r.err
}

func TestForbiddenReloadsTokens(t *testing.T) {
	svc := &fakeService{err: &service.RejectedError{StatusCode: 403, Message: "Token CSRF ausente o incorrecto"}}
	tokens := &reloadingTokens{rotatingTokens: rotatingTokens{values: []string{"stale"}}}
	c := NewClient(svc, tokens, zerolog.Nop())

	_, err := c.MarkRead(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, service.IsForbidden(err))
	assert.Equal(t, 1, tokens.reloads)
	assert.Len(t, svc.tokens, 1, "the rejected request is not retried")
}

func TestForbiddenStatusReloadsTokens(t *testing.T) {
	svc := &fakeService{err: &service.StatusError{Method: "POST", Path: "/notifications/delete/", StatusCode: 403}}
	tokens := &reloadingTokens{}
	c := NewClient(svc, tokens, zerolog.Nop())

	require.Error(t, c.Delete(context.Background(), "4"))
	assert.Equal(t, 1, tokens.reloads)
}

func TestBusinessRejectionDoesNotReload(t *testing.T) {
	svc := &fakeService{err: &service.RejectedError{StatusCode: 400, Message: "No puedes eliminar"}}
	tokens := &reloadingTokens{}
	c := NewClient(svc, tokens, zerolog.Nop())

	require.Error(t, c.Delete(context.Background(), "4"))
	assert.Zero(t, tokens.reloads)
}

func TestFailedReloadIsLogged(t *testing.T) {
	var buf bytes.Buffer
	svc := &fakeService{err: &service.RejectedError{StatusCode: 403, Message: "Token CSRF ausente o incorrecto"}}
	tokens := &reloadingTokens{err: errors.New("offline")}
	c := NewClient(svc, tokens, zerolog.New(&buf))

	_, err := c.MarkAllRead(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, tokens.reloads)
	assert.Contains(t, buf.String(), "refreshing anti-forgery token")
}
