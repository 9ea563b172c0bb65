package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notification-center/internal/store"
	"github.com/nhle/notification-center/tests/testutil"
)

const recipient = "matrona"

func TestCreateAndGet(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, store.Record{
		Recipient: recipient,
		Type:      "parto",
		Title:     "Nuevo parto",
		Message:   "Registrado",
		Link:      "/partos/1/",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, recipient, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nuevo parto", got.Title)
	assert.Equal(t, "/partos/1/", got.Link)
	assert.False(t, got.Read)
	assert.Nil(t, got.ReadAt)
}

func TestCreateRequiresTitle(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.Create(context.Background(), store.Record{Recipient: recipient})
	assert.Error(t, err)
}

func TestGetScopedToRecipient(t *testing.T) {
	s := testutil.NewTestStore(t)
	records := testutil.Seed(t, s, recipient, 1)

	_, err := s.Get(context.Background(), "otro", records[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	testutil.Seed(t, s, recipient, 12)
	testutil.Seed(t, s, "otro", 2)

	all, err := s.List(ctx, recipient, store.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 12)
	assert.Equal(t, "Notificación 12", all[0].Title)
	assert.Equal(t, "Notificación 1", all[11].Title)

	limited, err := s.List(ctx, recipient, store.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, limited, 10)

	unread, err := s.List(ctx, recipient, store.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 8)
	for _, r := range unread {
		assert.False(t, r.Read)
	}
}

func TestListEmpty(t *testing.T) {
	s := testutil.NewTestStore(t)
	records, err := s.List(context.Background(), recipient, store.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCounts(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	testutil.Seed(t, s, recipient, 6)

	unread, err := s.CountUnread(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 4, unread)

	total, err := s.Count(ctx, recipient, false)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	records := testutil.Seed(t, s, recipient, 1)
	id := records[0].ID

	require.NoError(t, s.MarkRead(ctx, recipient, id))
	first, err := s.Get(ctx, recipient, id)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)
	assert.True(t, first.Read)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.MarkRead(ctx, recipient, id))
	second, err := s.Get(ctx, recipient, id)
	require.NoError(t, err)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt), "read time set once")
}

func TestMarkReadUnknown(t *testing.T) {
	s := testutil.NewTestStore(t)
	err := s.MarkRead(context.Background(), recipient, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	testutil.Seed(t, s, recipient, 6)
	testutil.Seed(t, s, "otro", 3)

	changed, err := s.MarkAllRead(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 4, changed)

	unread, err := s.CountUnread(ctx, recipient)
	require.NoError(t, err)
	assert.Zero(t, unread)

	others, err := s.CountUnread(ctx, "otro")
	require.NoError(t, err)
	assert.Equal(t, 2, others)

	changed, err = s.MarkAllRead(ctx, recipient)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestDeleteRequiresRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	records := testutil.Seed(t, s, recipient, 3)

	err := s.Delete(ctx, recipient, records[0].ID)
	assert.ErrorIs(t, err, store.ErrUnread)

	require.True(t, records[2].Read)
	require.NoError(t, s.Delete(ctx, recipient, records[2].ID))

	_, err = s.Get(ctx, recipient, records[2].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Delete(ctx, recipient, records[2].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
