package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nhle/notification-center/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Seed inserts n notifications for recipient, one minute apart with the
// newest first, and marks every third one read.
func Seed(t *testing.T, s store.Store, recipient string, n int) []store.Record {
	t.Helper()

	types := []string{"correccion", "parto", "sistema"}
	base := time.Now().Add(-time.Duration(n) * time.Minute)

	records := make([]store.Record, 0, n)
	for i := 0; i < n; i++ {
		r, err := s.Create(context.Background(), store.Record{
			Recipient: recipient,
			Type:      types[i%len(types)],
			Title:     fmt.Sprintf("Notificación %d", i+1),
			Message:   fmt.Sprintf("Mensaje %d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seeding notification %d: %v", i, err)
		}
		if i%3 == 2 {
			if err := s.MarkRead(context.Background(), recipient, r.ID); err != nil {
				t.Fatalf("marking seeded notification %d read: %v", i, err)
			}
			r.Read = true
		}
		records = append(records, r)
	}
	return records
}
