package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound = errors.New("notification not found")
	ErrUnread   = errors.New("notification is unread")
)

// Record is a stored notification.
type Record struct {
	ID        string     `db:"id"`
	Recipient string     `db:"recipient"`
	Type      string     `db:"type"`
	Title     string     `db:"title"`
	Message   string     `db:"message"`
	Link      string     `db:"link"`
	Read      bool       `db:"read"`
	CreatedAt time.Time  `db:"created_at"`
	ReadAt    *time.Time `db:"read_at"`
}

// ListFilter controls which notifications List returns.
type ListFilter struct {
	Limit      int
	UnreadOnly bool
}

// Store defines the persistence interface for notifications. Every operation
// is scoped to one recipient.
type Store interface {
	Create(ctx context.Context, r Record) (Record, error)
	Get(ctx context.Context, recipient, id string) (*Record, error)
	CountUnread(ctx context.Context, recipient string) (int, error)
	Count(ctx context.Context, recipient string, unreadOnly bool) (int, error)
	List(ctx context.Context, recipient string, filter ListFilter) ([]Record, error)
	MarkRead(ctx context.Context, recipient, id string) error
	MarkAllRead(ctx context.Context, recipient string) (int, error)
	Delete(ctx context.Context, recipient, id string) error
}
