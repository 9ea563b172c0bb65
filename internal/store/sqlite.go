package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Create inserts a notification. ID and CreatedAt are filled in when empty.
func (s *SQLiteStore) Create(ctx context.Context, r Record) (Record, error) {
	if strings.TrimSpace(r.Title) == "" {
		return Record{}, fmt.Errorf("notification title must not be empty")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if r.Type == "" {
		r.Type = "sistema"
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO notifications (id, recipient, type, title, message, link, read, created_at, read_at)
		VALUES (:id, :recipient, :type, :title, :message, :link, :read, :created_at, :read_at)`,
		r,
	)
	if err != nil {
		return Record{}, fmt.Errorf("creating notification: %w", err)
	}

	return r, nil
}

// Get returns one notification of recipient.
func (s *SQLiteStore) Get(ctx context.Context, recipient, id string) (*Record, error) {
	var r Record
	err := s.db.GetContext(ctx, &r,
		"SELECT * FROM notifications WHERE id = ? AND recipient = ?", id, recipient,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting notification %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting notification %s: %w", id, err)
	}
	return &r, nil
}

// CountUnread returns the number of unread notifications of recipient.
func (s *SQLiteStore) CountUnread(ctx context.Context, recipient string) (int, error) {
	return s.Count(ctx, recipient, true)
}

// Count returns the number of notifications of recipient, optionally only
// the unread ones.
func (s *SQLiteStore) Count(ctx context.Context, recipient string, unreadOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM notifications WHERE recipient = ?"
	if unreadOnly {
		query += " AND read = 0"
	}

	var n int
	if err := s.db.GetContext(ctx, &n, query, recipient); err != nil {
		return 0, fmt.Errorf("counting notifications: %w", err)
	}
	return n, nil
}

// List returns notifications of recipient, newest first.
func (s *SQLiteStore) List(ctx context.Context, recipient string, filter ListFilter) ([]Record, error) {
	conditions := []string{"recipient = ?"}
	args := []interface{}{recipient}
	if filter.UnreadOnly {
		conditions = append(conditions, "read = 0")
	}

	query := "SELECT * FROM notifications WHERE " +
		strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	records := []Record{}
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return records, nil
}

// MarkRead marks one notification read. Marking an already read
// notification keeps its original read time.
func (s *SQLiteStore) MarkRead(ctx context.Context, recipient, id string) error {
	if _, err := s.Get(ctx, recipient, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1, read_at = ? WHERE id = ? AND recipient = ? AND read = 0",
		time.Now().UTC(), id, recipient,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}

// MarkAllRead marks every unread notification of recipient read and returns
// how many changed.
func (s *SQLiteStore) MarkAllRead(ctx context.Context, recipient string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1, read_at = ? WHERE recipient = ? AND read = 0",
		time.Now().UTC(), recipient,
	)
	if err != nil {
		return 0, fmt.Errorf("marking all notifications as read: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// Delete removes a read notification. Unread notifications are refused with
// ErrUnread.
func (s *SQLiteStore) Delete(ctx context.Context, recipient, id string) error {
	r, err := s.Get(ctx, recipient, id)
	if err != nil {
		return err
	}
	if !r.Read {
		return fmt.Errorf("deleting notification %s: %w", id, ErrUnread)
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE id = ? AND recipient = ? AND read = 1", id, recipient,
	)
	if err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting notification %s: %w", id, ErrNotFound)
	}
	return nil
}
