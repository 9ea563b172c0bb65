package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	recipient   TEXT NOT NULL,
	type        TEXT NOT NULL DEFAULT 'sistema',
	title       TEXT NOT NULL,
	message     TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	read        INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	read_at     DATETIME
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient_read ON notifications(recipient, read);
CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at DESC);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
