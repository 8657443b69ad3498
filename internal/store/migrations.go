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

CREATE TABLE IF NOT EXISTS topic (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schedules (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	date       TEXT NOT NULL,
	topic_id   INTEGER NOT NULL REFERENCES topic(id),
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	content    TEXT
);

CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules(date);
CREATE INDEX IF NOT EXISTS idx_schedules_topic_id ON schedules(topic_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
