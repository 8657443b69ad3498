package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"dayplan/internal/clock"
	"dayplan/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db      *sqlx.DB
	colorFn ColorFunc
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
// colorFn supplies display colors for newly created topics; pass nil
// for the default random palette.
func NewSQLiteStore(dbPath string, colorFn ColorFunc) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if colorFn == nil {
		colorFn = RandomColor(rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	s := &SQLiteStore{db: db, colorFn: colorFn}
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

	// Check if schema_version table exists.
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

// ListSchedulesForDate retrieves all schedules filed under date, joined
// with their topic and annotated with the computed duration. Ordering is
// by (date, start_time) as text, so a wrapped "23:30" block sorts after
// "09:00" even though it may logically end earlier the next morning.
func (s *SQLiteStore) ListSchedulesForDate(ctx context.Context, date string) ([]model.ScheduleEntry, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT schedules.id, schedules.date, topic.title, topic.color,
		       schedules.start_time, schedules.end_time, schedules.content
		FROM schedules
		INNER JOIN topic ON topic.id = schedules.topic_id
		WHERE schedules.date = ?
		ORDER BY schedules.date, schedules.start_time`, date)
	if err != nil {
		return nil, fmt.Errorf("querying schedules for %s: %w", date, err)
	}
	defer rows.Close()

	var entries []model.ScheduleEntry
	for rows.Next() {
		entry, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// UpsertTopic resolves a topic id by exact title, creating the topic
// with a freshly generated color when the title has not been seen.
func (s *SQLiteStore) UpsertTopic(ctx context.Context, title string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.upsertTopicTx(ctx, tx, title)
	if err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

// upsertTopicTx is the transactional get-or-create used by every write
// path. The UNIQUE constraint on title plus ON CONFLICT DO NOTHING and
// re-select make concurrent creations of the same title converge on a
// single row.
func (s *SQLiteStore) upsertTopicTx(ctx context.Context, tx *sqlx.Tx, title string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, "SELECT id FROM topic WHERE title = ?", title)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up topic %q: %w", title, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO topic (title, color) VALUES (?, ?) ON CONFLICT(title) DO NOTHING",
		title, s.colorFn(),
	)
	if err != nil {
		return 0, fmt.Errorf("creating topic %q: %w", title, err)
	}

	err = tx.GetContext(ctx, &id, "SELECT id FROM topic WHERE title = ?", title)
	if err != nil {
		return 0, fmt.Errorf("resolving topic %q after insert: %w", title, err)
	}
	return id, nil
}

// TopicIDByTitle looks up a topic by exact title without creating it.
// Returns ErrTopicNotFound when the title is unknown.
func (s *SQLiteStore) TopicIDByTitle(ctx context.Context, title string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT id FROM topic WHERE title = ?", title)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("topic %q: %w", title, ErrTopicNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("looking up topic %q: %w", title, err)
	}
	return id, nil
}

// ListTopics retrieves every topic, ordered by title. Topics are never
// deleted, so this includes topics whose schedules are all gone.
func (s *SQLiteStore) ListTopics(ctx context.Context) ([]model.Topic, error) {
	var topics []model.Topic
	err := s.db.SelectContext(ctx, &topics, "SELECT id, title, color FROM topic ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	return topics, nil
}

// AddSchedule inserts a schedule under date, resolving (or creating) the
// topic by title. Topic resolution and the insert share one transaction.
func (s *SQLiteStore) AddSchedule(ctx context.Context, date, topicTitle, startTime, endTime, content string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	topicID, err := s.upsertTopicTx(ctx, tx, topicTitle)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO schedules (date, topic_id, start_time, end_time, content)
		VALUES (?, ?, ?, ?, ?)`,
		date, topicID, startTime, endTime, content,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting schedule: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted schedule id: %w", err)
	}

	return id, tx.Commit()
}

// UpdateSchedule overwrites every mutable field of the schedule with the
// given id, resolving (or creating) the topic by title. A missing id is
// a silent no-op.
func (s *SQLiteStore) UpdateSchedule(ctx context.Context, id int64, topicTitle, startTime, endTime, content string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	topicID, err := s.upsertTopicTx(ctx, tx, topicTitle)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE schedules
		SET topic_id = ?, start_time = ?, end_time = ?, content = ?
		WHERE id = ?`,
		topicID, startTime, endTime, content, id,
	)
	if err != nil {
		return fmt.Errorf("updating schedule %d: %w", id, err)
	}

	return tx.Commit()
}

// UpdateContent overwrites only the free-text content of a schedule.
// A missing id is a silent no-op.
func (s *SQLiteStore) UpdateContent(ctx context.Context, id int64, content string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE schedules SET content = ? WHERE id = ?", content, id,
	)
	if err != nil {
		return fmt.Errorf("updating content of schedule %d: %w", id, err)
	}
	return nil
}

// DeleteSchedule removes a schedule row. Deleting an unknown id is not
// an error.
func (s *SQLiteStore) DeleteSchedule(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting schedule %d: %w", id, err)
	}
	return nil
}

// scanScheduleEntry scans a joined schedule row and fills in the
// computed duration.
func scanScheduleEntry(rows *sqlx.Rows) (model.ScheduleEntry, error) {
	var (
		entry   model.ScheduleEntry
		content sql.NullString
	)

	err := rows.Scan(
		&entry.ID, &entry.Date, &entry.Topic, &entry.Color,
		&entry.StartTime, &entry.EndTime, &content,
	)
	if err != nil {
		return model.ScheduleEntry{}, fmt.Errorf("scanning schedule row: %w", err)
	}

	entry.Content = content.String

	duration, err := clock.DurationMinutes(entry.Date, entry.StartTime, entry.EndTime)
	if err != nil {
		return model.ScheduleEntry{}, fmt.Errorf("computing duration of schedule %d: %w", entry.ID, err)
	}
	entry.Duration = duration

	return entry, nil
}
