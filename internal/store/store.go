package store

import (
	"context"
	"errors"

	"dayplan/internal/model"
)

// ErrTopicNotFound is returned by lookup paths that must not create a
// topic as a side effect (template replay resolves topics strictly).
var ErrTopicNotFound = errors.New("topic not found")

// Store defines the persistence interface for topics and schedules.
//
// Mutations referencing a missing schedule id are deliberately lenient:
// updates and deletes of unknown ids succeed without touching any row,
// because callers only hold ids obtained from a prior read.
type Store interface {
	ListSchedulesForDate(ctx context.Context, date string) ([]model.ScheduleEntry, error)
	UpsertTopic(ctx context.Context, title string) (int64, error)
	TopicIDByTitle(ctx context.Context, title string) (int64, error)
	ListTopics(ctx context.Context) ([]model.Topic, error)
	AddSchedule(ctx context.Context, date, topicTitle, startTime, endTime, content string) (int64, error)
	UpdateSchedule(ctx context.Context, id int64, topicTitle, startTime, endTime, content string) error
	UpdateContent(ctx context.Context, id int64, content string) error
	DeleteSchedule(ctx context.Context, id int64) error
}
