package store_test

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplan/internal/store"
	"dayplan/tests/testutil"
)

var hslPattern = regexp.MustCompile(`^hsl\((\d+), 70%, 60%\)$`)

func TestAddScheduleCreatesTopicOnce(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddSchedule(ctx, "2024-01-10", "Math", "10:00", "11:30", "calculus")
	require.NoError(t, err)

	topics, err := s.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Math", topics[0].Title)

	matches := hslPattern.FindStringSubmatch(topics[0].Color)
	require.NotNil(t, matches, "color %q should be an hsl token", topics[0].Color)
	hue, err := strconv.Atoi(matches[1])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, hue, 0)
	assert.LessOrEqual(t, hue, 359)

	// A second schedule with the same title reuses the topic unchanged.
	_, err = s.AddSchedule(ctx, "2024-01-11", "Math", "09:00", "10:00", "")
	require.NoError(t, err)

	again, err := s.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, topics[0].ID, again[0].ID)
	assert.Equal(t, topics[0].Color, again[0].Color)
}

func TestListSchedulesForDate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddSchedule(ctx, "2024-01-10", "Math", "23:30", "00:15", "late block")
	require.NoError(t, err)
	_, err = s.AddSchedule(ctx, "2024-01-10", "English", "09:00", "10:00", "")
	require.NoError(t, err)
	_, err = s.AddSchedule(ctx, "2024-01-11", "Math", "10:00", "11:00", "other day")
	require.NoError(t, err)

	entries, err := s.ListSchedulesForDate(ctx, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Text ordering on start_time: the wrapped 23:30 block sorts last.
	assert.Equal(t, "English", entries[0].Topic)
	assert.Equal(t, 60, entries[0].Duration)
	assert.Equal(t, "Math", entries[1].Topic)
	assert.Equal(t, 45, entries[1].Duration)
	assert.Equal(t, "late block", entries[1].Content)
	assert.NotEmpty(t, entries[1].Color)
}

func TestUpsertTopicReturnsSameID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertTopic(ctx, "Reading")
	require.NoError(t, err)
	second, err := s.UpsertTopic(ctx, "Reading")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := s.UpsertTopic(ctx, "Writing")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestTopicIDByTitle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertTopic(ctx, "Math")
	require.NoError(t, err)

	got, err := s.TopicIDByTitle(ctx, "Math")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.TopicIDByTitle(ctx, "Chemistry")
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
}

func TestUpdateSchedule(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.AddSchedule(ctx, "2024-01-10", "Math", "10:00", "11:00", "before")
	require.NoError(t, err)

	// Updating with a new topic title auto-creates the topic.
	err = s.UpdateSchedule(ctx, id, "Physics", "11:00", "12:30", "after")
	require.NoError(t, err)

	entries, err := s.ListSchedulesForDate(ctx, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Physics", entries[0].Topic)
	assert.Equal(t, "11:00", entries[0].StartTime)
	assert.Equal(t, "12:30", entries[0].EndTime)
	assert.Equal(t, 90, entries[0].Duration)
	assert.Equal(t, "after", entries[0].Content)

	topics, err := s.ListTopics(ctx)
	require.NoError(t, err)
	assert.Len(t, topics, 2)
}

func TestUpdateScheduleMissingIDIsNoOp(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddSchedule(ctx, "2024-01-10", "Math", "10:00", "11:00", "x")
	require.NoError(t, err)

	err = s.UpdateSchedule(ctx, 9999, "Math", "08:00", "09:00", "y")
	require.NoError(t, err)

	entries, err := s.ListSchedulesForDate(ctx, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "10:00", entries[0].StartTime)
}

func TestUpdateContent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.AddSchedule(ctx, "2024-01-10", "Math", "10:00", "11:00", "old")
	require.NoError(t, err)

	require.NoError(t, s.UpdateContent(ctx, id, "new"))
	require.NoError(t, s.UpdateContent(ctx, 9999, "ignored"))

	entries, err := s.ListSchedulesForDate(ctx, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Content)
	assert.Equal(t, "Math", entries[0].Topic)
}

func TestDeleteScheduleIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.AddSchedule(ctx, "2024-01-10", "Math", "10:00", "11:00", "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSchedule(ctx, id))
	require.NoError(t, s.DeleteSchedule(ctx, id))
	require.NoError(t, s.DeleteSchedule(ctx, 12345))

	entries, err := s.ListSchedulesForDate(ctx, "2024-01-10")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Topics survive the deletion of all their schedules.
	topics, err := s.ListTopics(ctx)
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}
