package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "same-day block", start: "10:00", end: "11:30", want: 90},
		{name: "zero-length block", start: "09:00", end: "09:00", want: 0},
		{name: "full morning", start: "04:00", end: "12:00", want: 480},
		{name: "overnight wrap", start: "23:30", end: "00:15", want: 45},
		{name: "wrap almost full day", start: "00:10", end: "00:00", want: 1430},
		{name: "late evening into morning", start: "22:00", end: "02:00", want: 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DurationMinutes("2024-01-01", tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationMinutesRejectsMalformedInput(t *testing.T) {
	_, err := DurationMinutes("2024-13-01", "10:00", "11:00")
	assert.Error(t, err)

	_, err = DurationMinutes("2024-01-01", "25:00", "11:00")
	assert.Error(t, err)

	_, err = DurationMinutes("2024-01-01", "10:00", "11:60")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("23:30")
	require.NoError(t, err)
	assert.Equal(t, 23*60+30, got)

	_, err = ParseClock("9:30:00")
	assert.Error(t, err)
}

func TestLogicalToday(t *testing.T) {
	zone := FixedZone(DefaultUTCOffsetHours)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "just before day start is still yesterday",
			now:  time.Date(2024, 3, 15, 3, 59, 0, 0, zone),
			want: "2024-03-14",
		},
		{
			name: "day start exactly is today",
			now:  time.Date(2024, 3, 15, 4, 0, 0, 0, zone),
			want: "2024-03-15",
		},
		{
			name: "midday is today",
			now:  time.Date(2024, 3, 15, 13, 0, 0, 0, zone),
			want: "2024-03-15",
		},
		{
			name: "midnight belongs to the previous day",
			now:  time.Date(2024, 3, 15, 0, 0, 0, 0, zone),
			want: "2024-03-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogicalToday(tt.now, DefaultDayStartHour, DefaultUTCOffsetHours))
		})
	}
}

func TestLogicalTodayIgnoresHostTimezone(t *testing.T) {
	// 2024-03-15 03:59 at UTC+9 expressed as a UTC instant. The result
	// must depend only on the configured offset.
	now := time.Date(2024, 3, 14, 18, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-14", LogicalToday(now, DefaultDayStartHour, DefaultUTCOffsetHours))

	now = time.Date(2024, 3, 14, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", LogicalToday(now, DefaultDayStartHour, DefaultUTCOffsetHours))
}

func TestAbsoluteTime(t *testing.T) {
	zone := FixedZone(DefaultUTCOffsetHours)

	tests := []struct {
		name  string
		clock string
		want  time.Time
	}{
		{
			name:  "daytime stays on its date",
			clock: "10:30",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, zone),
		},
		{
			name:  "early morning shifts to the next date",
			clock: "01:15",
			want:  time.Date(2024, 3, 16, 1, 15, 0, 0, zone),
		},
		{
			name:  "day-start hour itself shifts",
			clock: "04:00",
			want:  time.Date(2024, 3, 16, 4, 0, 0, 0, zone),
		},
		{
			name:  "just past day start stays",
			clock: "04:01",
			want:  time.Date(2024, 3, 15, 4, 1, 0, 0, zone),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AbsoluteTime("2024-03-15", tt.clock, DefaultDayStartHour, zone)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}
