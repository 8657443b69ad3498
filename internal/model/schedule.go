package model

// Topic is a named activity category with a persistent display color.
// Title is the identity key: schedules reference topics by title and a
// topic is created the first time an unseen title appears.
type Topic struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Color string `json:"color" db:"color"`
}

// Schedule is a single time-blocked activity filed under a calendar date.
// Date is the day the entry is filed under; the time range may cross
// midnight (end before start), which is interpreted as ending on the
// following day wherever durations are computed.
type Schedule struct {
	ID        int64  `json:"id" db:"id"`
	Date      string `json:"date" db:"date"`
	TopicID   int64  `json:"topic_id" db:"topic_id"`
	StartTime string `json:"start_time" db:"start_time"`
	EndTime   string `json:"end_time" db:"end_time"`
	Content   string `json:"content" db:"content"`
}

// ScheduleEntry is a schedule joined with its topic, plus the computed
// duration in minutes. This is the shape the read paths return.
type ScheduleEntry struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Topic     string `json:"topic"`
	Color     string `json:"color"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
	Content   string `json:"content"`
}

// TemplateEntry is one line of a saved day plan: a schedule without its
// date or id, so the plan can be replayed onto any day.
type TemplateEntry struct {
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Content   string `json:"content"`
}
