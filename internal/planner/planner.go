// Package planner is the per-day time accounting engine: it aggregates
// planned minutes per topic, projects the live remaining budget for the
// current logical day, and derives the budget-exhausted signal.
package planner

import (
	"strings"
	"time"

	"dayplan/internal/clock"
	"dayplan/internal/model"
)

// MatchPolicy decides when a schedule counts toward a budgeted topic.
// One policy applies to every computation: planned minutes, live
// remaining, and the exhausted signal.
type MatchPolicy string

const (
	// MatchExact counts a schedule only when its topic title equals the
	// budget key. This is the default.
	MatchExact MatchPolicy = "exact"

	// MatchContains counts a schedule when its topic title contains the
	// budget key as a substring.
	MatchContains MatchPolicy = "contains"
)

// DefaultDiscountPercent is the share of not-yet-elapsed block time that
// is charged against the live remaining budget.
const DefaultDiscountPercent = 80

// Planner computes per-day aggregates against externally supplied
// topic→minutes budgets.
type Planner struct {
	DayStartHour    int
	UTCOffsetHours  int
	DiscountPercent int
	Match           MatchPolicy
}

// New returns a Planner with the conventional defaults: 04:00 day
// boundary, UTC+9 reference, 80% discount, exact topic matching.
func New() Planner {
	return Planner{
		DayStartHour:    clock.DefaultDayStartHour,
		UTCOffsetHours:  clock.DefaultUTCOffsetHours,
		DiscountPercent: DefaultDiscountPercent,
		Match:           MatchExact,
	}
}

// LogicalToday returns the operating date for now under the planner's
// day-boundary and offset settings.
func (p Planner) LogicalToday(now time.Time) string {
	return clock.LogicalToday(now, p.DayStartHour, p.UTCOffsetHours)
}

// PlannedPerTopic sums the full scheduled minutes of each budgeted
// topic for the given day. Topics absent from the budget mapping are
// ignored.
func (p Planner) PlannedPerTopic(entries []model.ScheduleEntry, budgets map[string]int) map[string]int {
	planned := make(map[string]int, len(budgets))
	for topic := range budgets {
		planned[topic] = 0
	}
	for _, entry := range entries {
		for topic := range budgets {
			if p.matches(topic, entry.Topic) {
				planned[topic] += entry.Duration
			}
		}
	}
	return planned
}

// LiveRemaining projects the remaining budget per topic for the current
// logical day. Each budgeted schedule is placed on an absolute time
// axis (early-morning times up to the day-start hour belong to the next
// calendar date), its start is clamped to now, and DiscountPercent of
// the still-remaining minutes is charged against the topic's budget.
// Blocks already finished contribute nothing.
func (p Planner) LiveRemaining(entries []model.ScheduleEntry, budgets map[string]int, now time.Time) map[string]int {
	remaining := make(map[string]int, len(budgets))
	for topic, minutes := range budgets {
		remaining[topic] = minutes
	}

	loc := clock.FixedZone(p.UTCOffsetHours)
	for _, entry := range entries {
		for topic := range budgets {
			if !p.matches(topic, entry.Topic) {
				continue
			}

			start, err := clock.AbsoluteTime(entry.Date, entry.StartTime, p.DayStartHour, loc)
			if err != nil {
				continue
			}
			end, err := clock.AbsoluteTime(entry.Date, entry.EndTime, p.DayStartHour, loc)
			if err != nil {
				continue
			}

			effective := start
			if now.After(effective) {
				effective = now
			}
			minutes := int(end.Sub(effective).Minutes())
			if minutes > 0 {
				remaining[topic] -= minutes * p.DiscountPercent / 100
			}
		}
	}
	return remaining
}

// BudgetExhausted reports whether the day's full scheduled durations
// already consume the entire budget: it subtracts every budgeted
// schedule's duration from its topic and returns true when the sum over
// all topics is zero or negative.
func (p Planner) BudgetExhausted(entries []model.ScheduleEntry, budgets map[string]int) bool {
	total := 0
	for topic, minutes := range budgets {
		left := minutes
		for _, entry := range entries {
			if p.matches(topic, entry.Topic) {
				left -= entry.Duration
			}
		}
		total += left
	}
	return total <= 0
}

// matches applies the planner's topic matching policy.
func (p Planner) matches(budgetTopic, scheduleTopic string) bool {
	if p.Match == MatchContains {
		return strings.Contains(scheduleTopic, budgetTopic)
	}
	return scheduleTopic == budgetTopic
}
